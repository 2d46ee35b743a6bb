package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"supplierportal/internal/models"
)

type TenderMessageRepository struct {
	coll *mongo.Collection
}

func NewTenderMessageRepository(db *mongo.Database) *TenderMessageRepository {
	return &TenderMessageRepository{coll: db.Collection("tender_messages")}
}

func (r *TenderMessageRepository) Insert(ctx context.Context, m *models.TenderMessage) error {
	m.CreatedDate = time.Now()
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *TenderMessageRepository) ListByTender(ctx context.Context, tenderID string) ([]models.TenderMessage, error) {
	cur, err := r.coll.Find(ctx, bson.M{"tenderId": tenderID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.TenderMessage{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// HasAttachmentForSupplier: a URL está anexada a alguma mensagem em que o
// fornecedor é remetente ou destinatário?
func (r *TenderMessageRepository) HasAttachmentForSupplier(ctx context.Context, fileURL, supplierID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"attachment": fileURL,
		"$or": bson.A{
			bson.M{"senderSupplierId": supplierID},
			bson.M{"recipientSupplierIds": supplierID},
		},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
