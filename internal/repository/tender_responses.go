package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type TenderResponseRepository struct {
	coll *mongo.Collection
}

func NewTenderResponseRepository(db *mongo.Database) *TenderResponseRepository {
	return &TenderResponseRepository{coll: db.Collection("tender_responses")}
}

// Índice único (tenderId, supplierId): a chave de upsert idempotente.
func (r *TenderResponseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenderId", Value: 1},
			{Key: "supplierId", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_tender_supplier"),
	})
	return err
}

func (r *TenderResponseRepository) Insert(ctx context.Context, resp *models.TenderResponse) error {
	resp.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, resp); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateResponse
		}
		return err
	}
	return nil
}

func (r *TenderResponseRepository) GetByID(ctx context.Context, id string) (*models.TenderResponse, error) {
	var resp models.TenderResponse
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&resp); err != nil {
		return nil, mapFindErr(err)
	}
	return &resp, nil
}

func (r *TenderResponseRepository) GetByTenderAndSupplier(ctx context.Context, tenderID, supplierID string) (*models.TenderResponse, error) {
	var resp models.TenderResponse
	err := r.coll.FindOne(ctx, bson.M{"tenderId": tenderID, "supplierId": supplierID}).Decode(&resp)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return &resp, nil
}

func (r *TenderResponseRepository) ListByTender(ctx context.Context, tenderID string) ([]models.TenderResponse, error) {
	cur, err := r.coll.Find(ctx, bson.M{"tenderId": tenderID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.TenderResponse{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TenderResponseRepository) Save(ctx context.Context, resp *models.TenderResponse) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": resp.ID}, resp)
	return err
}

func (r *TenderResponseRepository) CountByTenderAndSupplier(ctx context.Context, tenderID, supplierID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"tenderId": tenderID, "supplierId": supplierID})
}

// HasFileForSupplier responde se a URL aparece em alguma resposta do próprio
// fornecedor (arquivos avulsos, produtos ou documentos respondidos).
func (r *TenderResponseRepository) HasFileForSupplier(ctx context.Context, fileURL, supplierID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"supplierId": supplierID,
		"$or": bson.A{
			bson.M{"respondedFiles": fileURL},
			bson.M{"respondedProducts.file": fileURL},
			bson.M{"respondedDocuments.file": fileURL},
		},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
