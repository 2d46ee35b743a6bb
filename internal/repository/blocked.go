package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type BlockedCompanyRepository struct {
	coll *mongo.Collection
}

func NewBlockedCompanyRepository(db *mongo.Database) *BlockedCompanyRepository {
	return &BlockedCompanyRepository{coll: db.Collection("blocked_companies")}
}

// Upsert: um registro de bloqueio por fornecedor; bloquear de novo só ajusta
// a janela.
func (r *BlockedCompanyRepository) Upsert(ctx context.Context, b *models.BlockedCompany) error {
	b.CreatedDate = time.Now()
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"supplierId": b.SupplierID},
		b,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *BlockedCompanyRepository) DeleteBySupplier(ctx context.Context, supplierID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"supplierId": supplierID})
	return err
}

func (r *BlockedCompanyRepository) ListBySupplier(ctx context.Context, supplierID string) ([]models.BlockedCompany, error) {
	cur, err := r.coll.Find(ctx, bson.M{"supplierId": supplierID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.BlockedCompany{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ActiveIDs devolve os fornecedores bloqueados no instante dado
// (startDate <= instant <= endDate).
func (r *BlockedCompanyRepository) ActiveIDs(ctx context.Context, instant time.Time) (map[string]bool, error) {
	cur, err := r.coll.Find(ctx, bson.M{
		"startDate": bson.M{"$lte": instant},
		"endDate":   bson.M{"$gte": instant},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := map[string]bool{}
	for cur.Next(ctx) {
		var b models.BlockedCompany
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		ids[b.SupplierID] = true
	}
	return ids, cur.Err()
}
