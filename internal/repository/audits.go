package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection("audits")}
}

func (r *AuditRepository) Create(ctx context.Context, a *models.Audit) (string, error) {
	a.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (r *AuditRepository) GetByID(ctx context.Context, id string) (*models.Audit, error) {
	var a models.Audit
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, mapFindErr(err)
	}
	return &a, nil
}

type AuditResponseRepository struct {
	coll *mongo.Collection
}

func NewAuditResponseRepository(db *mongo.Database) *AuditResponseRepository {
	return &AuditResponseRepository{coll: db.Collection("audit_responses")}
}

func (r *AuditResponseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "auditId", Value: 1},
			{Key: "supplierId", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_audit_supplier"),
	})
	return err
}

func (r *AuditResponseRepository) Insert(ctx context.Context, resp *models.AuditResponse) error {
	resp.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, resp); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateResponse
		}
		return err
	}
	return nil
}

func (r *AuditResponseRepository) GetByAuditAndSupplier(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	var resp models.AuditResponse
	err := r.coll.FindOne(ctx, bson.M{"auditId": auditID, "supplierId": supplierID}).Decode(&resp)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return &resp, nil
}

func (r *AuditResponseRepository) Save(ctx context.Context, resp *models.AuditResponse) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": resp.ID}, resp)
	return err
}
