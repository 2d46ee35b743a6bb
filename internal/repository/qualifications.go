package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type QualificationRepository struct {
	coll *mongo.Collection
}

func NewQualificationRepository(db *mongo.Database) *QualificationRepository {
	return &QualificationRepository{coll: db.Collection("qualifications")}
}

func (r *QualificationRepository) GetBySupplier(ctx context.Context, supplierID string) (*models.Qualification, error) {
	var q models.Qualification
	if err := r.coll.FindOne(ctx, bson.M{"supplierId": supplierID}).Decode(&q); err != nil {
		return nil, mapFindErr(err)
	}
	return &q, nil
}

func (r *QualificationRepository) Upsert(ctx context.Context, q *models.Qualification) error {
	if q.CreatedDate.IsZero() {
		q.CreatedDate = time.Now()
	}
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"supplierId": q.SupplierID},
		q,
		options.Replace().SetUpsert(true),
	)
	return err
}

type PhysicalAuditRepository struct {
	coll *mongo.Collection
}

func NewPhysicalAuditRepository(db *mongo.Database) *PhysicalAuditRepository {
	return &PhysicalAuditRepository{coll: db.Collection("physical_audits")}
}

func (r *PhysicalAuditRepository) Create(ctx context.Context, a *models.PhysicalAudit) (string, error) {
	a.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (r *PhysicalAuditRepository) GetByID(ctx context.Context, id string) (*models.PhysicalAudit, error) {
	var a models.PhysicalAudit
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, mapFindErr(err)
	}
	return &a, nil
}

func (r *PhysicalAuditRepository) Save(ctx context.Context, a *models.PhysicalAudit) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	return err
}

func (r *PhysicalAuditRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type DueDiligenceRepository struct {
	coll *mongo.Collection
}

func NewDueDiligenceRepository(db *mongo.Database) *DueDiligenceRepository {
	return &DueDiligenceRepository{coll: db.Collection("due_diligences")}
}

func (r *DueDiligenceRepository) Create(ctx context.Context, d *models.DueDiligence) (string, error) {
	d.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (r *DueDiligenceRepository) GetByID(ctx context.Context, id string) (*models.DueDiligence, error) {
	var d models.DueDiligence
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return &d, nil
}

func (r *DueDiligenceRepository) Save(ctx context.Context, d *models.DueDiligence) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	return err
}

// LatestBySupplier: o registro mais recente decide a situação de risco atual.
func (r *DueDiligenceRepository) LatestBySupplier(ctx context.Context, supplierID string) (*models.DueDiligence, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	var d models.DueDiligence
	if err := r.coll.FindOne(ctx, bson.M{"supplierId": supplierID}, opts).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return &d, nil
}
