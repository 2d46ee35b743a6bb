package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type TenderRepository struct {
	coll *mongo.Collection
}

func NewTenderRepository(db *mongo.Database) *TenderRepository {
	return &TenderRepository{coll: db.Collection("tenders")}
}

func (r *TenderRepository) Create(ctx context.Context, t *models.Tender) (string, error) {
	t.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

func (r *TenderRepository) GetByID(ctx context.Context, id string) (*models.Tender, error) {
	var t models.Tender
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, mapFindErr(err)
	}
	return &t, nil
}

func (r *TenderRepository) GetAll(ctx context.Context, limit, skip int64) ([]models.Tender, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "createdDate", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Tender{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TenderRepository) Save(ctx context.Context, t *models.Tender) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	return err
}

func (r *TenderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DueDrafts lista rascunhos cuja data de publicação já passou.
func (r *TenderRepository) DueDrafts(ctx context.Context, now time.Time) ([]models.Tender, error) {
	cur, err := r.coll.Find(ctx, bson.M{
		"status":      models.TenderDraft,
		"publishDate": bson.M{"$lte": now},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Tender{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// OpenDraft move draft -> open para um tender. O filtro repete status+data,
// então só uma de duas invocações concorrentes consegue o update; o retorno
// diz se foi esta.
func (r *TenderRepository) OpenDraft(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{
		"_id":         id,
		"status":      models.TenderDraft,
		"publishDate": bson.M{"$lte": now},
	}, bson.M{"$set": bson.M{"status": models.TenderOpen}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// CloseDue move open -> closed para todo tender cujo closeDate já passou.
func (r *TenderRepository) CloseDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{
		"status":    models.TenderOpen,
		"closeDate": bson.M{"$lte": now},
	}, bson.M{"$set": bson.M{"status": models.TenderClosed}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
