package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection("feedbacks")}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) (string, error) {
	f.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		return "", err
	}
	return f.ID, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	var f models.Feedback
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, mapFindErr(err)
	}
	return &f, nil
}

func (r *FeedbackRepository) CloseDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{
		"status":    models.FeedbackOpen,
		"closeDate": bson.M{"$lte": now},
	}, bson.M{"$set": bson.M{"status": models.FeedbackClosed}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

type FeedbackResponseRepository struct {
	coll *mongo.Collection
}

func NewFeedbackResponseRepository(db *mongo.Database) *FeedbackResponseRepository {
	return &FeedbackResponseRepository{coll: db.Collection("feedback_responses")}
}

func (r *FeedbackResponseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "feedbackId", Value: 1},
			{Key: "supplierId", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_feedback_supplier"),
	})
	return err
}

func (r *FeedbackResponseRepository) Insert(ctx context.Context, resp *models.FeedbackResponse) error {
	resp.CreatedDate = time.Now()
	if _, err := r.coll.InsertOne(ctx, resp); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateResponse
		}
		return err
	}
	return nil
}

func (r *FeedbackResponseRepository) GetByFeedbackAndSupplier(ctx context.Context, feedbackID, supplierID string) (*models.FeedbackResponse, error) {
	var resp models.FeedbackResponse
	err := r.coll.FindOne(ctx, bson.M{"feedbackId": feedbackID, "supplierId": supplierID}).Decode(&resp)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return &resp, nil
}
