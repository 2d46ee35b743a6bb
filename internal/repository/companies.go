package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplierportal/internal/models"
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "basicInfo.enName", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetSparse(true).
			SetName("uniq_en_name"),
	})
	return err
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) (string, error) {
	c.CreatedDate = time.Now()
	c.ModifiedDate = c.CreatedDate
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if isDuplicate(err) {
			return "", ErrDuplicateName
		}
		return "", err
	}
	return c.ID, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapFindErr(err)
	}
	return &c, nil
}

func (r *CompanyRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Company, error) {
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CompanyRepository) GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "createdDate", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Registered lists suppliers who completed the registration stage; the
// fan-out recipient base for isToAll tenders.
func (r *CompanyRepository) Registered(ctx context.Context) ([]models.Company, error) {
	cur, err := r.coll.Find(ctx, bson.M{"isSentRegistrationInfo": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Save grava de volta o documento inteiro (leitura-modificação-escrita
// atômica por entidade).
func (r *CompanyRepository) Save(ctx context.Context, c *models.Company) error {
	c.ModifiedDate = time.Now()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil && isDuplicate(err) {
		return ErrDuplicateName
	}
	return err
}
