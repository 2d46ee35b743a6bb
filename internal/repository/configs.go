package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"supplierportal/internal/models"
)

type ConfigRepository struct {
	coll *mongo.Collection
}

func NewConfigRepository(db *mongo.Database) *ConfigRepository {
	return &ConfigRepository{coll: db.Collection("configs")}
}

// Get devolve o documento único de configuração; se não existir ainda,
// devolve defaults em vez de erro.
func (r *ConfigRepository) Get(ctx context.Context) (*models.PortalConfig, error) {
	var c models.PortalConfig
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return &models.PortalConfig{SenderName: "Supplier Portal"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
