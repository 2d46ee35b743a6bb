package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/models"
	"supplierportal/internal/repository"
)

//go:embed seeds/suppliers.json
var suppliersJSON []byte

type seedItem struct {
	EnName       string   `json:"enName"`
	MnName       string   `json:"mnName,omitempty"`
	Email        string   `json:"email"`
	ProductsInfo []string `json:"productsInfo,omitempty"`
	IsRegistered bool     `json:"isRegistered"`
}

// SeedSuppliers carrega fornecedores de demonstração. Idempotente: o índice
// único de enName barra duplicatas em re-execuções.
func SeedSuppliers(ctx context.Context, repo *repository.CompanyRepository, log *slog.Logger) error {
	var items []seedItem
	if err := json.Unmarshal(suppliersJSON, &items); err != nil {
		return err
	}

	for _, s := range items {
		if s.EnName == "" {
			log.Warn("seed_skip_missing_name")
			continue
		}

		c := models.Company{
			ID: uuid.NewString(),
			BasicInfo: bson.M{
				"enName": s.EnName,
				"email":  s.Email,
			},
			ProductsInfo:           s.ProductsInfo,
			IsSentRegistrationInfo: s.IsRegistered,
		}
		if s.MnName != "" {
			c.BasicInfo["mnName"] = s.MnName
		}

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err := repo.Create(ictx, &c)
		cancel()

		if err != nil {
			if errors.Is(err, repository.ErrDuplicateName) {
				log.Info("seed_supplier_exists", "name", s.EnName)
				continue
			}
			return err
		}
		log.Info("seed_supplier_created", "name", s.EnName)
	}

	log.Info("seed_suppliers_done", "count", len(items))
	return nil
}
