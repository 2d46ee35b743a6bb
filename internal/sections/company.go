package sections

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/merge"
	"supplierportal/internal/models"
)

// CompanySection liga um nome de seção ao campo correspondente e ao hook de
// efeitos colaterais. Despacho por tabela, não por string mágica espalhada.
type CompanySection struct {
	// Gated: só pode ser alterada enquanto isPrequalificationInfoEditable.
	Gated bool

	Get  func(c *models.Company) bson.M
	Set  func(c *models.Company, doc bson.M)
	Post func(c *models.Company)
}

var companySections = map[string]CompanySection{
	"basicInfo": {
		Get: func(c *models.Company) bson.M { return c.BasicInfo },
		Set: func(c *models.Company, doc bson.M) { c.BasicInfo = merge.Replace(doc) },
	},
	"contactInfo": {
		Get: func(c *models.Company) bson.M { return c.ContactInfo },
		Set: func(c *models.Company, doc bson.M) { c.ContactInfo = merge.Replace(doc) },
	},
	"managementTeamInfo": {
		Get: func(c *models.Company) bson.M { return c.ManagementTeamInfo },
		Set: func(c *models.Company, doc bson.M) { c.ManagementTeamInfo = merge.Replace(doc) },
	},
	"shareholderInfo": {
		Get: func(c *models.Company) bson.M { return c.ShareholderInfo },
		Set: func(c *models.Company, doc bson.M) { c.ShareholderInfo = merge.Replace(doc) },
	},
	"groupInfo": {
		Get: func(c *models.Company) bson.M { return c.GroupInfo },
		Set: func(c *models.Company, doc bson.M) { c.GroupInfo = merge.Replace(doc) },
	},
	"certificateInfo": {
		Get: func(c *models.Company) bson.M { return c.CertificateInfo },
		Set: func(c *models.Company, doc bson.M) { c.CertificateInfo = merge.Replace(doc) },
	},
	"productsInfo": {
		Get: func(c *models.Company) bson.M { return bson.M{"productsInfo": c.ProductsInfo} },
		Set: func(c *models.Company, doc bson.M) { c.ProductsInfo = toStrings(doc["productsInfo"]) },
		// trocar a lista de códigos invalida a validação anterior
		Post: func(c *models.Company) { c.IsProductsInfoValidated = false },
	},
	"financialInfo": {
		Gated: true,
		Get:   func(c *models.Company) bson.M { return c.FinancialInfo },
		Set:   func(c *models.Company, doc bson.M) { c.FinancialInfo = applyFinancialInfo(doc) },
	},
	"businessInfo": {
		Gated: true,
		Get:   func(c *models.Company) bson.M { return c.BusinessInfo },
		Set:   func(c *models.Company, doc bson.M) { c.BusinessInfo = applyBusinessInfo(doc) },
	},
	"environmentalInfo": {
		Gated: true,
		Get:   func(c *models.Company) bson.M { return c.EnvironmentalInfo },
		Set:   func(c *models.Company, doc bson.M) { c.EnvironmentalInfo = merge.Replace(doc) },
	},
	"healthInfo": {
		Gated: true,
		Get:   func(c *models.Company) bson.M { return c.HealthInfo },
		Set:   func(c *models.Company, doc bson.M) { c.HealthInfo = merge.Replace(doc) },
	},
}

func Company(name string) (CompanySection, bool) {
	s, ok := companySections[name]
	return s, ok
}

// financialAmountFields são as séries anuais zeradas quando o fornecedor
// declara que não pode fornecer dados contábeis.
var financialAmountFields = []string{
	"annualTurnover",
	"preTaxProfit",
	"totalAssets",
	"totalCurrentAssets",
	"totalShareholderEquity",
	"recordsInfo",
}

func applyFinancialInfo(doc bson.M) bson.M {
	out := merge.Replace(doc)
	if can, ok := out["canProvideAccountsInfo"].(bool); ok && !can {
		for _, f := range financialAmountFields {
			out[f] = bson.A{}
		}
		out["currency"] = ""
	}
	return out
}

// applyBusinessInfo: flags "doesHaveX" têm um arquivo pareado "doesHaveXFile";
// desligar a flag nunca pode deixar referência de arquivo para trás.
func applyBusinessInfo(doc bson.M) bson.M {
	out := merge.Replace(doc)
	for k, v := range doc {
		b, ok := v.(bool)
		if !ok || !strings.HasPrefix(k, "doesHave") || strings.HasSuffix(k, "File") {
			continue
		}
		if !b {
			out[k+"File"] = nil
		}
	}
	return out
}

func toStrings(v any) []string {
	var raw []any
	switch a := v.(type) {
	case bson.A:
		raw = a
	case []any:
		raw = a
	case []string:
		return append([]string(nil), a...)
	default:
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
