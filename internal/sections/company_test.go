package sections

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/models"
)

func TestCompany_UnknownSection(t *testing.T) {
	if _, ok := Company("nope"); ok {
		t.Fatal("unknown section should not resolve")
	}
}

func TestCompany_ProductsInfo_ResetsValidation(t *testing.T) {
	c := &models.Company{
		ProductsInfo:            []string{"a01"},
		ValidatedProductsInfo:   []string{"a01"},
		IsProductsInfoValidated: true,
	}

	s, ok := Company("productsInfo")
	if !ok {
		t.Fatal("productsInfo not registered")
	}
	s.Set(c, bson.M{"productsInfo": []any{"a01", "b02"}})
	if s.Post != nil {
		s.Post(c)
	}

	if !reflect.DeepEqual(c.ProductsInfo, []string{"a01", "b02"}) {
		t.Fatalf("productsInfo = %#v", c.ProductsInfo)
	}
	if c.IsProductsInfoValidated {
		t.Fatal("editing productsInfo must reset isProductsInfoValidated")
	}
}

func TestCompany_FinancialInfo_ClearedWhenNoAccountsInfo(t *testing.T) {
	c := &models.Company{}

	s, _ := Company("financialInfo")
	s.Set(c, bson.M{
		"canProvideAccountsInfo": false,
		"currency":               "EUR",
		"annualTurnover":         bson.A{bson.M{"year": 2025, "amount": 100}},
		"preTaxProfit":           bson.A{bson.M{"year": 2025, "amount": 10}},
		"reasonToCannotProvide": "startup",
	})

	fi := c.FinancialInfo
	if fi["currency"] != "" {
		t.Fatalf("currency not cleared: %#v", fi["currency"])
	}
	for _, f := range financialAmountFields {
		arr, ok := fi[f].(bson.A)
		if !ok || len(arr) != 0 {
			t.Fatalf("%s not emptied: %#v", f, fi[f])
		}
	}
	// o resto do documento entra como enviado
	if fi["reasonToCannotProvide"] != "startup" {
		t.Fatalf("unrelated field lost: %#v", fi)
	}
}

func TestCompany_FinancialInfo_AcceptedWhenProvided(t *testing.T) {
	c := &models.Company{}

	s, _ := Company("financialInfo")
	s.Set(c, bson.M{
		"canProvideAccountsInfo": true,
		"currency":               "EUR",
		"annualTurnover":         bson.A{bson.M{"year": 2025, "amount": 100}},
	})

	if c.FinancialInfo["currency"] != "EUR" {
		t.Fatalf("currency dropped: %#v", c.FinancialInfo)
	}
	if arr, ok := c.FinancialInfo["annualTurnover"].(bson.A); !ok || len(arr) != 1 {
		t.Fatalf("annualTurnover dropped: %#v", c.FinancialInfo["annualTurnover"])
	}
}

func TestCompany_BusinessInfo_FlagOffNullsPairedFile(t *testing.T) {
	c := &models.Company{}

	s, _ := Company("businessInfo")
	s.Set(c, bson.M{
		"doesHaveCodeEthics":              false,
		"doesHaveCodeEthicsFile":          "/files/ethics.pdf", // stale, flag is off
		"doesHaveLiabilityInsurance":      true,
		"doesHaveLiabilityInsuranceFile":  "/files/insurance.pdf",
		"doesHaveResponsiblityPolicy":     false,
		"doesHaveResponsiblityPolicyFile": "/files/policy.pdf",
	})

	bi := c.BusinessInfo
	if bi["doesHaveCodeEthicsFile"] != nil {
		t.Fatalf("file kept for disabled flag: %#v", bi["doesHaveCodeEthicsFile"])
	}
	if bi["doesHaveResponsiblityPolicyFile"] != nil {
		t.Fatalf("file kept for disabled flag: %#v", bi["doesHaveResponsiblityPolicyFile"])
	}
	if bi["doesHaveLiabilityInsuranceFile"] != "/files/insurance.pdf" {
		t.Fatalf("file lost for enabled flag: %#v", bi["doesHaveLiabilityInsuranceFile"])
	}
}

func TestCompany_GatedSections(t *testing.T) {
	for _, name := range []string{"financialInfo", "businessInfo", "environmentalInfo", "healthInfo"} {
		s, ok := Company(name)
		if !ok || !s.Gated {
			t.Fatalf("%s must be gated on isPrequalificationInfoEditable", name)
		}
	}
	for _, name := range []string{"basicInfo", "contactInfo", "productsInfo"} {
		s, ok := Company(name)
		if !ok || s.Gated {
			t.Fatalf("%s must not be gated", name)
		}
	}
}
