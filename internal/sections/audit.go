package sections

import (
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/merge"
	"supplierportal/internal/models"
)

// Folhas que cada papel pode escrever dentro de uma pergunta.
var supplierLeafKeys = map[string]bool{
	"supplierComment": true,
	"supplierAnswer":  true,
}

var buyerLeafKeys = map[string]bool{
	"auditorComment":        true,
	"auditorRecommendation": true,
	"auditorScore":          true,
}

func RoleLeafKeys(role string) map[string]bool {
	if role == models.RoleSupplier {
		return supplierLeafKeys
	}
	return buyerLeafKeys
}

// ReplyRecommendSection é uma seção de dupla autoria: mapa de chave de
// pergunta -> sub-documento com folhas particionadas por papel.
type ReplyRecommendSection struct {
	QuestionKeys []string

	Get func(r *models.AuditResponse) bson.M
	Set func(r *models.AuditResponse, doc bson.M)
}

var auditSections = map[string]ReplyRecommendSection{
	"coreHseqInfo": {
		QuestionKeys: []string{
			"doesHaveHealthSafety",
			"doesHaveDocumentedPolicy",
			"doesPerformPreemployment",
			"doWorkProceduresConform",
			"doesHaveFormalProcess",
			"doesHaveTrackingSystem",
			"doesHaveValidIndustry",
			"doesHaveFormalProcessForReporting",
			"doesHaveLiabilityInsurance",
			"doesHaveFormalProcessForHealth",
		},
		Get: func(r *models.AuditResponse) bson.M { return r.CoreHseqInfo },
		Set: func(r *models.AuditResponse, doc bson.M) { r.CoreHseqInfo = doc },
	},
	"hrInfo": {
		QuestionKeys: []string{
			"workContractManagement",
			"jobDescriptionProcedure",
			"trainingDevelopment",
			"employeePerformanceManagement",
			"timeKeepingManagement",
			"managementOfPractises",
			"managementOfWorkforce",
			"employeeAwareness",
			"employeeSelection",
			"employeeExitManagement",
			"grievanceAndFairTreatment",
		},
		Get: func(r *models.AuditResponse) bson.M { return r.HrInfo },
		Set: func(r *models.AuditResponse, doc bson.M) { r.HrInfo = doc },
	},
	"businessInfo": {
		QuestionKeys: []string{
			"doesHavePolicyStatement",
			"ensureThroughoutCompany",
			"ensureThroughoutSupplyChain",
			"haveBeenSubjectToInvestigation",
			"doesHaveDocumentedPolicyToCorruption",
			"whoIsResponsibleForPolicy",
		},
		Get: func(r *models.AuditResponse) bson.M { return r.BusinessInfo },
		Set: func(r *models.AuditResponse, doc bson.M) { r.BusinessInfo = doc },
	},
}

func Audit(name string) (ReplyRecommendSection, bool) {
	s, ok := auditSections[name]
	return s, ok
}

// Merge aplica o doc de um papel sobre a seção armazenada. Perguntas fora do
// registro são descartadas (nunca criadas); cada pergunta conhecida passa pelo
// merge particionado com a allow-list do papel.
func (s ReplyRecommendSection) Merge(existing, doc bson.M, role string) bson.M {
	allowed := RoleLeafKeys(role)

	out := bson.M{}
	for k, v := range existing {
		out[k] = v
	}
	for _, q := range s.QuestionKeys {
		incoming, ok := merge.AsMap(doc[q])
		if !ok {
			continue
		}
		prev, _ := merge.AsMap(existing[q])
		out[q] = merge.Section(prev, incoming, allowed)
	}
	return out
}
