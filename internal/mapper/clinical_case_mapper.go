package mapper

import (
	"encoding/json"
	"time"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/model"
	"healthmesh-be/pkg/clinical/scoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalCaseMapper struct{}

func NewClinicalCaseMapper() *ClinicalCaseMapper {
	return &ClinicalCaseMapper{}
}

func (m *ClinicalCaseMapper) ToEntity(c *model.ClinicalCase) *entity.ClinicalCase {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	e := &entity.ClinicalCase{
		Id:               c.Id,
		PatientId:        c.PatientId,
		ClinicalQuestion: c.ClinicalQuestion,
		Diagnoses:        jsonToStrings(c.Diagnoses),
		Medications:      jsonToStrings(c.Medications),
		Allergies:        jsonToStrings(c.Allergies),
		Status:           entity.CaseStatus(c.Status),
		RiskCategory:     c.RiskCategory,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        c.DeletedAt.Valid,
	}

	if len(c.Vitals) > 0 {
		var v scoring.VitalSigns
		if err := json.Unmarshal(c.Vitals, &v); err == nil {
			e.Vitals = &v
		}
	}
	if len(c.Labs) > 0 {
		var l scoring.LabValues
		if err := json.Unmarshal(c.Labs, &l); err == nil {
			e.Labs = &l
		}
	}

	return e
}

func (m *ClinicalCaseMapper) ToModel(c *entity.ClinicalCase) *model.ClinicalCase {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var vitals, labs datatypes.JSON
	if c.Vitals != nil {
		vitals = anyToJSON(c.Vitals)
	}
	if c.Labs != nil {
		labs = anyToJSON(c.Labs)
	}

	return &model.ClinicalCase{
		Id:               c.Id,
		PatientId:        c.PatientId,
		ClinicalQuestion: c.ClinicalQuestion,
		Diagnoses:        stringsToJSON(c.Diagnoses),
		Medications:      stringsToJSON(c.Medications),
		Allergies:        stringsToJSON(c.Allergies),
		Vitals:           vitals,
		Labs:             labs,
		Status:           string(c.Status),
		RiskCategory:     c.RiskCategory,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *ClinicalCaseMapper) ToEntities(cases []*model.ClinicalCase) []*entity.ClinicalCase {
	entities := make([]*entity.ClinicalCase, len(cases))
	for i, c := range cases {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func jsonToStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

func stringsToJSON(s []string) datatypes.JSON {
	if len(s) == 0 {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func anyToJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
