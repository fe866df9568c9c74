package mapper

import (
	"encoding/json"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/model"

	"gorm.io/datatypes"
)

type CaseSynthesisMapper struct{}

func NewCaseSynthesisMapper() *CaseSynthesisMapper {
	return &CaseSynthesisMapper{}
}

func (m *CaseSynthesisMapper) ToEntity(s *model.CaseSynthesis) *entity.CaseSynthesis {
	if s == nil {
		return nil
	}

	return &entity.CaseSynthesis{
		Id:                s.Id,
		CaseId:            s.CaseId,
		OverallConfidence: s.OverallConfidence,
		RiskCategory:      s.RiskCategory,
		Payload:           json.RawMessage(s.Payload),
		CreatedAt:         s.CreatedAt,
	}
}

func (m *CaseSynthesisMapper) ToModel(s *entity.CaseSynthesis) *model.CaseSynthesis {
	if s == nil {
		return nil
	}

	return &model.CaseSynthesis{
		Id:                s.Id,
		CaseId:            s.CaseId,
		OverallConfidence: s.OverallConfidence,
		RiskCategory:      s.RiskCategory,
		Payload:           datatypes.JSON(s.Payload),
		CreatedAt:         s.CreatedAt,
	}
}
