package mapper

import (
	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/model"
)

type RiskAlertMapper struct{}

func NewRiskAlertMapper() *RiskAlertMapper {
	return &RiskAlertMapper{}
}

func (m *RiskAlertMapper) ToEntity(a *model.RiskAlertRecord) *entity.RiskAlertRecord {
	if a == nil {
		return nil
	}

	return &entity.RiskAlertRecord{
		Id:              a.Id,
		CaseId:          a.CaseId,
		PatientId:       a.PatientId,
		Type:            a.Type,
		Severity:        a.Severity,
		Title:           a.Title,
		Description:     a.Description,
		SourceStage:     a.SourceStage,
		SuggestedAction: a.SuggestedAction,
		Acknowledged:    a.Acknowledged,
		AcknowledgedAt:  a.AcknowledgedAt,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *RiskAlertMapper) ToModel(a *entity.RiskAlertRecord) *model.RiskAlertRecord {
	if a == nil {
		return nil
	}

	return &model.RiskAlertRecord{
		Id:              a.Id,
		CaseId:          a.CaseId,
		PatientId:       a.PatientId,
		Type:            a.Type,
		Severity:        a.Severity,
		Title:           a.Title,
		Description:     a.Description,
		SourceStage:     a.SourceStage,
		SuggestedAction: a.SuggestedAction,
		Acknowledged:    a.Acknowledged,
		AcknowledgedAt:  a.AcknowledgedAt,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *RiskAlertMapper) ToEntities(alerts []*model.RiskAlertRecord) []*entity.RiskAlertRecord {
	entities := make([]*entity.RiskAlertRecord, len(alerts))
	for i, a := range alerts {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
