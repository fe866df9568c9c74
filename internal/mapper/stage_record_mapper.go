package mapper

import (
	"encoding/json"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/model"

	"gorm.io/datatypes"
)

type StageRecordMapper struct{}

func NewStageRecordMapper() *StageRecordMapper {
	return &StageRecordMapper{}
}

func (m *StageRecordMapper) ToEntity(r *model.StageRecord) *entity.StageRecord {
	if r == nil {
		return nil
	}

	return &entity.StageRecord{
		Id:              r.Id,
		CaseId:          r.CaseId,
		Stage:           r.Stage,
		Status:          r.Status,
		Summary:         r.Summary,
		Details:         json.RawMessage(r.Details),
		Confidence:      r.Confidence,
		EvidenceSources: jsonToStrings(r.EvidenceSources),
		Reasoning:       jsonToStrings(r.Reasoning),
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *StageRecordMapper) ToModel(r *entity.StageRecord) *model.StageRecord {
	if r == nil {
		return nil
	}

	return &model.StageRecord{
		Id:              r.Id,
		CaseId:          r.CaseId,
		Stage:           r.Stage,
		Status:          r.Status,
		Summary:         r.Summary,
		Details:         datatypes.JSON(r.Details),
		Confidence:      r.Confidence,
		EvidenceSources: stringsToJSON(r.EvidenceSources),
		Reasoning:       stringsToJSON(r.Reasoning),
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *StageRecordMapper) ToEntities(records []*model.StageRecord) []*entity.StageRecord {
	entities := make([]*entity.StageRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
