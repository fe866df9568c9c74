// FILE: internal/service/analysis_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/pkg/logger"
	"healthmesh-be/internal/repository/memory"
	"healthmesh-be/internal/repository/specification"
	"healthmesh-be/internal/repository/unitofwork"
	"healthmesh-be/pkg/clinical/pipeline"
	"healthmesh-be/pkg/events"
	pktNats "healthmesh-be/pkg/nats"

	"github.com/google/uuid"
)

type IAnalysisService interface {
	CreateCase(ctx context.Context, req *dto.CreateCaseRequest) (*dto.CreateCaseResponse, error)
	ShowCase(ctx context.Context, id uuid.UUID) (*dto.ShowCaseResponse, error)
	Analyze(ctx context.Context, caseId uuid.UUID) (*dto.AnalysisResponse, error)
	GetAnalysis(ctx context.Context, caseId uuid.UUID) (*dto.AnalysisResponse, error)
	ListAlerts(ctx context.Context, caseId uuid.UUID, unacknowledgedOnly bool) ([]*dto.RiskAlertResponse, error)
	AcknowledgeAlert(ctx context.Context, alertId uuid.UUID) error
}

type analysisService struct {
	uowFactory     unitofwork.RepositoryFactory
	runner         *pipeline.Runner
	runs           *memory.RunRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	runner *pipeline.Runner,
	runs *memory.RunRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		uowFactory:     uowFactory,
		runner:         runner,
		runs:           runs,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *analysisService) CreateCase(ctx context.Context, req *dto.CreateCaseRequest) (*dto.CreateCaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: req.PatientId})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient not found")
	}

	// Deterministic scores are computed up front so the case carries its
	// risk category before any model runs.
	pc := pipeline.NewContext(pipeline.ContextInput{
		CaseId:           uuid.New(),
		ClinicalQuestion: req.ClinicalQuestion,
		Vitals:           req.Vitals,
		Labs:             req.Labs,
	})

	clinicalCase := entity.ClinicalCase{
		Id:               pc.CaseId,
		PatientId:        req.PatientId,
		ClinicalQuestion: req.ClinicalQuestion,
		Diagnoses:        req.Diagnoses,
		Medications:      req.Medications,
		Allergies:        req.Allergies,
		Vitals:           req.Vitals,
		Labs:             req.Labs,
		Status:           entity.CasePending,
		RiskCategory:     string(pc.RiskCategory),
		CreatedAt:        time.Now(),
	}

	if err := uow.ClinicalCaseRepository().Create(ctx, &clinicalCase); err != nil {
		return nil, err
	}

	s.logger.Info("AnalysisService", "Case created", map[string]interface{}{
		"case_id":       clinicalCase.Id,
		"patient_id":    req.PatientId,
		"risk_category": clinicalCase.RiskCategory,
	})

	return &dto.CreateCaseResponse{
		Id:           clinicalCase.Id,
		RiskCategory: clinicalCase.RiskCategory,
	}, nil
}

func (s *analysisService) ShowCase(ctx context.Context, id uuid.UUID) (*dto.ShowCaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	c, err := uow.ClinicalCaseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("case not found")
	}

	return &dto.ShowCaseResponse{
		Id:               c.Id,
		PatientId:        c.PatientId,
		ClinicalQuestion: c.ClinicalQuestion,
		Diagnoses:        c.Diagnoses,
		Medications:      c.Medications,
		Allergies:        c.Allergies,
		Vitals:           c.Vitals,
		Labs:             c.Labs,
		Status:           string(c.Status),
		RiskCategory:     c.RiskCategory,
		CreatedAt:        c.CreatedAt,
	}, nil
}

// Analyze runs the full pipeline for a case and persists the outcome.
// Concurrent requests for the same case are rejected, not queued.
func (s *analysisService) Analyze(ctx context.Context, caseId uuid.UUID) (*dto.AnalysisResponse, error) {
	if !s.runs.TryStart(caseId) {
		return nil, fmt.Errorf("analysis already in progress for case %s", caseId)
	}
	defer s.runs.Finish(caseId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	c, err := uow.ClinicalCaseRepository().FindOne(ctx, specification.ByID{ID: caseId})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("case not found")
	}

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: c.PatientId})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient not found for case %s", caseId)
	}

	if err := uow.ClinicalCaseRepository().UpdateStatus(ctx, caseId, entity.CaseAnalyzing, ""); err != nil {
		return nil, err
	}

	pc := pipeline.NewContext(pipeline.ContextInput{
		CaseId: c.Id,
		Patient: pipeline.PatientSummary{
			Id:      patient.Id,
			Age:     patient.Age,
			Sex:     patient.Sex,
			Summary: patient.Summary,
		},
		ClinicalQuestion: c.ClinicalQuestion,
		Diagnoses:        c.Diagnoses,
		Medications:      c.Medications,
		Allergies:        c.Allergies,
		Vitals:           c.Vitals,
		Labs:             c.Labs,
	})

	outcome, err := s.runner.Analyze(ctx, pc)
	if err != nil {
		_ = uow.ClinicalCaseRepository().UpdateStatus(context.Background(), caseId, entity.CaseFailed, "")
		return nil, err
	}

	if err := s.persistOutcome(ctx, c, patient.Id, outcome); err != nil {
		s.logger.Error("AnalysisService", "Failed to persist analysis outcome", map[string]interface{}{
			"case_id": caseId, "error": err.Error(),
		})
		return nil, err
	}

	s.publishCompleted(ctx, c, outcome)

	return s.buildResponse(c.Id, string(entity.CaseAnalyzed), outcome), nil
}

func (s *analysisService) persistOutcome(ctx context.Context, c *entity.ClinicalCase, patientId uuid.UUID, outcome *pipeline.AnalysisOutcome) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Re-analysis replaces the previous run wholesale.
	if err := uow.StageRecordRepository().DeleteByCaseId(ctx, c.Id); err != nil {
		return err
	}
	if err := uow.RiskAlertRepository().DeleteByCaseId(ctx, c.Id); err != nil {
		return err
	}
	if err := uow.CaseSynthesisRepository().DeleteByCaseId(ctx, c.Id); err != nil {
		return err
	}

	records := make([]*entity.StageRecord, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		details, err := json.Marshal(r.Details)
		if err != nil {
			details = nil
		}
		records = append(records, &entity.StageRecord{
			Id:              uuid.New(),
			CaseId:          c.Id,
			Stage:           r.Stage.String(),
			Status:          string(r.Status),
			Summary:         r.Summary,
			Details:         details,
			Confidence:      r.Confidence,
			EvidenceSources: r.EvidenceSources,
			Reasoning:       r.Reasoning,
			StartedAt:       r.StartedAt,
			FinishedAt:      r.FinishedAt,
			CreatedAt:       time.Now(),
		})
	}
	if err := uow.StageRecordRepository().CreateBulk(ctx, records); err != nil {
		return err
	}

	alerts := make([]*entity.RiskAlertRecord, 0, len(outcome.Alerts))
	for _, a := range outcome.Alerts {
		alerts = append(alerts, &entity.RiskAlertRecord{
			Id:              uuid.New(),
			CaseId:          c.Id,
			PatientId:       patientId,
			Type:            string(a.Type),
			Severity:        string(a.Severity),
			Title:           a.Title,
			Description:     a.Description,
			SourceStage:     a.SourceStage.String(),
			SuggestedAction: a.SuggestedAction,
			CreatedAt:       a.CreatedAt,
		})
	}
	if err := uow.RiskAlertRepository().CreateBulk(ctx, alerts); err != nil {
		return err
	}

	if outcome.Synthesis != nil {
		payload, err := json.Marshal(outcome.Synthesis)
		if err != nil {
			return err
		}
		synthesis := entity.CaseSynthesis{
			Id:                uuid.New(),
			CaseId:            c.Id,
			OverallConfidence: string(outcome.Synthesis.OverallConfidence),
			RiskCategory:      string(outcome.RiskCategory),
			Payload:           payload,
			CreatedAt:         time.Now(),
		}
		if err := uow.CaseSynthesisRepository().Create(ctx, &synthesis); err != nil {
			return err
		}
	}

	if err := uow.ClinicalCaseRepository().UpdateStatus(ctx, c.Id, entity.CaseAnalyzed, string(outcome.RiskCategory)); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *analysisService) publishCompleted(ctx context.Context, c *entity.ClinicalCase, outcome *pipeline.AnalysisOutcome) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewAnalysisCompleted(c.Id.String(), string(outcome.RiskCategory), len(outcome.Alerts))
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("AnalysisService", "Failed to publish completion event", map[string]interface{}{
			"case_id": c.Id, "error": err.Error(),
		})
	}
}

func (s *analysisService) buildResponse(caseId uuid.UUID, status string, outcome *pipeline.AnalysisOutcome) *dto.AnalysisResponse {
	resp := &dto.AnalysisResponse{
		CaseId:       caseId,
		Status:       status,
		RiskCategory: string(outcome.RiskCategory),
		StartedAt:    outcome.StartedAt,
		FinishedAt:   outcome.FinishedAt,
	}

	if outcome.Synthesis != nil {
		resp.OverallConfidence = string(outcome.Synthesis.OverallConfidence)
		if payload, err := json.Marshal(outcome.Synthesis); err == nil {
			resp.Synthesis = payload
		}
	}

	for _, r := range outcome.Results {
		details, _ := json.Marshal(r.Details)
		resp.Stages = append(resp.Stages, dto.StageResultResponse{
			Stage:           r.Stage.String(),
			Status:          string(r.Status),
			Summary:         r.Summary,
			Details:         details,
			Confidence:      r.Confidence,
			EvidenceSources: r.EvidenceSources,
			Reasoning:       r.Reasoning,
			StartedAt:       r.StartedAt,
			FinishedAt:      r.FinishedAt,
		})
	}

	for _, a := range outcome.Alerts {
		resp.Alerts = append(resp.Alerts, dto.RiskAlertResponse{
			CaseId:          caseId,
			Type:            string(a.Type),
			Severity:        string(a.Severity),
			Title:           a.Title,
			Description:     a.Description,
			SourceStage:     a.SourceStage.String(),
			SuggestedAction: a.SuggestedAction,
			CreatedAt:       a.CreatedAt,
		})
	}

	return resp
}

// GetAnalysis reads a previously persisted run back from storage.
func (s *analysisService) GetAnalysis(ctx context.Context, caseId uuid.UUID) (*dto.AnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	c, err := uow.ClinicalCaseRepository().FindOne(ctx, specification.ByID{ID: caseId})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("case not found")
	}

	records, err := uow.StageRecordRepository().FindAll(ctx,
		specification.ByCase{CaseId: caseId},
		specification.OrderBy{Field: "started_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	alerts, err := uow.RiskAlertRepository().FindAll(ctx,
		specification.ByCase{CaseId: caseId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	synthesis, err := uow.CaseSynthesisRepository().FindOne(ctx, specification.ByCase{CaseId: caseId})
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalysisResponse{
		CaseId:       caseId,
		Status:       string(c.Status),
		RiskCategory: c.RiskCategory,
	}

	for _, r := range records {
		resp.Stages = append(resp.Stages, dto.StageResultResponse{
			Stage:           r.Stage,
			Status:          r.Status,
			Summary:         r.Summary,
			Details:         r.Details,
			Confidence:      r.Confidence,
			EvidenceSources: r.EvidenceSources,
			Reasoning:       r.Reasoning,
			StartedAt:       r.StartedAt,
			FinishedAt:      r.FinishedAt,
		})
	}
	if len(records) > 0 {
		resp.StartedAt = records[0].StartedAt
		resp.FinishedAt = records[len(records)-1].FinishedAt
	}

	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, *toAlertResponse(a))
	}

	if synthesis != nil {
		resp.OverallConfidence = synthesis.OverallConfidence
		resp.Synthesis = synthesis.Payload
	}

	return resp, nil
}

func (s *analysisService) ListAlerts(ctx context.Context, caseId uuid.UUID, unacknowledgedOnly bool) ([]*dto.RiskAlertResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if caseId != uuid.Nil {
		specs = append(specs, specification.ByCase{CaseId: caseId})
	}
	if unacknowledgedOnly {
		specs = append(specs, specification.Unacknowledged{})
	}

	alerts, err := uow.RiskAlertRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.RiskAlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = toAlertResponse(a)
	}
	return out, nil
}

func (s *analysisService) AcknowledgeAlert(ctx context.Context, alertId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RiskAlertRepository().Acknowledge(ctx, alertId)
}

func toAlertResponse(a *entity.RiskAlertRecord) *dto.RiskAlertResponse {
	return &dto.RiskAlertResponse{
		Id:              a.Id,
		CaseId:          a.CaseId,
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
