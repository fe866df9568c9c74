// FILE: internal/service/patient_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"
	"healthmesh-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPatientService interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowPatientResponse, error)
	List(ctx context.Context, limit, offset int) ([]*dto.ShowPatientResponse, error)
}

type patientService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPatientService(uowFactory unitofwork.RepositoryFactory) IPatientService {
	return &patientService{
		uowFactory: uowFactory,
	}
}

func (s *patientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.PatientRepository().FindOne(ctx, specification.ByMRN{MRN: req.MRN})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("patient with MRN %s already exists", req.MRN)
	}

	patient := entity.Patient{
		Id:        uuid.New(),
		MRN:       req.MRN,
		FullName:  req.FullName,
		Age:       req.Age,
		Sex:       req.Sex,
		Summary:   req.Summary,
		CreatedAt: time.Now(),
	}

	if err := uow.PatientRepository().Create(ctx, &patient); err != nil {
		return nil, err
	}

	return &dto.CreatePatientResponse{Id: patient.Id}, nil
}

func (s *patientService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowPatientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient not found")
	}

	return toPatientResponse(patient), nil
}

func (s *patientService) List(ctx context.Context, limit, offset int) ([]*dto.ShowPatientResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	patients, err := uow.PatientRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ShowPatientResponse, len(patients))
	for i, p := range patients {
		out[i] = toPatientResponse(p)
	}
	return out, nil
}

func toPatientResponse(p *entity.Patient) *dto.ShowPatientResponse {
	return &dto.ShowPatientResponse{
		Id:        p.Id,
		MRN:       p.MRN,
		FullName:  p.FullName,
		Age:       p.Age,
		Sex:       p.Sex,
		Summary:   p.Summary,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
