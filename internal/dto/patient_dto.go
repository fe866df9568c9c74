package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	MRN      string `json:"mrn" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Age      int    `json:"age" validate:"required,min=0,max=130"`
	Sex      string `json:"sex" validate:"required,oneof=male female other"`
	Summary  string `json:"summary"`
}

type CreatePatientResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowPatientResponse struct {
	Id        uuid.UUID  `json:"id"`
	MRN       string     `json:"mrn"`
	FullName  string     `json:"full_name"`
	Age       int        `json:"age"`
	Sex       string     `json:"sex"`
	Summary   string     `json:"summary,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
