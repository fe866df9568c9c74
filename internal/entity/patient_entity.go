package entity

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MRN       string
	FullName  string
	Age       int
	Sex       string
	Summary   string // short clinical background, free text
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
