package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MRN       string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	FullName  string         `gorm:"type:varchar(255);not null"`
	Age       int            `gorm:"not null"`
	Sex       string         `gorm:"type:varchar(16)"`
	Summary   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Patient) TableName() string {
	return "patients"
}
