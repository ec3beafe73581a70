package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExpertContact struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:text;not null"`
	Title       string         `gorm:"type:text"`
	Email       string         `gorm:"type:text;not null"`
	Phone       string         `gorm:"type:text;not null"`
	Specialties datatypes.JSON `gorm:"type:jsonb"`
	IsGeneral   bool           `gorm:"not null;default:false;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (ExpertContact) TableName() string {
	return "expert_contacts"
}
