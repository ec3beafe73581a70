package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Language       string    `gorm:"type:varchar(8);not null"`
	State          string    `gorm:"type:varchar(32);not null;default:'active';index"`
	QuestionCount  int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	LastActivityAt time.Time `gorm:"not null"`
}

func (Session) TableName() string {
	return "sessions"
}
