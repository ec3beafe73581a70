package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:text;not null"`
	Slug        string         `gorm:"type:text;not null;uniqueIndex"`
	Description string         `gorm:"type:text;not null"`
	CorpusId    string         `gorm:"type:text;not null;index"`
	Keywords    datatypes.JSON `gorm:"type:jsonb;not null"`
	ExpertId    uuid.UUID      `gorm:"type:uuid;not null"`
	Position    int            `gorm:"not null;default:0"` // catalog declaration order
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (Product) TableName() string {
	return "products"
}
