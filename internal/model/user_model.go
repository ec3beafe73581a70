package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:text;not null;uniqueIndex:idx_users_identity"`
	Phone     string    `gorm:"type:text;not null;uniqueIndex:idx_users_identity"`
	Language  string    `gorm:"type:varchar(8);not null;default:'en'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
