package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_messages_session_ordinal"`
	Role      string     `gorm:"type:varchar(16);not null"`
	Text      string     `gorm:"type:text;not null"`
	ProductId *uuid.UUID `gorm:"type:uuid"`
	Ordinal   int        `gorm:"not null;uniqueIndex:idx_messages_session_ordinal"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
