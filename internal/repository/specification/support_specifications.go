package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByEmailPhone struct {
	Email string
	Phone string
}

func (s ByEmailPhone) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ? AND phone = ?", s.Email, s.Phone)
}

type ByCorpusID struct {
	CorpusID string
}

func (s ByCorpusID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("corpus_id = ?", s.CorpusID)
}

type GeneralExpertsOnly struct{}

func (s GeneralExpertsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_general = true")
}
