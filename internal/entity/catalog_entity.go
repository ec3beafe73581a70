package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a static catalog entry. Position preserves catalog declaration
// order, which breaks routing ties deterministically.
type Product struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
	CorpusId    string
	Keywords    []string
	ExpertId    uuid.UUID
	Position    int
	CreatedAt   time.Time
}

// ExpertContact is static reference data. The general expert is the fallback
// when a session never matched a product.
type ExpertContact struct {
	Id          uuid.UUID
	Name        string
	Title       string
	Email       string
	Phone       string
	Specialties []string
	IsGeneral   bool
	CreatedAt   time.Time
}
