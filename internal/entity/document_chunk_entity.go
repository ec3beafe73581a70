package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one embedded passage of a product corpus, the unit of
// retrieval.
type DocumentChunk struct {
	Id         uuid.UUID
	CorpusId   string
	Title      string
	Content    string
	ChunkIndex int
	CreatedAt  time.Time
}
