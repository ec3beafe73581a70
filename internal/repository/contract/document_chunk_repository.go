package contract

import (
	"context"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/specification"
)

// ScoredDocumentChunk pairs a chunk with its cosine similarity to a query.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk, embedding []float32) error
	DeleteByCorpusId(ctx context.Context, corpusId string) error

	// DeleteByCorpusIdAndTitle clears one document's chunks so re-ingesting
	// it replaces rather than duplicates.
	DeleteByCorpusIdAndTitle(ctx context.Context, corpusId, title string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilarWithScore runs a cosine similarity search scoped to the
	// given corpus ids, ordered by similarity descending.
	SearchSimilarWithScore(ctx context.Context, corpusIds []string, embedding []float32, limit int, threshold float64) ([]*ScoredDocumentChunk, error)
}
