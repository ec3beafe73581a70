package retrieval

import (
	"context"
	"strings"

	"iot-support-be/internal/apperr"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/repository/contract"
	"iot-support-be/pkg/embedding"
)

// Passage is one retrieved documentation fragment, ranked by similarity.
type Passage struct {
	CorpusId   string
	Title      string
	Content    string
	Similarity float64
}

// Retriever defines the contract for corpus-scoped similarity search.
type Retriever interface {
	Retrieve(ctx context.Context, corpusIds []string, query string) ([]Passage, error)
}

// Config encapsulates search parameters.
type Config struct {
	TopK      int
	Threshold float64
}

// DefaultConfig returns the default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:      5,
		Threshold: 0.3,
	}
}

// VectorRetriever embeds the query and runs a cosine similarity search over
// the document chunk index, scoped to the given corpora.
type VectorRetriever struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkRepository   contract.DocumentChunkRepository
	config            Config
	logger            logger.ILogger
}

func NewVectorRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	chunkRepository contract.DocumentChunkRepository,
	config Config,
	logger logger.ILogger,
) *VectorRetriever {
	return &VectorRetriever{
		embeddingProvider: embeddingProvider,
		chunkRepository:   chunkRepository,
		config:            config,
		logger:            logger,
	}
}

var _ Retriever = &VectorRetriever{}

// Retrieve returns the top passages for a query across the given corpora.
// An empty result is a valid outcome; infrastructure failures come back as
// RetrievalUnavailableError so the turn can be rejected without corrupting
// session state.
func (r *VectorRetriever) Retrieve(ctx context.Context, corpusIds []string, query string) ([]Passage, error) {
	if len(corpusIds) == 0 {
		return nil, nil
	}

	embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Error("retrieval", "query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, &apperr.RetrievalUnavailableError{
			CorpusId: strings.Join(corpusIds, ","),
			Cause:    err,
		}
	}

	scored, err := r.chunkRepository.SearchSimilarWithScore(
		ctx,
		corpusIds,
		embeddingRes.Embedding.Values,
		r.config.TopK,
		r.config.Threshold,
	)
	if err != nil {
		r.logger.Error("retrieval", "vector search failed", map[string]interface{}{
			"corpus_ids": corpusIds,
			"error":      err.Error(),
		})
		return nil, &apperr.RetrievalUnavailableError{
			CorpusId: strings.Join(corpusIds, ","),
			Cause:    err,
		}
	}

	passages := make([]Passage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, Passage{
			CorpusId:   s.Chunk.CorpusId,
			Title:      s.Chunk.Title,
			Content:    s.Chunk.Content,
			Similarity: s.Similarity,
		})
	}

	r.logger.Info("retrieval", "passages retrieved", map[string]interface{}{
		"corpus_ids": corpusIds,
		"count":      len(passages),
	})

	return passages, nil
}
