package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iot-support-be/internal/config"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/implementation"
	"iot-support-be/internal/repository/unitofwork"
	"iot-support-be/pkg/database"
	"iot-support-be/pkg/embedding"
	"iot-support-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Bulk-indexes product documentation from a directory. Each file is named
// after the product slug (smart-thermostat.md -> product with that slug);
// its text is chunked, embedded, and stored under the product's corpus.
func main() {
	dir := flag.String("dir", "data/iot_products", "directory containing product documentation files")
	purge := flag.Bool("purge", false, "clear each product's whole corpus before indexing its file")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaEmbeddingProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ctx := context.Background()
	productRepo := implementation.NewProductRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)
	products, err := productRepo.FindAll(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to load product catalog: %v", err)
	}

	corpusBySlug := make(map[string]string, len(products))
	for _, p := range products {
		corpusBySlug[p.Slug] = p.CorpusId
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Error: Failed to read directory %s: %v", *dir, err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	indexed := 0

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ext := filepath.Ext(e.Name())
		if ext != ".txt" && ext != ".md" {
			continue
		}

		slug := strings.TrimSuffix(e.Name(), ext)
		corpusId, ok := corpusBySlug[slug]
		if !ok {
			color.Yellow("Skipping %s: no product with slug %q", e.Name(), slug)
			continue
		}

		raw, err := os.ReadFile(filepath.Join(*dir, e.Name()))
		if err != nil {
			log.Fatalf("Error: Failed to read %s: %v", e.Name(), err)
		}

		if *purge {
			if err := chunkRepo.DeleteByCorpusId(ctx, corpusId); err != nil {
				log.Fatalf("Error: Failed to purge corpus %s: %v", corpusId, err)
			}
		}

		title := slug
		if err := indexDocument(ctx, uowFactory, embeddingProvider, cfg.Support, corpusId, title, string(raw)); err != nil {
			log.Fatalf("Error: Failed to index %s: %v", e.Name(), err)
		}

		color.Green("Indexed %s into corpus %s", e.Name(), corpusId)
		indexed++
	}

	color.Cyan("✅ Done: %d document(s) indexed.", indexed)
}

func indexDocument(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	cfg config.SupportConfig,
	corpusId, title, content string,
) error {
	chunks := utils.SplitText(content, cfg.ChunkSize, cfg.ChunkOverlap)

	type embeddedChunk struct {
		chunk     *entity.DocumentChunk
		embedding []float32
	}

	embedded := make([]embeddedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return err
		}
		embedded = append(embedded, embeddedChunk{
			chunk: &entity.DocumentChunk{
				Id:         uuid.New(),
				CorpusId:   corpusId,
				Title:      title,
				Content:    chunk,
				ChunkIndex: i,
				CreatedAt:  time.Now(),
			},
			embedding: res.Embedding.Values,
		})
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByCorpusIdAndTitle(ctx, corpusId, title); err != nil {
		return err
	}

	for _, e := range embedded {
		if err := uow.DocumentChunkRepository().Create(ctx, e.chunk, e.embedding); err != nil {
			return err
		}
	}

	return uow.Commit()
}
