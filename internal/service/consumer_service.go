package service

import (
	"context"
	"encoding/json"
	"time"

	"iot-support-be/internal/config"
	"iot-support-be/internal/dto"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/repository/unitofwork"
	"iot-support-be/pkg/embedding"
	"iot-support-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService drains the ingestion topic: chunk, embed, store.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	cfg               config.SupportConfig
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	cfg config.SupportConfig,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		cfg:               cfg,
		logger:            logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ingest", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ingest", "processing document", map[string]interface{}{
		"corpus_id": payload.CorpusId,
		"title":     payload.Title,
	})

	chunks := utils.SplitText(payload.Content, cs.cfg.ChunkSize, cs.cfg.ChunkOverlap)

	type embeddedChunk struct {
		chunk     *entity.DocumentChunk
		embedding []float32
	}

	embedded := make([]embeddedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.logger.Error("ingest", "embedding failed", map[string]interface{}{
				"corpus_id":   payload.CorpusId,
				"chunk_index": i,
				"error":       err.Error(),
			})
			msg.Nack() // Retriable
			return
		}

		embedded = append(embedded, embeddedChunk{
			chunk: &entity.DocumentChunk{
				Id:         uuid.New(),
				CorpusId:   payload.CorpusId,
				Title:      payload.Title,
				Content:    chunk,
				ChunkIndex: i,
				CreatedAt:  time.Now(),
			},
			embedding: res.Embedding.Values,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ingest", "failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByCorpusIdAndTitle(ctx, payload.CorpusId, payload.Title); err != nil {
		cs.logger.Error("ingest", "failed to clear previous chunks", map[string]interface{}{
			"corpus_id": payload.CorpusId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	for _, e := range embedded {
		if err := uow.DocumentChunkRepository().Create(ctx, e.chunk, e.embedding); err != nil {
			cs.logger.Error("ingest", "failed to store chunk", map[string]interface{}{
				"corpus_id":   payload.CorpusId,
				"chunk_index": e.chunk.ChunkIndex,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ingest", "failed to commit", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("ingest", "document indexed", map[string]interface{}{
		"corpus_id": payload.CorpusId,
		"title":     payload.Title,
		"chunks":    len(embedded),
	})
	msg.Ack()
}
