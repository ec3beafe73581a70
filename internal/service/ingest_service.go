package service

import (
	"context"
	"encoding/json"

	"iot-support-be/internal/dto"
	"iot-support-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IIngestService queues corpus documents for asynchronous chunking and
// embedding.
type IIngestService interface {
	IngestDocument(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

type ingestService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewIngestService(topicName string, pubSub *gochannel.GoChannel, logger logger.ILogger) IIngestService {
	return &ingestService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    logger,
	}
}

func (s *ingestService) IngestDocument(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	payload, err := json.Marshal(dto.IngestDocumentMessage{
		CorpusId: request.CorpusId,
		Title:    request.Title,
		Content:  request.Content,
	})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		return nil, err
	}

	s.logger.Info("ingest", "document queued", map[string]interface{}{
		"corpus_id": request.CorpusId,
		"title":     request.Title,
		"size":      len(request.Content),
	})

	return &dto.IngestDocumentResponse{Queued: true}, nil
}
