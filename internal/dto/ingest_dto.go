package dto

// IngestDocumentRequest submits one corpus document for chunking and
// embedding.
type IngestDocumentRequest struct {
	CorpusId string `json:"corpus_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type IngestDocumentResponse struct {
	Queued bool `json:"queued"`
}

// IngestDocumentMessage is the pipeline payload between publisher and
// consumer.
type IngestDocumentMessage struct {
	CorpusId string `json:"corpus_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}
