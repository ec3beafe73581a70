package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"iot-support-be/internal/apperr"
	"iot-support-be/internal/constant"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/pkg/catalog"
	"iot-support-be/pkg/llm"
	"iot-support-be/pkg/rag/prompt"
	"iot-support-be/pkg/retrieval"
)

// AnswerInput carries everything one turn needs: the session language, the
// user's query, the product catalog and the recent conversation history.
type AnswerInput struct {
	Language string
	Query    string
	Products []*entity.Product
	History  []llm.Message
}

// AnswerResult is the structured outcome of a turn: the answer text plus
// routing metadata. Product is nil unless routing resolved a single product.
type AnswerResult struct {
	Text       string
	Product    *entity.Product
	Route      catalog.RouteKind
	Confidence float64
	Generated  bool
}

// Engine orchestrates one conversation turn: route the query, retrieve
// passages for the resolved corpus, assemble the language-constrained
// bundle and invoke the model. Listing and ambiguous turns are synthesized
// locally without touching retrieval or generation.
type Engine struct {
	router      *catalog.Router
	retriever   retrieval.Retriever
	llmProvider llm.LLMProvider
	timeout     time.Duration
	logger      logger.ILogger
}

func NewEngine(
	router *catalog.Router,
	retriever retrieval.Retriever,
	llmProvider llm.LLMProvider,
	timeout time.Duration,
	logger logger.ILogger,
) *Engine {
	return &Engine{
		router:      router,
		retriever:   retriever,
		llmProvider: llmProvider,
		timeout:     timeout,
		logger:      logger,
	}
}

// Answer produces the assistant response for one turn. Failures of the
// retrieval or generation collaborators come back as GenerationFailedError;
// the caller decides what that means for session state.
func (e *Engine) Answer(ctx context.Context, in AnswerInput) (*AnswerResult, error) {
	route := e.router.Route(in.Query, in.Products)

	switch route.Kind {
	case catalog.RouteExit:
		return &AnswerResult{
			Text:       buildExitResponse(in.Language),
			Route:      route.Kind,
			Confidence: route.Confidence,
		}, nil

	case catalog.RouteListing:
		return &AnswerResult{
			Text:       buildListingResponse(in.Products, in.Language),
			Route:      route.Kind,
			Confidence: route.Confidence,
		}, nil

	case catalog.RouteAmbiguous:
		return &AnswerResult{
			Text:       buildDisambiguationResponse(route.Candidates, in.Language),
			Route:      route.Kind,
			Confidence: route.Confidence,
		}, nil

	case catalog.RouteMatched:
		passages, err := e.retriever.Retrieve(ctx, []string{route.Product.CorpusId}, in.Query)
		if err != nil {
			return nil, &apperr.GenerationFailedError{Cause: err}
		}

		text, err := e.generate(ctx, in, passages)
		if err != nil {
			return nil, err
		}

		return &AnswerResult{
			Text:       text,
			Product:    route.Product,
			Route:      route.Kind,
			Confidence: route.Confidence,
			Generated:  true,
		}, nil

	default: // RouteNoMatch
		// No corpus to search; the model answers from the system prompt
		// alone and states what it cannot help with.
		text, err := e.generate(ctx, in, nil)
		if err != nil {
			return nil, err
		}

		return &AnswerResult{
			Text:      text,
			Route:     route.Kind,
			Generated: true,
		}, nil
	}
}

func (e *Engine) generate(ctx context.Context, in AnswerInput, passages []retrieval.Passage) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	messages := prompt.NewBuilder(in.Language, in.Query, passages, in.History).Build()

	text, err := e.llmProvider.Chat(genCtx, messages)
	if err != nil {
		e.logger.Error("rag", "generation call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", &apperr.GenerationFailedError{
			Cause: &apperr.GenerationUnavailableError{Cause: err},
		}
	}

	return strings.TrimSpace(text), nil
}

func buildExitResponse(language string) string {
	if language == constant.LanguageMalay {
		return "Terima kasih kerana menghubungi kami! Sebelum anda pergi, adakah perbualan ini membantu? (satisfied / not_satisfied / skipped)"
	}
	return "Thanks for chatting with us! Before you go, was this conversation helpful? (satisfied / not_satisfied / skipped)"
}

func buildListingResponse(products []*entity.Product, language string) string {
	ordered := make([]*entity.Product, len(products))
	copy(ordered, products)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var sb strings.Builder

	if language == constant.LanguageMalay {
		sb.WriteString("Berikut ialah semua produk IoT kami:\n\n")
	} else {
		sb.WriteString("Here are all our IoT products:\n\n")
	}

	for _, p := range ordered {
		sb.WriteString(fmt.Sprintf("• **%s**: %s\n", p.Name, p.Description))
	}

	if language == constant.LanguageMalay {
		sb.WriteString("\nAnda boleh bertanya soalan khusus tentang mana-mana produk ini!")
	} else {
		sb.WriteString("\nYou can ask me specific questions about any of these products!")
	}

	return sb.String()
}

func buildDisambiguationResponse(candidates []*entity.Product, language string) string {
	var sb strings.Builder

	if language == constant.LanguageMalay {
		sb.WriteString("Soalan anda mungkin berkaitan dengan lebih daripada satu produk:\n\n")
	} else {
		sb.WriteString("Your question could relate to more than one product:\n\n")
	}

	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("• **%s**\n", c.Name))
	}

	if language == constant.LanguageMalay {
		sb.WriteString("\nProduk yang manakah anda maksudkan?")
	} else {
		sb.WriteString("\nWhich product do you mean?")
	}

	return sb.String()
}
