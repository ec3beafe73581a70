package service

import (
	"context"
	"fmt"
	"time"

	"iot-support-be/internal/apperr"
	"iot-support-be/internal/config"
	"iot-support-be/internal/constant"
	"iot-support-be/internal/dto"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/pkg/mailer"
	"iot-support-be/internal/repository/cache"
	"iot-support-be/internal/repository/memory"
	"iot-support-be/internal/repository/specification"
	"iot-support-be/internal/repository/unitofwork"
	"iot-support-be/pkg/catalog"
	"iot-support-be/pkg/events"
	"iot-support-be/pkg/feedback"
	"iot-support-be/pkg/llm"
	"iot-support-be/pkg/rag"

	"github.com/google/uuid"
)

// ISupportService is the session state machine: registration, bounded chat
// turns, one-shot feedback and session inspection.
type ISupportService interface {
	Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	SubmitFeedback(ctx context.Context, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	Status(ctx context.Context) (*dto.StatusResponse, error)
	GetSessionHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
}

// AnswerEngine is what the service needs from the conversation engine.
type AnswerEngine interface {
	Answer(ctx context.Context, in rag.AnswerInput) (*rag.AnswerResult, error)
}

// EventPublisher decouples the service from the NATS client so a missing
// broker degrades to a warning, not a failure.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type supportService struct {
	uowFactory      unitofwork.RepositoryFactory
	engine          AnswerEngine
	feedbackManager *feedback.Manager
	catalog         cache.CatalogProvider
	sessionGuard    *memory.SessionGuard
	eventPublisher  EventPublisher
	emailService    mailer.IEmailService
	logger          logger.ILogger
	cfg             config.SupportConfig
}

func NewSupportService(
	uowFactory unitofwork.RepositoryFactory,
	engine AnswerEngine,
	feedbackManager *feedback.Manager,
	catalog cache.CatalogProvider,
	sessionGuard *memory.SessionGuard,
	eventPublisher EventPublisher,
	emailService mailer.IEmailService,
	logger logger.ILogger,
	cfg config.SupportConfig,
) ISupportService {
	return &supportService{
		uowFactory:      uowFactory,
		engine:          engine,
		feedbackManager: feedbackManager,
		catalog:         catalog,
		sessionGuard:    sessionGuard,
		eventPublisher:  eventPublisher,
		emailService:    emailService,
		logger:          logger,
		cfg:             cfg,
	}
}

// Register validates identity and language, upserts the user by
// (email, phone) and opens a fresh active session. Nothing is created when
// validation fails.
func (s *supportService) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmailPhone{
		Email: request.Email,
		Phone: request.Phone,
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "register: find user", Cause: err}
	}

	language, err := s.resolveLanguage(request.Language, existing)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, &apperr.PersistenceError{Op: "register: begin", Cause: err}
	}
	defer uow.Rollback()

	now := time.Now()

	user := existing
	if user == nil {
		user = &entity.User{
			Id:        uuid.New(),
			Email:     request.Email,
			Phone:     request.Phone,
			Language:  language,
			CreatedAt: now,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, &apperr.PersistenceError{Op: "register: create user", Cause: err}
		}
	} else if user.Language != language {
		user.Language = language
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, &apperr.PersistenceError{Op: "register: update user", Cause: err}
		}
	}

	session := &entity.Session{
		Id:             uuid.New(),
		UserId:         user.Id,
		Language:       language,
		State:          entity.SessionStateActive,
		QuestionCount:  0,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, &apperr.PersistenceError{Op: "register: create session", Cause: err}
	}

	if err := uow.Commit(); err != nil {
		return nil, &apperr.PersistenceError{Op: "register: commit", Cause: err}
	}

	s.publishEvent(ctx, events.NewSessionCreated(session.Id, user.Id, language))
	s.logger.Info("support", "session registered", map[string]interface{}{
		"session_id": session.Id.String(),
		"language":   language,
	})

	return &dto.RegisterResponse{
		SessionId: session.Id,
		Language:  language,
	}, nil
}

func (s *supportService) resolveLanguage(requested string, existing *entity.User) (string, error) {
	if requested == "" {
		if existing != nil && !s.cfg.RequireLanguageReselect && existing.Language != "" {
			return existing.Language, nil
		}
		return "", &apperr.ValidationError{Field: "language", Reason: "language selection is required"}
	}

	for _, supported := range s.cfg.SupportedLanguages {
		if requested == supported {
			return requested, nil
		}
	}
	return "", &apperr.ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", requested)}
}

// Chat runs one bounded turn. The engine is consulted before the turn
// transaction opens, so a failed generation leaves no orphaned user message
// and does not consume the turn.
func (s *supportService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	release := s.sessionGuard.Lock(request.SessionId.String())
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.loadSessionForTurn(ctx, uow, request.SessionId)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: load catalog", Cause: err}
	}

	history, err := s.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: load history", Cause: err}
	}

	result, err := s.engine.Answer(ctx, rag.AnswerInput{
		Language: session.Language,
		Query:    request.Query,
		Products: products,
		History:  history,
	})
	if err != nil {
		// State untouched: the turn was not consumed.
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: begin", Cause: err}
	}
	defer uow.Rollback()

	ordinal, err := uow.MessageRepository().NextOrdinal(ctx, session.Id)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: next ordinal", Cause: err}
	}

	now := time.Now()

	var productId *uuid.UUID
	if result.Product != nil {
		id := result.Product.Id
		productId = &id
	}

	userMessage := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.ChatMessageRoleUser,
		Text:      request.Query,
		Ordinal:   ordinal,
		CreatedAt: now,
	}
	if err := uow.MessageRepository().Create(ctx, userMessage); err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: persist user message", Cause: err}
	}

	assistantMessage := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.ChatMessageRoleAssistant,
		Text:      result.Text,
		ProductId: productId,
		Ordinal:   ordinal + 1,
		CreatedAt: now,
	}
	if err := uow.MessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: persist assistant message", Cause: err}
	}

	var terminated bool
	if result.Route == catalog.RouteExit {
		// An exit command does not count as a question; the session moves
		// straight to the feedback phase.
		terminated = true
		session.State = entity.SessionStateFeedbackPending
	} else {
		session.QuestionCount++
		terminated = session.QuestionCount >= s.cfg.TurnLimit
		if terminated {
			session.State = entity.SessionStateFeedbackPending
		}
	}
	session.LastActivityAt = now
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: update session", Cause: err}
	}

	if err := uow.Commit(); err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: commit", Cause: err}
	}

	response := &dto.ChatResponse{
		Answer:        result.Text,
		Confidence:    result.Confidence,
		QuestionCount: session.QuestionCount,
		Terminated:    terminated,
	}
	if result.Product != nil {
		response.Product = &dto.ChatProduct{
			Id:   result.Product.Id,
			Name: result.Product.Name,
		}
	}
	if terminated && result.Route != catalog.RouteExit {
		// The exit response already asks for feedback in its own words.
		response.Notice = s.terminationNotice(session.Language)
	}

	return response, nil
}

func (s *supportService) loadSessionForTurn(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "chat: find session", Cause: err}
	}
	if session == nil {
		return nil, &apperr.ValidationError{Field: "session_id", Reason: "session not found"}
	}

	if !session.IsActive() {
		return nil, &apperr.SessionClosedError{SessionId: session.Id, State: string(session.State)}
	}

	if s.cfg.SessionIdleTimeout > 0 && time.Since(session.LastActivityAt) > s.cfg.SessionIdleTimeout {
		if err := s.expireSession(ctx, session); err != nil {
			return nil, err
		}
		return nil, &apperr.SessionClosedError{SessionId: session.Id, State: string(entity.SessionStateTerminated)}
	}

	return session, nil
}

// expireSession closes a session that sat idle past the configured window.
func (s *supportService) expireSession(ctx context.Context, session *entity.Session) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return &apperr.PersistenceError{Op: "expire session: begin", Cause: err}
	}
	defer uow.Rollback()

	session.State = entity.SessionStateTerminated
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return &apperr.PersistenceError{Op: "expire session: update", Cause: err}
	}
	if err := uow.Commit(); err != nil {
		return &apperr.PersistenceError{Op: "expire session: commit", Cause: err}
	}

	s.sessionGuard.Forget(session.Id.String())
	s.publishEvent(ctx, events.NewSessionTerminated(session.Id, "idle_timeout", session.QuestionCount))
	return nil
}

func (s *supportService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{
			Role:    m.Role,
			Content: m.Text,
		})
	}
	return history, nil
}

func (s *supportService) terminationNotice(language string) string {
	if language == constant.LanguageMalay {
		return fmt.Sprintf(
			"Anda telah mencapai had %d soalan untuk sesi ini. Adakah perbualan ini membantu? (satisfied / not_satisfied / skipped)",
			s.cfg.TurnLimit,
		)
	}
	return fmt.Sprintf(
		"You have reached the limit of %d questions for this session. Was this conversation helpful? (satisfied / not_satisfied / skipped)",
		s.cfg.TurnLimit,
	)
}

// SubmitFeedback accepts exactly one rating for a session awaiting feedback
// and terminates it. The rating is stored verbatim, including skipped.
func (s *supportService) SubmitFeedback(ctx context.Context, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	request.Rating = constant.NormalizeRating(request.Rating)

	release := s.sessionGuard.Lock(request.SessionId.String())
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: request.SessionId})
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: find session", Cause: err}
	}
	if session == nil {
		return nil, &apperr.ValidationError{Field: "session_id", Reason: "session not found"}
	}
	if session.State != entity.SessionStateFeedbackPending {
		return nil, &apperr.SessionClosedError{SessionId: session.Id, State: string(session.State)}
	}

	productId, err := uow.MessageRepository().LastProductId(ctx, session.Id)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: last product", Cause: err}
	}

	outcome, err := s.feedbackManager.Resolve(ctx, request.Rating, session.Language, productId)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: resolve expert", Cause: err}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: begin", Cause: err}
	}
	defer uow.Rollback()

	record := &entity.Feedback{
		Id:        uuid.New(),
		SessionId: session.Id,
		Rating:    request.Rating,
		CreatedAt: time.Now(),
	}
	if err := uow.FeedbackRepository().Create(ctx, record); err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: persist rating", Cause: err}
	}

	session.State = entity.SessionStateTerminated
	session.LastActivityAt = time.Now()
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: update session", Cause: err}
	}

	if err := uow.Commit(); err != nil {
		return nil, &apperr.PersistenceError{Op: "feedback: commit", Cause: err}
	}

	s.sessionGuard.Forget(session.Id.String())
	s.publishEvent(ctx, events.NewFeedbackSubmitted(session.Id, request.Rating))
	s.publishEvent(ctx, events.NewSessionTerminated(session.Id, "feedback", session.QuestionCount))

	// The contact is returned for every rating; the handoff email only goes
	// out when the user was actually unsatisfied.
	if outcome.Expert != nil && request.Rating == constant.FeedbackRatingNotSatisfied {
		s.notifyExpert(ctx, uow, session, outcome.Expert, productId)
	}

	response := &dto.FeedbackResponse{
		Title:         outcome.Template.Title,
		Message:       outcome.Template.Message,
		ExpertDetails: outcome.ExpertContact,
	}
	if outcome.Expert != nil {
		response.ExpertContact = &dto.ExpertContactResponse{
			Name:        outcome.Expert.Name,
			Title:       outcome.Expert.Title,
			Email:       outcome.Expert.Email,
			Phone:       outcome.Expert.Phone,
			Specialties: outcome.Expert.Specialties,
		}
	}

	return response, nil
}

func (s *supportService) notifyExpert(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, expert *entity.ExpertContact, productId *uuid.UUID) {
	productName := "General enquiry"
	if productId != nil {
		product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: *productId})
		if err == nil && product != nil {
			productName = product.Name
		}
	}

	if err := s.emailService.SendHandoffNotice(expert.Email, expert.Name, session.Id.String(), productName); err != nil {
		s.logger.Warn("support", "expert handoff email failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"expert":     expert.Email,
			"error":      err.Error(),
		})
		return
	}

	s.publishEvent(ctx, events.NewExpertHandoff(session.Id, expert.Name, expert.Email))
}

// Status reports collaborator health: database reachability, corpus index
// presence and cache reachability.
func (s *supportService) Status(ctx context.Context) (*dto.StatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	response := &dto.StatusResponse{}

	if _, err := uow.SessionRepository().Count(ctx); err == nil {
		response.PersistenceOk = true
	}

	chunkCount, err := uow.DocumentChunkRepository().Count(ctx)
	if err == nil {
		response.RetrievalOk = chunkCount > 0
		response.ChunkCount = chunkCount
	}

	if err := s.catalog.Ping(ctx); err == nil {
		response.CacheOk = true
	}

	return response, nil
}

// GetSessionHistory returns the ordered transcript of one session.
func (s *supportService) GetSessionHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "history: find session", Cause: err}
	}
	if session == nil {
		return nil, &apperr.ValidationError{Field: "session_id", Reason: "session not found"}
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "history: load messages", Cause: err}
	}

	response := &dto.SessionHistoryResponse{
		SessionId:     session.Id,
		State:         string(session.State),
		Language:      session.Language,
		QuestionCount: session.QuestionCount,
		Messages:      make([]dto.HistoryMessage, 0, len(messages)),
	}
	for _, m := range messages {
		response.Messages = append(response.Messages, dto.HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			ProductId: m.ProductId,
			Ordinal:   m.Ordinal,
			CreatedAt: m.CreatedAt,
		})
	}

	return response, nil
}

func (s *supportService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("support", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
