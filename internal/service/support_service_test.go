package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"iot-support-be/internal/apperr"
	"iot-support-be/internal/config"
	"iot-support-be/internal/constant"
	"iot-support-be/internal/dto"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/contract"
	"iot-support-be/internal/repository/memory"
	"iot-support-be/internal/repository/specification"
	"iot-support-be/internal/repository/unitofwork"
	"iot-support-be/pkg/catalog"
	"iot-support-be/pkg/feedback"
	"iot-support-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test doubles ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// memStore is the in-memory backing for the fake repositories.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	messages []*entity.Message
	feedback map[uuid.UUID]*entity.Feedback
	products map[uuid.UUID]*entity.Product
	experts  map[uuid.UUID]*entity.ExpertContact
	general  *entity.ExpertContact
	chunkCount   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
		feedback: make(map[uuid.UUID]*entity.Feedback),
		products: make(map[uuid.UUID]*entity.Product),
		experts:  make(map[uuid.UUID]*entity.ExpertContact),
	}
}

type memUow struct{ store *memStore }

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) UserRepository() contract.UserRepository       { return &memUserRepo{u.store} }
func (u *memUow) SessionRepository() contract.SessionRepository { return &memSessionRepo{u.store} }
func (u *memUow) MessageRepository() contract.MessageRepository { return &memMessageRepo{u.store} }
func (u *memUow) FeedbackRepository() contract.FeedbackRepository {
	return &memFeedbackRepo{u.store}
}
func (u *memUow) ProductRepository() contract.ProductRepository { return &memProductRepo{u.store} }
func (u *memUow) ExpertRepository() contract.ExpertRepository   { return &memExpertRepo{u.store} }
func (u *memUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &memChunkRepo{u.store}
}

type memUowFactory struct{ store *memStore }

func (f *memUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *user
	r.store.users[user.Id] = &c
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.store.users[s.ID]; ok {
				c := *u
				return &c, nil
			}
			return nil, nil
		case specification.ByEmailPhone:
			for _, u := range r.store.users {
				if u.Email == s.Email && u.Phone == s.Phone {
					c := *u
					return &c, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *session
	r.store.sessions[session.Id] = &c
	return nil
}

func (r *memSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	return r.Create(ctx, session)
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if found, ok := r.store.sessions[s.ID]; ok {
				c := *found
				return &c, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Session
	for _, s := range r.store.sessions {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.sessions)), nil
}

type memMessageRepo struct{ store *memStore }

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.messages {
		if m.SessionId == message.SessionId && m.Ordinal == message.Ordinal {
			return fmt.Errorf("duplicate ordinal %d for session %s", message.Ordinal, message.SessionId)
		}
	}
	c := *message
	r.store.messages = append(r.store.messages, &c)
	return nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessionId *uuid.UUID
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			id := s.SessionID
			sessionId = &id
		}
	}
	var out []*entity.Message
	for _, m := range r.store.messages {
		if sessionId == nil || m.SessionId == *sessionId {
			c := *m
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *memMessageRepo) NextOrdinal(ctx context.Context, sessionId uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, m := range r.store.messages {
		if m.SessionId == sessionId && m.Ordinal > max {
			max = m.Ordinal
		}
	}
	return max + 1, nil
}

func (r *memMessageRepo) LastProductId(ctx context.Context, sessionId uuid.UUID) (*uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var best *entity.Message
	for _, m := range r.store.messages {
		if m.SessionId == sessionId && m.Role == constant.ChatMessageRoleAssistant && m.ProductId != nil {
			if best == nil || m.Ordinal > best.Ordinal {
				best = m
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	id := *best.ProductId
	return &id, nil
}

type memFeedbackRepo struct{ store *memStore }

func (r *memFeedbackRepo) Create(ctx context.Context, fb *entity.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.feedback[fb.SessionId]; exists {
		return fmt.Errorf("feedback already recorded for session %s", fb.SessionId)
	}
	c := *fb
	r.store.feedback[fb.SessionId] = &c
	return nil
}

func (r *memFeedbackRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			if fb, ok := r.store.feedback[s.SessionID]; ok {
				c := *fb
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *memFeedbackRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.feedback)), nil
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *product
	r.store.products[product.Id] = &c
	return nil
}

func (r *memProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if p, ok := r.store.products[s.ID]; ok {
				c := *p
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *memProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		c := *p
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.products)), nil
}

type memExpertRepo struct{ store *memStore }

func (r *memExpertRepo) Create(ctx context.Context, expert *entity.ExpertContact) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *expert
	r.store.experts[expert.Id] = &c
	return nil
}

func (r *memExpertRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExpertContact, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if e, ok := r.store.experts[s.ID]; ok {
				c := *e
				return &c, nil
			}
		case specification.GeneralExpertsOnly:
			if r.store.general != nil {
				c := *r.store.general
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *memExpertRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExpertContact, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ExpertContact
	for _, e := range r.store.experts {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (r *memExpertRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.experts)), nil
}

type memChunkRepo struct{ store *memStore }

func (r *memChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk, embedding []float32) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.chunkCount++
	return nil
}

func (r *memChunkRepo) DeleteByCorpusId(ctx context.Context, corpusId string) error { return nil }
func (r *memChunkRepo) DeleteByCorpusIdAndTitle(ctx context.Context, corpusId, title string) error {
	return nil
}

func (r *memChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.chunkCount, nil
}

func (r *memChunkRepo) SearchSimilarWithScore(ctx context.Context, corpusIds []string, embedding []float32, limit int, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	return nil, nil
}

type fakeEngine struct {
	result *rag.AnswerResult
	err    error
	inputs []rag.AnswerInput
}

func (f *fakeEngine) Answer(ctx context.Context, in rag.AnswerInput) (*rag.AnswerResult, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCatalog struct{ products []*entity.Product }

func (f *fakeCatalog) Products(ctx context.Context) ([]*entity.Product, error) {
	return f.products, nil
}
func (f *fakeCatalog) Invalidate(ctx context.Context) error { return nil }
func (f *fakeCatalog) Ping(ctx context.Context) error       { return nil }

type fakeMailer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeMailer) SendHandoffNotice(expertEmail, expertName, sessionId, productName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, expertEmail)
	return nil
}

// --- Fixture ---

type fixture struct {
	service ISupportService
	store   *memStore
	engine  *fakeEngine
	mailer  *fakeMailer
	product *entity.Product
	expert  *entity.ExpertContact
	general *entity.ExpertContact
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()

	expert := &entity.ExpertContact{
		Id:    uuid.New(),
		Name:  "Lisa Wong",
		Email: "lisa.wong@example.com",
		Phone: "+60123456789",
	}
	general := &entity.ExpertContact{
		Id:        uuid.New(),
		Name:      "Sarah Johnson",
		Title:     "Senior Technical Lead",
		Email:     "sarah.johnson@example.com",
		Phone:     "+60198765432",
		IsGeneral: true,
	}
	store.experts[expert.Id] = expert
	store.experts[general.Id] = general
	store.general = general

	product := &entity.Product{
		Id:       uuid.New(),
		Name:     "Smart Thermostat",
		CorpusId: "corpus-thermostat",
		ExpertId: expert.Id,
		Keywords: []string{"thermostat", "temperature"},
	}
	store.products[product.Id] = product

	engine := &fakeEngine{result: &rag.AnswerResult{
		Text:       "Mount the unit on an interior wall.",
		Product:    product,
		Route:      catalog.RouteMatched,
		Confidence: 0.42,
		Generated:  true,
	}}

	factory := &memUowFactory{store: store}
	mail := &fakeMailer{}
	manager := feedback.NewManager(&memProductRepo{store}, &memExpertRepo{store}, nopLogger{})

	cfg := config.SupportConfig{
		TurnLimit:          3,
		SupportedLanguages: []string{"en", "ms"},
		GenerationTimeout:  5 * time.Second,
		RetrievalTopK:      5,
		SessionIdleTimeout: time.Hour,
	}

	svc := NewSupportService(
		factory,
		engine,
		manager,
		&fakeCatalog{products: []*entity.Product{product}},
		memory.NewSessionGuard(),
		nil,
		mail,
		nopLogger{},
		cfg,
	)

	return &fixture{
		service: svc,
		store:   store,
		engine:  engine,
		mailer:  mail,
		product: product,
		expert:  expert,
		general: general,
	}
}

func (f *fixture) register(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.service.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Phone:    "+60112223334",
		Language: "en",
	})
	require.NoError(t, err)
	return res.SessionId
}

// --- Tests ---

func TestRegisterCreatesUserAndSession(t *testing.T) {
	f := newFixture(t)

	res, err := f.service.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Phone:    "+60112223334",
		Language: "ms",
	})
	require.NoError(t, err)
	assert.Equal(t, "ms", res.Language)

	session := f.store.sessions[res.SessionId]
	require.NotNil(t, session)
	assert.Equal(t, entity.SessionStateActive, session.State)
	assert.Equal(t, 0, session.QuestionCount)
	assert.Equal(t, "ms", session.Language)
	assert.Len(t, f.store.users, 1)
}

func TestRegisterReturningUserFallsBackToStoredLanguage(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	// Same identity, no language this time.
	res, err := f.service.Register(context.Background(), &dto.RegisterRequest{
		Email: "jane@example.com",
		Phone: "+60112223334",
	})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Language)
	assert.Len(t, f.store.users, 1, "register must upsert, not duplicate, the user")
	assert.Len(t, f.store.sessions, 2, "each registration opens a fresh session")
}

func TestRegisterNewUserRequiresLanguage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), &dto.RegisterRequest{
		Email: "new@example.com",
		Phone: "+60112223334",
	})
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, f.store.sessions, "validation failure must create nothing")
	assert.Empty(t, f.store.users)
}

func TestRegisterRejectsUnsupportedLanguage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Phone:    "+60112223334",
		Language: "fr",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestChatPersistsTurnAtomically(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "how do I install the thermostat?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Mount the unit on an interior wall.", res.Answer)
	assert.Equal(t, 1, res.QuestionCount)
	assert.False(t, res.Terminated)
	require.NotNil(t, res.Product)
	assert.Equal(t, f.product.Id, res.Product.Id)

	messages, _ := (&memMessageRepo{f.store}).FindAll(context.Background(), specification.BySessionID{SessionID: sessionId})
	require.Len(t, messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, 1, messages[0].Ordinal)
	assert.Equal(t, constant.ChatMessageRoleAssistant, messages[1].Role)
	assert.Equal(t, 2, messages[1].Ordinal)
	require.NotNil(t, messages[1].ProductId)
	assert.Equal(t, f.product.Id, *messages[1].ProductId)
}

func TestChatCounterIsMonotonicAndGapless(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	for turn := 1; turn <= 3; turn++ {
		res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
			SessionId: sessionId,
			Query:     fmt.Sprintf("question %d", turn),
		})
		require.NoError(t, err)
		assert.Equal(t, turn, res.QuestionCount)
	}

	messages, _ := (&memMessageRepo{f.store}).FindAll(context.Background(), specification.BySessionID{SessionID: sessionId})
	require.Len(t, messages, 6)
	for i, m := range messages {
		assert.Equal(t, i+1, m.Ordinal, "ordinals must be gapless")
	}
}

func TestChatReachingTurnLimitRequestsFeedback(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	var last *dto.ChatResponse
	for turn := 1; turn <= 3; turn++ {
		res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
			SessionId: sessionId,
			Query:     "thermostat question",
		})
		require.NoError(t, err)
		last = res
	}

	assert.True(t, last.Terminated, "limit turn must carry the termination flag")
	assert.NotEmpty(t, last.Notice, "final answer is delivered together with the notice")
	assert.Equal(t, entity.SessionStateFeedbackPending, f.store.sessions[sessionId].State)

	// No further chat opportunity in this session.
	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "one more",
	})
	assert.True(t, apperr.IsSessionClosed(err))
}

func TestChatEngineFailureConsumesNothing(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	f.engine.err = &apperr.GenerationFailedError{Cause: errors.New("model offline")}

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "thermostat question",
	})
	require.True(t, apperr.IsGenerationFailed(err))

	// Nothing persisted: no orphaned user message, counter untouched.
	messages, _ := (&memMessageRepo{f.store}).FindAll(context.Background(), specification.BySessionID{SessionID: sessionId})
	assert.Empty(t, messages)
	assert.Equal(t, 0, f.store.sessions[sessionId].QuestionCount)
	assert.Equal(t, entity.SessionStateActive, f.store.sessions[sessionId].State)

	// The retried turn starts clean.
	f.engine.err = nil
	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "thermostat question",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.QuestionCount)
}

func TestChatTerminatedSessionRejected(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	f.store.sessions[sessionId].State = entity.SessionStateTerminated

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "hello again",
	})
	assert.True(t, apperr.IsSessionClosed(err))
}

func TestChatUnknownSessionRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: uuid.New(),
		Query:     "hello",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestChatIdleSessionIsExpired(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	f.store.sessions[sessionId].LastActivityAt = time.Now().Add(-2 * time.Hour)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		SessionId: sessionId,
		Query:     "still there?",
	})
	assert.True(t, apperr.IsSessionClosed(err))
	assert.Equal(t, entity.SessionStateTerminated, f.store.sessions[sessionId].State)
}

func TestChatHistoryPassedToEngine(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{SessionId: sessionId, Query: "first"})
	require.NoError(t, err)
	_, err = f.service.Chat(context.Background(), &dto.ChatRequest{SessionId: sessionId, Query: "second"})
	require.NoError(t, err)

	require.Len(t, f.engine.inputs, 2)
	assert.Empty(t, f.engine.inputs[0].History)
	require.Len(t, f.engine.inputs[1].History, 2)
	assert.Equal(t, "first", f.engine.inputs[1].History[0].Content)
}

func drainTurns(t *testing.T, f *fixture, sessionId uuid.UUID) {
	t.Helper()
	for turn := 0; turn < 3; turn++ {
		_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
			SessionId: sessionId,
			Query:     "thermostat question",
		})
		require.NoError(t, err)
	}
}

func TestChatExitMovesToFeedbackWithoutConsumingTurn(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{SessionId: sessionId, Query: "thermostat question"})
	require.NoError(t, err)

	f.engine.result = &rag.AnswerResult{
		Text:  "Thanks for chatting with us! Before you go, was this conversation helpful? (satisfied / not_satisfied / skipped)",
		Route: catalog.RouteExit,
	}
	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{SessionId: sessionId, Query: "bye"})
	require.NoError(t, err)

	assert.True(t, res.Terminated)
	assert.Equal(t, 1, res.QuestionCount, "an exit command is not a question")
	assert.Empty(t, res.Notice, "the exit answer already asks for feedback")
	assert.Equal(t, entity.SessionStateFeedbackPending, f.store.sessions[sessionId].State)

	// The session now accepts exactly one rating.
	fb, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingSatisfied,
	})
	require.NoError(t, err)
	require.NotNil(t, fb.ExpertContact)
}

func TestSubmitFeedbackSkippedStoredVerbatim(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	drainTurns(t, f, sessionId)

	res, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingSkipped,
	})
	require.NoError(t, err)

	require.NotNil(t, res.ExpertContact, "every rating returns the expert contact")
	assert.Equal(t, f.expert.Name, res.ExpertContact.Name)
	assert.Empty(t, f.mailer.calls, "skip must not trigger a handoff email")
	require.NotNil(t, f.store.feedback[sessionId])
	assert.Equal(t, constant.FeedbackRatingSkipped, f.store.feedback[sessionId].Rating)
	assert.Equal(t, entity.SessionStateTerminated, f.store.sessions[sessionId].State)
}

func TestSubmitFeedbackSkipAliasWithoutProductReturnsGeneralExpert(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	// Turns that never resolved a product.
	f.engine.result = &rag.AnswerResult{Text: "general answer", Route: catalog.RouteNoMatch, Generated: true}
	drainTurns(t, f, sessionId)

	res, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    "skip",
	})
	require.NoError(t, err)

	require.NotNil(t, res.ExpertContact)
	assert.Equal(t, f.general.Name, res.ExpertContact.Name)
	assert.Empty(t, f.mailer.calls)
	require.NotNil(t, f.store.feedback[sessionId])
	assert.Equal(t, constant.FeedbackRatingSkipped, f.store.feedback[sessionId].Rating, "alias normalized before persisting")
}

func TestSubmitFeedbackSatisfiedReturnsExpertWithoutEmail(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	drainTurns(t, f, sessionId)

	res, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingSatisfied,
	})
	require.NoError(t, err)

	require.NotNil(t, res.ExpertContact)
	assert.Equal(t, f.expert.Name, res.ExpertContact.Name)
	assert.Empty(t, f.mailer.calls, "only not_satisfied notifies the expert")
}

func TestSubmitFeedbackIsOneShot(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	drainTurns(t, f, sessionId)

	_, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingSatisfied,
	})
	require.NoError(t, err)

	_, err = f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingNotSatisfied,
	})
	assert.True(t, apperr.IsSessionClosed(err), "second submission must be rejected")
	assert.Equal(t, constant.FeedbackRatingSatisfied, f.store.feedback[sessionId].Rating)
}

func TestSubmitFeedbackNotSatisfiedHandsOffToProductExpert(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	drainTurns(t, f, sessionId)

	res, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingNotSatisfied,
	})
	require.NoError(t, err)

	require.NotNil(t, res.ExpertContact)
	assert.Equal(t, f.expert.Name, res.ExpertContact.Name, "last matched product's expert wins")
	assert.NotEmpty(t, res.ExpertDetails)
	assert.Equal(t, []string{f.expert.Email}, f.mailer.calls, "handoff email goes to the expert")
}

func TestSubmitFeedbackWithoutProductUsesGeneralExpert(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	// Turns that never resolved a product.
	f.engine.result = &rag.AnswerResult{Text: "general answer", Route: catalog.RouteNoMatch, Generated: true}
	drainTurns(t, f, sessionId)

	res, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingNotSatisfied,
	})
	require.NoError(t, err)

	require.NotNil(t, res.ExpertContact)
	assert.Equal(t, f.general.Name, res.ExpertContact.Name)
}

func TestSubmitFeedbackOnActiveSessionRejected(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)

	_, err := f.service.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		SessionId: sessionId,
		Rating:    constant.FeedbackRatingSatisfied,
	})
	assert.True(t, apperr.IsSessionClosed(err))
	assert.Nil(t, f.store.feedback[sessionId])
}

func TestStatusReportsCollaborators(t *testing.T) {
	f := newFixture(t)
	f.store.chunkCount = 12

	res, err := f.service.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, res.PersistenceOk)
	assert.True(t, res.RetrievalOk)
	assert.True(t, res.CacheOk)
	assert.Equal(t, int64(12), res.ChunkCount)
}

func TestGetSessionHistoryOrdered(t *testing.T) {
	f := newFixture(t)
	sessionId := f.register(t)
	drainTurns(t, f, sessionId)

	res, err := f.service.GetSessionHistory(context.Background(), sessionId)
	require.NoError(t, err)

	assert.Equal(t, string(entity.SessionStateFeedbackPending), res.State)
	require.Len(t, res.Messages, 6)
	for i, m := range res.Messages {
		assert.Equal(t, i+1, m.Ordinal)
	}
}
