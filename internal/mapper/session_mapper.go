package mapper

import (
	"iot-support-be/internal/entity"
	"iot-support-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:             s.Id,
		UserId:         s.UserId,
		Language:       s.Language,
		State:          entity.SessionState(s.State),
		QuestionCount:  s.QuestionCount,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:             s.Id,
		UserId:         s.UserId,
		Language:       s.Language,
		State:          string(s.State),
		QuestionCount:  s.QuestionCount,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

// Message mappers

func (m *SessionMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Text:      msg.Text,
		ProductId: msg.ProductId,
		Ordinal:   msg.Ordinal,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *SessionMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Text:      msg.Text,
		ProductId: msg.ProductId,
		Ordinal:   msg.Ordinal,
		CreatedAt: msg.CreatedAt,
	}
}

// Feedback mappers

func (m *SessionMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:        f.Id,
		SessionId: f.SessionId,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}

func (m *SessionMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:        f.Id,
		SessionId: f.SessionId,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}
