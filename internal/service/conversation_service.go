// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
)

// ConversationService 定义了会话状态的业务逻辑。
type ConversationService interface {
	// NewSessionID 生成一个新的会话 ID。
	NewSessionID() string
	// Load 读取会话；不存在时返回一个空的新会话（尚未保存）。
	Load(ctx context.Context, sessionID string) (*model.ConversationSession, error)
	Save(ctx context.Context, session *model.ConversationSession) error
	// ConsumeGreeting 返回本会话是否还需要显示欢迎语，并把它标记为已显示。
	ConsumeGreeting(ctx context.Context, sessionID string) (bool, *model.ConversationSession, error)
	// Clear 删除会话：历史、追问状态与欢迎语标记一起清空。
	Clear(ctx context.Context, sessionID string) error
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

func (s *conversationService) NewSessionID() string {
	return uuid.NewString()
}

func (s *conversationService) Load(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return &model.ConversationSession{ID: sessionID, ChatHistory: []model.ChatTurn{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *conversationService) Save(ctx context.Context, session *model.ConversationSession) error {
	return s.repo.SaveSession(ctx, session)
}

func (s *conversationService) ConsumeGreeting(ctx context.Context, sessionID string) (bool, *model.ConversationSession, error) {
	session, err := s.Load(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	if session.Greeted {
		return false, session, nil
	}
	session.Greeted = true
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return false, nil, err
	}
	return true, session, nil
}

func (s *conversationService) Clear(ctx context.Context, sessionID string) error {
	return s.repo.DeleteSession(ctx, sessionID)
}
