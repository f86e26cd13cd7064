package service

import (
	"context"
	"fmt"
	"time"

	"growth-assistant-go/internal/assistant"
	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
	"growth-assistant-go/pkg/crm"
	"growth-assistant-go/pkg/log"
)

// TurnResult 是一轮对话对外返回的结果。
type TurnResult struct {
	Answer   string `json:"answer"`
	Action   string `json:"action,omitempty"`
	Intent   string `json:"intent,omitempty"`
	Answered bool   `json:"-"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	// Ask 处理一轮提问：空问题不产生新的对话轮次。
	Ask(ctx context.Context, sessionID, question string) (*TurnResult, error)
	// History 返回会话中的全部对话。
	History(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
}

type chatService struct {
	engine        *assistant.Engine
	catalogs      CatalogService
	conversations ConversationService
	chatLogs      repository.ChatLogRepository
	crmClient     crm.Client
	employeeID    string
}

// NewChatService 创建一个新的 ChatService 实例。chatLogs 与 crmClient 可为 nil。
func NewChatService(engine *assistant.Engine, catalogs CatalogService, conversations ConversationService,
	chatLogs repository.ChatLogRepository, crmClient crm.Client, employeeID string) ChatService {
	return &chatService{
		engine:        engine,
		catalogs:      catalogs,
		conversations: conversations,
		chatLogs:      chatLogs,
		crmClient:     crmClient,
		employeeID:    employeeID,
	}
}

func (s *chatService) Ask(ctx context.Context, sessionID, question string) (*TurnResult, error) {
	session, err := s.conversations.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	catalog := s.catalogs.GetCatalog(ctx)
	reply, ok := s.engine.Respond(ctx, question, catalog, session)
	if !ok {
		return &TurnResult{Answered: false}, nil
	}

	// 完整回答生成之后才写入历史
	session.AppendTurn(model.ChatTurn{
		Question:  question,
		Answer:    reply.Text,
		Action:    reply.Action,
		Timestamp: time.Now(),
	})
	if err := s.conversations.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.archive(ctx, sessionID, question, reply)

	return &TurnResult{
		Answer:   reply.Text,
		Action:   reply.Action,
		Intent:   string(reply.Intent),
		Answered: true,
	}, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	session, err := s.conversations.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.ChatHistory, nil
}

// archive 把问答写入 MySQL 与 CRM 的 Chat_Log__c，失败只记录日志，不影响本轮回答。
func (s *chatService) archive(ctx context.Context, sessionID, question string, reply assistant.Reply) {
	if s.chatLogs != nil {
		entry := &model.ChatLog{
			SessionID:  sessionID,
			EmployeeID: s.employeeID,
			Intent:     string(reply.Intent),
			Question:   question,
			Answer:     reply.Text,
		}
		if err := s.chatLogs.Create(ctx, entry); err != nil {
			log.Errorf("Failed to archive chat turn: %v", err)
		}
	}
	if s.crmClient != nil {
		err := s.crmClient.AppendChatLog(ctx, crm.ChatLogEntry{
			EmployeeID: s.employeeID,
			Question:   question,
			Answer:     reply.Text,
			Intent:     string(reply.Intent),
		})
		if err != nil {
			log.Warnw("[ChatService] failed to append CRM chat log", "error", err)
		}
	}
}
