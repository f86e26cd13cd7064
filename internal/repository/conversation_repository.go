// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"growth-assistant-go/internal/model"
)

// ErrSessionNotFound 表示 Redis 中不存在（或已过期）该会话。
var ErrSessionNotFound = errors.New("session not found")

// ConversationRepository 定义了浏览器会话状态的存取接口。
type ConversationRepository interface {
	GetSession(ctx context.Context, sessionID string) (*model.ConversationSession, error)
	SaveSession(ctx context.Context, session *model.ConversationSession) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type redisConversationRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
	maxTurns    int
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
// maxTurns 限制保存的历史轮数，<=0 表示不限制。
func NewConversationRepository(redisClient *redis.Client, ttl time.Duration, maxTurns int) ConversationRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisConversationRepository{redisClient: redisClient, ttl: ttl, maxTurns: maxTurns}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// GetSession 从 Redis 获取会话。
func (r *redisConversationRepository) GetSession(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var session model.ConversationSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// SaveSession 写回会话并刷新过期时间。
func (r *redisConversationRepository) SaveSession(ctx context.Context, session *model.ConversationSession) error {
	if r.maxTurns > 0 && len(session.ChatHistory) > r.maxTurns {
		session.ChatHistory = session.ChatHistory[len(session.ChatHistory)-r.maxTurns:]
	}
	session.UpdatedAt = time.Now()
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(session.ID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// DeleteSession 删除会话。
func (r *redisConversationRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
