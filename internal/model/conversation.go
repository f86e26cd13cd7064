// Package model 包含了应用的数据模型定义。
package model

import "time"

// ChatTurn 代表一次问答交互，Answer 中可能包含 HTML 片段。
type ChatTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingFollowUp 记录上一轮回答中向用户提出、尚待回答的澄清问题。
type PendingFollowUp string

const (
	PendingNone       PendingFollowUp = ""
	PendingSkillLevel PendingFollowUp = "skill_level"
)

// ConversationSession 是存储在 Redis 中的浏览器会话状态。
type ConversationSession struct {
	ID          string          `json:"id"`
	ChatHistory []ChatTurn      `json:"chat_history"`
	Greeted     bool            `json:"greeted"`
	Pending     PendingFollowUp `json:"pending,omitempty"`
	// PendingTopic 是触发澄清问题的原始提问，下一轮回答时与之合并。
	PendingTopic string    `json:"pending_topic,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AppendTurn 追加一轮对话，保持插入顺序。
func (s *ConversationSession) AppendTurn(turn ChatTurn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	s.ChatHistory = append(s.ChatHistory, turn)
}

// SetPending 记录一个待回答的澄清问题。
func (s *ConversationSession) SetPending(p PendingFollowUp, topic string) {
	s.Pending = p
	s.PendingTopic = topic
}

// ClearPending 清除待回答状态。
func (s *ConversationSession) ClearPending() {
	s.Pending = PendingNone
	s.PendingTopic = ""
}

// RecentTurns 返回最近 n 轮对话；n<=0 时返回全部。nil 会话没有历史。
func (s *ConversationSession) RecentTurns(n int) []ChatTurn {
	if s == nil {
		return nil
	}
	if n <= 0 || len(s.ChatHistory) <= n {
		return s.ChatHistory
	}
	return s.ChatHistory[len(s.ChatHistory)-n:]
}

// ChatLog 是归档到 MySQL 的单条问答记录。
type ChatLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	EmployeeID string    `gorm:"type:varchar(64);index;not null" json:"employeeId"`
	Intent     string    `gorm:"type:varchar(32)" json:"intent"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}
