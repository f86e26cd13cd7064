package assistant

import (
	"strings"

	"growth-assistant-go/internal/model"
)

// FollowUp 是被上一轮澄清问题“接住”的本轮输入。
type FollowUp struct {
	Intent Intent
	// Topic 是触发澄清问题的原始提问。
	Topic string
	Reply string
}

// Query 把原始提问与本轮回答拼成一次完整的查询。
func (f FollowUp) Query() string {
	return strings.TrimSpace(f.Topic + " " + f.Reply)
}

// ResolvePendingFollowUp 检查会话上是否有待回答的澄清问题。
// 有则强制本轮为对应意图，并清除该状态：只记一轮。
func ResolvePendingFollowUp(session *model.ConversationSession, question string) (FollowUp, bool) {
	if session == nil {
		return FollowUp{}, false
	}
	switch session.Pending {
	case model.PendingSkillLevel:
		f := FollowUp{Intent: IntentLearning, Topic: session.PendingTopic, Reply: question}
		session.ClearPending()
		return f, true
	case model.PendingNone:
		return FollowUp{}, false
	default:
		// 未知状态（例如旧版本写入的数据）直接丢弃
		session.ClearPending()
		return FollowUp{}, false
	}
}
