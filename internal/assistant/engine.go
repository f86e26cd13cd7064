package assistant

import (
	"context"
	"strings"

	"growth-assistant-go/internal/model"
)

// Engine 负责单轮对话的控制流：追问状态 → 意图识别 → 领域回答 → 兜底。
type Engine struct {
	policy   Policy
	resolver *ProductResolver
	fallback *Fallback
}

// NewEngine 创建对话引擎。
func NewEngine(policy Policy, fallback *Fallback) *Engine {
	if fallback == nil {
		fallback = NewFallback(nil, PromptSettings{}, policy.HistoryTurns)
	}
	return &Engine{
		policy:   policy,
		resolver: NewProductResolver(policy),
		fallback: fallback,
	}
}

// Respond 计算一轮回答，并在会话上更新追问状态；对话历史由调用方在拿到完整回答后追加。
// 空问题不产生回答，返回 false。
func (e *Engine) Respond(ctx context.Context, question string, catalog *model.Catalog, session *model.ConversationSession) (Reply, bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, false
	}
	if catalog == nil {
		catalog = &model.Catalog{}
	}

	var reply Reply
	if f, ok := ResolvePendingFollowUp(session, question); ok {
		reply = LearningReply(f.Query(), catalog.LearningMaterials, e.policy, true)
	} else {
		reply = e.route(ctx, question, catalog, session)
	}

	if reply.Pending != model.PendingNone && session != nil {
		session.SetPending(reply.Pending, question)
	}
	return reply, true
}

func (e *Engine) route(ctx context.Context, question string, catalog *model.Catalog, session *model.ConversationSession) Reply {
	switch Classify(question) {
	case IntentVoucher:
		return VoucherReply(question, catalog.Vouchers, e.policy)
	case IntentLearning:
		return LearningReply(question, catalog.LearningMaterials, e.policy, false)
	case IntentProduct:
		return ProductReply(question, catalog, e.resolver, e.policy)
	}

	// general：问题直接提到了目录中的条目时优先走领域回答
	if _, ok := e.resolver.MentionedIn(catalog.Products, question); ok {
		return DescribeProduct(question, catalog, e.resolver, e.policy)
	}
	if MentionsMaterial(question, catalog.LearningMaterials, e.policy) {
		return LearningReply(question, catalog.LearningMaterials, e.policy, false)
	}

	return e.fallback.Reply(ctx, question, catalog, session)
}
