package assistant

import (
	"context"
	"fmt"
	"strings"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/pkg/llm"
	"growth-assistant-go/pkg/log"
)

const (
	defaultSystemPrompt = "You are a helpful Salesforce assistant"
	defaultRules        = `- Answer ONLY the user's question
- Be concise and clear
- Use learning materials if relevant
- Mention product name only if applicable
- Do NOT hallucinate data`
	defaultUnavailable = "Sorry, the assistant is temporarily unavailable. Please try again in a moment."
)

// PromptSettings 控制兜底回答的提示词。
type PromptSettings struct {
	System      string
	Rules       string
	Unavailable string
}

// Fallback 在没有领域规则可用时，把目录数据与历史拼进提示词交给模型回答。
type Fallback struct {
	client   llm.Client
	settings PromptSettings
	history  int
}

// NewFallback 创建兜底回答生成器，空字段使用内置默认值。
func NewFallback(client llm.Client, settings PromptSettings, historyTurns int) *Fallback {
	if settings.System == "" {
		settings.System = defaultSystemPrompt
	}
	if settings.Rules == "" {
		settings.Rules = defaultRules
	}
	if settings.Unavailable == "" {
		settings.Unavailable = defaultUnavailable
	}
	if historyTurns <= 0 {
		historyTurns = 10
	}
	return &Fallback{client: client, settings: settings, history: historyTurns}
}

// Reply 调用模型；任何错误都转为致歉文本，绝不返回空回答。
func (f *Fallback) Reply(ctx context.Context, question string, catalog *model.Catalog, session *model.ConversationSession) Reply {
	if f.client == nil {
		return Reply{Text: esc(f.settings.Unavailable), Intent: IntentGeneral}
	}
	prompt := f.BuildPrompt(question, catalog, session)
	answer, err := f.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: f.settings.System,
		Prompt:       prompt,
	})
	if err != nil {
		log.Warnw("[Fallback] completion failed", "error", err)
		return Reply{Text: esc(f.settings.Unavailable), Intent: IntentGeneral}
	}
	text := NormalizeText(answer)
	if text == "" {
		log.Warnw("[Fallback] completion empty after normalization")
		return Reply{Text: esc(f.settings.Unavailable), Intent: IntentGeneral}
	}
	return Reply{Text: toHTML(text), Intent: IntentGeneral}
}

// BuildPrompt 构造发给模型的用户消息，只带上最近 history 轮对话。
func (f *Fallback) BuildPrompt(question string, catalog *model.Catalog, session *model.ConversationSession) string {
	var prev strings.Builder
	for _, t := range session.RecentTurns(f.history) {
		fmt.Fprintf(&prev, "User: %s\nAI: %s\n", t.Question, t.Answer)
	}

	var b strings.Builder
	b.WriteString("You are an AI-powered Salesforce Learning & Growth Assistant.\n\n")
	b.WriteString("Previous Conversation:\n")
	b.WriteString(prev.String())
	b.WriteString("\nEmployee Assigned Products:\n")
	b.WriteString(strings.Join(catalog.Products, ", "))
	b.WriteString("\n\nLearning Materials:\n")
	b.WriteString(joinMaterials(catalog.LearningMaterials))
	b.WriteString("\n\nCertification Vouchers:\n")
	b.WriteString(joinVouchers(catalog.Vouchers))
	b.WriteString("\n\nUser Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nRules:\n")
	b.WriteString(f.settings.Rules)
	return b.String()
}

func joinMaterials(materials []model.LearningMaterial) string {
	parts := make([]string, 0, len(materials))
	for _, m := range materials {
		parts = append(parts, fmt.Sprintf("%s (%s, %s, %s)", m.Name, orDash(m.Product), orDash(m.SkillLevel), orDash(m.MaterialType)))
	}
	return strings.Join(parts, ", ")
}

func joinVouchers(vouchers []model.Voucher) string {
	parts := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		parts = append(parts, fmt.Sprintf("%s (%s, expires %s)", v.Name, orDash(v.Status), orDash(v.ExpiryDate)))
	}
	return strings.Join(parts, ", ")
}
