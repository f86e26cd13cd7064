// Package assistant 实现对话核心：意图识别、模糊匹配、追问状态与各领域回答生成。
// 本包不做任何 I/O，除 Fallback 通过注入的 llm.Client 调用模型外均为纯函数。
package assistant

import (
	"sort"
	"strings"

	"growth-assistant-go/internal/config"
)

// Policy 汇总匹配阈值、停用词与产品别名。
type Policy struct {
	FuzzyCutoff     float64
	ProductCutoff   float64
	MaxFuzzyResults int
	ProductAliases  map[string]string
	Stopwords       map[Intent][]string
	HistoryTurns    int
}

var defaultStopwords = map[Intent][]string{
	IntentVoucher: {
		"voucher", "vouchers", "certification", "certifications", "certificate", "exam", "exams",
		"about", "tell", "details", "detail", "status", "what", "which", "show", "expiry", "expire",
		"expires", "when", "does", "have", "code", "please", "with", "info", "information", "there",
		"your", "mine", "give", "know", "want", "need", "check",
	},
	IntentLearning: {
		"learning", "learn", "material", "materials", "course", "courses", "training", "trainings",
		"trailhead", "tell", "about", "show", "what", "the", "for", "and", "any", "all", "list",
		"give", "want", "need", "please", "some", "level", "skill", "beginner", "intermediate",
		"advanced", "are", "there", "have", "you", "can", "get", "find", "recommend", "resources",
		"resource", "with", "my", "am", "on", "of", "to", "in", "is", "me", "available", "which",
		"how", "do", "related", "study", "developer", "developers", "engineer", "consultant",
		"like", "looking", "would", "could", "should", "help", "into", "from", "this", "that",
		"these", "those", "good", "best", "more", "where", "also", "just", "really", "interested",
		"suggest", "something", "anything", "currently", "myself",
	},
	IntentProduct: {
		"describe", "details", "detail", "explain", "overview", "what", "tell", "about", "info",
		"information", "product", "products", "the", "is", "me", "of", "my", "please", "give",
		"can", "you", "an", "a", "on", "assigned", "does", "do",
	},
}

// DefaultPolicy 返回内置阈值：模糊 0.6、产品 0.7、最多 3 个候选。
func DefaultPolicy() Policy {
	return Policy{
		FuzzyCutoff:     0.6,
		ProductCutoff:   0.7,
		MaxFuzzyResults: 3,
		ProductAliases: map[string]string{
			"salesforce administrator": "salesforce admin",
		},
		Stopwords:    copyStopwords(defaultStopwords),
		HistoryTurns: 10,
	}
}

// NewPolicy 以配置覆盖默认值，配置中未出现的项保持默认。
func NewPolicy(m config.MatchingConfig, historyTurns int) Policy {
	p := DefaultPolicy()
	if m.FuzzyCutoff > 0 {
		p.FuzzyCutoff = m.FuzzyCutoff
	}
	if m.ProductCutoff > 0 {
		p.ProductCutoff = m.ProductCutoff
	}
	if m.MaxFuzzyResults > 0 {
		p.MaxFuzzyResults = m.MaxFuzzyResults
	}
	for k, v := range m.ProductAliases {
		p.ProductAliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	for k, words := range m.Stopwords {
		intent := Intent(strings.ToLower(k))
		if len(words) > 0 {
			p.Stopwords[intent] = words
		}
	}
	if historyTurns > 0 {
		p.HistoryTurns = historyTurns
	}
	return p
}

func (p Policy) stopwordSet(intent Intent) map[string]struct{} {
	set := make(map[string]struct{}, len(p.Stopwords[intent]))
	for _, w := range p.Stopwords[intent] {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

type alias struct {
	from, to string
}

// sortedAliases 按长度降序返回别名，长的短语优先替换。
func (p Policy) sortedAliases() []alias {
	out := make([]alias, 0, len(p.ProductAliases))
	for k, v := range p.ProductAliases {
		if k == "" {
			continue
		}
		out = append(out, alias{from: k, to: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].from) != len(out[j].from) {
			return len(out[i].from) > len(out[j].from)
		}
		return out[i].from < out[j].from
	})
	return out
}

func copyStopwords(src map[Intent][]string) map[Intent][]string {
	dst := make(map[Intent][]string, len(src))
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	return dst
}
