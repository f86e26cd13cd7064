package assistant

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	emojiPattern    = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}\x{20E3}]`)
	headingPattern  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	emphasisPattern = regexp.MustCompile("\\*\\*|__|`+")
	bulletPattern   = regexp.MustCompile(`(?m)^[ \t]*[*+][ \t]+`)
	trailingSpace   = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText 去掉模型输出中的 markdown 标记与装饰性符号，并合并多余空行。
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = emojiPattern.ReplaceAllString(s, "")
	s = headingPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "- ")
	s = trailingSpace.ReplaceAllString(s, "")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// toHTML 转义纯文本并把换行渲染为 <br>。
func toHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// esc 是 html.EscapeString 的简写，用于拼接回答中的动态字段。
func esc(s string) string {
	return html.EscapeString(s)
}

// tokenize 小写化并按非字母数字切分。
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '&'
	})
}

// extractKeywords 返回长度大于 minLen 且不在停用词表中的词，保持出现顺序并去重。
func extractKeywords(text string, stop map[string]struct{}, minLen int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		if len([]rune(tok)) <= minLen {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func containsAny(lower string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasToken(text string, words ...string) bool {
	for _, tok := range tokenize(text) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
