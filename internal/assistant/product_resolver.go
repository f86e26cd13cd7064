package assistant

import (
	"regexp"
	"strings"
)

var (
	productJunk  = regexp.MustCompile(`[^a-z0-9&\s]+`)
	multiSpace   = regexp.MustCompile(`\s+`)
	andConnector = regexp.MustCompile(`\band\b`)
)

// ProductResolver 把用户提到的产品名解析为员工已分配产品中的一个。
type ProductResolver struct {
	aliases []alias
	cutoff  float64
}

// NewProductResolver 根据策略构建解析器。
func NewProductResolver(p Policy) *ProductResolver {
	return &ProductResolver{
		aliases: p.sortedAliases(),
		cutoff:  p.ProductCutoff,
	}
}

// Normalize 小写化、去掉字母数字与 & 以外的字符、把 and 统一为 &，再应用别名表。
func (r *ProductResolver) Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "'", "")
	s = productJunk.ReplaceAllString(s, " ")
	s = andConnector.ReplaceAllString(s, "&")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	if s == "" {
		return s
	}
	padded := " " + s + " "
	for _, a := range r.aliases {
		padded = strings.ReplaceAll(padded, " "+a.from+" ", " "+a.to+" ")
	}
	return strings.TrimSpace(multiSpace.ReplaceAllString(padded, " "))
}

// Resolve 依次尝试：规范化后精确匹配、规范化后模糊匹配（单个最佳）、
// 原始名称上的关键词子串匹配（多个候选时取规范化形式最相似者）。
func (r *ProductResolver) Resolve(products []string, query string) (string, bool) {
	q := r.Normalize(query)
	if q == "" || len(products) == 0 {
		return "", false
	}

	byNorm := make(map[string]string, len(products))
	norms := make([]string, 0, len(products))
	for _, p := range products {
		n := r.Normalize(p)
		if _, dup := byNorm[n]; dup || n == "" {
			continue
		}
		byNorm[n] = p
		norms = append(norms, n)
	}

	if raw, ok := byNorm[q]; ok {
		return raw, true
	}

	if best := closeMatches(q, norms, 1, r.cutoff); len(best) == 1 {
		return byNorm[best[0]], true
	}

	var tokens []string
	for _, tok := range tokenize(query) {
		if len([]rune(tok)) > 2 {
			tokens = append(tokens, tok)
		}
	}
	candidates := matchSubstring(products, func(p string) string { return p }, tokens)
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	}
	best, bestScore := candidates[0], -1.0
	for _, c := range candidates {
		if s := similarity(r.Normalize(c), q); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

// MentionedIn 返回规范化后完整出现在问题中的产品（按目录顺序取第一个）。
func (r *ProductResolver) MentionedIn(products []string, question string) (string, bool) {
	q := " " + r.Normalize(question) + " "
	for _, p := range products {
		n := r.Normalize(p)
		if n != "" && strings.Contains(q, " "+n+" ") {
			return p, true
		}
	}
	return "", false
}
