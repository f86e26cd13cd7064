package assistant

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Match 在目录中查找名称匹配关键词的条目。
// 先做子串匹配，任一关键词命中即保留；只有子串全部落空时才退回到模糊匹配，
// 把关键词拼成一个短语与所有名称比较相似度，取不低于 cutoff 的前 limit 个名称。
func Match[T any](items []T, nameOf func(T) string, keywords []string, cutoff float64, limit int) []T {
	if hits := matchSubstring(items, nameOf, keywords); len(hits) > 0 {
		return hits
	}
	return matchFuzzy(items, nameOf, keywords, cutoff, limit)
}

func matchSubstring[T any](items []T, nameOf func(T) string, keywords []string) []T {
	var out []T
	for _, item := range items {
		name := strings.ToLower(nameOf(item))
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(name, kw) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func matchFuzzy[T any](items []T, nameOf func(T) string, keywords []string, cutoff float64, limit int) []T {
	phrase := strings.ToLower(strings.TrimSpace(strings.Join(keywords, " ")))
	if phrase == "" || len(items) == 0 {
		return nil
	}
	names := make([]string, 0, len(items))
	seen := make(map[string]struct{})
	for _, item := range items {
		name := strings.ToLower(nameOf(item))
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	best := closeMatches(phrase, names, limit, cutoff)
	if len(best) == 0 {
		return nil
	}
	rank := make(map[string]int, len(best))
	for i, n := range best {
		rank[n] = i
	}
	var out []T
	for _, item := range items {
		if _, ok := rank[strings.ToLower(nameOf(item))]; ok {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[strings.ToLower(nameOf(out[i]))] < rank[strings.ToLower(nameOf(out[j]))]
	})
	return out
}

type scored struct {
	name  string
	score float64
}

// closeMatches 返回与 word 相似度不低于 cutoff 的至多 n 个候选，按得分降序。
func closeMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}
	var hits []scored
	for _, c := range candidates {
		if s := similarity(c, word); s >= cutoff {
			hits = append(hits, scored{name: c, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name > hits[j].name
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

// similarity 计算两个字符串的 SequenceMatcher ratio，取值 [0, 1]。
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
