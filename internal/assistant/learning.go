package assistant

import (
	"fmt"
	"strings"

	"growth-assistant-go/internal/model"
)

// LearningReply 回答学习资料相关的问题。
// 没有识别到等级时先追问等级；followUp 为 true 表示本轮就是对该追问的回答，
// 此时若仍无等级则不再追问，直接列出全部资料及其等级。
func LearningReply(question string, materials []model.LearningMaterial, p Policy, followUp bool) Reply {
	if len(materials) == 0 {
		return Reply{Text: MsgNoLearning, Intent: IntentLearning}
	}

	skill, ok := model.ParseSkillLevel(question)
	if !ok {
		if followUp {
			return Reply{Text: listMaterials("Here are all available learning materials:", materials), Intent: IntentLearning}
		}
		return Reply{Text: MsgSkillPrompt, Intent: IntentLearning, Pending: model.PendingSkillLevel}
	}

	keywords := extractKeywords(question, p.stopwordSet(IntentLearning), 2)
	if len(keywords) == 0 {
		return Reply{Text: materialsAtLevel(materials, skill), Intent: IntentLearning}
	}

	matches := matchAllKeywords(materials, keywords)
	if len(matches) == 0 {
		matches = matchFuzzy(materials, materialName, keywords, p.FuzzyCutoff, 1)
	}
	if len(matches) == 0 {
		return Reply{Text: fmt.Sprintf(msgNoLearningFound, esc(strings.Join(keywords, " "))), Intent: IntentLearning}
	}

	var exact []model.LearningMaterial
	for _, m := range matches {
		if skill.Matches(m.SkillLevel) {
			exact = append(exact, m)
		}
	}
	if len(exact) == 0 {
		return Reply{Text: unavailableLevel(matches, skill), Intent: IntentLearning}
	}

	details := make([]string, 0, len(exact))
	for _, m := range exact {
		details = append(details, materialDetail(m))
	}
	return Reply{Text: strings.Join(details, "<br><br>"), Intent: IntentLearning}
}

// MentionsMaterial 判断问题是否点名了某个学习资料：完整名称出现在问题中，
// 或至少两个关键词落在同一个资料名称里。单个常见词（如 "basics"）不算。
func MentionsMaterial(question string, materials []model.LearningMaterial, p Policy) bool {
	q := " " + strings.Join(tokenize(question), " ") + " "
	keywords := extractKeywords(question, p.stopwordSet(IntentLearning), 2)
	for _, m := range materials {
		name := strings.Join(tokenize(m.Name), " ")
		if name == "" {
			continue
		}
		if strings.Contains(q, " "+name+" ") {
			return true
		}
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(strings.ToLower(m.Name), kw) {
				hits++
			}
		}
		if hits >= 2 {
			return true
		}
	}
	return false
}

func materialName(m model.LearningMaterial) string { return m.Name }

// matchAllKeywords 返回名称同时包含全部关键词的资料。
func matchAllKeywords(materials []model.LearningMaterial, keywords []string) []model.LearningMaterial {
	var out []model.LearningMaterial
	for _, m := range materials {
		name := strings.ToLower(m.Name)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(name, kw) {
				all = false
				break
			}
		}
		if all {
			out = append(out, m)
		}
	}
	return out
}

func materialsAtLevel(materials []model.LearningMaterial, skill model.SkillLevel) string {
	var at []model.LearningMaterial
	for _, m := range materials {
		if skill.Matches(m.SkillLevel) {
			at = append(at, m)
		}
	}
	if len(at) == 0 {
		return fmt.Sprintf("No %s learning materials are available. Available levels: %s.", skill, esc(strings.Join(availableLevels(materials), ", ")))
	}
	return listMaterials(fmt.Sprintf("Here are the %s learning materials:", skill), at)
}

func unavailableLevel(matches []model.LearningMaterial, skill model.SkillLevel) string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, "'"+esc(m.Name)+"'")
	}
	return fmt.Sprintf("%s is not available at the %s level. Available levels: %s.",
		strings.Join(names, ", "), skill, esc(strings.Join(availableLevels(matches), ", ")))
}

// availableLevels 按 Beginner/Intermediate/Advanced 排序，CRM 中的其他取值追加在后。
func availableLevels(materials []model.LearningMaterial) []string {
	var out []string
	for _, lvl := range model.SkillLevels {
		for _, m := range materials {
			if lvl.Matches(m.SkillLevel) {
				out = append(out, string(lvl))
				break
			}
		}
	}
	seen := make(map[string]struct{})
	for _, m := range materials {
		raw := strings.TrimSpace(m.SkillLevel)
		if raw == "" {
			continue
		}
		if _, known := model.ParseSkillLevel(raw); known {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

func listMaterials(header string, materials []model.LearningMaterial) string {
	var b strings.Builder
	b.WriteString(header)
	for _, m := range materials {
		fmt.Fprintf(&b, "<br>• %s (%s, %s, %s) %s",
			esc(m.Name), esc(orDash(m.Product)), esc(orDash(m.SkillLevel)), esc(orDash(m.MaterialType)), linkHTML(m.Link))
	}
	return b.String()
}

func materialDetail(m model.LearningMaterial) string {
	return fmt.Sprintf("<b>%s</b><br>Product: %s<br>Skill Level: %s<br>Type: %s<br>Link: %s",
		esc(m.Name), esc(orDash(m.Product)), esc(orDash(m.SkillLevel)), esc(orDash(m.MaterialType)), linkHTML(m.Link))
}

// linkHTML 只把 http(s) 链接渲染为超链接。
func linkHTML(link string) string {
	link = strings.TrimSpace(link)
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, esc(link), esc(link))
	}
	return esc(orDash(link))
}
