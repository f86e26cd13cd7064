// Package model 包含了应用的数据模型定义。
package model

import "strings"

// SkillLevel 表示学习资料的难度等级。
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// SkillLevels 按从易到难的顺序列出所有等级。
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}

// ParseSkillLevel 从任意文本中识别等级关键词（不区分大小写）。
// 多个等级同时出现时按 SkillLevels 的顺序取第一个。
func ParseSkillLevel(text string) (SkillLevel, bool) {
	lower := strings.ToLower(text)
	for _, lvl := range SkillLevels {
		if strings.Contains(lower, strings.ToLower(string(lvl))) {
			return lvl, true
		}
	}
	return "", false
}

// Matches 判断 CRM 中记录的等级字符串是否与该等级一致。
func (l SkillLevel) Matches(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), string(l))
}

// LearningMaterial 对应 CRM 中的 Learning_Material__c 记录。
type LearningMaterial struct {
	Name         string `json:"material" yaml:"material"`
	Product      string `json:"product" yaml:"product"`
	Link         string `json:"link" yaml:"link"`
	SkillLevel   string `json:"skill_level" yaml:"skill_level"`
	MaterialType string `json:"material_type" yaml:"material_type"`
	Description  string `json:"description,omitempty" yaml:"description"`
}

// Voucher 对应 CRM 中的 Certification_Voucher__c 记录。
// 与 Product 之间没有关联关系。
type Voucher struct {
	Name       string `json:"name" yaml:"name"`
	Status     string `json:"status" yaml:"status"`
	Code       string `json:"voucher_code" yaml:"voucher_code"`
	ExpiryDate string `json:"expiry_date" yaml:"expiry_date"`
}

// Catalog 是单次请求内从 CRM 拉取的三类只读数据快照。
type Catalog struct {
	Products          []string           `json:"products" yaml:"products"`
	LearningMaterials []LearningMaterial `json:"learning" yaml:"learning"`
	Vouchers          []Voucher          `json:"vouchers" yaml:"vouchers"`
}
