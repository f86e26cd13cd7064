package assistant

import "strings"

// Intent 是问题所属的领域意图。
type Intent string

const (
	IntentVoucher  Intent = "voucher"
	IntentLearning Intent = "learning"
	IntentProduct  Intent = "product"
	IntentGeneral  Intent = "general"
)

var (
	voucherTriggers  = []string{"voucher", "certification", "exam"}
	learningTriggers = []string{"learning", "material", "course", "training", "trailhead"}
	productTriggers  = []string{"product"}
)

// Classify 按优先级 voucher > learning > product 做关键词判断，均未命中时为 general。
func Classify(question string) Intent {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, voucherTriggers...):
		return IntentVoucher
	case containsAny(q, learningTriggers...):
		return IntentLearning
	case containsAny(q, productTriggers...):
		return IntentProduct
	default:
		return IntentGeneral
	}
}
