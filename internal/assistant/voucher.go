package assistant

import (
	"fmt"
	"strings"

	"growth-assistant-go/internal/model"
)

// ActionShowVoucherForm 通知前端展示代金券申请表单。
const ActionShowVoucherForm = "show_voucher_form"

const (
	MsgVoucherForm     = "Please fill in the voucher request form below."
	MsgNoVouchers      = "You have no available certification vouchers."
	MsgSpecifyVoucher  = "Please specify one."
	MsgWhichVoucher    = "Which certification voucher are you looking for?"
	MsgNoLearning      = "You have no learning materials assigned."
	MsgSkillPrompt     = "What is your skill level? (Beginner / Intermediate / Advanced)"
	MsgNoDescription   = "No description available for this product."
	MsgNoProducts      = "You have no assigned products."
	msgNoLearningFound = "No learning materials found for '%s'."
)

// Reply 是一轮回答。Action 非空时前端需执行额外的界面动作。
type Reply struct {
	Text    string
	Action  string
	Intent  Intent
	Pending model.PendingFollowUp
}

var (
	voucherApplyWords = []string{"apply", "applying", "request", "requesting", "form", "submit"}
	voucherListWords  = []string{"all", "available", "list", "everything"}
)

// VoucherReply 回答与认证代金券相关的问题。
func VoucherReply(question string, vouchers []model.Voucher, p Policy) Reply {
	lower := strings.ToLower(question)

	if hasToken(lower, voucherApplyWords...) {
		return Reply{Text: MsgVoucherForm, Action: ActionShowVoucherForm, Intent: IntentVoucher}
	}
	if len(vouchers) == 0 {
		return Reply{Text: MsgNoVouchers, Intent: IntentVoucher}
	}
	if hasToken(lower, voucherListWords...) || strings.Contains(lower, "show all") {
		return Reply{Text: listVouchers(vouchers), Intent: IntentVoucher}
	}

	keywords := extractKeywords(question, p.stopwordSet(IntentVoucher), 3)
	matches := Match(vouchers, voucherName, keywords, p.FuzzyCutoff, p.MaxFuzzyResults)
	switch {
	case len(matches) == 1:
		return Reply{Text: voucherDetail(matches[0]), Intent: IntentVoucher}
	case len(matches) > 1:
		var b strings.Builder
		b.WriteString("I found several matching vouchers:")
		for _, v := range matches {
			b.WriteString("<br>• ")
			b.WriteString(esc(v.Name))
		}
		b.WriteString("<br>")
		b.WriteString(MsgSpecifyVoucher)
		return Reply{Text: b.String(), Intent: IntentVoucher}
	case containsAny(lower, "voucher", "certification"):
		return Reply{Text: listVouchers(vouchers), Intent: IntentVoucher}
	default:
		return Reply{Text: MsgWhichVoucher, Intent: IntentVoucher}
	}
}

func voucherName(v model.Voucher) string { return v.Name }

func listVouchers(vouchers []model.Voucher) string {
	var b strings.Builder
	b.WriteString("Here are your certification vouchers:")
	for _, v := range vouchers {
		fmt.Fprintf(&b, "<br>• %s (Status: %s, Expires: %s)", esc(v.Name), esc(orDash(v.Status)), esc(orDash(v.ExpiryDate)))
	}
	return b.String()
}

func voucherDetail(v model.Voucher) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>Status: %s<br>Expiry Date: %s", esc(v.Name), esc(orDash(v.Status)), esc(orDash(v.ExpiryDate)))
	if v.Code != "" {
		fmt.Fprintf(&b, "<br>Voucher Code: %s", esc(v.Code))
	}
	return b.String()
}
