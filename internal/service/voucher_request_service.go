package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
	"growth-assistant-go/pkg/log"
	"growth-assistant-go/pkg/notify"
)

// OutcomeKind 区分代金券申请的四种结果。
type OutcomeKind string

const (
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeDelivered OutcomeKind = "delivered"
	OutcomeLogged    OutcomeKind = "logged"
	OutcomeFailed    OutcomeKind = "failed"
)

// VoucherOutcome 是一次申请的处理结果，Message 可直接展示给用户。
type VoucherOutcome struct {
	Kind    OutcomeKind    `json:"kind"`
	Message string         `json:"message"`
	Voucher *model.Voucher `json:"voucher,omitempty"`
}

// SubmitVoucherRequest 在员工的代金券中查找认证（不区分大小写的子串匹配），
// 找到则通知审批人，并把三态投递结果映射为不同的确认信息。
func SubmitVoucherRequest(ctx context.Context, notifier notify.Notifier, n notify.VoucherNotification, vouchers []model.Voucher) VoucherOutcome {
	cert := strings.TrimSpace(n.Certification)
	voucher, ok := findVoucher(vouchers, cert)
	if !ok {
		return VoucherOutcome{
			Kind:    OutcomeRejected,
			Message: fmt.Sprintf("No voucher found for '%s'. Please check the certification name and try again.", html.EscapeString(cert)),
		}
	}

	n.Certification = voucher.Name
	n.ExpiryDate = voucher.ExpiryDate
	name := html.EscapeString(voucher.Name)
	expiry := html.EscapeString(voucher.ExpiryDate)

	switch notifier.SendVoucherNotification(ctx, n) {
	case notify.Delivered:
		return VoucherOutcome{
			Kind:    OutcomeDelivered,
			Voucher: &voucher,
			Message: fmt.Sprintf("Your request for <b>%s</b> (expires %s) has been sent to your manager for approval.", name, expiry),
		}
	case notify.Logged:
		return VoucherOutcome{
			Kind:    OutcomeLogged,
			Voucher: &voucher,
			Message: fmt.Sprintf("Your request for <b>%s</b> (expires %s) has been recorded. The notification could not be sent right now, so it was logged for follow-up.", name, expiry),
		}
	default:
		return VoucherOutcome{
			Kind:    OutcomeFailed,
			Voucher: &voucher,
			Message: fmt.Sprintf("Voucher found: <b>%s</b> (expires %s). Request service unavailable, please try again later.", name, expiry),
		}
	}
}

func findVoucher(vouchers []model.Voucher, cert string) (model.Voucher, bool) {
	needle := strings.ToLower(cert)
	if needle == "" {
		return model.Voucher{}, false
	}
	for _, v := range vouchers {
		if strings.Contains(strings.ToLower(v.Name), needle) {
			return v, true
		}
	}
	return model.Voucher{}, false
}

// VoucherRequestService 处理来自申请表单的提交。
type VoucherRequestService interface {
	Submit(ctx context.Context, sessionID, employeeName, certification string) (*VoucherOutcome, error)
	ListRequests(ctx context.Context) ([]model.VoucherRequest, error)
}

type voucherRequestService struct {
	catalogs      CatalogService
	conversations ConversationService
	notifier      notify.Notifier
	requests      repository.VoucherRequestRepository
	employee      model.Employee
}

// NewVoucherRequestService 创建申请服务。requests 可为 nil（不归档）。
func NewVoucherRequestService(catalogs CatalogService, conversations ConversationService, notifier notify.Notifier,
	requests repository.VoucherRequestRepository, employee model.Employee) VoucherRequestService {
	return &voucherRequestService{
		catalogs:      catalogs,
		conversations: conversations,
		notifier:      notifier,
		requests:      requests,
		employee:      employee,
	}
}

// Submit 处理申请，把结果作为一轮对话写入会话历史，并归档申请记录。
func (s *voucherRequestService) Submit(ctx context.Context, sessionID, employeeName, certification string) (*VoucherOutcome, error) {
	name := strings.TrimSpace(employeeName)
	if name == "" {
		name = s.employee.Name
	}
	n := notify.VoucherNotification{
		RequestID:     uuid.NewString(),
		EmployeeID:    s.employee.ID,
		EmployeeName:  name,
		Certification: certification,
		RequestedAt:   time.Now(),
	}

	catalog := s.catalogs.GetCatalog(ctx)
	outcome := SubmitVoucherRequest(ctx, s.notifier, n, catalog.Vouchers)

	if outcome.Voucher != nil && s.requests != nil {
		record := &model.VoucherRequest{
			ID:             n.RequestID,
			EmployeeID:     n.EmployeeID,
			EmployeeName:   name,
			Certification:  outcome.Voucher.Name,
			ExpiryDate:     outcome.Voucher.ExpiryDate,
			DeliveryStatus: string(outcome.Kind),
		}
		if err := s.requests.Create(ctx, record); err != nil {
			log.Errorf("Failed to archive voucher request: %v", err)
		}
	}
	// 申请已提交，CRM 中的代金券状态可能随审批变化
	if outcome.Kind == OutcomeDelivered || outcome.Kind == OutcomeLogged {
		s.catalogs.Invalidate(ctx)
	}

	session, err := s.conversations.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session.AppendTurn(model.ChatTurn{
		Question: fmt.Sprintf("Voucher request: %s", strings.TrimSpace(certification)),
		Answer:   outcome.Message,
	})
	// 表单提交打断了之前的澄清问题
	session.ClearPending()
	if err := s.conversations.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &outcome, nil
}

// ListRequests 返回当前员工提交过的申请。
func (s *voucherRequestService) ListRequests(ctx context.Context) ([]model.VoucherRequest, error) {
	if s.requests == nil {
		return []model.VoucherRequest{}, nil
	}
	return s.requests.FindByEmployee(ctx, s.employee.ID)
}
