// Package notify 负责把代金券申请通知给审批人：优先走配置的通道（SMTP 或 Kafka），
// 通道失败时写入本地追加日志，保证申请不会被静默丢弃。
package notify

import (
	"context"
	"errors"
	"time"

	"growth-assistant-go/pkg/log"
)

// ErrNotConfigured 表示通道缺少必要配置（例如没有凭据），此时不会降级到本地日志。
var ErrNotConfigured = errors.New("notify: transport not configured")

// Status 是一次通知的投递结果。
type Status string

const (
	Delivered Status = "delivered"
	Logged    Status = "logged"
	Failed    Status = "failed"
)

// VoucherNotification 是一次代金券申请的通知内容。
type VoucherNotification struct {
	RequestID     string    `json:"request_id"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	Certification string    `json:"certification"`
	ExpiryDate    string    `json:"expiry_date"`
	RequestedAt   time.Time `json:"requested_at"`
}

// Transport 是一种具体的投递通道。
type Transport interface {
	Name() string
	Send(ctx context.Context, n VoucherNotification) error
}

// Recorder 在通道失败时持久化通知。
type Recorder interface {
	Record(n VoucherNotification, transport string, cause error) error
}

// Notifier 定义了上层使用的通知接口。
type Notifier interface {
	SendVoucherNotification(ctx context.Context, n VoucherNotification) Status
}

type dispatcher struct {
	transport Transport
	recorder  Recorder
}

// NewNotifier 组合投递通道与本地追加日志。transport 为 nil 表示未配置任何通道。
func NewNotifier(transport Transport, recorder Recorder) Notifier {
	return &dispatcher{transport: transport, recorder: recorder}
}

// SendVoucherNotification 投递通知并返回三态结果，从不返回错误。
func (d *dispatcher) SendVoucherNotification(ctx context.Context, n VoucherNotification) Status {
	if n.RequestedAt.IsZero() {
		n.RequestedAt = time.Now()
	}
	if d.transport == nil {
		log.Warnw("[Notify] no transport configured", "certification", n.Certification)
		return Failed
	}

	err := d.transport.Send(ctx, n)
	if err == nil {
		log.Infow("[Notify] voucher request delivered", "transport", d.transport.Name(), "request_id", n.RequestID)
		return Delivered
	}
	if errors.Is(err, ErrNotConfigured) {
		log.Warnw("[Notify] transport not configured", "transport", d.transport.Name(), "error", err)
		return Failed
	}

	log.Warnw("[Notify] delivery failed, writing to local ledger", "transport", d.transport.Name(), "error", err)
	if d.recorder == nil {
		return Failed
	}
	if recErr := d.recorder.Record(n, d.transport.Name(), err); recErr != nil {
		log.Error("[Notify] failed to write voucher request ledger", recErr)
		return Failed
	}
	return Logged
}
