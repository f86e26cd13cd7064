package notify

import (
	"context"

	"growth-assistant-go/pkg/tasks"
)

// ApprovalPublisher 由 kafka.Producer 实现。
type ApprovalPublisher interface {
	PublishVoucherApproval(ctx context.Context, task tasks.VoucherApprovalTask) error
}

// KafkaTransport 把申请作为事件发布到审批 topic。
type KafkaTransport struct {
	publisher ApprovalPublisher
}

// NewKafkaTransport 创建 Kafka 通道；publisher 为 nil 时 Send 返回 ErrNotConfigured。
func NewKafkaTransport(publisher ApprovalPublisher) *KafkaTransport {
	return &KafkaTransport{publisher: publisher}
}

func (t *KafkaTransport) Name() string { return "kafka" }

func (t *KafkaTransport) Send(ctx context.Context, n VoucherNotification) error {
	if t.publisher == nil {
		return ErrNotConfigured
	}
	return t.publisher.PublishVoucherApproval(ctx, tasks.VoucherApprovalTask{
		RequestID:     n.RequestID,
		EmployeeID:    n.EmployeeID,
		EmployeeName:  n.EmployeeName,
		Certification: n.Certification,
		ExpiryDate:    n.ExpiryDate,
		RequestedAt:   n.RequestedAt,
	})
}
