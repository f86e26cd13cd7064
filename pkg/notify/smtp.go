package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"growth-assistant-go/internal/config"
)

// SMTPTransport 通过邮件通知审批人。
type SMTPTransport struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

// NewSMTPTransport 创建邮件通道；凭据缺失时 Send 返回 ErrNotConfigured。
func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPTransport{cfg: cfg, timeout: timeout}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) configured() bool {
	return t.cfg.Host != "" && t.cfg.Username != "" && t.cfg.Password != "" && t.cfg.To != ""
}

// Send 在服务器支持时升级 STARTTLS，再用 PLAIN 认证发送；未加密的连接只允许发往本机。
func (t *SMTPTransport) Send(ctx context.Context, n VoucherNotification) error {
	if !t.configured() {
		return ErrNotConfigured
	}
	msg, err := t.message(n)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(t.cfg.Host,
		mail.WithPort(t.cfg.Port),
		mail.WithTimeout(t.timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}
	return nil
}

func (t *SMTPTransport) recipients() []string {
	var out []string
	for _, r := range strings.Split(t.cfg.To, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// message 组装审批邮件。非 ASCII 的头部按 RFC 2047 编码。
func (t *SMTPTransport) message(n VoucherNotification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(t.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from %q: %w", t.cfg.From, err)
	}
	if err := msg.To(t.recipients()...); err != nil {
		return nil, fmt.Errorf("smtp to %q: %w", t.cfg.To, err)
	}
	msg.Subject("Certification voucher request: " + singleLine(n.Certification))
	msg.SetDateWithValue(n.RequestedAt)
	msg.SetMessageID()

	var b strings.Builder
	fmt.Fprintf(&b, "Employee: %s (%s)\r\n", n.EmployeeName, n.EmployeeID)
	fmt.Fprintf(&b, "Certification: %s\r\n", n.Certification)
	fmt.Fprintf(&b, "Voucher expiry: %s\r\n", n.ExpiryDate)
	fmt.Fprintf(&b, "Request ID: %s\r\n", n.RequestID)
	msg.SetBodyString(mail.TypeTextPlain, b.String())
	return msg, nil
}

func singleLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
