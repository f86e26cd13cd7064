package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"growth-assistant-go/internal/config"
)

// Ledger 是按大小轮转的 JSON 追加日志，每行一条未能投递的申请。
type Ledger struct {
	core zapcore.Core
	sink *lumberjack.Logger
}

// NewLedger 根据配置创建本地追加日志。
func NewLedger(cfg config.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("notify: ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("notify: creating ledger directory: %w", err)
	}
	sink := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(sink), zap.InfoLevel)
	return &Ledger{core: core, sink: sink}, nil
}

// Record 写入一行记录；写入或刷盘失败时返回错误。
func (l *Ledger) Record(n VoucherNotification, transport string, cause error) error {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	entry := zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Now(),
		Message: "voucher request pending delivery",
	}
	fields := []zap.Field{
		zap.String("request_id", n.RequestID),
		zap.String("employee_id", n.EmployeeID),
		zap.String("employee_name", n.EmployeeName),
		zap.String("certification", n.Certification),
		zap.String("expiry_date", n.ExpiryDate),
		zap.Time("requested_at", n.RequestedAt),
		zap.String("transport", transport),
		zap.String("reason", reason),
	}
	if err := l.core.Write(entry, fields); err != nil {
		return fmt.Errorf("notify: writing ledger: %w", err)
	}
	return l.core.Sync()
}

// Close 关闭底层文件。
func (l *Ledger) Close() error {
	return l.sink.Close()
}
