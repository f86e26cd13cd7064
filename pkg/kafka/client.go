// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"growth-assistant-go/internal/config"
	"growth-assistant-go/pkg/log"
	"growth-assistant-go/pkg/tasks"
)

// ErrNoBrokers 表示没有配置任何 broker。
var ErrNoBrokers = errors.New("kafka: no brokers configured")

// Producer 把代金券申请事件写入 Kafka。
type Producer struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewProducer 初始化 Kafka 生产者。brokers 以逗号分隔。
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	var brokers []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: timeout,
			MaxAttempts:  3,
		},
		timeout: timeout,
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return p, nil
}

// PublishVoucherApproval 发送一个代金券审批任务，以员工 ID 作为消息 key。
func (p *Producer) PublishVoucherApproval(ctx context.Context, task tasks.VoucherApprovalTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.EmployeeID),
		Value: taskBytes,
		Time:  task.RequestedAt,
	})
}

// Close 刷新并关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}
