package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer 封装 kafka-go 的 Writer，按 key 哈希分区保证同一用户的任务有序。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建生产者。
// RequiredAcks 取 RequireOne：置脏/衰减任务可以容忍极端情况下的少量丢失，
// 由下一轮批量任务兜底，不值得为它付全 ISR 确认的延迟。
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Send 发送一条消息。
func (p *Producer) Send(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close 关闭生产者。
func (p *Producer) Close() error {
	return p.writer.Close()
}
