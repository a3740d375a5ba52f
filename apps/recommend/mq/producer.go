package mq

import (
	"context"
	"encoding/json"
	"errors"

	"RecommendServer/pkg/kafka"
)

// 全局生产者（main 初始化；未配置 Kafka 时保持 nil，调用方走本地兜底）。
var globalProducer *kafka.Producer

// ErrProducerNotReady 表示 Kafka 生产者未初始化。
var ErrProducerNotReady = errors.New("mq: producer not initialized")

// SetGlobalProducer 设置全局生产者。
func SetGlobalProducer(p *kafka.Producer) {
	globalProducer = p
}

// ProducerReady 返回生产者是否可用。
func ProducerReady() bool {
	return globalProducer != nil
}

// SendTask 将任务投递到推荐任务主题。
func SendTask(ctx context.Context, task RecommendTask) error {
	if globalProducer == nil {
		return ErrProducerNotReady
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return globalProducer.Send(ctx, []byte(task.PartitionKey()), payload)
}
