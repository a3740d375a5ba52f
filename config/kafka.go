package config

import "time"

// KafkaConsumerConfig 消费者配置。
type KafkaConsumerConfig struct {
	GroupID        string        `json:"groupId" yaml:"groupId"`               // 消费组
	MinBytes       int           `json:"minBytes" yaml:"minBytes"`             // 单次拉取最小字节
	MaxBytes       int           `json:"maxBytes" yaml:"maxBytes"`             // 单次拉取最大字节
	CommitInterval time.Duration `json:"commitInterval" yaml:"commitInterval"` // 位点提交间隔（0 表示同步提交）
}

// KafkaConfig 消息队列配置。
// RecommendTaskTopic 承载置脏/衰减任务，消费侧至少一次投递，任务本身幂等。
type KafkaConfig struct {
	Brokers            []string            `json:"brokers" yaml:"brokers"`                       // broker 地址列表
	RecommendTaskTopic string              `json:"recommendTaskTopic" yaml:"recommendTaskTopic"` // 推荐任务主题
	ConsumerConfig     KafkaConsumerConfig `json:"consumerConfig" yaml:"consumerConfig"`
}

// DefaultKafkaConfig 返回本地开发的默认配置。
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:            []string{"127.0.0.1:9092"},
		RecommendTaskTopic: "recommend-task",
		ConsumerConfig: KafkaConsumerConfig{
			GroupID:        "recommend-task-consumer",
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0,
		},
	}
}
