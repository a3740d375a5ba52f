package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"RecommendServer/config"
	pkgkafka "RecommendServer/pkg/kafka"
	"RecommendServer/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TaskApplier 任务落库接口，由 service 层实现。
// 两个操作都必须幂等：消费侧是至少一次语义，重复投递是常态而非异常。
type TaskApplier interface {
	// ApplyMarkDirty 将 userUUID 相关的全部推荐边置脏
	ApplyMarkDirty(ctx context.Context, userUUID string) error
	// ApplyDecayShown 对 recipient→candidates 的边做一次兴趣衰减
	ApplyDecayShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error
}

// TaskConsumer 推荐任务消费者。
// 失败处理：RetryCount < MaxRetries 时把任务重新投回主题（计数+1）再提交位点；
// 超过上限则记错误日志放弃——丢掉的只是时效性，下一轮批量任务会把数据带回一致。
type TaskConsumer struct {
	reader   *kafka.Reader
	producer *pkgkafka.Producer
	applier  TaskApplier
}

// NewTaskConsumer 创建消费者。
func NewTaskConsumer(cfg config.KafkaConfig, producer *pkgkafka.Producer, applier TaskApplier, logAdapter *pkgkafka.ZapLoggerAdapter) *TaskConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.RecommendTaskTopic,
		GroupID:        cfg.ConsumerConfig.GroupID,
		MinBytes:       cfg.ConsumerConfig.MinBytes,
		MaxBytes:       cfg.ConsumerConfig.MaxBytes,
		CommitInterval: cfg.ConsumerConfig.CommitInterval,
		ErrorLogger:    kafka.LoggerFunc(logAdapter.ErrorLogger()),
	})
	return &TaskConsumer{
		reader:   reader,
		producer: producer,
		applier:  applier,
	}
}

// Start 阻塞消费直到 ctx 取消。
func (c *TaskConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		// 处理结果无论成败都提交位点：失败的任务已经重新入队或被放弃
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "提交消费位点失败", logger.ErrorField("error", err))
		}
	}
}

func (c *TaskConsumer) handle(ctx context.Context, msg kafka.Message) {
	var task RecommendTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		// 消息体损坏无法重试，记日志丢弃
		logger.Error(ctx, "推荐任务反序列化失败，丢弃",
			logger.ErrorField("error", err),
			logger.Int("size", len(msg.Value)),
		)
		return
	}

	taskCtx := ctx
	if task.TraceID != "" {
		taskCtx = context.WithValue(ctx, "trace_id", task.TraceID)
	}

	var err error
	switch task.Type {
	case TaskMarkDirty:
		err = c.applier.ApplyMarkDirty(taskCtx, task.UserUUID)
	case TaskDecayShown:
		err = c.applier.ApplyDecayShown(taskCtx, task.RecipientUUID, task.CandidateUUIDs)
	default:
		logger.Warn(taskCtx, "未知的推荐任务类型，丢弃",
			logger.String("type", string(task.Type)),
			logger.Int64("task_id", task.TaskID),
		)
		return
	}

	if err == nil {
		return
	}

	c.retry(taskCtx, task, err)
}

// retry 失败重投：计数+1 再发回主题；达到上限则放弃。
func (c *TaskConsumer) retry(ctx context.Context, task RecommendTask, cause error) {
	if task.RetryCount >= task.MaxRetries {
		logger.Error(ctx, "推荐任务重试次数耗尽，放弃",
			logger.Int64("task_id", task.TaskID),
			logger.String("type", string(task.Type)),
			logger.Int("retry_count", task.RetryCount),
			logger.ErrorField("error", cause),
		)
		return
	}

	task.RetryCount++
	if task.OriginalErr == "" {
		task = task.WithError(cause)
	}

	payload, err := json.Marshal(task)
	if err != nil {
		logger.Error(ctx, "推荐任务重投序列化失败", logger.ErrorField("error", err))
		return
	}
	if err := c.producer.Send(ctx, []byte(task.PartitionKey()), payload); err != nil {
		logger.Error(ctx, "推荐任务重投失败",
			logger.Int64("task_id", task.TaskID),
			logger.ErrorField("error", err),
		)
		return
	}

	logger.Warn(ctx, "推荐任务处理失败，已重新入队",
		logger.Int64("task_id", task.TaskID),
		logger.String("type", string(task.Type)),
		logger.Int("retry_count", task.RetryCount),
		logger.ErrorField("error", cause),
	)
}

// Close 关闭消费者。
func (c *TaskConsumer) Close() error {
	return c.reader.Close()
}
