package mq

import (
	"context"
	"time"

	"RecommendServer/pkg/util"
)

// ==================== 推荐任务定义 ====================

type TaskType string

const (
	// TaskMarkDirty 将某用户相关的全部推荐边置脏（好友/徽章/学校/届别变更触发）
	TaskMarkDirty TaskType = "mark_dirty"
	// TaskDecayShown 对"已曝光未转化"的边做 interested_feature 衰减
	TaskDecayShown TaskType = "decay_shown"
)

// RecommendTask 存放在 Kafka 里的消息体。
// 消费侧至少一次投递：两种任务都设计为幂等/可重放，重复消费不破坏数据。
type RecommendTask struct {
	TaskID int64    `json:"task_id"` // 雪花 id，用于日志追踪与去重排查
	Type   TaskType `json:"type"`

	// mark_dirty: 受影响的用户
	UserUUID string `json:"user_uuid,omitempty"`

	// decay_shown: 接收者与被曝光的候选列表
	RecipientUUID  string   `json:"recipient_uuid,omitempty"`
	CandidateUUIDs []string `json:"candidate_uuids,omitempty"`

	// 元数据（追踪与重试控制）
	TraceID     string    `json:"trace_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	RetryCount  int       `json:"retry_count"`      // 已重试次数
	MaxRetries  int       `json:"max_retries"`      // 最大重试次数
	OriginalErr string    `json:"original_err"`     // 首次失败的错误信息
	Source      string    `json:"source,omitempty"` // 触发来源（service/handler/job）
}

// ==================== 构造器函数 ====================

// BuildMarkDirtyTask 构造置脏任务
func BuildMarkDirtyTask(userUUID string) RecommendTask {
	return RecommendTask{
		TaskID:     util.NextID(),
		Type:       TaskMarkDirty,
		UserUUID:   userUUID,
		Timestamp:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// BuildDecayShownTask 构造曝光衰减任务
func BuildDecayShownTask(recipientUUID string, candidateUUIDs []string) RecommendTask {
	return RecommendTask{
		TaskID:         util.NextID(),
		Type:           TaskDecayShown,
		RecipientUUID:  recipientUUID,
		CandidateUUIDs: candidateUUIDs,
		Timestamp:      time.Now(),
		RetryCount:     0,
		MaxRetries:     3,
	}
}

// ==================== 链式方法 ====================

// WithContext 为任务补充上下文信息
func (t RecommendTask) WithContext(ctx context.Context) RecommendTask {
	if traceID, ok := ctx.Value("trace_id").(string); ok {
		t.TraceID = traceID
	}
	return t
}

// WithError 为任务补充错误信息
func (t RecommendTask) WithError(err error) RecommendTask {
	t.OriginalErr = err.Error()
	return t
}

// WithSource 为任务补充来源信息
func (t RecommendTask) WithSource(source string) RecommendTask {
	t.Source = source
	return t
}

// WithMaxRetries 设置最大重试次数
func (t RecommendTask) WithMaxRetries(maxRetries int) RecommendTask {
	t.MaxRetries = maxRetries
	return t
}

// PartitionKey 返回分区 key：同一用户的任务落到同一分区，保持相对顺序。
func (t RecommendTask) PartitionKey() string {
	if t.Type == TaskDecayShown {
		return t.RecipientUUID
	}
	return t.UserUUID
}
