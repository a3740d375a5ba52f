package service

import (
	"context"

	"RecommendServer/apps/recommend/internal/dto"
	"RecommendServer/apps/recommend/internal/repository"
)

// ==================== 推荐读取服务接口 ====================

// ISuggestService 推荐列表服务接口
// 职责：候选池构建、打分排序、轻量洗牌、兜底池、结果缓存与分页
type ISuggestService interface {
	// SuggestList 获取分页推荐列表
	SuggestList(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error)
}

// ==================== 失效触发服务接口 ====================

// ITriggerService 失效触发服务接口
// 职责：置脏触发与曝光衰减的入队（Kafka 优先，失败降级为进程内直接执行）
type ITriggerService interface {
	// MarkUserDirty 将某用户相关的全部推荐边置脏（至少一次语义）
	MarkUserDirty(ctx context.Context, userUUID string) error

	// MarkShown 上报一批候选已曝光，触发兴趣衰减（至少一次语义）
	MarkShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error

	// ApplyMarkDirty 实际执行置脏（Kafka 消费侧与降级路径共用）
	ApplyMarkDirty(ctx context.Context, userUUID string) error

	// ApplyDecayShown 实际执行曝光衰减（Kafka 消费侧与降级路径共用）
	ApplyDecayShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error
}

// ==================== 特征计算服务接口 ====================

// IFeatureService 结构特征计算服务接口
// 职责：读协作方数据，算出一条有向边的四个结构特征（重算任务调用）
type IFeatureService interface {
	// ComputeEdgeFeatures 计算 recipient→candidate 边的结构特征。
	// 任一端画像不存在时返回 repository.ErrRecordNotFound。
	ComputeEdgeFeatures(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error)
}
