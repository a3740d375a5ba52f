package repository

import (
	"context"

	"RecommendServer/model"
)

// ==================== 推荐边 Repository ====================

// EdgePair 一条待确保存在的有向边（同步任务批量使用）。
type EdgePair struct {
	RecipientUuid string
	CandidateUuid string
}

// EdgeFeatures 重算任务写回的结构特征。
type EdgeFeatures struct {
	Friend     float64
	University float64
	Badge      float64
	ClassYear  float64
}

// IEdgeRepository 推荐边（特征存储）数据访问接口。
// 写入纪律：行只由同步任务插入/下线，结构特征只由重算任务写，
// interested_feature 只由曝光衰减写——唯一索引是各写入方之间仅有的互斥手段。
type IEdgeRepository interface {
	// BatchEnsure 批量确保有向边存在；已存在的行不做任何改动（含 dirty 状态）。
	// 新行按约定初始化：结构特征 0、interested_feature 1.0、dirty=1。
	// 返回实际新插入的行数。
	BatchEnsure(ctx context.Context, pairs []EdgePair) (int64, error)

	// RestoreRetiredPairs 恢复"双端都重新具备资格"的已下线边，恢复的行置脏。
	// 返回恢复的行数。
	RestoreRetiredPairs(ctx context.Context, eligibleUUIDs []string) (int64, error)

	// RetireByIneligible 下线（软删除）任一端不在资格集合内的边。返回下线的行数。
	RetireByIneligible(ctx context.Context, eligibleUUIDs []string) (int64, error)

	// MarkDirtyByUser 将 userUUID 为任一端点的未置脏边置脏（幂等，已脏的行不动）。
	// 返回本次实际置脏的行数。
	MarkDirtyByUser(ctx context.Context, userUUID string) (int64, error)

	// ListDirty 按主键游标扫描脏边（keyset 分页，id > afterID）。
	ListDirty(ctx context.Context, afterID int64, limit int) ([]*model.PeopleRecommend, error)

	// UpdateFeatures 写回结构特征并清除 dirty；interested_feature 仍为 0 时重置为 1。
	UpdateFeatures(ctx context.Context, edgeID int64, f EdgeFeatures) error

	// DecayInterested 将 recipient→candidates 的 interested_feature 乘以 factor，不触碰 dirty。
	DecayInterested(ctx context.Context, recipientUUID string, candidateUUIDs []string, factor float64) error

	// ListByRecipient 读取某接收者的在线边，候选限定与接收者同校（排序读路径专用）。
	ListByRecipient(ctx context.Context, recipientUUID, university string) ([]*model.PeopleRecommend, error)
}

// ==================== 用户画像 Repository（协作方） ====================

// IProfileRepository 用户画像与资格数据访问接口（只读）。
type IProfileRepository interface {
	// GetByUUID 查询用户画像，不存在返回 ErrRecordNotFound。
	GetByUUID(ctx context.Context, uuid string) (*model.UserInfo, error)

	// BatchGetByUUIDs 批量查询用户画像（不存在的 uuid 静默跳过）。
	BatchGetByUUIDs(ctx context.Context, uuids []string) ([]*model.UserInfo, error)

	// ListEligibleUUIDs 列出当前全部具备推荐资格的用户 uuid。
	ListEligibleUUIDs(ctx context.Context) ([]string, error)

	// ListEligibleByUniversity 列出某大学全部具备资格的用户（兜底推荐池）。
	ListEligibleByUniversity(ctx context.Context, university string) ([]*model.UserInfo, error)
}

// ==================== 社交图谱 Repository（协作方） ====================

// ISocialRepository 好友/申请/拉黑关系数据访问接口（只读）。
type ISocialRepository interface {
	// ListFriendUUIDs 列出 userUUID 的全部好友 uuid。
	ListFriendUUIDs(ctx context.Context, userUUID string) ([]string, error)

	// MutualFriendCount 统计两用户的共同好友数。
	MutualFriendCount(ctx context.Context, a, b string) (int, error)

	// ListPendingApplyUUIDs 列出与 userUUID 之间存在待处理好友申请的对端 uuid（双向）。
	ListPendingApplyUUIDs(ctx context.Context, userUUID string) ([]string, error)

	// ListBlockerUUIDs 列出拉黑了 userUUID 的用户 uuid。
	ListBlockerUUIDs(ctx context.Context, userUUID string) ([]string, error)

	// IsBlockedBy 判断 a 是否被 b 拉黑。
	IsBlockedBy(ctx context.Context, a, b string) (bool, error)
}

// ==================== 推荐结果缓存 Repository ====================

// ISuggestCacheRepository 推荐结果（排序后的完整 uuid 列表）缓存访问接口。
// 同一 (recipient, seed) 在 TTL 窗口内整列表缓存，分页只做区间切片。
type ISuggestCacheRepository interface {
	// GetRange 读取缓存区间与总长；未命中返回 ErrRedisNil。
	GetRange(ctx context.Context, recipientUUID string, seed int64, offset, limit int) ([]string, int64, error)

	// StoreList 整体写入排序结果（覆盖旧值）。
	StoreList(ctx context.Context, recipientUUID string, seed int64, candidateUUIDs []string) error

	// Invalidate 删除指定 (recipient, seed) 的缓存。
	Invalidate(ctx context.Context, recipientUUID string, seed int64) error
}

// ==================== 徽章 Repository（协作方） ====================

// IBadgeRepository 徽章数据访问接口（只读）。
type IBadgeRepository interface {
	// MutualBadgeCount 统计两用户的共同徽章数。
	MutualBadgeCount(ctx context.Context, a, b string) (int, error)
}
