package repository

import (
	"context"

	rediskey "RecommendServer/consts/redisKey"

	"github.com/redis/go-redis/v9"
)

// suggestCacheRepositoryImpl 推荐结果缓存访问层实现
// 缓存的是某 (recipient, seed) 的完整排序 uuid 列表（Redis List），
// 分页只在列表上做 LRange 切片，保证同一 seed 内各页视图一致且无重叠。
type suggestCacheRepositoryImpl struct {
	redisClient *redis.Client
}

// NewSuggestCacheRepository 创建推荐结果缓存仓储实例
func NewSuggestCacheRepository(redisClient *redis.Client) ISuggestCacheRepository {
	return &suggestCacheRepositoryImpl{redisClient: redisClient}
}

// GetRange 读取缓存中 [offset, offset+limit) 区间的候选 uuid 及列表总长
// 缓存未命中返回 ErrRedisNil，由调用方走完整排序流程。
func (r *suggestCacheRepositoryImpl) GetRange(ctx context.Context, recipientUUID string, seed int64, offset, limit int) ([]string, int64, error) {
	cacheKey := rediskey.SuggestListKey(recipientUUID, seed)

	pipe := r.redisClient.Pipeline()
	existsCmd := pipe.Exists(ctx, cacheKey)
	lenCmd := pipe.LLen(ctx, cacheKey)
	rangeCmd := pipe.LRange(ctx, cacheKey, int64(offset), int64(offset+limit-1))

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		if isRedisWrongType(err) {
			// Key 被误写成其他类型，自愈后按未命中处理
			r.redisClient.Del(ctx, cacheKey)
			return nil, 0, ErrRedisNil
		}
		return nil, 0, WrapRedisError(err)
	}

	if existsCmd.Val() == 0 {
		return nil, 0, ErrRedisNil
	}

	members := stripEmptyMarker(rangeCmd.Val())
	total := lenCmd.Val()
	// 空列表用占位标记缓存，总长要把标记刨掉
	if total == 1 && len(rangeCmd.Val()) == 1 && len(members) == 0 {
		total = 0
	}
	return members, total, nil
}

// StoreList 整体写入某 (recipient, seed) 的排序结果
// Del + RPush + Expire 原子成组执行；空结果写入占位标记防穿透。
func (r *suggestCacheRepositoryImpl) StoreList(ctx context.Context, recipientUUID string, seed int64, candidateUUIDs []string) error {
	cacheKey := rediskey.SuggestListKey(recipientUUID, seed)

	pipe := r.redisClient.TxPipeline()
	pipe.Del(ctx, cacheKey)
	if len(candidateUUIDs) == 0 {
		pipe.RPush(ctx, cacheKey, emptySetMarker)
	} else {
		args := make([]interface{}, 0, len(candidateUUIDs))
		for _, uuid := range candidateUUIDs {
			args = append(args, uuid)
		}
		pipe.RPush(ctx, cacheKey, args...)
	}
	// 固定 TTL，不加抖动：产品语义上 seed 失效时间就是整 10 分钟窗口
	pipe.Expire(ctx, cacheKey, rediskey.SuggestListTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return WrapRedisError(err)
	}
	return nil
}

// Invalidate 删除某接收者在指定 seed 下的缓存（测试与运维接口用）
func (r *suggestCacheRepositoryImpl) Invalidate(ctx context.Context, recipientUUID string, seed int64) error {
	if err := r.redisClient.Del(ctx, rediskey.SuggestListKey(recipientUUID, seed)).Err(); err != nil {
		return WrapRedisError(err)
	}
	return nil
}
