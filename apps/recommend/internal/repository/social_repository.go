package repository

import (
	"context"
	"time"

	rediskey "RecommendServer/consts/redisKey"
	"RecommendServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// emptySetMarker 空集合占位成员，区分"缓存未命中"与"集合确实为空"
const emptySetMarker = "__EMPTY__"

// socialRepositoryImpl 社交图谱数据访问层实现（协作方数据，只读）
type socialRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewSocialRepository 创建社交图谱仓储实例
func NewSocialRepository(db *gorm.DB, redisClient *redis.Client) ISocialRepository {
	return &socialRepositoryImpl{db: db, redisClient: redisClient}
}

// ListFriendUUIDs 列出用户的全部好友 uuid
// 采用 Cache-Aside Pattern：优先读 Redis Set，未命中回源 MySQL 并重建缓存
func (r *socialRepositoryImpl) ListFriendUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	cacheKey := rediskey.FriendSetKey(userUUID)

	// ==================== 1. 查询 Redis ====================
	members, err := r.redisClient.SMembers(ctx, cacheKey).Result()
	if err != nil {
		if isRedisWrongType(err) {
			// Key 被误写成其他类型，自愈：删掉后走回源重建
			r.redisClient.Del(ctx, cacheKey)
		} else {
			// Redis 挂了，记录日志，降级去查 DB
			LogRedisError(ctx, err)
		}
	} else if len(members) > 0 {
		// 缓存命中，概率续期：1% 的概率在读取时顺便续期
		if getRandomBool(0.01) {
			r.redisClient.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.FriendSetTTL))
		}
		return stripEmptyMarker(members), nil
	}

	// ==================== 2. 缓存未命中，回源查询 MySQL ====================
	var friendUUIDs []string
	err = r.db.WithContext(ctx).
		Model(&model.UserRelation{}).
		Where("user_uuid = ? AND status = ?", userUUID, model.RelationStatusFriend).
		Pluck("peer_uuid", &friendUUIDs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	// ==================== 3. 重建缓存 ====================
	r.rebuildSetCache(ctx, cacheKey, friendUUIDs, rediskey.FriendSetTTL, rediskey.FriendSetEmptyTTL)

	return friendUUIDs, nil
}

// MutualFriendCount 统计两用户的共同好友数
// 重算任务的权威读路径，直接查 MySQL 自联接，不走缓存。
func (r *socialRepositoryImpl) MutualFriendCount(ctx context.Context, a, b string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserRelation{}).
		Joins("JOIN user_relation AS peer ON peer.peer_uuid = user_relation.peer_uuid"+
			" AND peer.user_uuid = ? AND peer.status = ? AND peer.deleted_at IS NULL",
			b, model.RelationStatusFriend).
		Where("user_relation.user_uuid = ? AND user_relation.status = ?", a, model.RelationStatusFriend).
		Count(&count).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return int(count), nil
}

// ListPendingApplyUUIDs 列出与用户之间存在待处理好友申请的对端 uuid（双向）
// 申请是低频短生命周期数据，不做缓存，直查 MySQL。
func (r *socialRepositoryImpl) ListPendingApplyUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	var applies []*model.ApplyRequest
	err := r.db.WithContext(ctx).
		Select("applicant_uuid", "target_uuid").
		Where("(applicant_uuid = ? OR target_uuid = ?) AND status = ?",
			userUUID, userUUID, model.ApplyStatusPending).
		Find(&applies).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	uuids := make([]string, 0, len(applies))
	seen := make(map[string]struct{}, len(applies))
	for _, a := range applies {
		peer := a.ApplicantUuid
		if peer == userUUID {
			peer = a.TargetUuid
		}
		if _, ok := seen[peer]; ok {
			continue
		}
		seen[peer] = struct{}{}
		uuids = append(uuids, peer)
	}
	return uuids, nil
}

// ListBlockerUUIDs 列出拉黑了 userUUID 的用户 uuid
// 注意方向：查的是"谁拉黑了我"，所以条件落在 peer_uuid 上。
func (r *socialRepositoryImpl) ListBlockerUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	cacheKey := rediskey.BlockerSetKey(userUUID)

	// ==================== 1. 查询 Redis ====================
	members, err := r.redisClient.SMembers(ctx, cacheKey).Result()
	if err != nil {
		if isRedisWrongType(err) {
			r.redisClient.Del(ctx, cacheKey)
		} else {
			LogRedisError(ctx, err)
		}
	} else if len(members) > 0 {
		if getRandomBool(0.01) {
			r.redisClient.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.BlockerSetTTL))
		}
		return stripEmptyMarker(members), nil
	}

	// ==================== 2. 缓存未命中，回源查询 MySQL ====================
	var blockerUUIDs []string
	err = r.db.WithContext(ctx).
		Model(&model.UserRelation{}).
		Where("peer_uuid = ? AND status = ?", userUUID, model.RelationStatusBlocked).
		Pluck("user_uuid", &blockerUUIDs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	// ==================== 3. 重建缓存 ====================
	r.rebuildSetCache(ctx, cacheKey, blockerUUIDs, rediskey.BlockerSetTTL, rediskey.FriendSetEmptyTTL)

	return blockerUUIDs, nil
}

// IsBlockedBy 判断 a 是否被 b 拉黑（即 b 拉黑了 a）
// 组合查询 Redis (Pipeline)：Exists 区分命中/未命中，SIsMember 给出成员判定
func (r *socialRepositoryImpl) IsBlockedBy(ctx context.Context, a, b string) (bool, error) {
	cacheKey := rediskey.BlockerSetKey(a)

	pipe := r.redisClient.Pipeline()
	existsCmd := pipe.Exists(ctx, cacheKey)
	isMemberCmd := pipe.SIsMember(ctx, cacheKey, b)
	if getRandomBool(0.01) {
		pipe.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.BlockerSetTTL))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		LogRedisError(ctx, err)
	} else if err == nil && existsCmd.Val() > 0 {
		// 缓存命中，Redis 是权威的：哪怕 Set 里只有空标记，SIsMember 也会正确返回 false
		return isMemberCmd.Val(), nil
	}

	// 缓存未命中，整集合回源重建（顺便服务后续查询）
	blockers, dbErr := r.ListBlockerUUIDs(ctx, a)
	if dbErr != nil {
		return false, dbErr
	}
	for _, uuid := range blockers {
		if uuid == b {
			return true, nil
		}
	}
	return false, nil
}

// rebuildSetCache 重建 Redis Set 缓存，空集合写入占位标记防止穿透。
// 缓存是加速层不是事实源，写失败只记日志，不影响主流程。
func (r *socialRepositoryImpl) rebuildSetCache(ctx context.Context, cacheKey string, members []string, ttl, emptyTTL time.Duration) {
	pipe := r.redisClient.Pipeline()
	pipe.Del(ctx, cacheKey) // 清理旧数据
	if len(members) == 0 {
		pipe.SAdd(ctx, cacheKey, emptySetMarker)
		pipe.Expire(ctx, cacheKey, emptyTTL)
	} else {
		args := make([]interface{}, 0, len(members))
		for _, m := range members {
			args = append(args, m)
		}
		pipe.SAdd(ctx, cacheKey, args...)
		pipe.Expire(ctx, cacheKey, getRandomExpireTime(ttl))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		LogRedisError(ctx, err)
	}
}

// stripEmptyMarker 去掉空集合占位标记
func stripEmptyMarker(members []string) []string {
	out := members[:0]
	for _, m := range members {
		if m != emptySetMarker {
			out = append(out, m)
		}
	}
	return out
}
