package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rediskey "RecommendServer/consts/redisKey"
	"RecommendServer/model"
	"RecommendServer/pkg/async"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// emptyProfileJSON 空占位符，表示用户不存在（防缓存穿透）
const emptyProfileJSON = "{}"

// l1ProfileSize 进程内画像缓存容量
const l1ProfileSize = 4096

// l1ProfileTTL 进程内画像缓存存活时间，远短于 Redis TTL，接受这一窗口内的陈旧读
const l1ProfileTTL = 1 * time.Minute

// profileRepositoryImpl 用户画像数据访问层实现（协作方数据，只读）
// 三级读取：进程内 LRU -> Redis -> MySQL。画像在排序和重算两条热路径上被反复读取，
// L1 挡掉同一请求内的重复查询，Redis 挡掉跨实例的回源。
type profileRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
	l1          *expirable.LRU[string, *model.UserInfo]
}

// NewProfileRepository 创建用户画像仓储实例
func NewProfileRepository(db *gorm.DB, redisClient *redis.Client) IProfileRepository {
	return &profileRepositoryImpl{
		db:          db,
		redisClient: redisClient,
		l1:          expirable.NewLRU[string, *model.UserInfo](l1ProfileSize, nil, l1ProfileTTL),
	}
}

// GetByUUID 查询用户画像，不存在返回 ErrRecordNotFound
func (r *profileRepositoryImpl) GetByUUID(ctx context.Context, uuid string) (*model.UserInfo, error) {
	// ==================== 1. 查询进程内 L1 ====================
	if user, ok := r.l1.Get(uuid); ok {
		if user == nil {
			return nil, ErrRecordNotFound
		}
		return user, nil
	}

	cacheKey := rediskey.UserProfileKey(uuid)

	// ==================== 2. 查询 Redis ====================
	raw, err := r.redisClient.Get(ctx, cacheKey).Result()
	if err != nil && err != redis.Nil {
		LogRedisError(ctx, err)
	} else if err == nil {
		if raw == "" || raw == emptyProfileJSON {
			// 空占位符命中：用户不存在，同样写入 L1 避免反复穿透
			r.l1.Add(uuid, nil)
			return nil, ErrRecordNotFound
		}
		var user model.UserInfo
		if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr == nil {
			r.l1.Add(uuid, &user)
			return &user, nil
		}
		// 反序列化失败，继续回源
	}

	// ==================== 3. 回源查询 MySQL ====================
	var user model.UserInfo
	err = r.db.WithContext(ctx).
		Where("uuid = ?", uuid).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.l1.Add(uuid, nil)
			// 异步写入空占位，防止穿透
			async.RunSafe(ctx, func(runCtx context.Context) {
				if setErr := r.redisClient.Set(runCtx, cacheKey, emptyProfileJSON,
					getRandomExpireTime(rediskey.UserProfileEmptyTTL)).Err(); setErr != nil {
					LogRedisError(runCtx, setErr)
				}
			}, 0)
			return nil, ErrRecordNotFound
		}
		return nil, WrapDBError(err)
	}

	// ==================== 4. 异步回填缓存 ====================
	r.l1.Add(uuid, &user)
	async.RunSafe(ctx, func(runCtx context.Context) {
		userJSON, jsonErr := json.Marshal(&user)
		if jsonErr != nil {
			return
		}
		if setErr := r.redisClient.Set(runCtx, cacheKey, userJSON,
			getRandomExpireTime(rediskey.UserProfileTTL)).Err(); setErr != nil {
			LogRedisError(runCtx, setErr)
		}
	}, 0)

	return &user, nil
}

// BatchGetByUUIDs 批量查询用户画像，不存在的 uuid 静默跳过，结果保持入参顺序
func (r *profileRepositoryImpl) BatchGetByUUIDs(ctx context.Context, uuids []string) ([]*model.UserInfo, error) {
	if len(uuids) == 0 {
		return []*model.UserInfo{}, nil
	}

	// 用于汇总所有查询结果 (uuid -> *UserInfo, nil 表示用户不存在)
	userMap := make(map[string]*model.UserInfo, len(uuids))
	missUUIDs := make([]string, 0, len(uuids))

	// ==================== 1. 查询进程内 L1 ====================
	redisUUIDs := make([]string, 0, len(uuids))
	for _, uuid := range uuids {
		if user, ok := r.l1.Get(uuid); ok {
			userMap[uuid] = user
			continue
		}
		redisUUIDs = append(redisUUIDs, uuid)
	}

	// ==================== 2. 批量查询 Redis ====================
	if len(redisUUIDs) > 0 {
		keys := make([]string, 0, len(redisUUIDs))
		for _, uuid := range redisUUIDs {
			keys = append(keys, rediskey.UserProfileKey(uuid))
		}

		cachedValues, err := r.redisClient.MGet(ctx, keys...).Result()
		if err != nil && err != redis.Nil {
			LogRedisError(ctx, err)
			// Redis 异常时降级走 DB 全量查询
			cachedValues = nil
		}

		if cachedValues != nil {
			for i, value := range cachedValues {
				uuid := redisUUIDs[i]

				if value == nil {
					missUUIDs = append(missUUIDs, uuid)
					continue
				}

				var raw string
				switch v := value.(type) {
				case string:
					raw = v
				case []byte:
					raw = string(v)
				default:
					missUUIDs = append(missUUIDs, uuid)
					continue
				}

				// 空占位符表示用户不存在，标记为已处理，不回源
				if raw == "" || raw == emptyProfileJSON {
					userMap[uuid] = nil
					r.l1.Add(uuid, nil)
					continue
				}

				var user model.UserInfo
				if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr != nil {
					missUUIDs = append(missUUIDs, uuid)
					continue
				}
				userMap[uuid] = &user
				r.l1.Add(uuid, &user)
			}
		} else {
			missUUIDs = append(missUUIDs, redisUUIDs...)
		}
	}

	// ==================== 3. 对未命中部分回源 MySQL ====================
	if len(missUUIDs) > 0 {
		var dbUsers []*model.UserInfo
		err := r.db.WithContext(ctx).
			Where("uuid IN ?", missUUIDs).
			Find(&dbUsers).Error
		if err != nil {
			return nil, WrapDBError(err)
		}

		foundUUIDs := make(map[string]struct{}, len(dbUsers))
		for _, user := range dbUsers {
			if user != nil && user.Uuid != "" {
				userMap[user.Uuid] = user
				r.l1.Add(user.Uuid, user)
				foundUUIDs[user.Uuid] = struct{}{}
			}
		}

		// 标记不存在的用户
		for _, uuid := range missUUIDs {
			if _, ok := foundUUIDs[uuid]; !ok {
				userMap[uuid] = nil
				r.l1.Add(uuid, nil)
			}
		}

		// ==================== 4. 异步回填 Redis 缓存 ====================
		async.RunSafe(ctx, func(runCtx context.Context) {
			pipe := r.redisClient.Pipeline()

			for _, user := range dbUsers {
				if user == nil || user.Uuid == "" {
					continue
				}
				userJSON, jsonErr := json.Marshal(user)
				if jsonErr != nil {
					continue
				}
				pipe.Set(runCtx, rediskey.UserProfileKey(user.Uuid), userJSON,
					getRandomExpireTime(rediskey.UserProfileTTL))
			}

			// 对不存在的 UUID 写入空占位，避免缓存穿透
			for _, uuid := range missUUIDs {
				if _, ok := foundUUIDs[uuid]; ok {
					continue
				}
				pipe.Set(runCtx, rediskey.UserProfileKey(uuid), emptyProfileJSON,
					getRandomExpireTime(rediskey.UserProfileEmptyTTL))
			}

			if _, err := pipe.Exec(runCtx); err != nil {
				LogRedisError(runCtx, err)
			}
		}, 0)
	}

	// ==================== 5. 按原始 uuids 顺序构建结果 ====================
	result := make([]*model.UserInfo, 0, len(uuids))
	for _, uuid := range uuids {
		if user, ok := userMap[uuid]; ok && user != nil {
			result = append(result, user)
		}
	}

	return result, nil
}

// ListEligibleUUIDs 列出当前全部具备推荐资格的用户 uuid
// 同步任务的全量扫描入口，直查 MySQL，不缓存（结果集大且每轮必须是最新快照）。
func (r *profileRepositoryImpl) ListEligibleUUIDs(ctx context.Context) ([]string, error) {
	var uuids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserInfo{}).
		Where("is_onboarded = ? AND tutorial_stage = ?", true, model.TutorialStageFinished).
		Order("uuid ASC").
		Pluck("uuid", &uuids).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return uuids, nil
}

// ListEligibleByUniversity 列出某大学全部具备资格的用户（兜底推荐池）
func (r *profileRepositoryImpl) ListEligibleByUniversity(ctx context.Context, university string) ([]*model.UserInfo, error) {
	if university == "" {
		return []*model.UserInfo{}, nil
	}

	var users []*model.UserInfo
	err := r.db.WithContext(ctx).
		Where("university = ? AND is_onboarded = ? AND tutorial_stage = ?",
			university, true, model.TutorialStageFinished).
		Find(&users).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return users, nil
}
