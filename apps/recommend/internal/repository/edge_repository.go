package repository

import (
	"context"
	"time"

	"RecommendServer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// edgeRepositoryImpl 推荐边数据访问层实现
type edgeRepositoryImpl struct {
	db *gorm.DB
}

// NewEdgeRepository 创建推荐边仓储实例
func NewEdgeRepository(db *gorm.DB) IEdgeRepository {
	return &edgeRepositoryImpl{db: db}
}

// BatchEnsure 批量确保有向边存在
// 使用 Insert Ignore (ON CONFLICT DO NOTHING) 策略：
//   - 原子性：同步任务、触发器并发运行时靠唯一索引互斥，重复插入是 no-op 而非错误
//   - 已存在的行（含已下线的行）完全不动，满足"存量边不被同步任务触碰"的约定
func (r *edgeRepositoryImpl) BatchEnsure(ctx context.Context, pairs []EdgePair) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([]*model.PeopleRecommend, 0, len(pairs))
	for _, p := range pairs {
		// 自指边在上游被过滤，这里再兜底一次
		if p.RecipientUuid == p.CandidateUuid || p.RecipientUuid == "" || p.CandidateUuid == "" {
			continue
		}
		rows = append(rows, &model.PeopleRecommend{
			RecipientUuid:     p.RecipientUuid,
			CandidateUuid:     p.CandidateUuid,
			FriendFeature:     0,
			UniversityFeature: 0,
			BadgeFeature:      0,
			ClassYearFeature:  0,
			InterestedFeature: 1.0, // 新边的兴趣特征从满分开始
			Dirty:             true,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipient_uuid"}, {Name: "candidate_uuid"}},
		DoNothing: true,
	}).Create(&rows)

	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}

	return result.RowsAffected, nil
}

// RestoreRetiredPairs 恢复双端都重新具备资格的已下线边
// 恢复的行必须置脏：下线期间协作方状态可能早已变化，结构特征不可信。
func (r *edgeRepositoryImpl) RestoreRetiredPairs(ctx context.Context, eligibleUUIDs []string) (int64, error) {
	if len(eligibleUUIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.PeopleRecommend{}).
		Where("deleted_at IS NOT NULL").
		Where("recipient_uuid IN ? AND candidate_uuid IN ?", eligibleUUIDs, eligibleUUIDs).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"dirty":      true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// RetireByIneligible 下线任一端失去资格的边（软删除，保留特征历史）
// 注意：eligibleUUIDs 为空说明上游资格查询异常，此时不做任何下线，宁可保守。
func (r *edgeRepositoryImpl) RetireByIneligible(ctx context.Context, eligibleUUIDs []string) (int64, error) {
	if len(eligibleUUIDs) == 0 {
		return 0, nil
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.PeopleRecommend{}).
		Where("recipient_uuid NOT IN ? OR candidate_uuid NOT IN ?", eligibleUUIDs, eligibleUUIDs).
		Updates(map[string]interface{}{
			"deleted_at": gorm.DeletedAt{Time: now, Valid: true},
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// MarkDirtyByUser 将 userUUID 相关的未脏边置脏
// dirty = 0 的过滤条件保证幂等：重复触发只刷一次，已脏的行连 updated_at 都不动。
func (r *edgeRepositoryImpl) MarkDirtyByUser(ctx context.Context, userUUID string) (int64, error) {
	if userUUID == "" {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.PeopleRecommend{}).
		Where("(recipient_uuid = ? OR candidate_uuid = ?) AND dirty = ?", userUUID, userUUID, false).
		Updates(map[string]interface{}{
			"dirty":      true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// ListDirty 按主键游标扫描脏边
// keyset 分页（id > afterID）而非 OFFSET：脏边集合在扫描过程中会被并发修改，
// 游标保证单轮内每行至多访问一次。
func (r *edgeRepositoryImpl) ListDirty(ctx context.Context, afterID int64, limit int) ([]*model.PeopleRecommend, error) {
	if limit <= 0 {
		limit = 200
	}

	var edges []*model.PeopleRecommend
	err := r.db.WithContext(ctx).
		Where("dirty = ? AND id > ?", true, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&edges).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	return edges, nil
}

// UpdateFeatures 写回结构特征并清除 dirty
// interested_feature 的 CASE 表达式：仍为 0 的行（历史数据未按新默认值初始化）重置为 1，
// 防止 0 值进入打分把候选彻底抹掉。
func (r *edgeRepositoryImpl) UpdateFeatures(ctx context.Context, edgeID int64, f EdgeFeatures) error {
	result := r.db.WithContext(ctx).
		Model(&model.PeopleRecommend{}).
		Where("id = ?", edgeID).
		Updates(map[string]interface{}{
			"friend_feature":     f.Friend,
			"university_feature": f.University,
			"badge_feature":      f.Badge,
			"class_year_feature": f.ClassYear,
			"interested_feature": gorm.Expr("CASE WHEN interested_feature = 0 THEN 1 ELSE interested_feature END"),
			"dirty":              false,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DecayInterested 对曝光过的边做乘性衰减
// 不触碰 dirty：兴趣特征与结构特征各有独立的维护方。没有下限，渐近 0 但永不等于 0。
func (r *edgeRepositoryImpl) DecayInterested(ctx context.Context, recipientUUID string, candidateUUIDs []string, factor float64) error {
	if recipientUUID == "" || len(candidateUUIDs) == 0 || factor <= 0 || factor >= 1 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.PeopleRecommend{}).
		Where("recipient_uuid = ? AND candidate_uuid IN ?", recipientUUID, candidateUUIDs).
		Update("interested_feature", gorm.Expr("interested_feature * ?", factor)).Error

	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// ListByRecipient 读取某接收者的在线边
// 联表画像限定候选同校：大学以画像当前值为准，不依赖可能已置脏的边特征。
func (r *edgeRepositoryImpl) ListByRecipient(ctx context.Context, recipientUUID, university string) ([]*model.PeopleRecommend, error) {
	var edges []*model.PeopleRecommend
	err := r.db.WithContext(ctx).
		Joins("JOIN user_info ON user_info.uuid = people_recommend.candidate_uuid AND user_info.deleted_at IS NULL").
		Where("people_recommend.recipient_uuid = ? AND user_info.university = ?", recipientUUID, university).
		Find(&edges).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return edges, nil
}
