package repository

import (
	"context"

	"RecommendServer/model"

	"gorm.io/gorm"
)

// badgeRepositoryImpl 徽章数据访问层实现（协作方数据，只读）
type badgeRepositoryImpl struct {
	db *gorm.DB
}

// NewBadgeRepository 创建徽章仓储实例
func NewBadgeRepository(db *gorm.DB) IBadgeRepository {
	return &badgeRepositoryImpl{db: db}
}

// MutualBadgeCount 统计两用户的共同徽章数
// 重算任务的权威读路径，自联接直查 MySQL。
func (r *badgeRepositoryImpl) MutualBadgeCount(ctx context.Context, a, b string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserBadge{}).
		Joins("JOIN user_badge AS peer ON peer.badge_id = user_badge.badge_id AND peer.user_uuid = ?", b).
		Where("user_badge.user_uuid = ?", a).
		Count(&count).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return int(count), nil
}
