package service

import (
	"context"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/config"
)

// featureServiceImpl 结构特征计算服务实现
type featureServiceImpl struct {
	profileRepo repository.IProfileRepository
	socialRepo  repository.ISocialRepository
	badgeRepo   repository.IBadgeRepository
	cfg         config.RecommendConfig
}

// NewFeatureService 创建特征计算服务实例
func NewFeatureService(
	profileRepo repository.IProfileRepository,
	socialRepo repository.ISocialRepository,
	badgeRepo repository.IBadgeRepository,
	cfg config.RecommendConfig,
) IFeatureService {
	return &featureServiceImpl{
		profileRepo: profileRepo,
		socialRepo:  socialRepo,
		badgeRepo:   badgeRepo,
		cfg:         cfg,
	}
}

// ComputeEdgeFeatures 计算 recipient→candidate 边的结构特征
// 计数特征做截断归一化：超过阈值一律记满分（50 个共同好友和 1000 个一样亲近）。
// 二元特征要求双方字段都非空才算命中，空对空不算同校/同届。
func (s *featureServiceImpl) ComputeEdgeFeatures(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error) {
	var f repository.EdgeFeatures

	recipient, err := s.profileRepo.GetByUUID(ctx, recipientUUID)
	if err != nil {
		return f, err
	}
	candidate, err := s.profileRepo.GetByUUID(ctx, candidateUUID)
	if err != nil {
		return f, err
	}

	// ==================== 共同好友特征 ====================
	mutualFriends, err := s.socialRepo.MutualFriendCount(ctx, recipientUUID, candidateUUID)
	if err != nil {
		return f, err
	}
	f.Friend = normalizeCount(mutualFriends, s.cfg.FriendThreshold)

	// ==================== 共同徽章特征 ====================
	mutualBadges, err := s.badgeRepo.MutualBadgeCount(ctx, recipientUUID, candidateUUID)
	if err != nil {
		return f, err
	}
	f.Badge = normalizeCount(mutualBadges, s.cfg.BadgeThreshold)

	// ==================== 同校 / 同届特征 ====================
	if recipient.University != "" && recipient.University == candidate.University {
		f.University = 1
	}
	if recipient.ClassYear != 0 && recipient.ClassYear == candidate.ClassYear {
		f.ClassYear = 1
	}

	return f, nil
}

// normalizeCount 计数截断归一化到 [0, 1]
func normalizeCount(count, threshold int) float64 {
	if threshold <= 0 {
		return 0
	}
	if count >= threshold {
		return 1
	}
	return float64(count) / float64(threshold)
}
