package service

import (
	"context"
	"sync"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/model"
	"RecommendServer/pkg/logger"

	"go.uber.org/zap"
)

var serviceTestLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceTestLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

// ==================== 推荐边仓储 Fake ====================

type fakeEdgeRepository struct {
	batchEnsureFn         func(ctx context.Context, pairs []repository.EdgePair) (int64, error)
	restoreRetiredPairsFn func(ctx context.Context, eligibleUUIDs []string) (int64, error)
	retireByIneligibleFn  func(ctx context.Context, eligibleUUIDs []string) (int64, error)
	markDirtyByUserFn     func(ctx context.Context, userUUID string) (int64, error)
	listDirtyFn           func(ctx context.Context, afterID int64, limit int) ([]*model.PeopleRecommend, error)
	updateFeaturesFn      func(ctx context.Context, edgeID int64, f repository.EdgeFeatures) error
	decayInterestedFn     func(ctx context.Context, recipientUUID string, candidateUUIDs []string, factor float64) error
	listByRecipientFn     func(ctx context.Context, recipientUUID, university string) ([]*model.PeopleRecommend, error)
}

func (f *fakeEdgeRepository) BatchEnsure(ctx context.Context, pairs []repository.EdgePair) (int64, error) {
	if f.batchEnsureFn == nil {
		return 0, nil
	}
	return f.batchEnsureFn(ctx, pairs)
}

func (f *fakeEdgeRepository) RestoreRetiredPairs(ctx context.Context, eligibleUUIDs []string) (int64, error) {
	if f.restoreRetiredPairsFn == nil {
		return 0, nil
	}
	return f.restoreRetiredPairsFn(ctx, eligibleUUIDs)
}

func (f *fakeEdgeRepository) RetireByIneligible(ctx context.Context, eligibleUUIDs []string) (int64, error) {
	if f.retireByIneligibleFn == nil {
		return 0, nil
	}
	return f.retireByIneligibleFn(ctx, eligibleUUIDs)
}

func (f *fakeEdgeRepository) MarkDirtyByUser(ctx context.Context, userUUID string) (int64, error) {
	if f.markDirtyByUserFn == nil {
		return 0, nil
	}
	return f.markDirtyByUserFn(ctx, userUUID)
}

func (f *fakeEdgeRepository) ListDirty(ctx context.Context, afterID int64, limit int) ([]*model.PeopleRecommend, error) {
	if f.listDirtyFn == nil {
		return nil, nil
	}
	return f.listDirtyFn(ctx, afterID, limit)
}

func (f *fakeEdgeRepository) UpdateFeatures(ctx context.Context, edgeID int64, feat repository.EdgeFeatures) error {
	if f.updateFeaturesFn == nil {
		return nil
	}
	return f.updateFeaturesFn(ctx, edgeID, feat)
}

func (f *fakeEdgeRepository) DecayInterested(ctx context.Context, recipientUUID string, candidateUUIDs []string, factor float64) error {
	if f.decayInterestedFn == nil {
		return nil
	}
	return f.decayInterestedFn(ctx, recipientUUID, candidateUUIDs, factor)
}

func (f *fakeEdgeRepository) ListByRecipient(ctx context.Context, recipientUUID, university string) ([]*model.PeopleRecommend, error) {
	if f.listByRecipientFn == nil {
		return nil, nil
	}
	return f.listByRecipientFn(ctx, recipientUUID, university)
}

// ==================== 用户画像仓储 Fake ====================

type fakeProfileRepository struct {
	getByUUIDFn              func(ctx context.Context, uuid string) (*model.UserInfo, error)
	batchGetByUUIDsFn        func(ctx context.Context, uuids []string) ([]*model.UserInfo, error)
	listEligibleUUIDsFn      func(ctx context.Context) ([]string, error)
	listEligibleByUniversityFn func(ctx context.Context, university string) ([]*model.UserInfo, error)
}

func (f *fakeProfileRepository) GetByUUID(ctx context.Context, uuid string) (*model.UserInfo, error) {
	if f.getByUUIDFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUUIDFn(ctx, uuid)
}

func (f *fakeProfileRepository) BatchGetByUUIDs(ctx context.Context, uuids []string) ([]*model.UserInfo, error) {
	if f.batchGetByUUIDsFn == nil {
		// 默认按 uuid 原样返回最小画像，测试关注顺序而不是字段
		users := make([]*model.UserInfo, 0, len(uuids))
		for _, uuid := range uuids {
			users = append(users, &model.UserInfo{Uuid: uuid})
		}
		return users, nil
	}
	return f.batchGetByUUIDsFn(ctx, uuids)
}

func (f *fakeProfileRepository) ListEligibleUUIDs(ctx context.Context) ([]string, error) {
	if f.listEligibleUUIDsFn == nil {
		return nil, nil
	}
	return f.listEligibleUUIDsFn(ctx)
}

func (f *fakeProfileRepository) ListEligibleByUniversity(ctx context.Context, university string) ([]*model.UserInfo, error) {
	if f.listEligibleByUniversityFn == nil {
		return nil, nil
	}
	return f.listEligibleByUniversityFn(ctx, university)
}

// ==================== 社交图谱仓储 Fake ====================

type fakeSocialRepository struct {
	listFriendUUIDsFn       func(ctx context.Context, userUUID string) ([]string, error)
	mutualFriendCountFn     func(ctx context.Context, a, b string) (int, error)
	listPendingApplyUUIDsFn func(ctx context.Context, userUUID string) ([]string, error)
	listBlockerUUIDsFn      func(ctx context.Context, userUUID string) ([]string, error)
	isBlockedByFn           func(ctx context.Context, a, b string) (bool, error)
}

func (f *fakeSocialRepository) ListFriendUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	if f.listFriendUUIDsFn == nil {
		return nil, nil
	}
	return f.listFriendUUIDsFn(ctx, userUUID)
}

func (f *fakeSocialRepository) MutualFriendCount(ctx context.Context, a, b string) (int, error) {
	if f.mutualFriendCountFn == nil {
		return 0, nil
	}
	return f.mutualFriendCountFn(ctx, a, b)
}

func (f *fakeSocialRepository) ListPendingApplyUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	if f.listPendingApplyUUIDsFn == nil {
		return nil, nil
	}
	return f.listPendingApplyUUIDsFn(ctx, userUUID)
}

func (f *fakeSocialRepository) ListBlockerUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	if f.listBlockerUUIDsFn == nil {
		return nil, nil
	}
	return f.listBlockerUUIDsFn(ctx, userUUID)
}

func (f *fakeSocialRepository) IsBlockedBy(ctx context.Context, a, b string) (bool, error) {
	if f.isBlockedByFn == nil {
		return false, nil
	}
	return f.isBlockedByFn(ctx, a, b)
}

// ==================== 徽章仓储 Fake ====================

type fakeBadgeRepository struct {
	mutualBadgeCountFn func(ctx context.Context, a, b string) (int, error)
}

func (f *fakeBadgeRepository) MutualBadgeCount(ctx context.Context, a, b string) (int, error) {
	if f.mutualBadgeCountFn == nil {
		return 0, nil
	}
	return f.mutualBadgeCountFn(ctx, a, b)
}

// ==================== 结果缓存仓储 Fake ====================

type fakeSuggestCacheRepository struct {
	getRangeFn   func(ctx context.Context, recipientUUID string, seed int64, offset, limit int) ([]string, int64, error)
	storeListFn  func(ctx context.Context, recipientUUID string, seed int64, candidateUUIDs []string) error
	invalidateFn func(ctx context.Context, recipientUUID string, seed int64) error
}

func (f *fakeSuggestCacheRepository) GetRange(ctx context.Context, recipientUUID string, seed int64, offset, limit int) ([]string, int64, error) {
	if f.getRangeFn == nil {
		return nil, 0, repository.ErrRedisNil
	}
	return f.getRangeFn(ctx, recipientUUID, seed, offset, limit)
}

func (f *fakeSuggestCacheRepository) StoreList(ctx context.Context, recipientUUID string, seed int64, candidateUUIDs []string) error {
	if f.storeListFn == nil {
		return nil
	}
	return f.storeListFn(ctx, recipientUUID, seed, candidateUUIDs)
}

func (f *fakeSuggestCacheRepository) Invalidate(ctx context.Context, recipientUUID string, seed int64) error {
	if f.invalidateFn == nil {
		return nil
	}
	return f.invalidateFn(ctx, recipientUUID, seed)
}

// ==================== 触发服务 Fake ====================

type fakeTriggerService struct {
	mu          sync.Mutex
	shownCalls  [][]string
	dirtyCalls  []string
	markShownFn func(ctx context.Context, recipientUUID string, candidateUUIDs []string) error
}

func (f *fakeTriggerService) MarkUserDirty(ctx context.Context, userUUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirtyCalls = append(f.dirtyCalls, userUUID)
	return nil
}

func (f *fakeTriggerService) MarkShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	f.mu.Lock()
	f.shownCalls = append(f.shownCalls, append([]string(nil), candidateUUIDs...))
	f.mu.Unlock()
	if f.markShownFn != nil {
		return f.markShownFn(ctx, recipientUUID, candidateUUIDs)
	}
	return nil
}

func (f *fakeTriggerService) ApplyMarkDirty(ctx context.Context, userUUID string) error {
	return nil
}

func (f *fakeTriggerService) ApplyDecayShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	return nil
}

func (f *fakeTriggerService) ShownCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.shownCalls))
	copy(out, f.shownCalls)
	return out
}
