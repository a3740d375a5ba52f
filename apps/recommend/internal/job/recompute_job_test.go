package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/config"
	"RecommendServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeatureService 可按边定制结果的特征计算 Fake
type fakeFeatureService struct {
	computeFn func(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error)
}

func (f *fakeFeatureService) ComputeEdgeFeatures(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error) {
	if f.computeFn == nil {
		return repository.EdgeFeatures{}, nil
	}
	return f.computeFn(ctx, recipientUUID, candidateUUID)
}

// dirtyEdgeStore 模拟带游标扫描的脏边表
type dirtyEdgeStore struct {
	mu      sync.Mutex
	edges   []*model.PeopleRecommend
	cleaned map[int64]repository.EdgeFeatures
}

func newDirtyEdgeStore(edges ...*model.PeopleRecommend) *dirtyEdgeStore {
	return &dirtyEdgeStore{edges: edges, cleaned: make(map[int64]repository.EdgeFeatures)}
}

func (s *dirtyEdgeStore) listDirty(ctx context.Context, afterID int64, limit int) ([]*model.PeopleRecommend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.PeopleRecommend
	for _, e := range s.edges {
		if e.Id > afterID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *dirtyEdgeStore) updateFeatures(ctx context.Context, edgeID int64, f repository.EdgeFeatures) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleaned[edgeID] = f
	return nil
}

func fastRecomputeConfig() config.RecommendConfig {
	cfg := config.DefaultRecommendConfig()
	cfg.RecomputeBatch = 2 // 强制多批扫描
	cfg.RecomputeWorkers = 4
	return cfg
}

func TestRecomputeJobProcessesAllDirtyEdges(t *testing.T) {
	initJobTestLogger()

	store := newDirtyEdgeStore(
		&model.PeopleRecommend{Id: 1, RecipientUuid: "a", CandidateUuid: "b"},
		&model.PeopleRecommend{Id: 2, RecipientUuid: "a", CandidateUuid: "c"},
		&model.PeopleRecommend{Id: 3, RecipientUuid: "b", CandidateUuid: "a"},
		&model.PeopleRecommend{Id: 4, RecipientUuid: "c", CandidateUuid: "a"},
		&model.PeopleRecommend{Id: 5, RecipientUuid: "b", CandidateUuid: "c"},
	)
	edgeRepo := &fakeJobEdgeRepository{
		listDirtyFn:    store.listDirty,
		updateFeatures: store.updateFeatures,
	}
	featureSvc := &fakeFeatureService{
		computeFn: func(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error) {
			return repository.EdgeFeatures{University: 1}, nil
		},
	}

	j := NewRecomputeJob(edgeRepo, featureSvc, fastRecomputeConfig())
	require.NoError(t, j.Run(context.Background()))

	// 全部 5 条边写回特征
	assert.Len(t, store.cleaned, 5)
	for id, f := range store.cleaned {
		assert.InDelta(t, 1.0, f.University, 1e-9, "edge %d", id)
	}
}

func TestRecomputeJobEdgeFailureIsolation(t *testing.T) {
	initJobTestLogger()

	store := newDirtyEdgeStore(
		&model.PeopleRecommend{Id: 1, RecipientUuid: "a", CandidateUuid: "bad"},
		&model.PeopleRecommend{Id: 2, RecipientUuid: "a", CandidateUuid: "c"},
		&model.PeopleRecommend{Id: 3, RecipientUuid: "a", CandidateUuid: "gone"},
		&model.PeopleRecommend{Id: 4, RecipientUuid: "b", CandidateUuid: "c"},
	)
	edgeRepo := &fakeJobEdgeRepository{
		listDirtyFn:    store.listDirty,
		updateFeatures: store.updateFeatures,
	}
	featureSvc := &fakeFeatureService{
		computeFn: func(ctx context.Context, recipientUUID, candidateUUID string) (repository.EdgeFeatures, error) {
			switch candidateUUID {
			case "bad":
				return repository.EdgeFeatures{}, errors.New("compute failed")
			case "gone":
				return repository.EdgeFeatures{}, repository.ErrRecordNotFound
			default:
				return repository.EdgeFeatures{Badge: 0.4}, nil
			}
		},
	}

	j := NewRecomputeJob(edgeRepo, featureSvc, fastRecomputeConfig())

	// 单边失败不让整轮失败
	require.NoError(t, j.Run(context.Background()))

	// 失败的两条边不写回（保持脏标记），其余两条成功
	assert.Len(t, store.cleaned, 2)
	assert.Contains(t, store.cleaned, int64(2))
	assert.Contains(t, store.cleaned, int64(4))
}

func TestRecomputeJobEmptyBacklog(t *testing.T) {
	initJobTestLogger()

	edgeRepo := &fakeJobEdgeRepository{}
	j := NewRecomputeJob(edgeRepo, &fakeFeatureService{}, fastRecomputeConfig())
	require.NoError(t, j.Run(context.Background()))
}

func TestRecomputeJobStopsOnCanceledContext(t *testing.T) {
	initJobTestLogger()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newDirtyEdgeStore(
		&model.PeopleRecommend{Id: 1, RecipientUuid: "a", CandidateUuid: "b"},
	)
	edgeRepo := &fakeJobEdgeRepository{
		listDirtyFn:    store.listDirty,
		updateFeatures: store.updateFeatures,
	}

	j := NewRecomputeJob(edgeRepo, &fakeFeatureService{}, fastRecomputeConfig())
	require.ErrorIs(t, j.Run(ctx), context.Canceled)
	assert.Empty(t, store.cleaned)
}
