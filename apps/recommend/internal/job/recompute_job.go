package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/apps/recommend/internal/service"
	"RecommendServer/config"
	"RecommendServer/model"
	"RecommendServer/pkg/async"
	"RecommendServer/pkg/logger"
)

// RecomputeJob 特征重算任务
// 按主键游标扫描脏边，并发重算结构特征后写回并清脏。
// 单边失败只记日志并保持脏标记，下一轮自动重试；整轮永远收敛到
// "当时可算的边全部算完"。
type RecomputeJob struct {
	edgeRepo   repository.IEdgeRepository
	featureSvc service.IFeatureService
	cfg        config.RecommendConfig
}

// NewRecomputeJob 创建特征重算任务
func NewRecomputeJob(edgeRepo repository.IEdgeRepository, featureSvc service.IFeatureService, cfg config.RecommendConfig) *RecomputeJob {
	return &RecomputeJob{
		edgeRepo:   edgeRepo,
		featureSvc: featureSvc,
		cfg:        cfg,
	}
}

// Name 任务名
func (j *RecomputeJob) Name() string { return "feature_recompute" }

// Run 执行一轮重算
func (j *RecomputeJob) Run(ctx context.Context) error {
	batchSize := j.cfg.RecomputeBatch
	if batchSize <= 0 {
		batchSize = 200
	}
	workers := j.cfg.RecomputeWorkers
	if workers <= 0 {
		workers = 8
	}

	var recomputed, failed int64
	afterID := int64(0)

	for {
		select {
		case <-ctx.Done():
			logger.Warn(ctx, "特征重算预算耗尽，提前收尾",
				logger.Int64("recomputed", recomputed),
				logger.Int64("failed", failed),
			)
			return ctx.Err()
		default:
		}

		edges, err := j.edgeRepo.ListDirty(ctx, afterID, batchSize)
		if err != nil {
			return fmt.Errorf("扫描脏边失败: %w", err)
		}
		if len(edges) == 0 {
			break
		}
		afterID = edges[len(edges)-1].Id

		j.recomputeBatch(ctx, edges, workers, &recomputed, &failed)
	}

	edgesRecomputedTotal.Add(float64(recomputed))
	edgeRecomputeFailuresTotal.Add(float64(failed))

	logger.Info(ctx, "特征重算完成",
		logger.Int64("recomputed", recomputed),
		logger.Int64("failed", failed),
	)
	return nil
}

// recomputeBatch 并发处理一批脏边
// 信号量限制同批在途 worker 数；任务体投递到全局协程池执行。
func (j *RecomputeJob) recomputeBatch(ctx context.Context, edges []*model.PeopleRecommend, workers int, recomputed, failed *int64) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, edge := range edges {
		edge := edge
		sem <- struct{}{}
		wg.Add(1)

		run := func() {
			defer func() {
				<-sem
				wg.Done()
			}()

			if err := j.recomputeEdge(ctx, edge); err != nil {
				atomic.AddInt64(failed, 1)
				return
			}
			atomic.AddInt64(recomputed, 1)
		}

		// 协程池满时退回同步执行，保证批次一定被处理完
		if err := async.Submit(run); err != nil {
			run()
		}
	}

	wg.Wait()
}

// recomputeEdge 重算单条边：算特征、写回、清脏
// 任何失败都保持脏标记不动，留给下一轮重试。
func (j *RecomputeJob) recomputeEdge(ctx context.Context, edge *model.PeopleRecommend) error {
	features, err := j.featureSvc.ComputeEdgeFeatures(ctx, edge.RecipientUuid, edge.CandidateUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			// 端点画像已不存在：资格同步的下一轮会把这条边下线，这里只跳过
			logger.Warn(ctx, "边端点画像缺失，跳过重算",
				logger.Int64("edge_id", edge.Id),
				logger.String("recipient_uuid", edge.RecipientUuid),
				logger.String("candidate_uuid", edge.CandidateUuid),
			)
			return err
		}
		logger.Error(ctx, "边特征计算失败",
			logger.Int64("edge_id", edge.Id),
			logger.ErrorField("error", err),
		)
		return err
	}

	if err := j.edgeRepo.UpdateFeatures(ctx, edge.Id, features); err != nil {
		logger.Error(ctx, "边特征写回失败",
			logger.Int64("edge_id", edge.Id),
			logger.ErrorField("error", err),
		)
		return err
	}
	return nil
}
