package job

import (
	"context"
	"fmt"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/config"
	"RecommendServer/pkg/logger"

	"golang.org/x/time/rate"
)

// SyncJob 资格同步任务
// 维护推荐边宇宙与资格集合的一致：
//  1. 恢复双端重新具备资格的已下线边（置脏）
//  2. 下线任一端失去资格的边
//  3. 为全部资格用户补齐 n·(n-1) 条有向边（只插缺失的，存量行不动）
//
// O(n²) 的写入量靠令牌桶限速摊平，避免压垮主库；单批失败只跳过该批，
// 漏掉的边下一轮会重新补（插入幂等）。
type SyncJob struct {
	profileRepo repository.IProfileRepository
	edgeRepo    repository.IEdgeRepository
	cfg         config.RecommendConfig
	limiter     *rate.Limiter
}

// NewSyncJob 创建资格同步任务
func NewSyncJob(profileRepo repository.IProfileRepository, edgeRepo repository.IEdgeRepository, cfg config.RecommendConfig) *SyncJob {
	return &SyncJob{
		profileRepo: profileRepo,
		edgeRepo:    edgeRepo,
		cfg:         cfg,
		limiter:     rate.NewLimiter(rate.Limit(cfg.SyncWriteRate), 1),
	}
}

// Name 任务名
func (j *SyncJob) Name() string { return "eligibility_sync" }

// Run 执行一轮同步
func (j *SyncJob) Run(ctx context.Context) error {
	// ==================== 1. 资格集合快照 ====================
	eligible, err := j.profileRepo.ListEligibleUUIDs(ctx)
	if err != nil {
		return fmt.Errorf("列出资格用户失败: %w", err)
	}

	logger.Info(ctx, "资格同步快照就绪", logger.Int("eligible_count", len(eligible)))

	// ==================== 2. 恢复 / 下线 ====================
	restored, err := j.edgeRepo.RestoreRetiredPairs(ctx, eligible)
	if err != nil {
		return fmt.Errorf("恢复已下线边失败: %w", err)
	}
	edgesRestoredTotal.Add(float64(restored))

	retired, err := j.edgeRepo.RetireByIneligible(ctx, eligible)
	if err != nil {
		return fmt.Errorf("下线失格边失败: %w", err)
	}
	edgesRetiredTotal.Add(float64(retired))

	// ==================== 3. 补齐有向边 ====================
	inserted, failedBatches, err := j.ensureAllPairs(ctx, eligible)
	if err != nil {
		return err
	}

	logger.Info(ctx, "资格同步完成",
		logger.Int("eligible_count", len(eligible)),
		logger.Int64("restored", restored),
		logger.Int64("retired", retired),
		logger.Int64("inserted", inserted),
		logger.Int("failed_batches", failedBatches),
	)
	return nil
}

// ensureAllPairs 流式生成 n·(n-1) 条有向边并分批限速写入
// 不把全量对载入内存：双层循环边生成边凑批，凑满一批就刷。
func (j *SyncJob) ensureAllPairs(ctx context.Context, eligible []string) (int64, int, error) {
	batchSize := j.cfg.SyncBatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	var inserted int64
	failedBatches := 0
	batch := make([]repository.EdgePair, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		// 限速在这里生效：每个批次消耗一个令牌
		if err := j.limiter.Wait(ctx); err != nil {
			return err // 预算耗尽，带着已完成的进度退出
		}

		n, err := j.edgeRepo.BatchEnsure(ctx, batch)
		if err != nil {
			// 单批失败不终止整轮，下一轮会补回来
			failedBatches++
			syncBatchFailuresTotal.Inc()
			logger.Warn(ctx, "推荐边批量写入失败，跳过该批",
				logger.Int("batch_size", len(batch)),
				logger.ErrorField("error", err),
			)
		} else {
			inserted += n
		}
		batch = batch[:0]
		return nil
	}

	for _, recipient := range eligible {
		for _, candidate := range eligible {
			if recipient == candidate {
				continue
			}
			batch = append(batch, repository.EdgePair{
				RecipientUuid: recipient,
				CandidateUuid: candidate,
			})
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					edgesInsertedTotal.Add(float64(inserted))
					return inserted, failedBatches, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		edgesInsertedTotal.Add(float64(inserted))
		return inserted, failedBatches, err
	}

	edgesInsertedTotal.Add(float64(inserted))
	return inserted, failedBatches, nil
}
