package job

import (
	"context"
	"sync"
	"time"

	"RecommendServer/pkg/logger"
)

// Job 周期性后台任务
type Job interface {
	// Name 任务名（日志与指标标签）
	Name() string
	// Run 执行一轮；ctx 带本轮的墙钟预算，超时后应尽快收尾
	Run(ctx context.Context) error
}

// entry 一个已注册任务及其调度参数
type entry struct {
	job      Job
	interval time.Duration
	budget   time.Duration
}

// Scheduler 固定间隔调度器
// 每个任务独立协程 + ticker 串行驱动，天然不会自我重叠；
// 实例间的并发由存储层的唯一索引与幂等写保证，调度器不做分布式协调。
type Scheduler struct {
	entries []entry
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register 注册任务：每 interval 执行一轮，单轮墙钟预算 budget
func (s *Scheduler) Register(job Job, interval, budget time.Duration) {
	s.entries = append(s.entries, entry{job: job, interval: interval, budget: budget})
}

// Start 启动全部任务，立即执行第一轮，之后按 interval 周期执行
func (s *Scheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, e := range s.entries {
		s.wg.Add(1)
		go func(e entry) {
			defer s.wg.Done()

			s.runOnce(runCtx, e)

			ticker := time.NewTicker(e.interval)
			defer ticker.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
					s.runOnce(runCtx, e)
				}
			}
		}(e)
	}
}

// Stop 停止调度并等待在途任务退出
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// runOnce 执行单轮：预算超时 + panic 兜底 + 指标记录
func (s *Scheduler) runOnce(ctx context.Context, e entry) {
	budgetCtx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	start := time.Now()
	status := "ok"

	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			logger.Error(budgetCtx, "后台任务 panic",
				logger.String("job", e.job.Name()),
				logger.Any("panic", r),
			)
		}
		jobRunsTotal.WithLabelValues(e.job.Name(), status).Inc()
		jobDurationSeconds.WithLabelValues(e.job.Name()).Observe(time.Since(start).Seconds())
	}()

	logger.Info(budgetCtx, "后台任务开始", logger.String("job", e.job.Name()))

	if err := e.job.Run(budgetCtx); err != nil {
		status = "error"
		logger.Error(budgetCtx, "后台任务执行失败",
			logger.String("job", e.job.Name()),
			logger.Duration("elapsed", time.Since(start)),
			logger.ErrorField("error", err),
		)
		return
	}

	logger.Info(budgetCtx, "后台任务完成",
		logger.String("job", e.job.Name()),
		logger.Duration("elapsed", time.Since(start)),
	)
}
