package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	name  string
	runs  int64
	block time.Duration
	err   error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt64(&j.runs, 1)
	if j.block > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(j.block):
		}
	}
	return j.err
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	initJobTestLogger()

	j := &countingJob{name: "test"}
	s := NewScheduler()
	s.Register(j, time.Hour, time.Second)

	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&j.runs) == 1
	}, time.Second, 10*time.Millisecond, "启动后应立即执行第一轮")

	s.Stop()
	assert.Equal(t, int64(1), atomic.LoadInt64(&j.runs))
}

func TestSchedulerSurvivesPanicAndErrors(t *testing.T) {
	initJobTestLogger()

	errJob := &countingJob{name: "failing", err: assert.AnError}
	s := NewScheduler()
	s.Register(errJob, 20*time.Millisecond, time.Second)

	s.Start(context.Background())

	// 失败的任务下一个周期照常执行
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&errJob.runs) >= 2
	}, time.Second, 10*time.Millisecond)

	s.Stop()
}

func TestSchedulerBudgetCancelsRun(t *testing.T) {
	initJobTestLogger()

	slowJob := &countingJob{name: "slow", block: 10 * time.Second}
	s := NewScheduler()
	s.Register(slowJob, time.Hour, 30*time.Millisecond)

	start := time.Now()
	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&slowJob.runs) == 1
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	assert.Less(t, time.Since(start), 5*time.Second, "预算超时应提前结束阻塞的任务")
}
