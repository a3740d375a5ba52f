package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 后台任务指标
var (
	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "job",
		Name:      "runs_total",
		Help:      "后台任务执行次数（按任务名与结果区分）",
	}, []string{"job", "status"})

	jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recommend",
		Subsystem: "job",
		Name:      "duration_seconds",
		Help:      "后台任务单次执行耗时",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
	}, []string{"job"})

	edgesInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "sync",
		Name:      "edges_inserted_total",
		Help:      "同步任务新插入的推荐边总数",
	})

	edgesRestoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "sync",
		Name:      "edges_restored_total",
		Help:      "同步任务恢复的已下线推荐边总数",
	})

	edgesRetiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "sync",
		Name:      "edges_retired_total",
		Help:      "同步任务下线的推荐边总数",
	})

	syncBatchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "sync",
		Name:      "batch_failures_total",
		Help:      "同步任务失败的写入批次数",
	})

	edgesRecomputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "recompute",
		Name:      "edges_recomputed_total",
		Help:      "重算任务成功写回特征的推荐边总数",
	})

	edgeRecomputeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recommend",
		Subsystem: "recompute",
		Name:      "edge_failures_total",
		Help:      "重算任务处理失败的推荐边总数（保持脏标记，下轮重试）",
	})
)
