package config

import "time"

// FeatureWeights 各特征在加权求和中的权重，总和为 1。
type FeatureWeights struct {
	Friend     float64 `json:"friend" yaml:"friend"`
	University float64 `json:"university" yaml:"university"`
	Badge      float64 `json:"badge" yaml:"badge"`
	ClassYear  float64 `json:"classYear" yaml:"classYear"`
	Interested float64 `json:"interested" yaml:"interested"`
}

// RecommendConfig 推荐引擎配置。
// 阈值语义：共同好友数超过 FriendThreshold 视为等同 FriendThreshold（50 个共同好友和 1000 个一样）。
type RecommendConfig struct {
	Weights         FeatureWeights `json:"weights" yaml:"weights"`
	FriendThreshold int            `json:"friendThreshold" yaml:"friendThreshold"` // 共同好友归一化上限
	BadgeThreshold  int            `json:"badgeThreshold" yaml:"badgeThreshold"`   // 共同徽章归一化上限
	// DecayFactor 每次曝光未转化时 interested_feature 的乘性衰减系数。
	// 没有下限：分值渐近 0 但永不为 0，候选不会被彻底压死（保留该行为，待产品复核）。
	DecayFactor  float64       `json:"decayFactor" yaml:"decayFactor"`
	ShuffleChunk int           `json:"shuffleChunk" yaml:"shuffleChunk"` // 轻量洗牌分块大小
	CacheTTL     time.Duration `json:"cacheTTL" yaml:"cacheTTL"`         // 排序结果缓存时长

	SyncInterval      time.Duration `json:"syncInterval" yaml:"syncInterval"`           // 资格同步任务周期
	RecomputeInterval time.Duration `json:"recomputeInterval" yaml:"recomputeInterval"` // 特征重算任务周期
	JobRunBudget      time.Duration `json:"jobRunBudget" yaml:"jobRunBudget"`           // 单次任务的墙钟预算
	SyncBatchSize     int           `json:"syncBatchSize" yaml:"syncBatchSize"`         // 同步任务单批 upsert 行数
	SyncWriteRate     float64       `json:"syncWriteRate" yaml:"syncWriteRate"`         // 同步任务每秒批次数上限（O(n²) 限速）
	RecomputeBatch    int           `json:"recomputeBatch" yaml:"recomputeBatch"`       // 重算任务单批扫描行数
	RecomputeWorkers  int           `json:"recomputeWorkers" yaml:"recomputeWorkers"`   // 重算任务并发 worker 数
}

// DefaultRecommendConfig 返回默认配置。
// 权重/阈值/衰减系数是产品定死的手调参数，不做在线学习。
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		Weights: FeatureWeights{
			Friend:     0.5,
			University: 0.05,
			Badge:      0.2,
			ClassYear:  0.05,
			Interested: 0.2,
		},
		FriendThreshold: 50,
		BadgeThreshold:  5,
		DecayFactor:     0.9,
		ShuffleChunk:    5,
		CacheTTL:        10 * time.Minute,

		SyncInterval:      6 * time.Hour,
		RecomputeInterval: 6 * time.Hour,
		JobRunBudget:      30 * time.Minute,
		SyncBatchSize:     500,
		SyncWriteRate:     20,
		RecomputeBatch:    200,
		RecomputeWorkers:  16,
	}
}
