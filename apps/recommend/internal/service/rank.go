package service

import (
	"math/rand"
	"sort"

	"RecommendServer/config"
	"RecommendServer/model"
)

// scoredCandidate 参与排序的候选
type scoredCandidate struct {
	Uuid  string
	Score float64
}

// scoreEdge 对一条推荐边做加权求和打分
func scoreEdge(edge *model.PeopleRecommend, w config.FeatureWeights) float64 {
	return w.Friend*edge.FriendFeature +
		w.University*edge.UniversityFeature +
		w.Badge*edge.BadgeFeature +
		w.ClassYear*edge.ClassYearFeature +
		w.Interested*edge.InterestedFeature
}

// rankCandidates 打分并排序，返回有序 uuid 列表
// 排序确定性：分数降序，同分按 uuid 升序——同一数据快照下结果必须逐字节一致，
// 缓存重建前后用户看到的列表才不会跳变。
func rankCandidates(edges []*model.PeopleRecommend, w config.FeatureWeights) []string {
	scored := make([]scoredCandidate, 0, len(edges))
	for _, edge := range edges {
		scored = append(scored, scoredCandidate{
			Uuid:  edge.CandidateUuid,
			Score: scoreEdge(edge, w),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Uuid < scored[j].Uuid
	})

	uuids := make([]string, 0, len(scored))
	for _, c := range scored {
		uuids = append(uuids, c.Uuid)
	}
	return uuids
}

// lightShuffle 轻量洗牌：按 chunkSize 分块，只在块内打乱
// 头部块永远是头部块——高分候选保持在前，块内顺序随 seed 变化，
// 让同一批头部候选在不同 seed 下呈现不同的排列。
// 每个块用同一 seed 重新初始化随机源（各块彼此独立，块的洗牌结果只取决于 seed 与块内容）。
func lightShuffle(uuids []string, seed int64, chunkSize int) []string {
	if chunkSize <= 1 || len(uuids) <= 1 {
		return uuids
	}

	out := make([]string, len(uuids))
	copy(out, uuids)

	for start := 0; start < len(out); start += chunkSize {
		end := start + chunkSize
		if end > len(out) {
			end = len(out)
		}
		chunk := out[start:end]
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(chunk), func(i, j int) {
			chunk[i], chunk[j] = chunk[j], chunk[i]
		})
	}
	return out
}

// uniformShuffle 整体洗牌（兜底池用，不存在分数概念）
func uniformShuffle(uuids []string, seed int64) []string {
	out := make([]string, len(uuids))
	copy(out, uuids)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
