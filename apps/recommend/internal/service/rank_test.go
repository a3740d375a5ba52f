package service

import (
	"sort"
	"testing"

	"RecommendServer/config"
	"RecommendServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultWeights() config.FeatureWeights {
	return config.DefaultRecommendConfig().Weights
}

func TestScoreEdge(t *testing.T) {
	w := defaultWeights()

	tests := []struct {
		name string
		edge *model.PeopleRecommend
		want float64
	}{
		{
			name: "all_zero",
			edge: &model.PeopleRecommend{},
			want: 0,
		},
		{
			name: "all_full",
			edge: &model.PeopleRecommend{
				FriendFeature:     1,
				UniversityFeature: 1,
				BadgeFeature:      1,
				ClassYearFeature:  1,
				InterestedFeature: 1,
			},
			want: 1,
		},
		{
			// 10 个共同好友（0.2）+ 同校 + 满兴趣，不同届、无徽章
			name: "mutual_friends_same_university",
			edge: &model.PeopleRecommend{
				FriendFeature:     0.2,
				UniversityFeature: 1,
				InterestedFeature: 1,
			},
			want: 0.35,
		},
		{
			// 只有同校 + 满兴趣
			name: "same_university_only",
			edge: &model.PeopleRecommend{
				UniversityFeature: 1,
				InterestedFeature: 1,
			},
			want: 0.25,
		},
		{
			// 兴趣衰减后的分值变化
			name: "decayed_interest",
			edge: &model.PeopleRecommend{
				UniversityFeature: 1,
				InterestedFeature: 0.9,
			},
			want: 0.05 + 0.2*0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreEdge(tt.edge, w), 1e-9)
		})
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	w := defaultWeights()

	edges := []*model.PeopleRecommend{
		{CandidateUuid: "low", UniversityFeature: 1, InterestedFeature: 1},                     // 0.25
		{CandidateUuid: "high", FriendFeature: 0.2, UniversityFeature: 1, InterestedFeature: 1}, // 0.35
		{CandidateUuid: "mid", BadgeFeature: 1, InterestedFeature: 0.5},                        // 0.30
	}

	got := rankCandidates(edges, w)
	require.Equal(t, []string{"high", "mid", "low"}, got)
}

func TestRankCandidatesTieBreakByUuid(t *testing.T) {
	w := defaultWeights()

	// 三个同分候选，乱序输入
	edges := []*model.PeopleRecommend{
		{CandidateUuid: "ccc", InterestedFeature: 1},
		{CandidateUuid: "aaa", InterestedFeature: 1},
		{CandidateUuid: "bbb", InterestedFeature: 1},
	}

	got := rankCandidates(edges, w)
	require.Equal(t, []string{"aaa", "bbb", "ccc"}, got)

	// 输入顺序不同结果必须一致
	reversed := []*model.PeopleRecommend{edges[2], edges[0], edges[1]}
	require.Equal(t, got, rankCandidates(reversed, w))
}

func TestLightShuffleKeepsChunkMembership(t *testing.T) {
	uuids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	got := lightShuffle(uuids, 42, 5)
	require.Len(t, got, len(uuids))

	// 块成员不跨块：头5个还是头5个，依此类推
	for start := 0; start < len(uuids); start += 5 {
		end := start + 5
		if end > len(uuids) {
			end = len(uuids)
		}
		wantChunk := append([]string(nil), uuids[start:end]...)
		gotChunk := append([]string(nil), got[start:end]...)
		sort.Strings(wantChunk)
		sort.Strings(gotChunk)
		assert.Equal(t, wantChunk, gotChunk, "chunk [%d:%d)", start, end)
	}
}

func TestLightShuffleDeterministicPerSeed(t *testing.T) {
	uuids := []string{"a", "b", "c", "d", "e", "f", "g"}

	first := lightShuffle(uuids, 7, 5)
	second := lightShuffle(uuids, 7, 5)
	require.Equal(t, first, second, "同一 seed 必须产生同一排列")
}

func TestLightShuffleDoesNotMutateInput(t *testing.T) {
	uuids := []string{"a", "b", "c", "d", "e", "f"}
	original := append([]string(nil), uuids...)

	lightShuffle(uuids, 99, 5)
	require.Equal(t, original, uuids)
}

func TestLightShuffleDegenerateChunk(t *testing.T) {
	uuids := []string{"a", "b", "c"}

	// chunk<=1 等价于不洗牌
	require.Equal(t, uuids, lightShuffle(uuids, 5, 1))
	require.Equal(t, uuids, lightShuffle(uuids, 5, 0))
}

func TestUniformShuffle(t *testing.T) {
	uuids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	got := uniformShuffle(uuids, 3)
	require.Len(t, got, len(uuids))

	// 是同一集合的排列
	wantSorted := append([]string(nil), uuids...)
	gotSorted := append([]string(nil), got...)
	sort.Strings(wantSorted)
	sort.Strings(gotSorted)
	require.Equal(t, wantSorted, gotSorted)

	// 同 seed 确定，不动原切片
	require.Equal(t, got, uniformShuffle(uuids, 3))
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, uuids)
}
