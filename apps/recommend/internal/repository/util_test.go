package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChunkStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		size int
		want [][]string
	}{
		{name: "empty", in: nil, size: 3, want: nil},
		{name: "invalid_size", in: []string{"a"}, size: 0, want: nil},
		{name: "exact", in: []string{"a", "b", "c", "d"}, size: 2, want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "tail_partial", in: []string{"a", "b", "c"}, size: 2, want: [][]string{{"a", "b"}, {"c"}}},
		{name: "oversized_chunk", in: []string{"a"}, size: 10, want: [][]string{{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkStrings(tt.in, tt.size))
		})
	}
}

func TestGetRandomExpireTime(t *testing.T) {
	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		got := getRandomExpireTime(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.LessOrEqual(t, got, 11*time.Minute)
	}
}

func TestStripEmptyMarker(t *testing.T) {
	assert.Empty(t, stripEmptyMarker([]string{emptySetMarker}))
	assert.Equal(t, []string{"a", "b"}, stripEmptyMarker([]string{"a", emptySetMarker, "b"}))
}
