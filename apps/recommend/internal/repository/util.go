package repository

import (
	"math/rand"
	"strings"
	"time"
)

func isRedisWrongType(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "WRONGTYPE")
}

// getRandomExpireTime 生成带随机抖动的过期时间（基础值 ± 10%），避免缓存同时雪崩。
func getRandomExpireTime(baseExpire time.Duration) time.Duration {
	jitterRange := float64(baseExpire) * 0.1
	jitter := time.Duration(rand.Float64()*float64(jitterRange)*2 - float64(jitterRange))

	return baseExpire + jitter
}

// getRandomBool 以 probability 的概率返回 true（概率续期用）。
func getRandomBool(probability float64) bool {
	return rand.Float64() < probability
}

// chunkStrings 将切片按 size 均分，尾块可以不满。
func chunkStrings(list []string, size int) [][]string {
	if size <= 0 || len(list) == 0 {
		return nil
	}
	var out [][]string
	for start := 0; start < len(list); start += size {
		end := start + size
		if end > len(list) {
			end = len(list)
		}
		out = append(out, list[start:end])
	}
	return out
}
