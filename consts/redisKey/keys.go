package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// SuggestListTTL 推荐结果列表缓存 TTL（与产品约定的 10 分钟刷新窗口一致）
	SuggestListTTL = 10 * time.Minute

	// UserProfileTTL 用户画像缓存 TTL
	UserProfileTTL = 1 * time.Hour
	// UserProfileEmptyTTL 用户画像空值缓存 TTL（防穿透）
	UserProfileEmptyTTL = 5 * time.Minute

	// FriendSetTTL 好友集合缓存 TTL
	FriendSetTTL = 24 * time.Hour
	// FriendSetEmptyTTL 好友集合空值缓存 TTL
	FriendSetEmptyTTL = 5 * time.Minute

	// BlockerSetTTL 拉黑关系缓存 TTL
	BlockerSetTTL = 24 * time.Hour
)

// ==================== Key 构造函数 ====================

// SuggestListKey 生成推荐结果缓存 Key: sp:{recipient_uuid}:{seed}
// 同一 (recipient, seed) 的完整排序结果整体缓存，分页只做切片。
func SuggestListKey(recipientUUID string, seed int64) string {
	return fmt.Sprintf("sp:%s:%d", recipientUUID, seed)
}

// UserProfileKey 生成用户画像缓存 Key: recommend:profile:{uuid}
func UserProfileKey(uuid string) string {
	return fmt.Sprintf("recommend:profile:%s", uuid)
}

// FriendSetKey 生成好友集合缓存 Key: recommend:friends:{uuid}
func FriendSetKey(userUUID string) string {
	return fmt.Sprintf("recommend:friends:%s", userUUID)
}

// BlockerSetKey 生成"拉黑了该用户的人"集合 Key: recommend:blockers:{uuid}
func BlockerSetKey(userUUID string) string {
	return fmt.Sprintf("recommend:blockers:%s", userUUID)
}

// RateLimitIPKey 生成 IP 限流 Key: rate:limit:ip:{ip}
func RateLimitIPKey(ip string) string {
	return fmt.Sprintf("rate:limit:ip:%s", ip)
}
