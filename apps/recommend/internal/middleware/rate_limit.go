package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"RecommendServer/consts"
	rediskey "RecommendServer/consts/redisKey"
	"RecommendServer/pkg/logger"
	"RecommendServer/pkg/result"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// luaTokenBucket Redis 令牌桶脚本
// 原子性地补充令牌并判断本次请求是否放行。
//
//	KEYS[1]: 限流 key
//	ARGV[1]: 当前时间戳（毫秒）
//	ARGV[2]: 令牌桶容量
//	ARGV[3]: 每秒产生的令牌数
//	ARGV[4]: 本次消耗的令牌数
//
// 返回 1 放行，0 限流。
const luaTokenBucket = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call('HMGET', key, 'tokens', 'last_time')
local current_tokens = tonumber(info[1])
local last_time = tonumber(info[2])

if current_tokens == nil then
    current_tokens = capacity
end
if last_time == nil then
    last_time = now
end

local time_diff = math.max(0, now - last_time)
local new_tokens = math.floor((time_diff * rate) / 1000)

if new_tokens > 0 then
    current_tokens = math.min(capacity, current_tokens + new_tokens)
    last_time = now
end

local allowed = 0
if current_tokens >= requested then
    current_tokens = current_tokens - requested
    allowed = 1
end

redis.call('HMSET', key, 'tokens', current_tokens, 'last_time', last_time)

local fill_time = math.ceil(capacity / rate)
local ttl = math.max(60, fill_time * 2)
redis.call('EXPIRE', key, ttl)

return allowed
`

// RedisRateLimiter 基于 Redis 的 IP 级别限流器
// Redis 异常时降级放行：限流是保护手段，不能反过来把可用性打掉。
type RedisRateLimiter struct {
	redisClient *redis.Client
	rate        float64
	burst       int
	mu          sync.RWMutex
}

// NewRedisRateLimiter 创建 Redis 限流器
func NewRedisRateLimiter(rate float64, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{rate: rate, burst: burst}
}

// SetRedisClient 设置 Redis 客户端（延迟注入，避免初始化顺序依赖）
func (r *RedisRateLimiter) SetRedisClient(client *redis.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redisClient = client
}

// Allow 检查是否允许请求通过
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	r.mu.RLock()
	client := r.redisClient
	r.mu.RUnlock()

	if client == nil {
		return true
	}

	// 给 Redis 操作独立的短超时，防止 Redis 响应慢拖死整条读路径
	redisCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	cmd := client.Eval(redisCtx, luaTokenBucket, []string{key}, time.Now().UnixMilli(), r.burst, r.rate, 1)
	res, err := cmd.Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			logger.Warn(ctx, "限流检查超时，降级放行", logger.String("key", key))
			return true
		}
		logger.Error(ctx, "限流检查失败，降级放行",
			logger.String("key", key),
			logger.ErrorField("error", err),
		)
		return true
	}

	allowed, ok := res.(int64)
	if !ok {
		return true
	}
	return allowed == 1
}

// IPRateLimitMiddleware 基于 Redis 的 IP 级别限流中间件
func IPRateLimitMiddleware(limiter *RedisRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		if !limiter.Allow(NewContextWithGin(c), rediskey.RateLimitIPKey(ip)) {
			result.Fail(c, nil, consts.CodeTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
