package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"RecommendServer/consts"
	"RecommendServer/pkg/logger"
	"RecommendServer/pkg/result"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
)

// NewSuggestBreaker 创建推荐读路径熔断器
// 推荐列表是纯锦上添花的功能：依赖的 MySQL/Redis 持续出错时宁可快速失败，
// 也不能让重试流量把共享存储拖垮。半开窗口每次放一个探测请求。
func NewSuggestBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "suggest",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 样本够多且失败率过半才熔断
			return counts.Requests >= 10 &&
				float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(context.Background(), "熔断器状态变更",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
}

// CircuitBreakerMiddleware 将被保护路由的处理过程包进熔断器
// 以 HTTP 5xx 作为失败信号；熔断开启时直接返回服务暂不可用。
func CircuitBreakerMiddleware(cb *gobreaker.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := cb.Execute(func() (interface{}, error) {
			c.Next()
			if c.Writer.Status() >= http.StatusInternalServerError {
				return nil, errServerStatus
			}
			return nil, nil
		})

		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			result.Fail(c, nil, consts.CodeServiceUnavailable)
			c.Abort()
		}
	}
}

// errServerStatus 熔断器的失败信号，不外露
var errServerStatus = errors.New("handler returned server error status")
