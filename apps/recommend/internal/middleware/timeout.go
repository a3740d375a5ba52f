package middleware

import (
	"context"
	"time"

	"RecommendServer/consts"
	"RecommendServer/pkg/logger"
	"RecommendServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware 请求超时控制中间件
// 不另起协程，依赖下游对 Context 的感知：超时后 DB/Redis 调用会自行返回 deadline exceeded
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// 后置兜底：下游没来得及写响应就超时的情况，由中间件补一个失败响应
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			logger.Warn(NewContextWithGin(c), "请求强制超时",
				logger.String("path", c.Request.URL.Path),
				logger.Duration("timeout", timeout),
			)
			result.Fail(c, nil, consts.CodeServiceUnavailable)
			c.Abort()
		}
	}
}
