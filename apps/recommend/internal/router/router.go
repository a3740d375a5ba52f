package router

import (
	"RecommendServer/apps/recommend/internal/handler"
	"RecommendServer/apps/recommend/internal/middleware"
	"RecommendServer/config"
	"RecommendServer/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// InitRouter 初始化路由
func InitRouter(
	cfg config.ServerConfig,
	suggestHandler *handler.SuggestHandler,
	triggerHandler *handler.TriggerHandler,
	limiter *middleware.RedisRateLimiter,
	suggestBreaker *gobreaker.CircuitBreaker,
) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery(true))

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标暴露接口
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 对外读接口：限流 + 超时 + 熔断
	api := r.Group("/api/v1")
	api.Use(middleware.IPRateLimitMiddleware(limiter))
	api.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	{
		suggest := api.Group("/suggest")
		suggest.Use(middleware.CircuitBreakerMiddleware(suggestBreaker))
		{
			suggest.GET("/list", suggestHandler.SuggestList)
		}
	}

	// 内部触发接口：只做超时控制，不限流（调用方是内网服务）
	internal := r.Group("/internal/v1")
	internal.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	{
		recommend := internal.Group("/recommend")
		{
			recommend.POST("/dirty", triggerHandler.MarkDirty)
			recommend.POST("/shown", triggerHandler.MarkShown)
		}
	}

	return r
}
