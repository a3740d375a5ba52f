package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"RecommendServer/apps/recommend/internal/handler"
	"RecommendServer/apps/recommend/internal/job"
	"RecommendServer/apps/recommend/internal/middleware"
	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/apps/recommend/internal/router"
	"RecommendServer/apps/recommend/internal/service"
	"RecommendServer/apps/recommend/mq"
	"RecommendServer/config"
	"RecommendServer/pkg/async"
	"RecommendServer/pkg/kafka"
	"RecommendServer/pkg/logger"
	"RecommendServer/pkg/mysql"
	pkgredis "RecommendServer/pkg/redis"
	"RecommendServer/pkg/util"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 1. 初始化日志
	logCfg := config.DefaultLoggerConfig()
	zl, err := logger.Build(logCfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.ReplaceGlobal(zl)
	defer zl.Sync()

	// 2. 初始化MySQL
	dbCfg := config.DefaultMySQLConfig()
	db, err := mysql.Build(dbCfg)
	if err != nil {
		log.Fatalf("初始化MySQL失败: %v", err)
	}
	mysql.ReplaceGlobal(db)

	// 3. 初始化Redis
	redisCfg := config.DefaultRedisConfig()
	// 读路径要快速失败：Redis 挂了立刻降级回源，不能拖住请求
	redisCfg.ReadTimeout = 50 * time.Millisecond
	redisCfg.WriteTimeout = 50 * time.Millisecond

	redisClient, err := pkgredis.Build(redisCfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}
	pkgredis.ReplaceGlobal(redisClient)
	logger.Info(ctx, "Redis 初始化成功", logger.String("addr", redisCfg.Addr))

	// 4. 初始化协程池与雪花算法
	asyncCfg := config.DefaultAsyncConfig()
	if err := async.Init(asyncCfg); err != nil {
		log.Fatalf("初始化协程池失败: %v", err)
	}
	defer async.Release()
	if err := util.InitSnowflake(1); err != nil {
		log.Fatalf("初始化雪花节点失败: %v", err)
	}

	// 5. 组装依赖 - Repository 层
	recommendCfg := config.DefaultRecommendConfig()
	edgeRepo := repository.NewEdgeRepository(db)
	profileRepo := repository.NewProfileRepository(db, redisClient)
	socialRepo := repository.NewSocialRepository(db, redisClient)
	badgeRepo := repository.NewBadgeRepository(db)
	cacheRepo := repository.NewSuggestCacheRepository(redisClient)

	// 6. 组装依赖 - Service 层
	triggerService := service.NewTriggerService(edgeRepo, recommendCfg)
	featureService := service.NewFeatureService(profileRepo, socialRepo, badgeRepo, recommendCfg)
	suggestService := service.NewSuggestService(edgeRepo, profileRepo, socialRepo, cacheRepo, triggerService, recommendCfg)

	// 7. 初始化 Kafka（生产者 + 任务消费者）
	// Kafka 不可用时服务照常启动：触发写全部走进程内降级路径
	kafkaCfg := config.DefaultKafkaConfig()
	kafkaProducer := kafka.NewProducer(kafkaCfg.Brokers, kafkaCfg.RecommendTaskTopic)
	mq.SetGlobalProducer(kafkaProducer)

	zapAdapter := kafka.NewZapLoggerAdapter(logger.L())
	taskConsumer := mq.NewTaskConsumer(kafkaCfg, kafkaProducer, triggerService, zapAdapter)
	go func() {
		logger.Info(ctx, "推荐任务消费者启动中",
			logger.String("topic", kafkaCfg.RecommendTaskTopic),
			logger.String("group_id", kafkaCfg.ConsumerConfig.GroupID),
		)
		if err := taskConsumer.Start(ctx); err != nil {
			logger.Error(ctx, "推荐任务消费者运行错误", logger.ErrorField("error", err))
		}
	}()
	defer func() {
		if err := taskConsumer.Close(); err != nil {
			logger.Error(ctx, "关闭任务消费者失败", logger.ErrorField("error", err))
		}
		if err := kafkaProducer.Close(); err != nil {
			logger.Error(ctx, "关闭 Kafka Producer 失败", logger.ErrorField("error", err))
		}
	}()

	// 8. 启动后台任务调度（资格同步 + 特征重算）
	scheduler := job.NewScheduler()
	scheduler.Register(job.NewSyncJob(profileRepo, edgeRepo, recommendCfg),
		recommendCfg.SyncInterval, recommendCfg.JobRunBudget)
	scheduler.Register(job.NewRecomputeJob(edgeRepo, featureService, recommendCfg),
		recommendCfg.RecomputeInterval, recommendCfg.JobRunBudget)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// 9. 组装 HTTP 层
	serverCfg := config.DefaultServerConfig()
	limiter := middleware.NewRedisRateLimiter(serverCfg.RateLimitRate, serverCfg.RateLimitBurst)
	limiter.SetRedisClient(redisClient)

	engine := router.InitRouter(
		serverCfg,
		handler.NewSuggestHandler(suggestService),
		handler.NewTriggerHandler(triggerService),
		limiter,
		middleware.NewSuggestBreaker(),
	)

	httpServer := &http.Server{
		Addr:    serverCfg.Addr,
		Handler: engine,
	}

	go func() {
		logger.Info(ctx, "推荐服务启动成功", logger.String("addr", serverCfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "HTTP 服务启动失败", logger.ErrorField("error", err))
			cancel()
		}
	}()

	// 10. 等待退出信号，优雅停机
	<-ctx.Done()
	logger.Info(context.Background(), "收到退出信号，开始优雅停机")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "HTTP 服务停机失败", logger.ErrorField("error", err))
	}
	logger.Info(context.Background(), "推荐服务已退出")
}
