package service

import (
	"context"

	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/apps/recommend/mq"
	"RecommendServer/config"
	"RecommendServer/pkg/async"
	"RecommendServer/pkg/logger"
)

// triggerServiceImpl 失效触发服务实现
// 写路径语义是"至少一次"：优先投递 Kafka（跨实例可靠重试），
// 投递失败或生产者未就绪时降级为进程内异步直接执行。
// 两条路径最终都落到 Apply* 方法，而置脏/衰减本身幂等或可重复，重复投递无害。
type triggerServiceImpl struct {
	edgeRepo repository.IEdgeRepository
	cfg      config.RecommendConfig
}

// NewTriggerService 创建失效触发服务实例
func NewTriggerService(edgeRepo repository.IEdgeRepository, cfg config.RecommendConfig) ITriggerService {
	return &triggerServiceImpl{
		edgeRepo: edgeRepo,
		cfg:      cfg,
	}
}

// MarkUserDirty 将某用户相关的全部推荐边置脏
func (s *triggerServiceImpl) MarkUserDirty(ctx context.Context, userUUID string) error {
	if userUUID == "" {
		return nil
	}

	task := mq.BuildMarkDirtyTask(userUUID).
		WithContext(ctx).
		WithSource("TriggerService.MarkUserDirty")

	if mq.ProducerReady() {
		if err := mq.SendTask(ctx, task); err == nil {
			return nil
		} else {
			logger.Warn(ctx, "置脏任务投递 Kafka 失败，降级为进程内执行",
				logger.String("user_uuid", userUUID),
				logger.ErrorField("error", err),
			)
		}
	}

	// 降级路径：进程内异步执行，不阻塞调用方
	s.applyAsync(ctx, func(runCtx context.Context) error {
		return s.ApplyMarkDirty(runCtx, userUUID)
	})
	return nil
}

// MarkShown 上报一批候选已曝光，触发兴趣衰减
func (s *triggerServiceImpl) MarkShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	if recipientUUID == "" || len(candidateUUIDs) == 0 {
		return nil
	}

	task := mq.BuildDecayShownTask(recipientUUID, candidateUUIDs).
		WithContext(ctx).
		WithSource("TriggerService.MarkShown")

	if mq.ProducerReady() {
		if err := mq.SendTask(ctx, task); err == nil {
			return nil
		} else {
			logger.Warn(ctx, "曝光衰减任务投递 Kafka 失败，降级为进程内执行",
				logger.String("recipient_uuid", recipientUUID),
				logger.Int("candidate_count", len(candidateUUIDs)),
				logger.ErrorField("error", err),
			)
		}
	}

	s.applyAsync(ctx, func(runCtx context.Context) error {
		return s.ApplyDecayShown(runCtx, recipientUUID, candidateUUIDs)
	})
	return nil
}

// ApplyMarkDirty 实际执行置脏
// 幂等：已脏的行不再改动，重复消费同一条消息是 no-op。
func (s *triggerServiceImpl) ApplyMarkDirty(ctx context.Context, userUUID string) error {
	affected, err := s.edgeRepo.MarkDirtyByUser(ctx, userUUID)
	if err != nil {
		logger.Error(ctx, "推荐边置脏失败",
			logger.String("user_uuid", userUUID),
			logger.ErrorField("error", err),
		)
		return err
	}

	logger.Info(ctx, "推荐边已置脏",
		logger.String("user_uuid", userUUID),
		logger.Int64("affected", affected),
	)
	return nil
}

// ApplyDecayShown 实际执行曝光衰减
func (s *triggerServiceImpl) ApplyDecayShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	err := s.edgeRepo.DecayInterested(ctx, recipientUUID, candidateUUIDs, s.cfg.DecayFactor)
	if err != nil {
		logger.Error(ctx, "曝光衰减执行失败",
			logger.String("recipient_uuid", recipientUUID),
			logger.Int("candidate_count", len(candidateUUIDs)),
			logger.ErrorField("error", err),
		)
		return err
	}

	logger.Debug(ctx, "曝光衰减已执行",
		logger.String("recipient_uuid", recipientUUID),
		logger.Int("candidate_count", len(candidateUUIDs)),
	)
	return nil
}

// applyAsync 降级路径的统一投递：协程池异步执行，失败只记日志
func (s *triggerServiceImpl) applyAsync(ctx context.Context, fn func(ctx context.Context) error) {
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := fn(runCtx); err != nil {
			logger.Error(runCtx, "降级路径执行失败", logger.ErrorField("error", err))
		}
	}, 0)
}
