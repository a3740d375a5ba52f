package service

import (
	"context"
	"errors"

	"RecommendServer/apps/recommend/internal/dto"
	"RecommendServer/apps/recommend/internal/repository"
	"RecommendServer/config"
	"RecommendServer/consts"
	"RecommendServer/model"
	"RecommendServer/pkg/logger"
)

// 分页参数约束
const (
	defaultLimit = 20
	maxLimit     = 50
)

// suggestServiceImpl 推荐列表服务实现
type suggestServiceImpl struct {
	edgeRepo    repository.IEdgeRepository
	profileRepo repository.IProfileRepository
	socialRepo  repository.ISocialRepository
	cacheRepo   repository.ISuggestCacheRepository
	trigger     ITriggerService
	cfg         config.RecommendConfig
}

// NewSuggestService 创建推荐列表服务实例
func NewSuggestService(
	edgeRepo repository.IEdgeRepository,
	profileRepo repository.IProfileRepository,
	socialRepo repository.ISocialRepository,
	cacheRepo repository.ISuggestCacheRepository,
	trigger ITriggerService,
	cfg config.RecommendConfig,
) ISuggestService {
	return &suggestServiceImpl{
		edgeRepo:    edgeRepo,
		profileRepo: profileRepo,
		socialRepo:  socialRepo,
		cacheRepo:   cacheRepo,
		trigger:     trigger,
		cfg:         cfg,
	}
}

// SuggestList 获取分页推荐列表
// 读路径：资格校验 -> 缓存命中直接切片 -> 未命中则全量构建（过滤、打分、洗牌、兜底）并整体缓存。
// 返回的那一页候选同步触发曝光衰减（至少一次语义，重复衰减可接受）。
func (s *suggestServiceImpl) SuggestList(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error) {
	// ==================== 1. 参数归一 + 资格校验 ====================
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	recipient, err := s.profileRepo.GetByUUID(ctx, req.UserUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, consts.NewBizError(consts.CodeUserNotFound)
		}
		logger.Error(ctx, "查询推荐接收者画像失败",
			logger.String("user_uuid", req.UserUuid),
			logger.ErrorField("error", err),
		)
		return nil, consts.NewBizError(consts.CodeInternalError)
	}
	if !recipient.Eligible() {
		return nil, consts.NewBizError(consts.CodeRecipientNotEligible)
	}

	// ==================== 2. 查询结果缓存 ====================
	cachedUUIDs, total, err := s.cacheRepo.GetRange(ctx, req.UserUuid, req.Seed, offset, limit)
	if err == nil {
		return s.buildResponse(ctx, req, recipient, cachedUUIDs, total, offset, limit, false)
	}
	if !errors.Is(err, repository.ErrRedisNil) {
		// 缓存异常不阻塞读路径，降级走完整构建
		logger.Warn(ctx, "读取推荐结果缓存失败，降级为实时构建",
			logger.String("user_uuid", req.UserUuid),
			logger.Int64("seed", req.Seed),
			logger.ErrorField("error", err),
		)
	}

	// ==================== 3. 缓存未命中，完整构建排序结果 ====================
	orderedUUIDs, fallback, err := s.buildOrderedList(ctx, recipient, req.Seed)
	if err != nil {
		return nil, err
	}

	// 整体写入缓存；写失败只降级不报错（下次请求重建）
	if storeErr := s.cacheRepo.StoreList(ctx, req.UserUuid, req.Seed, orderedUUIDs); storeErr != nil {
		logger.Warn(ctx, "写入推荐结果缓存失败",
			logger.String("user_uuid", req.UserUuid),
			logger.Int64("seed", req.Seed),
			logger.ErrorField("error", storeErr),
		)
	}

	// ==================== 4. 按请求区间切片 ====================
	total = int64(len(orderedUUIDs))
	pageUUIDs := slicePage(orderedUUIDs, offset, limit)

	return s.buildResponse(ctx, req, recipient, pageUUIDs, total, offset, limit, fallback)
}

// buildOrderedList 构建某 (recipient, seed) 的完整排序候选列表
// 主池为空时回退到同校兜底池（均匀洗牌，无分数概念）。
func (s *suggestServiceImpl) buildOrderedList(ctx context.Context, recipient *model.UserInfo, seed int64) ([]string, bool, error) {
	excluded, err := s.buildExclusionSet(ctx, recipient.Uuid)
	if err != nil {
		return nil, false, err
	}

	// ==================== 主推荐池：同校推荐边 + 过滤 + 打分 + 轻量洗牌 ====================
	edges, err := s.edgeRepo.ListByRecipient(ctx, recipient.Uuid, recipient.University)
	if err != nil {
		logger.Error(ctx, "读取推荐边失败",
			logger.String("recipient_uuid", recipient.Uuid),
			logger.ErrorField("error", err),
		)
		return nil, false, consts.NewBizError(consts.CodeInternalError)
	}

	filtered := make([]*model.PeopleRecommend, 0, len(edges))
	for _, edge := range edges {
		if edge.CandidateUuid == recipient.Uuid {
			continue
		}
		if _, ok := excluded[edge.CandidateUuid]; ok {
			continue
		}
		filtered = append(filtered, edge)
	}

	if len(filtered) > 0 {
		ranked := rankCandidates(filtered, s.cfg.Weights)
		return lightShuffle(ranked, seed, s.cfg.ShuffleChunk), false, nil
	}

	// ==================== 兜底池：同校全量（新用户边还没铺开时的冷启动） ====================
	pool, err := s.profileRepo.ListEligibleByUniversity(ctx, recipient.University)
	if err != nil {
		logger.Error(ctx, "读取兜底推荐池失败",
			logger.String("recipient_uuid", recipient.Uuid),
			logger.String("university", recipient.University),
			logger.ErrorField("error", err),
		)
		return nil, false, consts.NewBizError(consts.CodeInternalError)
	}

	fallbackUUIDs := make([]string, 0, len(pool))
	for _, u := range pool {
		if u.Uuid == recipient.Uuid {
			continue
		}
		if _, ok := excluded[u.Uuid]; ok {
			continue
		}
		fallbackUUIDs = append(fallbackUUIDs, u.Uuid)
	}

	return uniformShuffle(fallbackUUIDs, seed), true, nil
}

// buildExclusionSet 汇总不可推荐的对端集合：好友、双向待处理申请、拉黑了我的人
func (s *suggestServiceImpl) buildExclusionSet(ctx context.Context, recipientUUID string) (map[string]struct{}, error) {
	friends, err := s.socialRepo.ListFriendUUIDs(ctx, recipientUUID)
	if err != nil {
		logger.Error(ctx, "读取好友集合失败",
			logger.String("recipient_uuid", recipientUUID),
			logger.ErrorField("error", err),
		)
		return nil, consts.NewBizError(consts.CodeInternalError)
	}

	pending, err := s.socialRepo.ListPendingApplyUUIDs(ctx, recipientUUID)
	if err != nil {
		logger.Error(ctx, "读取待处理申请集合失败",
			logger.String("recipient_uuid", recipientUUID),
			logger.ErrorField("error", err),
		)
		return nil, consts.NewBizError(consts.CodeInternalError)
	}

	blockers, err := s.socialRepo.ListBlockerUUIDs(ctx, recipientUUID)
	if err != nil {
		logger.Error(ctx, "读取拉黑集合失败",
			logger.String("recipient_uuid", recipientUUID),
			logger.ErrorField("error", err),
		)
		return nil, consts.NewBizError(consts.CodeInternalError)
	}

	excluded := make(map[string]struct{}, len(friends)+len(pending)+len(blockers))
	for _, uuid := range friends {
		excluded[uuid] = struct{}{}
	}
	for _, uuid := range pending {
		excluded[uuid] = struct{}{}
	}
	for _, uuid := range blockers {
		excluded[uuid] = struct{}{}
	}
	return excluded, nil
}

// buildResponse 画像补全 + 曝光上报
func (s *suggestServiceImpl) buildResponse(ctx context.Context, req *dto.SuggestListRequest, recipient *model.UserInfo,
	pageUUIDs []string, total int64, offset, limit int, fallback bool) (*dto.SuggestListResponse, error) {

	items := make([]*dto.SuggestItem, 0, len(pageUUIDs))
	if len(pageUUIDs) > 0 {
		users, err := s.profileRepo.BatchGetByUUIDs(ctx, pageUUIDs)
		if err != nil {
			logger.Error(ctx, "批量补全候选画像失败",
				logger.String("user_uuid", req.UserUuid),
				logger.ErrorField("error", err),
			)
			return nil, consts.NewBizError(consts.CodeInternalError)
		}
		// 缓存生成后注销的用户在补全时自然消失，不影响分页游标
		for _, u := range users {
			items = append(items, &dto.SuggestItem{
				Uuid:       u.Uuid,
				Nickname:   u.Nickname,
				Avatar:     u.Avatar,
				University: u.University,
				ClassYear:  u.ClassYear,
			})
		}

		// 只对实际返回的候选触发曝光衰减
		if err := s.trigger.MarkShown(ctx, recipient.Uuid, pageUUIDs); err != nil {
			logger.Warn(ctx, "曝光上报失败",
				logger.String("recipient_uuid", recipient.Uuid),
				logger.ErrorField("error", err),
			)
		}
	}

	return &dto.SuggestListResponse{
		List:     items,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
		HasMore:  int64(offset)+int64(len(pageUUIDs)) < total,
		Seed:     req.Seed,
		Fallback: fallback,
	}, nil
}

// slicePage 在完整有序列表上做区间切片
func slicePage(uuids []string, offset, limit int) []string {
	if offset >= len(uuids) {
		return nil
	}
	end := offset + limit
	if end > len(uuids) {
		end = len(uuids)
	}
	return uuids[offset:end]
}
