package handler

import (
	"RecommendServer/apps/recommend/internal/dto"
	"RecommendServer/apps/recommend/internal/middleware"
	"RecommendServer/apps/recommend/internal/service"
	"RecommendServer/consts"
	"RecommendServer/pkg/logger"
	"RecommendServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// TriggerHandler 失效触发处理器（内部接口，供协作方服务调用）
type TriggerHandler struct {
	triggerService service.ITriggerService
}

// NewTriggerHandler 创建失效触发处理器
func NewTriggerHandler(triggerService service.ITriggerService) *TriggerHandler {
	return &TriggerHandler{
		triggerService: triggerService,
	}
}

// MarkDirty 置脏触发接口
// 协作方（用户资料、关系、徽章服务）在用户状态变化后调用，
// 将该用户相关的全部推荐边标记为待重算。
// @Summary 推荐边置脏
// @Tags 内部接口
// @Accept json
// @Produce json
// @Param request body dto.MarkDirtyRequest true "置脏请求"
// @Router /internal/v1/recommend/dirty [post]
func (h *TriggerHandler) MarkDirty(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.MarkDirtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.triggerService.MarkUserDirty(ctx, req.UserUuid); err != nil {
		logger.Error(ctx, "置脏触发失败",
			logger.String("user_uuid", req.UserUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}

// MarkShown 曝光上报接口
// 客户端（或 BFF）把实际渲染给用户的候选列表回传，触发兴趣衰减。
// @Summary 推荐曝光上报
// @Tags 内部接口
// @Accept json
// @Produce json
// @Param request body dto.MarkShownRequest true "曝光上报请求"
// @Router /internal/v1/recommend/shown [post]
func (h *TriggerHandler) MarkShown(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.MarkShownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.triggerService.MarkShown(ctx, req.RecipientUuid, req.CandidateUuids); err != nil {
		logger.Error(ctx, "曝光上报失败",
			logger.String("recipient_uuid", req.RecipientUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}
