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

// SuggestHandler 推荐列表处理器
type SuggestHandler struct {
	suggestService service.ISuggestService
}

// NewSuggestHandler 创建推荐列表处理器
func NewSuggestHandler(suggestService service.ISuggestService) *SuggestHandler {
	return &SuggestHandler{
		suggestService: suggestService,
	}
}

// SuggestList 推荐列表接口
// @Summary 获取推荐好友列表
// @Description 按 seed 分页返回打分排序后的推荐候选，同一 seed 十分钟内视图一致
// @Tags 推荐接口
// @Produce json
// @Param user_uuid query string true "接收者UUID"
// @Param seed query int true "随机种子"
// @Param offset query int false "起始偏移，从0开始"
// @Param limit query int false "返回条数上限"
// @Success 200 {object} dto.SuggestListResponse
// @Router /api/v1/suggest/list [get]
func (h *SuggestHandler) SuggestList(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.SuggestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.suggestService.SuggestList(ctx, &req)
	if err != nil {
		if code := consts.ExtractErrorCode(err); consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "推荐列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	if resp.Total == 0 {
		result.SuccessWithMessage(c, resp, consts.GetMessage(consts.CodeSuggestEmpty))
		return
	}
	result.Success(c, resp)
}
