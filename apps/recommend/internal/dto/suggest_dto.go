package dto

// ==================== 推荐列表 ====================

// SuggestListRequest 推荐列表查询参数
// seed 由客户端生成并在 10 分钟窗口内保持不变，同一 seed 下翻页视图一致。
type SuggestListRequest struct {
	UserUuid string `form:"user_uuid" binding:"required"`
	Seed     int64  `form:"seed" binding:"required"`
	Offset   int    `form:"offset"`
	Limit    int    `form:"limit"`
}

// SuggestItem 单个推荐候选
type SuggestItem struct {
	Uuid       string `json:"uuid"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	University string `json:"university"`
	ClassYear  int32  `json:"class_year"`
}

// SuggestListResponse 推荐列表响应
// Fallback 为 true 表示主推荐池为空，返回的是同校兜底池。
type SuggestListResponse struct {
	List     []*SuggestItem `json:"list"`
	Total    int64          `json:"total"`
	Offset   int            `json:"offset"`
	Limit    int            `json:"limit"`
	HasMore  bool           `json:"has_more"`
	Seed     int64          `json:"seed"`
	Fallback bool           `json:"fallback"`
}

// ==================== 内部触发接口 ====================

// MarkDirtyRequest 置脏触发请求（协作方服务在用户状态变化后调用）
type MarkDirtyRequest struct {
	UserUuid string `json:"user_uuid" binding:"required"`
}

// MarkShownRequest 曝光上报请求
type MarkShownRequest struct {
	RecipientUuid  string   `json:"recipient_uuid" binding:"required"`
	CandidateUuids []string `json:"candidate_uuids" binding:"required,min=1"`
}
