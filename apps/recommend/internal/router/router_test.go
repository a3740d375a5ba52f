package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"RecommendServer/apps/recommend/internal/dto"
	"RecommendServer/apps/recommend/internal/handler"
	"RecommendServer/apps/recommend/internal/middleware"
	"RecommendServer/apps/recommend/internal/service"
	"RecommendServer/config"
	"RecommendServer/consts"
	"RecommendServer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSuggestService struct {
	suggestFn func(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error)
}

var _ service.ISuggestService = (*fakeSuggestService)(nil)

func (f *fakeSuggestService) SuggestList(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error) {
	if f.suggestFn == nil {
		return &dto.SuggestListResponse{List: []*dto.SuggestItem{}}, nil
	}
	return f.suggestFn(ctx, req)
}

type fakeRouterTriggerService struct {
	mu         sync.Mutex
	dirtyCalls []string
	shownCalls int
}

var _ service.ITriggerService = (*fakeRouterTriggerService)(nil)

func (f *fakeRouterTriggerService) MarkUserDirty(ctx context.Context, userUUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirtyCalls = append(f.dirtyCalls, userUUID)
	return nil
}

func (f *fakeRouterTriggerService) MarkShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shownCalls++
	return nil
}

func (f *fakeRouterTriggerService) ApplyMarkDirty(ctx context.Context, userUUID string) error {
	return nil
}

func (f *fakeRouterTriggerService) ApplyDecayShown(ctx context.Context, recipientUUID string, candidateUUIDs []string) error {
	return nil
}

type resultBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var routerTestLoggerOnce sync.Once

func initRouterTestLogger() {
	routerTestLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		gin.SetMode(gin.TestMode)
	})
}

func newTestRouter(suggestSvc service.ISuggestService, triggerSvc service.ITriggerService) *gin.Engine {
	initRouterTestLogger()
	// 限流器不注入 Redis 客户端：全放行
	return InitRouter(
		config.DefaultServerConfig(),
		handler.NewSuggestHandler(suggestSvc),
		handler.NewTriggerHandler(triggerSvc),
		middleware.NewRedisRateLimiter(100, 200),
		middleware.NewSuggestBreaker(),
	)
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&fakeSuggestService{}, &fakeRouterTriggerService{})

	w := doRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuggestListEndpoint(t *testing.T) {
	svc := &fakeSuggestService{
		suggestFn: func(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error) {
			assert.Equal(t, "u1", req.UserUuid)
			assert.Equal(t, int64(42), req.Seed)
			return &dto.SuggestListResponse{
				List:  []*dto.SuggestItem{{Uuid: "peer"}},
				Total: 1, Offset: 0, Limit: 20, Seed: 42,
			}, nil
		},
	}
	r := newTestRouter(svc, &fakeRouterTriggerService{})

	w := doRequest(r, http.MethodGet, "/api/v1/suggest/list?user_uuid=u1&seed=42", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body resultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int(consts.CodeSuccess), body.Code)

	var resp dto.SuggestListResponse
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	require.Len(t, resp.List, 1)
	assert.Equal(t, "peer", resp.List[0].Uuid)
}

func TestSuggestListEndpointParamError(t *testing.T) {
	r := newTestRouter(&fakeSuggestService{}, &fakeRouterTriggerService{})

	// 缺 seed
	w := doRequest(r, http.MethodGet, "/api/v1/suggest/list?user_uuid=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body resultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, consts.CodeParamError, body.Code)
}

func TestSuggestListEndpointBizError(t *testing.T) {
	svc := &fakeSuggestService{
		suggestFn: func(ctx context.Context, req *dto.SuggestListRequest) (*dto.SuggestListResponse, error) {
			return nil, consts.NewBizError(consts.CodeRecipientNotEligible)
		},
	}
	r := newTestRouter(svc, &fakeRouterTriggerService{})

	w := doRequest(r, http.MethodGet, "/api/v1/suggest/list?user_uuid=u1&seed=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body resultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, consts.CodeRecipientNotEligible, body.Code)
	assert.Equal(t, consts.GetMessage(consts.CodeRecipientNotEligible), body.Message)
}

func TestMarkDirtyEndpoint(t *testing.T) {
	trigger := &fakeRouterTriggerService{}
	r := newTestRouter(&fakeSuggestService{}, trigger)

	w := doRequest(r, http.MethodPost, "/internal/v1/recommend/dirty",
		dto.MarkDirtyRequest{UserUuid: "u1"})
	require.Equal(t, http.StatusOK, w.Code)

	var body resultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int(consts.CodeSuccess), body.Code)
	assert.Equal(t, []string{"u1"}, trigger.dirtyCalls)
}

func TestMarkShownEndpointValidation(t *testing.T) {
	trigger := &fakeRouterTriggerService{}
	r := newTestRouter(&fakeSuggestService{}, trigger)

	// 空候选列表不通过 binding 校验
	w := doRequest(r, http.MethodPost, "/internal/v1/recommend/shown",
		dto.MarkShownRequest{RecipientUuid: "me"})
	require.Equal(t, http.StatusOK, w.Code)

	var body resultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, consts.CodeParamError, body.Code)
	assert.Equal(t, 0, trigger.shownCalls)

	// 合法请求
	w = doRequest(r, http.MethodPost, "/internal/v1/recommend/shown",
		dto.MarkShownRequest{RecipientUuid: "me", CandidateUuids: []string{"a"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int(consts.CodeSuccess), body.Code)
	assert.Equal(t, 1, trigger.shownCalls)
}
