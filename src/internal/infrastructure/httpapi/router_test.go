package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/inventory"
	pointsapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/points"
	registerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/register"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ===========================
// Mock Use Cases
// ===========================

type MockPackReleaser struct {
	mock.Mock
}

func (m *MockPackReleaser) Execute(ctx context.Context, cmd inventoryapp.ReleaseOriginalPackCommand) (*inventoryapp.ReleaseOriginalPackResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ReleaseOriginalPackResult), args.Error(1)
}

type MockMovementLister struct {
	mock.Mock
}

func (m *MockMovementLister) Execute(ctx context.Context, q registerapp.MovementsQuery) ([]registerapp.MovementDTO, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registerapp.MovementDTO), args.Error(1)
}

type MockPointsBalanceFinder struct {
	mock.Mock
}

func (m *MockPointsBalanceFinder) Execute(ctx context.Context, q pointsapp.GetPointsBalanceQuery) (*pointsapp.GetPointsBalanceResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pointsapp.GetPointsBalanceResult), args.Error(1)
}

type MockMethodUpdater struct {
	mock.Mock
}

func (m *MockMethodUpdater) Execute(ctx context.Context, cmd shippingapp.UpdateMethodCommand) (*shippingapp.CreateMethodResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shippingapp.CreateMethodResult), args.Error(1)
}

type MockMethodDeleter struct {
	mock.Mock
}

func (m *MockMethodDeleter) Execute(ctx context.Context, cmd shippingapp.DeleteMethodCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

// ===========================
// 輔助函數
// ===========================

func newTestRouter(uc UseCases, metrics MetricsProvider) *gin.Engine {
	return NewRouter(NewHandler(uc, nil), metrics)
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const releasePath = "/api/v1/stores/store-1/products/pack-1/release-original-pack"

// ===========================
// 基本路由
// ===========================

func TestHealth(t *testing.T) {
	// Arrange
	router := newTestRouter(UseCases{}, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v1/health", "")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	// Arrange
	router := newTestRouter(UseCases{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint_RecordsRequests(t *testing.T) {
	// Arrange
	metrics := observability.NewMetrics()
	router := newTestRouter(UseCases{}, metrics)
	doRequest(router, http.MethodGet, "/api/v1/health", "")

	// Act
	w := doRequest(router, http.MethodGet, "/metrics", "")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pos_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/api/v1/health"`)
}

// ===========================
// 開封原封包裝
// ===========================

func TestReleaseOriginalPack_Success(t *testing.T) {
	// Arrange
	releaser := new(MockPackReleaser)
	expected := inventoryapp.ReleaseOriginalPackCommand{
		StoreID:       "store-1",
		PackProductID: "pack-1",
		PackCount:     2,
		Contents: []inventoryapp.ContentInput{
			{ProductID: "card-a", Count: 10},
			{ProductID: "card-b", Count: 2},
		},
	}
	releaser.On("Execute", mock.Anything, expected).Return(&inventoryapp.ReleaseOriginalPackResult{
		OpeningID:     "opening-1",
		PackProductID: "pack-1",
		PackStock:     3,
		TotalCost:     2000,
		Contents: []inventoryapp.ReleasedContent{
			{ProductID: "card-a", Count: 10, AllocatedCost: 1500, StockNumber: 10},
			{ProductID: "card-b", Count: 2, AllocatedCost: 500, StockNumber: 2},
		},
		HistoryEntries: 3,
	}, nil)
	router := newTestRouter(UseCases{PackReleases: releaser}, nil)

	// Act
	w := doRequest(router, http.MethodPost, releasePath,
		`{"pack_count":2,"contents":[{"product_id":"card-a","count":10},{"product_id":"card-b","count":2}]}`)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp releasePackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "opening-1", resp.OpeningID)
	assert.Equal(t, 3, resp.PackStock)
	assert.Equal(t, int64(2000), resp.TotalCost)
	require.Len(t, resp.Contents, 2)
	assert.Equal(t, int64(1500), resp.Contents[0].AllocatedCost)
	assert.Equal(t, 3, resp.HistoryEntries)
	releaser.AssertExpectations(t)
}

func TestReleaseOriginalPack_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name:       "缺少全部欄位",
			body:       `{}`,
			wantFields: []string{"pack_count", "contents"},
		},
		{
			name:       "內容商品數量為零",
			body:       `{"pack_count":1,"contents":[{"product_id":"card-a","count":0}]}`,
			wantFields: []string{"contents[0].count"},
		},
		{
			name:       "內容為空陣列",
			body:       `{"pack_count":1,"contents":[]}`,
			wantFields: []string{"contents"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			releaser := new(MockPackReleaser)
			router := newTestRouter(UseCases{PackReleases: releaser}, nil)

			// Act
			w := doRequest(router, http.MethodPost, releasePath, tt.body)

			// Assert
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, codeInvalidRequest, resp.Error)
			for _, field := range tt.wantFields {
				assert.Contains(t, resp.Details, field)
			}
			releaser.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestReleaseOriginalPack_MalformedJSON(t *testing.T) {
	// Arrange
	router := newTestRouter(UseCases{PackReleases: new(MockPackReleaser)}, nil)

	// Act
	w := doRequest(router, http.MethodPost, releasePath, `{"pack_count":`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeInvalidRequest, decodeError(t, w).Error)
}

// ===========================
// 錯誤對應
// ===========================

func TestRespondError_MapsErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		hasDetails bool
	}{
		{
			name:       "找不到商品",
			err:        inventory.ErrProductNotFound.WithContext("product_id", "pack-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   string(inventory.ErrCodeProductNotFound),
			hasDetails: true,
		},
		{
			name:       "庫存不足",
			err:        inventory.ErrInsufficientStock,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(inventory.ErrCodeInsufficientStock),
		},
		{
			name:       "輸入格式錯誤",
			err:        shared.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantCode:   string(shared.ErrCodeInvalidInput),
		},
		{
			name:       "包裝後的並發修改",
			err:        fmt.Errorf("update product: %w", shared.ErrConcurrentModification),
			wantStatus: http.StatusConflict,
			wantCode:   string(shared.ErrCodeConcurrentModification),
		},
		{
			name:       "倉儲錯誤不回傳細節",
			err:        shared.ErrRepository.WithContext("table", "products"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(shared.ErrCodeRepository),
		},
		{
			name:       "請求逾時",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeTimeout,
		},
		{
			name:       "未知錯誤",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   codeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			releaser := new(MockPackReleaser)
			releaser.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			router := newTestRouter(UseCases{PackReleases: releaser}, nil)

			// Act
			w := doRequest(router, http.MethodPost, releasePath,
				`{"pack_count":1,"contents":[{"product_id":"card-a","count":5}]}`)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error)
			if tt.hasDetails {
				assert.Equal(t, "pack-1", resp.Details["product_id"])
			} else {
				assert.Empty(t, resp.Details)
			}
		})
	}
}

// ===========================
// 查詢參數
// ===========================

func TestListMovements_BindsTimeRange(t *testing.T) {
	// Arrange
	lister := new(MockMovementLister)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	lister.On("Execute", mock.Anything, mock.MatchedBy(func(q registerapp.MovementsQuery) bool {
		return q.StoreID == "store-1" && q.RegisterID == "reg-1" && q.From.Equal(from) && q.To.Equal(to)
	})).Return([]registerapp.MovementDTO{
		{ID: "mv-1", Kind: "sale", Amount: 1500, SourceID: "tx-1", BalanceAfter: 6500, CreatedAt: from},
	}, nil)
	router := newTestRouter(UseCases{Movements: lister}, nil)

	// Act
	w := doRequest(router, http.MethodGet,
		"/api/v1/stores/store-1/registers/reg-1/movements?from=2024-06-01T00:00:00Z&to=2024-06-02T00:00:00Z", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Movements []movementResponse `json:"movements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, "tx-1", resp.Movements[0].SourceID)
	assert.Equal(t, int64(6500), resp.Movements[0].BalanceAfter)
	lister.AssertExpectations(t)
}

func TestListMovements_MissingRange(t *testing.T) {
	// Arrange
	lister := new(MockMovementLister)
	router := newTestRouter(UseCases{Movements: lister}, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v1/stores/store-1/registers/reg-1/movements?from=2024-06-01T00:00:00Z", "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "to")
	lister.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestGetPointsBalance_UsesPathParameters(t *testing.T) {
	// Arrange
	finder := new(MockPointsBalanceFinder)
	finder.On("Execute", mock.Anything, pointsapp.GetPointsBalanceQuery{StoreID: "store-1", CustomerID: "cust-1"}).
		Return(&pointsapp.GetPointsBalanceResult{
			AccountID:       "acc-1",
			CustomerID:      "cust-1",
			EarnedPoints:    120,
			UsedPoints:      20,
			AvailablePoints: 100,
		}, nil)
	router := newTestRouter(UseCases{PointsBalance: finder}, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v1/stores/store-1/customers/cust-1/points", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"account_id":"acc-1","customer_id":"cust-1","earned_points":120,"used_points":20,"available_points":100}`,
		w.Body.String())
	finder.AssertExpectations(t)
}

// ===========================
// 配送方式
// ===========================

func TestUpdateShippingMethod_ConvertsRequest(t *testing.T) {
	// Arrange
	updater := new(MockMethodUpdater)
	updater.On("Execute", mock.Anything, mock.MatchedBy(func(cmd shippingapp.UpdateMethodCommand) bool {
		return cmd.StoreID == "store-1" && cmd.MethodID == "method-1" &&
			cmd.DisplayName == "ネコポス" && cmd.OrderNumber == 3 &&
			len(cmd.WeightBands) == 1 && cmd.WeightBands[0].MaxWeight == 1000 &&
			cmd.WeightBands[0].Regions[0].Fee == 300
	})).Return(&shippingapp.CreateMethodResult{MethodID: "method-1"}, nil)
	router := newTestRouter(UseCases{UpdateMethods: updater}, nil)

	// Act
	w := doRequest(router, http.MethodPut, "/api/v1/stores/store-1/shipping-methods/method-1",
		`{"display_name":"ネコポス","order_number":3,"weight_bands":[{"max_weight":1000,"regions":[{"region":"全国一律","fee":300}]}]}`)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"method_id":"method-1"}`, w.Body.String())
	updater.AssertExpectations(t)
}

func TestDeleteShippingMethod(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"刪除成功", nil, http.StatusNoContent},
		{"配送方式不存在", shipping.ErrMethodNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			deleter := new(MockMethodDeleter)
			deleter.On("Execute", mock.Anything, shippingapp.DeleteMethodCommand{StoreID: "store-1", MethodID: "method-1"}).
				Return(tt.err)
			router := newTestRouter(UseCases{DeleteMethods: deleter}, nil)

			// Act
			w := doRequest(router, http.MethodDelete, "/api/v1/stores/store-1/shipping-methods/method-1", "")

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			deleter.AssertExpectations(t)
		})
	}
}
