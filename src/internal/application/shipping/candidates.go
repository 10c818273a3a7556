package shipping

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// MethodCache
// ===========================

// MethodCache 店舖配送方式快取
//
// 快取失效不影響正確性：Get 失敗或未命中時由倉儲載入。
// 實作（Redis / 記憶體）自行記錄錯誤，不回傳給 Use Case。
type MethodCache interface {
	Get(ctx context.Context, storeID store.StoreID) ([]*shipping.Method, bool)
	Set(ctx context.Context, storeID store.StoreID, methods []*shipping.Method)
	Invalidate(ctx context.Context, storeID store.StoreID)
}

// noCache 不快取
type noCache struct{}

func (noCache) Get(context.Context, store.StoreID) ([]*shipping.Method, bool) { return nil, false }
func (noCache) Set(context.Context, store.StoreID, []*shipping.Method)       {}
func (noCache) Invalidate(context.Context, store.StoreID)                    {}

// ===========================
// CandidateService
// ===========================

// CandidateService 載入配送方式並計算候選（運費查詢與 EC 結帳共用）
type CandidateService struct {
	methodRepo shipping.MethodRepository
	cache      MethodCache
}

// NewCandidateService 創建服務；cache 可為 nil
func NewCandidateService(methodRepo shipping.MethodRepository, cache MethodCache) *CandidateService {
	if cache == nil {
		cache = noCache{}
	}
	return &CandidateService{methodRepo: methodRepo, cache: cache}
}

// Methods 店舖可用的配送方式（先查快取）
func (s *CandidateService) Methods(ctx context.Context, tx shared.TransactionContext, storeID store.StoreID) ([]*shipping.Method, error) {
	if methods, ok := s.cache.Get(ctx, storeID); ok {
		return methods, nil
	}
	methods, err := s.methodRepo.FindActiveByStore(tx, storeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, storeID, methods)
	return methods, nil
}

// Candidates 計算店舖的運費候選
func (s *CandidateService) Candidates(
	ctx context.Context,
	tx shared.TransactionContext,
	st *store.Store,
	input shipping.CandidateInput,
	now time.Time,
) ([]shipping.Candidate, error) {
	methods, err := s.Methods(ctx, tx, st.ID())
	if err != nil {
		return nil, err
	}
	return shipping.CalculateCandidates(methods, input, st.EcSetting(), now)
}

// Invalidate 配送方式異動後清除快取
func (s *CandidateService) Invalidate(ctx context.Context, storeID store.StoreID) {
	s.cache.Invalidate(ctx, storeID)
}

// ===========================
// ShippingCandidates Use Case
// ===========================

// ShippingCandidatesQuery 運費候選查詢
type ShippingCandidatesQuery struct {
	StoreID    string
	Weight     int   // 公克
	TotalPrice int64 // 日圓
	Prefecture string
}

// CandidateDTO 運費候選
type CandidateDTO struct {
	MethodID        string
	DisplayName     string
	OrderNumber     int
	Fee             int64
	ShippingDays    int
	ShipDate        time.Time
	EnabledTracking bool
}

// ShippingCandidatesResult 查詢結果（沒有可用方式時 Candidates 為空）
type ShippingCandidatesResult struct {
	Prefecture string
	Candidates []CandidateDTO
}

// ShippingCandidatesUseCase 運費候選查詢
type ShippingCandidatesUseCase struct {
	storeRepo store.StoreRepository
	service   *CandidateService
	clock     shared.Clock
}

// NewShippingCandidatesUseCase 創建 Use Case 實例
func NewShippingCandidatesUseCase(storeRepo store.StoreRepository, service *CandidateService, clock shared.Clock) *ShippingCandidatesUseCase {
	return &ShippingCandidatesUseCase{storeRepo: storeRepo, service: service, clock: clock}
}

// Execute 執行查詢（唯讀，不開事務）
func (uc *ShippingCandidatesUseCase) Execute(ctx context.Context, q ShippingCandidatesQuery) (*ShippingCandidatesResult, error) {
	storeID, err := store.StoreIDFromString(q.StoreID)
	if err != nil {
		return nil, err
	}
	pref, err := shipping.PrefectureByName(q.Prefecture)
	if err != nil {
		return nil, err
	}

	st, err := uc.storeRepo.FindByID(nil, storeID)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.service.Candidates(ctx, nil, st, shipping.CandidateInput{
		Weight:     q.Weight,
		TotalPrice: q.TotalPrice,
		Prefecture: pref,
	}, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	return &ShippingCandidatesResult{
		Prefecture: pref.Name(),
		Candidates: ToCandidateDTOs(candidates),
	}, nil
}

// ToCandidateDTOs 轉換為輸出 DTO
func ToCandidateDTOs(candidates []shipping.Candidate) []CandidateDTO {
	out := make([]CandidateDTO, len(candidates))
	for i, c := range candidates {
		out[i] = CandidateDTO{
			MethodID:        c.MethodID.String(),
			DisplayName:     c.DisplayName,
			OrderNumber:     c.OrderNumber,
			Fee:             c.Fee,
			ShippingDays:    c.ShippingDays,
			ShipDate:        c.ShipDate,
			EnabledTracking: c.EnabledTracking,
		}
	}
	return out
}
