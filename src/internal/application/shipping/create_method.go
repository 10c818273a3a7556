package shipping

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// RegionFeeInput 地區運費
type RegionFeeInput struct {
	Region string
	Fee    int64
}

// WeightBandInput 重量區間
type WeightBandInput struct {
	MaxWeight int
	Regions   []RegionFeeInput
}

// CreateMethodCommand 建立配送方式指令（Regions 與 WeightBands 二選一）
type CreateMethodCommand struct {
	StoreID         string
	DisplayName     string
	OrderNumber     int
	EnabledTracking bool
	Regions         []RegionFeeInput
	WeightBands     []WeightBandInput
}

// CreateMethodResult 建立結果
type CreateMethodResult struct {
	MethodID string
}

// CreateMethodUseCase 建立配送方式，成功後清除店舖的配送方式快取
type CreateMethodUseCase struct {
	storeRepo  store.StoreRepository
	methodRepo shipping.MethodRepository
	service    *CandidateService
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewCreateMethodUseCase 創建 Use Case 實例
func NewCreateMethodUseCase(
	storeRepo store.StoreRepository,
	methodRepo shipping.MethodRepository,
	service *CandidateService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *CreateMethodUseCase {
	return &CreateMethodUseCase{
		storeRepo:  storeRepo,
		methodRepo: methodRepo,
		service:    service,
		txManager:  txManager,
		clock:      clock,
	}
}

// Execute 建立配送方式
func (uc *CreateMethodUseCase) Execute(ctx context.Context, cmd CreateMethodCommand) (*CreateMethodResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	spec := buildSpec(cmd.DisplayName, cmd.OrderNumber, cmd.EnabledTracking, cmd.Regions, cmd.WeightBands)

	var method *shipping.Method
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if _, err := uc.storeRepo.FindByID(tx, storeID); err != nil {
			return err
		}
		m, err := shipping.NewMethod(storeID, spec, uc.clock.Now())
		if err != nil {
			return err
		}
		method = m
		return uc.methodRepo.Save(tx, m)
	})
	if err != nil {
		return nil, err
	}

	uc.service.Invalidate(ctx, storeID)
	return &CreateMethodResult{MethodID: method.ID().String()}, nil
}

func buildSpec(displayName string, orderNumber int, tracking bool, regions []RegionFeeInput, bands []WeightBandInput) shipping.MethodSpec {
	spec := shipping.MethodSpec{
		DisplayName:     displayName,
		OrderNumber:     orderNumber,
		EnabledTracking: tracking,
		Regions:         toRegionFees(regions),
	}
	for _, b := range bands {
		spec.WeightBands = append(spec.WeightBands, shipping.WeightBand{
			MaxWeight: b.MaxWeight,
			Regions:   toRegionFees(b.Regions),
		})
	}
	return spec
}

func toRegionFees(in []RegionFeeInput) []shipping.RegionFee {
	if len(in) == 0 {
		return nil
	}
	out := make([]shipping.RegionFee, len(in))
	for i, r := range in {
		out[i] = shipping.RegionFee{Region: r.Region, Fee: r.Fee}
	}
	return out
}
