package shipping

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// UpdateMethodCommand 覆寫配送方式指令（Regions 與 WeightBands 二選一）
type UpdateMethodCommand struct {
	StoreID         string
	MethodID        string
	DisplayName     string
	OrderNumber     int
	EnabledTracking bool
	Regions         []RegionFeeInput
	WeightBands     []WeightBandInput
}

// DeleteMethodCommand 刪除配送方式指令
type DeleteMethodCommand struct {
	StoreID  string
	MethodID string
}

// ===========================
// UpdateMethod Use Case
// ===========================

// UpdateMethodUseCase 覆寫配送方式（後寫者勝），成功後清除店舖快取
type UpdateMethodUseCase struct {
	methodRepo shipping.MethodRepository
	service    *CandidateService
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewUpdateMethodUseCase 創建 Use Case 實例
func NewUpdateMethodUseCase(
	methodRepo shipping.MethodRepository,
	service *CandidateService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *UpdateMethodUseCase {
	return &UpdateMethodUseCase{methodRepo: methodRepo, service: service, txManager: txManager, clock: clock}
}

// Execute 覆寫配送方式
func (uc *UpdateMethodUseCase) Execute(ctx context.Context, cmd UpdateMethodCommand) (*CreateMethodResult, error) {
	storeID, methodID, err := parseMethodRef(cmd.StoreID, cmd.MethodID)
	if err != nil {
		return nil, err
	}
	spec := buildSpec(cmd.DisplayName, cmd.OrderNumber, cmd.EnabledTracking, cmd.Regions, cmd.WeightBands)

	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		m, err := loadActiveMethod(tx, uc.methodRepo, storeID, methodID)
		if err != nil {
			return err
		}
		if err := m.Update(spec, uc.clock.Now()); err != nil {
			return err
		}
		return uc.methodRepo.Update(tx, m)
	})
	if err != nil {
		return nil, err
	}

	uc.service.Invalidate(ctx, storeID)
	return &CreateMethodResult{MethodID: methodID.String()}, nil
}

// ===========================
// DeleteMethod Use Case
// ===========================

// DeleteMethodUseCase 邏輯刪除配送方式，成功後清除店舖快取
type DeleteMethodUseCase struct {
	methodRepo shipping.MethodRepository
	service    *CandidateService
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewDeleteMethodUseCase 創建 Use Case 實例
func NewDeleteMethodUseCase(
	methodRepo shipping.MethodRepository,
	service *CandidateService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *DeleteMethodUseCase {
	return &DeleteMethodUseCase{methodRepo: methodRepo, service: service, txManager: txManager, clock: clock}
}

// Execute 刪除配送方式；已刪除的視為不存在
func (uc *DeleteMethodUseCase) Execute(ctx context.Context, cmd DeleteMethodCommand) error {
	storeID, methodID, err := parseMethodRef(cmd.StoreID, cmd.MethodID)
	if err != nil {
		return err
	}

	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		m, err := loadActiveMethod(tx, uc.methodRepo, storeID, methodID)
		if err != nil {
			return err
		}
		m.Delete(uc.clock.Now())
		return uc.methodRepo.Update(tx, m)
	})
	if err != nil {
		return err
	}

	uc.service.Invalidate(ctx, storeID)
	return nil
}

func parseMethodRef(storeIDStr, methodIDStr string) (store.StoreID, shipping.MethodID, error) {
	storeID, err := store.StoreIDFromString(storeIDStr)
	if err != nil {
		return store.StoreID{}, shipping.MethodID{}, err
	}
	methodID, err := shipping.MethodIDFromString(methodIDStr)
	if err != nil {
		return store.StoreID{}, shipping.MethodID{}, err
	}
	return storeID, methodID, nil
}

// loadActiveMethod 其他店舖或已刪除的配送方式一律回報不存在
func loadActiveMethod(tx shared.TransactionContext, repo shipping.MethodRepository, storeID store.StoreID, id shipping.MethodID) (*shipping.Method, error) {
	m, err := repo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if !m.StoreID().Equals(storeID) || m.IsDeleted() {
		return nil, shipping.ErrMethodNotFound.WithContext("method_id", id.String())
	}
	return m, nil
}
