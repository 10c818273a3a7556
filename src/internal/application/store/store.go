package store

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// EcSettingInput EC 設定（nil 欄位表示不提供該功能）
type EcSettingInput struct {
	Enabled               bool
	FreeShippingThreshold *int64
	SameDayLimitHour      *int
	ClosedWeekdays        []int // 0 = 週日
	ShippingDays          int
}

func (in EcSettingInput) toDomain() (store.EcSetting, error) {
	days := make([]time.Weekday, len(in.ClosedWeekdays))
	for i, d := range in.ClosedWeekdays {
		days[i] = time.Weekday(d)
	}
	return store.NewEcSetting(in.Enabled, in.FreeShippingThreshold, in.SameDayLimitHour, days, in.ShippingDays)
}

// CreateStoreCommand 建立店舖
type CreateStoreCommand struct {
	Name                string
	PointConversionRate int
	EcSetting           EcSettingInput
}

// UpdateEcSettingCommand 更新 EC 設定
type UpdateEcSettingCommand struct {
	StoreID   string
	EcSetting EcSettingInput
}

// StoreResult 店舖
type StoreResult struct {
	StoreID             string
	Name                string
	PointConversionRate int
	EcEnabled           bool
	ShippingDays        int
}

func toResult(s *store.Store) *StoreResult {
	return &StoreResult{
		StoreID:             s.ID().String(),
		Name:                s.Name(),
		PointConversionRate: s.PointConversionRate(),
		EcEnabled:           s.EcSetting().Enabled(),
		ShippingDays:        s.EcSetting().ShippingDays(),
	}
}

// StoreUseCase 店舖設定
type StoreUseCase struct {
	storeRepo store.StoreRepository
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewStoreUseCase 創建 Use Case 實例
func NewStoreUseCase(storeRepo store.StoreRepository, txManager shared.TransactionManager, clock shared.Clock) *StoreUseCase {
	return &StoreUseCase{storeRepo: storeRepo, txManager: txManager, clock: clock}
}

// Create 建立店舖
func (uc *StoreUseCase) Create(ctx context.Context, cmd CreateStoreCommand) (*StoreResult, error) {
	setting, err := cmd.EcSetting.toDomain()
	if err != nil {
		return nil, err
	}
	s, err := store.NewStore(cmd.Name, cmd.PointConversionRate, setting, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		return uc.storeRepo.Save(tx, s)
	})
	if err != nil {
		return nil, err
	}
	return toResult(s), nil
}

// UpdateEcSetting 更新 EC 設定
func (uc *StoreUseCase) UpdateEcSetting(ctx context.Context, cmd UpdateEcSettingCommand) (*StoreResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	setting, err := cmd.EcSetting.toDomain()
	if err != nil {
		return nil, err
	}

	var result *StoreResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		s, err := uc.storeRepo.FindByID(tx, storeID)
		if err != nil {
			return err
		}
		s.ChangeEcSetting(setting, uc.clock.Now())
		if err := uc.storeRepo.Update(tx, s); err != nil {
			return err
		}
		result = toResult(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
