package points

import (
	"context"
	"fmt"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
)

// GetPointsBalanceQuery 查詢點數餘額
type GetPointsBalanceQuery struct {
	StoreID    string
	CustomerID string
}

// GetPointsBalanceResult 點數餘額
type GetPointsBalanceResult struct {
	AccountID       string
	CustomerID      string
	EarnedPoints    int
	UsedPoints      int
	AvailablePoints int
}

// GetPointsBalanceUseCase 查詢點數餘額 Use Case
type GetPointsBalanceUseCase struct {
	accountRepo points.PointsAccountRepository
}

// NewGetPointsBalanceUseCase 創建 Use Case 實例
func NewGetPointsBalanceUseCase(repo points.PointsAccountRepository) *GetPointsBalanceUseCase {
	return &GetPointsBalanceUseCase{accountRepo: repo}
}

// Execute 執行查詢（唯讀，不開事務）
//
// 錯誤處理：
// - ID 格式無效 → 對應的 Invalid*ID 錯誤
// - 帳戶不存在 → points.ErrAccountNotFound
func (uc *GetPointsBalanceUseCase) Execute(ctx context.Context, query GetPointsBalanceQuery) (*GetPointsBalanceResult, error) {
	storeID, customerID, err := parseOwner(query.StoreID, query.CustomerID)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.FindByCustomer(nil, storeID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return toBalance(account), nil
}

func toBalance(account *points.PointsAccount) *GetPointsBalanceResult {
	return &GetPointsBalanceResult{
		AccountID:       account.AccountID().String(),
		CustomerID:      account.CustomerID().String(),
		EarnedPoints:    account.EarnedPoints().Value(),
		UsedPoints:      account.UsedPoints().Value(),
		AvailablePoints: account.AvailablePoints().Value(),
	}
}
