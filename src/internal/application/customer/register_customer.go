package customer

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// RegisterCustomer Use Case
// ===========================

// RegisterCustomerCommand 登錄顧客指令（Input DTO）
//
// 使用原始類型，由 Use Case 轉換為 Value Object。
type RegisterCustomerCommand struct {
	StoreID     string
	DisplayName string
	PhoneNumber string // 可省略；提供時同店舖唯一
}

// RegisterCustomerResult 登錄顧客結果（Output DTO）
type RegisterCustomerResult struct {
	CustomerID  string
	AccountID   string
	DisplayName string
	PhoneNumber string
	CreatedAt   time.Time
}

// RegisterCustomerUseCase 登錄顧客 Use Case 接口
//
// 業務規則：
// 1. 顧客屬於單一店舖
// 2. 電話號碼在同店舖內不能重複
// 3. 顧客與點數帳戶在同一事務中建立
type RegisterCustomerUseCase interface {
	Execute(ctx context.Context, cmd RegisterCustomerCommand) (*RegisterCustomerResult, error)
}

// RegisterCustomerUseCaseImpl 登錄顧客 Use Case 實作
type RegisterCustomerUseCaseImpl struct {
	customerRepo customer.CustomerRepository
	accountRepo  points.PointsAccountRepository
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewRegisterCustomerUseCase 創建 RegisterCustomerUseCase 實例
func NewRegisterCustomerUseCase(
	customerRepo customer.CustomerRepository,
	accountRepo points.PointsAccountRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) RegisterCustomerUseCase {
	return &RegisterCustomerUseCaseImpl{
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 執行登錄顧客
//
// 業務流程：
//  1. 驗證輸入並轉換為 Value Object
//  2. 在事務中執行：
//     a. 檢查電話號碼是否已被同店舖顧客使用
//     b. 創建 Customer 聚合並綁定電話號碼
//     c. 開設點數帳戶
//  3. 提交後發布 points.account_created
//
// 錯誤處理：
// - 電話號碼格式錯誤 → customer.ErrInvalidPhoneNumberFormat
// - 電話號碼已被使用 → customer.ErrPhoneNumberAlreadyBound
// - 資料庫錯誤 → 返回原始錯誤
func (uc *RegisterCustomerUseCaseImpl) Execute(ctx context.Context, cmd RegisterCustomerCommand) (*RegisterCustomerResult, error) {
	// Step 1: 驗證輸入
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}

	var phoneNumber customer.PhoneNumber
	if cmd.PhoneNumber != "" {
		phoneNumber, err = customer.NewPhoneNumber(cmd.PhoneNumber)
		if err != nil {
			return nil, err
		}
	}

	// Step 2: 事務
	var (
		newCustomer *customer.Customer
		account     *points.PointsAccount
		events      common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		// 2a. 電話號碼重複檢查
		if !phoneNumber.IsZero() {
			exists, err := uc.customerRepo.ExistsByPhoneNumber(tx, storeID, phoneNumber)
			if err != nil {
				return err
			}
			if exists {
				return customer.ErrPhoneNumberAlreadyBound.WithContext(
					"phone_number", phoneNumber.String(),
					"store_id", storeID.String(),
				)
			}
		}

		// 2b. 創建 Customer 聚合
		newCustomer, err = customer.NewCustomer(storeID, cmd.DisplayName, now)
		if err != nil {
			return err
		}
		if !phoneNumber.IsZero() {
			if err := newCustomer.BindPhoneNumber(phoneNumber, now); err != nil {
				return err
			}
		}
		if err := uc.customerRepo.Save(tx, newCustomer); err != nil {
			return err
		}

		// 2c. 點數帳戶
		account, err = points.NewPointsAccount(storeID, newCustomer.ID(), now)
		if err != nil {
			return err
		}
		if err := uc.accountRepo.Save(tx, account); err != nil {
			return err
		}
		events.Add(account.PullEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 3: 發布事件
	uc.dispatcher.Dispatch(ctx, events.Events()...)

	return &RegisterCustomerResult{
		CustomerID:  newCustomer.ID().String(),
		AccountID:   account.AccountID().String(),
		DisplayName: newCustomer.DisplayName(),
		PhoneNumber: newCustomer.PhoneNumber().String(),
		CreatedAt:   newCustomer.CreatedAt(),
	}, nil
}
