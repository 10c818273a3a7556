package register

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// RegisterRepository 收銀機倉儲介面
//
// Update 以 version 做樂觀鎖。現金異動與點算紀錄只追加，與收銀機在同一事務內寫入。
type RegisterRepository interface {
	Save(tx shared.TransactionContext, r *Register) error
	Update(tx shared.TransactionContext, r *Register) error

	// FindByID 找不到返回 ErrRegisterNotFound
	FindByID(tx shared.TransactionContext, id RegisterID) (*Register, error)

	AppendMovements(tx shared.TransactionContext, movements ...CashMovement) error
	SaveSettlement(tx shared.TransactionContext, s Settlement) error

	// FindMovements 查詢 [from, to) 區間的現金異動，依時間排序
	FindMovements(tx shared.TransactionContext, id RegisterID, from, to time.Time) ([]CashMovement, error)
}
