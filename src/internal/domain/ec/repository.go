package ec

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// CartRepository 購物車倉儲介面
type CartRepository interface {
	Save(tx shared.TransactionContext, c *Cart) error
	Update(tx shared.TransactionContext, c *Cart) error

	// FindByID 找不到返回 ErrCartNotFound
	FindByID(tx shared.TransactionContext, id CartID) (*Cart, error)
}

// OrderRepository EC 訂單倉儲介面
type OrderRepository interface {
	Save(tx shared.TransactionContext, o *Order) error

	// FindByID 找不到返回 ErrOrderNotFound
	FindByID(tx shared.TransactionContext, id OrderID) (*Order, error)
}
