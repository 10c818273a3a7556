package ec

import (
	"strings"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// OrderStatus 訂單狀態
type OrderStatus string

const (
	OrderOrdered  OrderStatus = "ordered"
	OrderShipped  OrderStatus = "shipped"
	OrderCanceled OrderStatus = "canceled"
)

// Address 收件資訊
type Address struct {
	Name       string
	PostalCode string
	Prefecture shipping.Prefecture
	City       string
	Line       string
	Phone      string
}

func (a Address) validate() error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.Line) == "" {
		return ErrInvalidAddress.WithContext("reason", "name, city and address line are required")
	}
	if a.Prefecture.IsZero() {
		return shipping.ErrUnknownPrefecture
	}
	return nil
}

// OrderLine 訂單明細（下單時的價格快照）
type OrderLine struct {
	ProductID     inventory.ProductID
	Name          string
	UnitPrice     int64
	Quantity      int
	WholesaleCost int64
}

// Order EC 訂單
type Order struct {
	ID               OrderID
	StoreID          store.StoreID
	CustomerID       customer.CustomerID
	Lines            []OrderLine
	ShippingMethodID shipping.MethodID
	ShippingName     string
	Address          Address
	Subtotal         int64
	ShippingFee      int64
	Total            int64
	ShipDate         time.Time
	Status           OrderStatus
	OrderedAt        time.Time
}

// Checkout 結帳結果
type Checkout struct {
	Order     *Order
	Histories []inventory.StockHistory
	Event     *OrderPlacedEvent
}

// PlaceOrder 下單
//
// candidate 必須是以當下購物車重量與金額重新計算後選出的運送方式。
// 依購物車內容扣除庫存（ec_order），建立訂單並清空購物車。
// 任一商品庫存不足或已下架時不做任何變更。
func PlaceOrder(
	setting store.EcSetting,
	cart *Cart,
	products []*inventory.Product,
	candidate shipping.Candidate,
	address Address,
	now time.Time,
) (*Checkout, error) {
	if !setting.Enabled() {
		return nil, ErrEcDisabled
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart.WithContext("cart_id", cart.id.String())
	}
	if err := address.validate(); err != nil {
		return nil, err
	}

	byID := indexProducts(products)
	for _, l := range cart.lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, inventory.ErrProductNotFound.WithContext("product_id", l.ProductID.String())
		}
		if !p.BelongsTo(cart.storeID) {
			return nil, inventory.ErrProductNotFound.WithContext("product_id", p.ID().String(), "store_id", cart.storeID.String())
		}
		if !p.IsEcEnabled() {
			return nil, ErrProductNotOnSale.WithContext("product_id", p.ID().String())
		}
		if l.Quantity > p.StockNumber() {
			return nil, inventory.ErrInsufficientStock.WithContext(
				"product_id", p.ID().String(),
				"requested", l.Quantity,
				"available", p.StockNumber(),
			)
		}
	}

	order := &Order{
		ID:               NewOrderID(),
		StoreID:          cart.storeID,
		CustomerID:       cart.customerID,
		ShippingMethodID: candidate.MethodID,
		ShippingName:     candidate.DisplayName,
		Address:          address,
		ShippingFee:      candidate.Fee,
		ShipDate:         candidate.ShipDate,
		Status:           OrderOrdered,
		OrderedAt:        now,
	}
	result := &Checkout{Order: order}

	for _, l := range cart.lines {
		p := byID[l.ProductID]
		consumed, err := p.Withdraw(l.Quantity, now)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, OrderLine{
			ProductID:     p.ID(),
			Name:          p.Name(),
			UnitPrice:     p.SellPrice(),
			Quantity:      l.Quantity,
			WholesaleCost: consumed.Total,
		})
		order.Subtotal += p.SellPrice() * int64(l.Quantity)
		result.Histories = append(result.Histories,
			inventory.RecordStockChange(p, inventory.SourceEcOrder, order.ID.String(), -l.Quantity, now))
	}
	order.Total = order.Subtotal + order.ShippingFee

	cart.Clear(now)
	result.Event = NewOrderPlacedEvent(order)
	return result, nil
}

// OrderPlacedEvent EC 訂單成立
type OrderPlacedEvent struct {
	shared.EventBase
	StoreID     string    `json:"store_id"`
	CustomerID  string    `json:"customer_id,omitempty"`
	Subtotal    int64     `json:"subtotal"`
	ShippingFee int64     `json:"shipping_fee"`
	Total       int64     `json:"total"`
	ShipDate    time.Time `json:"ship_date"`
	Prefecture  string    `json:"prefecture"`
	LineCount   int       `json:"line_count"`
}

// NewOrderPlacedEvent 建立訂單成立事件
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	e := &OrderPlacedEvent{
		EventBase:   shared.NewEventBase("ec.order_placed", o.ID.String(), o.OrderedAt),
		StoreID:     o.StoreID.String(),
		Subtotal:    o.Subtotal,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
		ShipDate:    o.ShipDate,
		Prefecture:  o.Address.Prefecture.Name(),
		LineCount:   len(o.Lines),
	}
	if !o.CustomerID.IsEmpty() {
		e.CustomerID = o.CustomerID.String()
	}
	return e
}
