package ec

import (
	"context"

	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Commands / Results
// ===========================

// CreateCartCommand 建立購物車（CustomerID 空白為訪客）
type CreateCartCommand struct {
	StoreID    string
	CustomerID string
}

// CartItemCommand 加入／移除商品
type CartItemCommand struct {
	StoreID   string
	CartID    string
	ProductID string
	Quantity  int // RemoveItem 不使用
}

// CartLineDTO 購物車明細（目前價格）
type CartLineDTO struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
	Weight    int
}

// CartResult 購物車內容與報價
type CartResult struct {
	CartID     string
	CustomerID string
	Lines      []CartLineDTO
	Weight     int
	Total      int64
}

// CartCandidatesQuery 購物車運費候選查詢
type CartCandidatesQuery struct {
	StoreID    string
	CartID     string
	Prefecture string
}

// CartCandidatesResult 購物車運費候選
type CartCandidatesResult struct {
	Cart CartResult
	shippingapp.ShippingCandidatesResult
}

// ===========================
// CartUseCase
// ===========================

// CartUseCase 購物車操作
type CartUseCase struct {
	storeRepo    store.StoreRepository
	cartRepo     ec.CartRepository
	productRepo  inventory.ProductRepository
	customerRepo customer.CustomerRepository
	candidates   *shippingapp.CandidateService
	txManager    shared.TransactionManager
	clock        shared.Clock
}

// NewCartUseCase 創建 Use Case 實例
func NewCartUseCase(
	storeRepo store.StoreRepository,
	cartRepo ec.CartRepository,
	productRepo inventory.ProductRepository,
	customerRepo customer.CustomerRepository,
	candidates *shippingapp.CandidateService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *CartUseCase {
	return &CartUseCase{
		storeRepo:    storeRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		candidates:   candidates,
		txManager:    txManager,
		clock:        clock,
	}
}

// Create 建立購物車
//
// 店舖未開放 EC 返回 ec.ErrEcDisabled。
func (uc *CartUseCase) Create(ctx context.Context, cmd CreateCartCommand) (*CartResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	var customerID customer.CustomerID
	if cmd.CustomerID != "" {
		if customerID, err = customer.CustomerIDFromString(cmd.CustomerID); err != nil {
			return nil, err
		}
	}

	var result *CartResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		st, err := uc.storeRepo.FindByID(tx, storeID)
		if err != nil {
			return err
		}
		if !st.EcSetting().Enabled() {
			return ec.ErrEcDisabled.WithContext("store_id", storeID.String())
		}
		if !customerID.IsEmpty() {
			c, err := uc.customerRepo.FindByID(tx, customerID)
			if err != nil {
				return err
			}
			if !c.StoreID().Equals(storeID) {
				return customer.ErrCustomerNotFound.WithContext("customer_id", customerID.String(), "store_id", storeID.String())
			}
		}

		cart, err := ec.NewCart(storeID, customerID, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.cartRepo.Save(tx, cart); err != nil {
			return err
		}
		result, err = toCartResult(cart, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddItem 加入商品（同商品累加數量，不能超過庫存）
func (uc *CartUseCase) AddItem(ctx context.Context, cmd CartItemCommand) (*CartResult, error) {
	return uc.modify(ctx, cmd, func(cart *ec.Cart, product *inventory.Product, productID inventory.ProductID) error {
		if product == nil {
			return inventory.ErrProductNotFound.WithContext("product_id", productID.String())
		}
		return cart.AddItem(product, cmd.Quantity, uc.clock.Now())
	})
}

// RemoveItem 移除商品
func (uc *CartUseCase) RemoveItem(ctx context.Context, cmd CartItemCommand) (*CartResult, error) {
	return uc.modify(ctx, cmd, func(cart *ec.Cart, _ *inventory.Product, productID inventory.ProductID) error {
		return cart.RemoveItem(productID, uc.clock.Now())
	})
}

type cartChange func(cart *ec.Cart, product *inventory.Product, productID inventory.ProductID) error

func (uc *CartUseCase) modify(ctx context.Context, cmd CartItemCommand, change cartChange) (*CartResult, error) {
	storeID, cartID, err := parseCart(cmd.StoreID, cmd.CartID)
	if err != nil {
		return nil, err
	}
	productID, err := inventory.ProductIDFromString(cmd.ProductID)
	if err != nil {
		return nil, err
	}

	var result *CartResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		cart, err := loadCart(tx, uc.cartRepo, storeID, cartID)
		if err != nil {
			return err
		}
		ids := append(cart.ProductIDs(), productID)
		products, err := uc.productRepo.FindByIDs(tx, storeID, ids)
		if err != nil {
			return err
		}
		if err := change(cart, findProduct(products, productID), productID); err != nil {
			return err
		}
		if err := uc.cartRepo.Update(tx, cart); err != nil {
			return err
		}
		result, err = toCartResult(cart, products)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get 查詢購物車與目前報價（唯讀）
func (uc *CartUseCase) Get(ctx context.Context, storeIDStr, cartIDStr string) (*CartResult, error) {
	storeID, cartID, err := parseCart(storeIDStr, cartIDStr)
	if err != nil {
		return nil, err
	}
	cart, err := loadCart(nil, uc.cartRepo, storeID, cartID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.FindByIDs(nil, storeID, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	return toCartResult(cart, products)
}

// ShippingCandidates 以購物車重量與金額計算運費候選（唯讀）
func (uc *CartUseCase) ShippingCandidates(ctx context.Context, q CartCandidatesQuery) (*CartCandidatesResult, error) {
	storeID, cartID, err := parseCart(q.StoreID, q.CartID)
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
	cart, err := loadCart(nil, uc.cartRepo, storeID, cartID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.FindByIDs(nil, storeID, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	quote, err := cart.Quote(products)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.candidates.Candidates(ctx, nil, st, shipping.CandidateInput{
		Weight:     quote.Weight,
		TotalPrice: quote.Total,
		Prefecture: pref,
	}, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	cartResult, err := toCartResult(cart, products)
	if err != nil {
		return nil, err
	}
	return &CartCandidatesResult{
		Cart: *cartResult,
		ShippingCandidatesResult: shippingapp.ShippingCandidatesResult{
			Prefecture: pref.Name(),
			Candidates: shippingapp.ToCandidateDTOs(candidates),
		},
	}, nil
}

// ===========================
// helpers
// ===========================

func parseCart(storeIDStr, cartIDStr string) (store.StoreID, ec.CartID, error) {
	storeID, err := store.StoreIDFromString(storeIDStr)
	if err != nil {
		return store.StoreID{}, ec.CartID{}, err
	}
	cartID, err := ec.CartIDFromString(cartIDStr)
	if err != nil {
		return store.StoreID{}, ec.CartID{}, err
	}
	return storeID, cartID, nil
}

// loadCart 其他店舖的購物車視為不存在
func loadCart(tx shared.TransactionContext, repo ec.CartRepository, storeID store.StoreID, id ec.CartID) (*ec.Cart, error) {
	cart, err := repo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if !cart.BelongsTo(storeID) {
		return nil, ec.ErrCartNotFound.WithContext("cart_id", id.String(), "store_id", storeID.String())
	}
	return cart, nil
}

func findProduct(products []*inventory.Product, id inventory.ProductID) *inventory.Product {
	for _, p := range products {
		if p.ID().Equals(id) {
			return p
		}
	}
	return nil
}

func toCartResult(cart *ec.Cart, products []*inventory.Product) (*CartResult, error) {
	quote, err := cart.Quote(products)
	if err != nil {
		return nil, err
	}
	result := &CartResult{
		CartID: cart.ID().String(),
		Weight: quote.Weight,
		Total:  quote.Total,
		Lines:  make([]CartLineDTO, 0, len(cart.Lines())),
	}
	if !cart.CustomerID().IsEmpty() {
		result.CustomerID = cart.CustomerID().String()
	}
	for _, l := range cart.Lines() {
		p := findProduct(products, l.ProductID)
		result.Lines = append(result.Lines, CartLineDTO{
			ProductID: l.ProductID.String(),
			Name:      p.Name(),
			UnitPrice: p.SellPrice(),
			Quantity:  l.Quantity,
			Weight:    p.Weight(),
		})
	}
	return result, nil
}
