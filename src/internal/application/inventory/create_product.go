package inventory

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ComponentInput 組合商品構成品
type ComponentInput struct {
	ProductID string
	Quantity  int
}

// CreateProductCommand 建立商品指令
//
// InitialStock > 0 時以 InitialUnitCost 建立第一個進貨批次。
type CreateProductCommand struct {
	StoreID             string
	Name                string
	SellPrice           int64
	BuyPrice            int64
	Weight              int
	Kind                string
	EcEnabled           bool
	ConsignmentClientID string
	Components          []ComponentInput
	InitialStock        int
	InitialUnitCost     int64
}

// CreateProductResult 建立結果
type CreateProductResult struct {
	ProductID   string
	StockNumber int
}

// CreateProductUseCase 建立商品
type CreateProductUseCase struct {
	storeRepo   store.StoreRepository
	productRepo inventory.ProductRepository
	historyRepo inventory.StockHistoryRepository
	clientRepo  consignment.ClientRepository
	txManager   shared.TransactionManager
	clock       shared.Clock
}

// NewCreateProductUseCase 創建 Use Case 實例
func NewCreateProductUseCase(
	storeRepo store.StoreRepository,
	productRepo inventory.ProductRepository,
	historyRepo inventory.StockHistoryRepository,
	clientRepo consignment.ClientRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *CreateProductUseCase {
	return &CreateProductUseCase{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		historyRepo: historyRepo,
		clientRepo:  clientRepo,
		txManager:   txManager,
		clock:       clock,
	}
}

// Execute 建立商品
//
// 委託商品的委託者必須存在且屬於同店舖；組合商品的構成品必須屬於同店舖。
func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (*CreateProductResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	if cmd.InitialStock < 0 || cmd.InitialUnitCost < 0 {
		return nil, inventory.ErrInvalidProduct.WithContext(
			"initial_stock", cmd.InitialStock,
			"initial_unit_cost", cmd.InitialUnitCost,
		)
	}

	spec := inventory.ProductSpec{
		Name:      cmd.Name,
		SellPrice: cmd.SellPrice,
		BuyPrice:  cmd.BuyPrice,
		Weight:    cmd.Weight,
		Kind:      inventory.ProductKind(cmd.Kind),
		EcEnabled: cmd.EcEnabled,
	}
	if spec.Kind == "" {
		spec.Kind = inventory.KindNormal
	}
	componentIDs := make([]inventory.ProductID, 0, len(cmd.Components))
	for _, c := range cmd.Components {
		id, err := inventory.ProductIDFromString(c.ProductID)
		if err != nil {
			return nil, err
		}
		componentIDs = append(componentIDs, id)
		spec.BundleComponents = append(spec.BundleComponents, inventory.BundleComponent{ProductID: id, Quantity: c.Quantity})
	}

	var clientID consignment.ClientID
	if cmd.ConsignmentClientID != "" {
		clientID, err = consignment.ClientIDFromString(cmd.ConsignmentClientID)
		if err != nil {
			return nil, err
		}
		spec.ConsignmentClientID = clientID.String()
	}

	var result *CreateProductResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		now := uc.clock.Now()
		if _, err := uc.storeRepo.FindByID(tx, storeID); err != nil {
			return err
		}
		if !clientID.IsEmpty() {
			client, err := uc.clientRepo.FindByID(tx, clientID)
			if err != nil {
				return err
			}
			if !client.StoreID().Equals(storeID) {
				return consignment.ErrClientNotFound.WithContext("client_id", clientID.String(), "store_id", storeID.String())
			}
		}
		if len(componentIDs) > 0 {
			found, err := uc.productRepo.FindByIDs(tx, storeID, componentIDs)
			if err != nil {
				return err
			}
			if len(found) != len(componentIDs) {
				return inventory.ErrInvalidBundle.WithContext("reason", "component products must exist in the store")
			}
		}

		p, err := inventory.NewProduct(storeID, spec, now)
		if err != nil {
			return err
		}
		var histories []inventory.StockHistory
		if cmd.InitialStock > 0 {
			lots := []inventory.WholesaleLot{{UnitPrice: cmd.InitialUnitCost, Quantity: cmd.InitialStock, ArrivedAt: now}}
			if err := p.Receive(cmd.InitialStock, lots, now); err != nil {
				return err
			}
			histories = append(histories, inventory.RecordStockChange(p, inventory.SourceAdjustment, "initial", cmd.InitialStock, now))
		}

		if err := uc.productRepo.Save(tx, p); err != nil {
			return err
		}
		if len(histories) > 0 {
			if err := uc.historyRepo.Append(tx, histories...); err != nil {
				return err
			}
		}
		result = &CreateProductResult{ProductID: p.ID().String(), StockNumber: p.StockNumber()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
