package httpapi

import (
	"context"

	consignmentapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/consignment"
	customerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/customer"
	ecapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/ec"
	inventoryapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/inventory"
	pointsapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/points"
	registerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/register"
	reservationapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/reservation"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	storeapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/store"
	transactionapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/transaction"
)

// ===========================
// Handler 依賴的 Use Case
// ===========================

type StoreService interface {
	Create(ctx context.Context, cmd storeapp.CreateStoreCommand) (*storeapp.StoreResult, error)
	UpdateEcSetting(ctx context.Context, cmd storeapp.UpdateEcSettingCommand) (*storeapp.StoreResult, error)
}

type MethodCreator interface {
	Execute(ctx context.Context, cmd shippingapp.CreateMethodCommand) (*shippingapp.CreateMethodResult, error)
}

type MethodUpdater interface {
	Execute(ctx context.Context, cmd shippingapp.UpdateMethodCommand) (*shippingapp.CreateMethodResult, error)
}

type MethodDeleter interface {
	Execute(ctx context.Context, cmd shippingapp.DeleteMethodCommand) error
}

type CandidateFinder interface {
	Execute(ctx context.Context, q shippingapp.ShippingCandidatesQuery) (*shippingapp.ShippingCandidatesResult, error)
}

type ProductCreator interface {
	Execute(ctx context.Context, cmd inventoryapp.CreateProductCommand) (*inventoryapp.CreateProductResult, error)
}

type PackReleaser interface {
	Execute(ctx context.Context, cmd inventoryapp.ReleaseOriginalPackCommand) (*inventoryapp.ReleaseOriginalPackResult, error)
}

type BundleService interface {
	Assemble(ctx context.Context, cmd inventoryapp.BundleCommand) (*inventoryapp.BundleResult, error)
	Disassemble(ctx context.Context, cmd inventoryapp.BundleCommand) (*inventoryapp.BundleResult, error)
}

type StockAdjuster interface {
	Execute(ctx context.Context, cmd inventoryapp.AdjustStockCommand) (*inventoryapp.AdjustStockResult, error)
}

type DraftSaver interface {
	Execute(ctx context.Context, cmd transactionapp.SaveDraftCommand) (*transactionapp.DraftResult, error)
}

type TransactionFinalizer interface {
	Execute(ctx context.Context, cmd transactionapp.FinalizeCommand) (*transactionapp.FinalizeResult, error)
}

type TransactionCanceler interface {
	Execute(ctx context.Context, cmd transactionapp.CancelCommand) (*transactionapp.DraftResult, error)
}

type RegisterCreator interface {
	Execute(ctx context.Context, cmd registerapp.CreateRegisterCommand) (*registerapp.RegisterResult, error)
}

type RegisterSettler interface {
	Execute(ctx context.Context, cmd registerapp.SettleCommand) (*registerapp.SettleResult, error)
}

type CashService interface {
	Deposit(ctx context.Context, cmd registerapp.CashCommand) (*registerapp.CashResult, error)
	Withdraw(ctx context.Context, cmd registerapp.CashCommand) (*registerapp.CashResult, error)
}

type MovementLister interface {
	Execute(ctx context.Context, q registerapp.MovementsQuery) ([]registerapp.MovementDTO, error)
}

type PointsAccountCreator interface {
	Execute(ctx context.Context, cmd pointsapp.CreatePointsAccountCommand) (*pointsapp.CreatePointsAccountResult, error)
}

type PointsBalanceFinder interface {
	Execute(ctx context.Context, q pointsapp.GetPointsBalanceQuery) (*pointsapp.GetPointsBalanceResult, error)
}

type PointsAdjuster interface {
	Execute(ctx context.Context, cmd pointsapp.AdjustPointsCommand) (*pointsapp.GetPointsBalanceResult, error)
}

type ReservationService interface {
	Create(ctx context.Context, cmd reservationapp.CreateReservationCommand) (*reservationapp.ReservationResult, error)
	Reserve(ctx context.Context, cmd reservationapp.ReserveCommand) (*reservationapp.ReceptionResult, error)
	CancelReception(ctx context.Context, cmd reservationapp.ReceptionCommand) (*reservationapp.ReceptionResult, error)
	Receive(ctx context.Context, cmd reservationapp.ReceptionCommand) (*reservationapp.ReceptionResult, error)
	Close(ctx context.Context, storeID, reservationID string) (*reservationapp.ReservationResult, error)
}

type ClientCreator interface {
	Execute(ctx context.Context, cmd consignmentapp.CreateClientCommand) (*consignmentapp.ClientResult, error)
}

type PayoutFinder interface {
	Execute(ctx context.Context, q consignmentapp.PayoutQuery) (*consignmentapp.PayoutResult, error)
}

type CartService interface {
	Create(ctx context.Context, cmd ecapp.CreateCartCommand) (*ecapp.CartResult, error)
	AddItem(ctx context.Context, cmd ecapp.CartItemCommand) (*ecapp.CartResult, error)
	RemoveItem(ctx context.Context, cmd ecapp.CartItemCommand) (*ecapp.CartResult, error)
	Get(ctx context.Context, storeID, cartID string) (*ecapp.CartResult, error)
	ShippingCandidates(ctx context.Context, q ecapp.CartCandidatesQuery) (*ecapp.CartCandidatesResult, error)
}

type CheckoutService interface {
	Execute(ctx context.Context, cmd ecapp.CheckoutCommand) (*ecapp.CheckoutResult, error)
}

// UseCases HTTP 層使用的全部 Use Case
type UseCases struct {
	Stores             StoreService
	ShippingMethods    MethodCreator
	UpdateMethods      MethodUpdater
	DeleteMethods      MethodDeleter
	ShippingCandidates CandidateFinder

	Products     ProductCreator
	PackReleases PackReleaser
	Bundles      BundleService
	StockAdjusts StockAdjuster

	SaveDraft   DraftSaver
	Finalize    TransactionFinalizer
	CancelDraft TransactionCanceler

	CreateRegister RegisterCreator
	Settle         RegisterSettler
	Cash           CashService
	Movements      MovementLister

	Customers     customerapp.RegisterCustomerUseCase
	PointsAccount PointsAccountCreator
	PointsBalance PointsBalanceFinder
	PointsAdjust  PointsAdjuster

	Reservations ReservationService
	Clients      ClientCreator
	Payouts      PayoutFinder

	Carts    CartService
	Checkout CheckoutService
}
