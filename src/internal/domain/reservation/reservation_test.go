package reservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/reservation"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

var now = time.Date(2025, 8, 1, 11, 0, 0, 0, time.UTC)

func setup(t *testing.T, terms reservation.Terms, stock int) (*reservation.Reservation, *inventory.Product) {
	t.Helper()
	storeID := store.NewStoreID()
	p, err := inventory.NewProduct(storeID, inventory.ProductSpec{
		Name: "拡張パック 予約", SellPrice: 5400, BuyPrice: 4000, Kind: inventory.KindOriginalPack,
	}, now)
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.Receive(stock, nil, now))
	}
	r, err := reservation.NewReservation(storeID, p.ID(), terms, now)
	require.NoError(t, err)
	return r, p
}

func TestNewReservation_InvalidTerms(t *testing.T) {
	_, err := reservation.NewReservation(store.NewStoreID(), inventory.NewProductID(),
		reservation.Terms{LimitCount: 2, LimitPerCustomer: 3}, now)

	assert.ErrorIs(t, err, reservation.ErrInvalidReservation)
}

func TestReservation_Reserve_Limits(t *testing.T) {
	// Arrange
	r, _ := setup(t, reservation.Terms{LimitCount: 5, LimitPerCustomer: 2}, 0)
	alice := customer.NewCustomerID()
	bob := customer.NewCustomerID()
	carol := customer.NewCustomerID()

	// Act & Assert
	_, err := r.Reserve(alice, 2, now)
	require.NoError(t, err)

	_, err = r.Reserve(alice, 1, now)
	assert.ErrorIs(t, err, reservation.ErrLimitExceeded, "每人上限")

	_, err = r.Reserve(bob, 2, now)
	require.NoError(t, err)

	_, err = r.Reserve(carol, 2, now)
	assert.ErrorIs(t, err, reservation.ErrLimitExceeded, "總數上限")

	_, err = r.Reserve(carol, 1, now)
	require.NoError(t, err)
	assert.Equal(t, 5, r.ReservedCount())
}

func TestReservation_CancelReception_FreesCapacity(t *testing.T) {
	// Arrange
	r, _ := setup(t, reservation.Terms{LimitCount: 1}, 0)
	rec, err := r.Reserve(customer.NewCustomerID(), 1, now)
	require.NoError(t, err)

	// Act
	require.NoError(t, r.CancelReception(rec.ID, now))

	// Assert
	assert.Equal(t, 0, r.ReservedCount())
	_, err = r.Reserve(customer.NewCustomerID(), 1, now)
	assert.NoError(t, err)
	assert.ErrorIs(t, r.CancelReception(rec.ID, now), reservation.ErrInvalidReceptionState)
	assert.ErrorIs(t, r.CancelReception(reservation.NewReceptionID(), now), reservation.ErrReceptionNotFound)
}

func TestReservation_Closed_RejectsNewReceptions(t *testing.T) {
	r, _ := setup(t, reservation.Terms{}, 0)
	r.Close(now)

	_, err := r.Reserve(customer.NewCustomerID(), 1, now)

	assert.ErrorIs(t, err, reservation.ErrReservationClosed)
}

func TestReservation_Receive_DecrementsStock(t *testing.T) {
	// Arrange
	r, p := setup(t, reservation.Terms{Deposit: 1000, RemainingPrice: 4400}, 3)
	rec, err := r.Reserve(customer.NewCustomerID(), 2, now)
	require.NoError(t, err)
	r.Close(now)

	// Act
	received, history, err := r.Receive(rec.ID, p, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, reservation.ReceptionReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, 1, p.StockNumber())
	assert.Equal(t, inventory.SourceReservation, history.SourceKind)
	assert.Equal(t, -2, history.Delta)
	assert.Equal(t, 2, r.ReservedCount(), "已取貨仍計入有效數量")

	_, _, err = r.Receive(rec.ID, p, now)
	assert.ErrorIs(t, err, reservation.ErrInvalidReceptionState)
}

func TestReservation_Receive_InsufficientStock(t *testing.T) {
	r, p := setup(t, reservation.Terms{}, 1)
	rec, _ := r.Reserve(customer.NewCustomerID(), 2, now)

	_, _, err := r.Receive(rec.ID, p, now)

	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, reservation.ReceptionReserved, r.Receptions()[0].Status)
}

func TestReservation_Receive_WrongProduct(t *testing.T) {
	r, _ := setup(t, reservation.Terms{}, 0)
	_, other := setup(t, reservation.Terms{}, 5)
	rec, _ := r.Reserve(customer.NewCustomerID(), 1, now)

	_, _, err := r.Receive(rec.ID, other, now)

	assert.ErrorIs(t, err, reservation.ErrProductMismatch)
}
