package register_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

var now = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func openRegister(t *testing.T, cash map[int64]int) *register.Register {
	t.Helper()
	r, err := register.NewRegister(store.NewStoreID(), "レジ1", now)
	require.NoError(t, err)
	_, err = r.Settle(register.SettlementOpening, cash, now)
	require.NoError(t, err)
	return r
}

func TestCountCash(t *testing.T) {
	tests := []struct {
		name    string
		cash    map[int64]int
		want    int64
		wantErr error
	}{
		{"空", map[int64]int{}, 0, nil},
		{"全面額各一", map[int64]int{10000: 1, 5000: 1, 2000: 1, 1000: 1, 500: 1, 100: 1, 50: 1, 10: 1, 5: 1, 1: 1}, 18666, nil},
		{"多張", map[int64]int{1000: 3, 100: 7, 1: 4}, 3704, nil},
		{"不存在的面額", map[int64]int{200: 1}, 0, register.ErrInvalidDenomination},
		{"負數張數", map[int64]int{100: -1}, 0, register.ErrInvalidDenomination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := register.CountCash(tt.cash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegister_Settle_OpeningSetsBalanceAndOpens(t *testing.T) {
	// Arrange
	r, _ := register.NewRegister(store.NewStoreID(), "レジ1", now)

	// Act
	result, err := r.Settle(register.SettlementOpening, map[int64]int{10000: 2, 1000: 5}, now)

	// Assert
	require.NoError(t, err)
	assert.True(t, r.IsOpen())
	assert.Equal(t, int64(25000), r.CashBalance())
	assert.Equal(t, int64(0), result.Settlement.Expected)
	assert.Equal(t, int64(25000), result.Settlement.Difference)
	require.NotNil(t, result.Adjustment)
	assert.Equal(t, register.MovementAdjustment, result.Adjustment.Kind)
	assert.Equal(t, int64(25000), result.Adjustment.BalanceAfter)
}

func TestRegister_Settle_MiddleWithoutDifference_NoAdjustment(t *testing.T) {
	// Arrange
	r := openRegister(t, map[int64]int{1000: 10})
	_, err := r.RecordSale(1500, "tx-1", now)
	require.NoError(t, err)

	// Act
	result, err := r.Settle(register.SettlementMiddle, map[int64]int{1000: 11, 500: 1}, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(11500), result.Settlement.Expected)
	assert.Equal(t, int64(0), result.Settlement.Difference)
	assert.Nil(t, result.Adjustment)
	assert.True(t, r.IsOpen())
}

func TestRegister_Settle_ClosingShortage(t *testing.T) {
	// Arrange
	r := openRegister(t, map[int64]int{1000: 10})

	// Act
	result, err := r.Settle(register.SettlementClosing, map[int64]int{1000: 9, 100: 8}, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(-200), result.Settlement.Difference)
	assert.Equal(t, int64(-200), result.Adjustment.Amount)
	assert.Equal(t, int64(9800), r.CashBalance())
	assert.Equal(t, register.StatusClosed, r.Status())
}

func TestRegister_Settle_StatusRules(t *testing.T) {
	closed, _ := register.NewRegister(store.NewStoreID(), "レジ1", now)
	_, err := closed.Settle(register.SettlementClosing, nil, now)
	assert.ErrorIs(t, err, register.ErrInvalidRegisterStatus)

	_, err = closed.Settle(register.SettlementMiddle, nil, now)
	assert.ErrorIs(t, err, register.ErrInvalidRegisterStatus)

	open := openRegister(t, nil)
	_, err = open.Settle(register.SettlementOpening, nil, now)
	assert.ErrorIs(t, err, register.ErrInvalidRegisterStatus)

	_, err = open.Settle("weekly", nil, now)
	assert.ErrorIs(t, err, register.ErrInvalidSettlementKind)
}

func TestRegister_CashMovements(t *testing.T) {
	// Arrange
	r := openRegister(t, map[int64]int{1000: 5})

	// Act
	deposit, err := r.Deposit(2000, "釣銭補充", now)
	require.NoError(t, err)
	purchase, err := r.RecordPurchase(3000, "tx-buy", now)
	require.NoError(t, err)
	_, err = r.Withdraw(5000, "銀行入金", now)

	// Assert
	assert.ErrorIs(t, err, register.ErrInsufficientCash)
	assert.Equal(t, int64(2000), deposit.Amount)
	assert.Equal(t, int64(-3000), purchase.Amount)
	assert.Equal(t, int64(4000), purchase.BalanceAfter)
	assert.Equal(t, int64(4000), r.CashBalance())
}

func TestRegister_ClosedRegister_RejectsCash(t *testing.T) {
	r, _ := register.NewRegister(store.NewStoreID(), "レジ1", now)

	_, err := r.RecordSale(100, "tx-1", now)
	assert.ErrorIs(t, err, register.ErrRegisterClosed)

	_, err = r.Deposit(0, "", now)
	assert.ErrorIs(t, err, register.ErrInvalidCashAmount)
}
