package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

func TestRegisterRepository_SettleAndMovements(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRegisterRepository(db)
	s := createTestStore(t, db)
	reg, err := register.NewRegister(s.ID(), "レジ1", testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, reg))

	opening, err := reg.Settle(register.SettlementOpening, map[int64]int{1000: 5}, testNow)
	require.NoError(t, err)
	sale, err := reg.RecordSale(1500, "tx-1", testNow.Add(time.Minute))
	require.NoError(t, err)
	// 非 UTC 的時間也要能以 UTC 區間查到
	jst := time.FixedZone("JST", 9*60*60)
	withdrawal, err := reg.Withdraw(500, "両替", testNow.Add(2*time.Minute).In(jst))
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.SaveSettlement(nil, opening.Settlement))
	require.NoError(t, repo.AppendMovements(nil, *opening.Adjustment, sale, withdrawal))
	require.NoError(t, repo.Update(nil, reg))

	// Assert
	found, err := repo.FindByID(nil, reg.ID())
	require.NoError(t, err)
	assert.True(t, found.IsOpen())
	assert.Equal(t, int64(6000), found.CashBalance())
	assert.Equal(t, 2, found.Version())

	all, err := repo.FindMovements(nil, reg.ID(), testNow, testNow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, register.MovementAdjustment, all[0].Kind)
	assert.Equal(t, int64(5000), all[0].Amount)
	assert.Equal(t, int64(1500), all[1].Amount)
	assert.Equal(t, int64(-500), all[2].Amount)
	assert.Equal(t, int64(6000), all[2].BalanceAfter)

	// 區間為 [from, to)
	window, err := repo.FindMovements(nil, reg.ID(), testNow.Add(time.Minute), testNow.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "tx-1", window[0].SourceID)
}

func TestRegisterRepository_NotFoundAndStaleVersion(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRegisterRepository(db)
	s := createTestStore(t, db)
	reg, err := register.NewRegister(s.ID(), "レジ1", testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, reg))

	stale, err := repo.FindByID(nil, reg.ID())
	require.NoError(t, err)
	_, err = reg.Settle(register.SettlementOpening, map[int64]int{}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Update(nil, reg))
	_, err = stale.Settle(register.SettlementOpening, map[int64]int{100: 1}, testNow)
	require.NoError(t, err)

	// Act
	_, findErr := repo.FindByID(nil, register.NewRegisterID())
	updateErr := repo.Update(nil, stale)

	// Assert
	assert.ErrorIs(t, findErr, register.ErrRegisterNotFound)
	assert.ErrorIs(t, updateErr, shared.ErrConcurrentModification)
}
