package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/reservation"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

func TestReservationRepository_ReceptionsLifecycle(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	s := createTestStore(t, db)
	p := createTestProduct(t, db, s.ID(), "予約商品", 10)
	alice := createTestCustomer(t, db, s.ID())
	bob := createTestCustomer(t, db, s.ID())

	res, err := reservation.NewReservation(s.ID(), p.ID(), reservation.Terms{
		LimitCount:       5,
		LimitPerCustomer: 2,
		Deposit:          1000,
		RemainingPrice:   4000,
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, res))

	first, err := res.Reserve(alice.ID(), 2, testNow)
	require.NoError(t, err)
	second, err := res.Reserve(bob.ID(), 1, testNow.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, repo.Update(nil, res))

	// Act: 取貨與取消都以同一個 Update 保存
	received, _, err := res.Receive(first.ID, p, testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, res.CancelReception(second.ID, testNow.Add(time.Hour)))
	res.Close(testNow.Add(time.Hour))
	require.NoError(t, repo.Update(nil, res))

	// Assert
	found, err := repo.FindByID(nil, res.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusClosed, found.Status())
	assert.Equal(t, 3, found.Version())
	assert.Equal(t, int64(1000), found.Terms().Deposit)

	receptions := found.Receptions()
	require.Len(t, receptions, 2)
	assert.Equal(t, first.ID.String(), receptions[0].ID.String())
	assert.Equal(t, reservation.ReceptionReceived, receptions[0].Status)
	require.NotNil(t, receptions[0].ReceivedAt)
	assert.True(t, received.ReceivedAt.Equal(*receptions[0].ReceivedAt))
	assert.Equal(t, reservation.ReceptionCanceled, receptions[1].Status)
	assert.Nil(t, receptions[1].ReceivedAt)
	assert.Equal(t, 2, found.ReservedCount())
}

func TestReservationRepository_NotFoundAndStaleVersion(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	s := createTestStore(t, db)
	p := createTestProduct(t, db, s.ID(), "予約商品", 0)
	c := createTestCustomer(t, db, s.ID())
	res, err := reservation.NewReservation(s.ID(), p.ID(), reservation.Terms{}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, res))

	stale, err := repo.FindByID(nil, res.ID())
	require.NoError(t, err)
	_, err = res.Reserve(c.ID(), 1, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Update(nil, res))
	_, err = stale.Reserve(c.ID(), 3, testNow)
	require.NoError(t, err)

	// Act
	_, findErr := repo.FindByID(nil, reservation.NewReservationID())
	updateErr := repo.Update(nil, stale)

	// Assert
	assert.ErrorIs(t, findErr, reservation.ErrReservationNotFound)
	assert.ErrorIs(t, updateErr, shared.ErrConcurrentModification)

	found, err := repo.FindByID(nil, res.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, found.ReservedCount())
}
