package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/apptest"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 測試環境
// ===========================

type packFixture struct {
	store     *store.Store
	pack      *inventory.Product
	cardA     *inventory.Product
	cardB     *inventory.Product
	products  *apptest.ProductRepo
	openings  *apptest.PackOpeningRepo
	histories *apptest.StockHistoryRepo
	tx        *apptest.TxManager
	publisher *apptest.Publisher
	recorder  *apptest.Recorder
	useCase   *ReleaseOriginalPackUseCase
}

// newPackFixture 原封包裝 3 箱（每箱進價 1000）、卡片 A 售價 100、卡片 B 售價 200
func newPackFixture(t *testing.T) *packFixture {
	t.Helper()
	f := &packFixture{store: apptest.NewStore(t)}
	sid := f.store.ID()
	f.pack = apptest.NewProduct(t, sid, "原封BOX", 5000, 3, 1000, apptest.Kind(inventory.KindOriginalPack))
	f.cardA = apptest.NewProduct(t, sid, "カードA", 100, 0, 0)
	f.cardB = apptest.NewProduct(t, sid, "カードB", 200, 0, 0)

	f.products = apptest.NewProductRepo(f.pack, f.cardA, f.cardB)
	f.openings = &apptest.PackOpeningRepo{}
	f.histories = &apptest.StockHistoryRepo{}
	f.tx = &apptest.TxManager{}
	f.publisher = &apptest.Publisher{}
	f.recorder = &apptest.Recorder{}
	f.useCase = NewReleaseOriginalPackUseCase(
		f.products, f.openings, f.histories, f.tx,
		common.NewEventDispatcher(f.publisher, nil),
		f.recorder,
		apptest.Clock(),
	)
	return f
}

func (f *packFixture) command(packCount int, a, b int) ReleaseOriginalPackCommand {
	return ReleaseOriginalPackCommand{
		StoreID:       f.store.ID().String(),
		PackProductID: f.pack.ID().String(),
		PackCount:     packCount,
		Contents: []ContentInput{
			{ProductID: f.cardA.ID().String(), Count: a},
			{ProductID: f.cardB.ID().String(), Count: b},
		},
	}
}

// ===========================
// 成功路徑
// ===========================

func TestReleaseOriginalPack_Success_AllocatesCostAndPersists(t *testing.T) {
	// Arrange
	f := newPackFixture(t)

	// Act：開 1 箱，得到 A×3（權重 300）、B×1（權重 200）
	result, err := f.useCase.Execute(context.Background(), f.command(1, 3, 1))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.TotalCost)
	assert.Equal(t, 2, result.PackStock)
	require.Len(t, result.Contents, 2)
	assert.Equal(t, int64(600), result.Contents[0].AllocatedCost)
	assert.Equal(t, int64(400), result.Contents[1].AllocatedCost)
	assert.Equal(t, 3, result.Contents[0].StockNumber)
	assert.Equal(t, 1, result.Contents[1].StockNumber)
	assert.Equal(t, 3, result.HistoryEntries)

	// 商品、紀錄都已寫入
	assert.Equal(t, 3, f.products.UpdateCalls)
	assert.Len(t, f.histories.Items, 3)
	require.Len(t, f.openings.Items, 1)
	assert.Equal(t, result.OpeningID, f.openings.Items[0].ID().String())
	assert.Equal(t, 2, f.pack.Version(), "pack version advances after update")

	// 提交後發布事件與指標
	assert.Equal(t, []string{"inventory.pack_released"}, f.publisher.Types())
	assert.Equal(t, 1, f.recorder.PackReleases)
	assert.Equal(t, 1, f.tx.Calls)
}

func TestReleaseOriginalPack_RemainderGoesToHeaviestContent(t *testing.T) {
	// Arrange：包裝進價 1001
	f := newPackFixture(t)
	f.pack = apptest.NewProduct(t, f.store.ID(), "原封BOX", 5000, 1, 1001, apptest.Kind(inventory.KindOriginalPack))
	require.NoError(t, f.products.Save(nil, f.pack))

	// Act
	result, err := f.useCase.Execute(context.Background(), f.command(1, 3, 1))

	// Assert：600.6 → 600 + 餘 1、400.4 → 400
	require.NoError(t, err)
	assert.Equal(t, int64(601), result.Contents[0].AllocatedCost)
	assert.Equal(t, int64(400), result.Contents[1].AllocatedCost)

	lots := f.cardA.WholesaleLots()
	var sum int64
	for _, l := range lots {
		sum += l.Amount()
	}
	assert.Equal(t, int64(601), sum, "lots of content A add up to its allocation")
}

// ===========================
// 失敗路徑
// ===========================

func TestReleaseOriginalPack_InvalidInput_NoTransaction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cmd *ReleaseOriginalPackCommand)
		wantErr error
	}{
		{
			name:    "invalid store id",
			mutate:  func(cmd *ReleaseOriginalPackCommand) { cmd.StoreID = "bad" },
			wantErr: store.ErrInvalidStoreID,
		},
		{
			name:    "invalid pack id",
			mutate:  func(cmd *ReleaseOriginalPackCommand) { cmd.PackProductID = "" },
			wantErr: inventory.ErrInvalidProductID,
		},
		{
			name:    "invalid content id",
			mutate:  func(cmd *ReleaseOriginalPackCommand) { cmd.Contents[1].ProductID = "x" },
			wantErr: inventory.ErrInvalidProductID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPackFixture(t)
			cmd := f.command(1, 1, 1)
			tt.mutate(&cmd)

			result, err := f.useCase.Execute(context.Background(), cmd)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, 0, f.tx.Calls)
		})
	}
}

func TestReleaseOriginalPack_DomainViolations_NothingPersisted(t *testing.T) {
	tests := []struct {
		name    string
		command func(f *packFixture) ReleaseOriginalPackCommand
		wantErr error
	}{
		{
			name:    "insufficient pack stock",
			command: func(f *packFixture) ReleaseOriginalPackCommand { return f.command(4, 1, 1) },
			wantErr: inventory.ErrInsufficientStock,
		},
		{
			name:    "zero pack count",
			command: func(f *packFixture) ReleaseOriginalPackCommand { return f.command(0, 1, 1) },
			wantErr: inventory.ErrInvalidQuantity,
		},
		{
			name:    "zero content count",
			command: func(f *packFixture) ReleaseOriginalPackCommand { return f.command(1, 0, 1) },
			wantErr: inventory.ErrInvalidPackContents,
		},
		{
			name: "empty contents",
			command: func(f *packFixture) ReleaseOriginalPackCommand {
				cmd := f.command(1, 1, 1)
				cmd.Contents = nil
				return cmd
			},
			wantErr: inventory.ErrInvalidPackContents,
		},
		{
			name: "unknown content product",
			command: func(f *packFixture) ReleaseOriginalPackCommand {
				cmd := f.command(1, 1, 1)
				cmd.Contents[0].ProductID = inventory.NewProductID().String()
				return cmd
			},
			wantErr: inventory.ErrProductNotFound,
		},
		{
			name: "pack is not an original pack",
			command: func(f *packFixture) ReleaseOriginalPackCommand {
				cmd := f.command(1, 1, 1)
				cmd.PackProductID = f.cardA.ID().String()
				cmd.Contents = cmd.Contents[1:]
				return cmd
			},
			wantErr: inventory.ErrNotOriginalPack,
		},
		{
			name: "duplicated content",
			command: func(f *packFixture) ReleaseOriginalPackCommand {
				cmd := f.command(1, 1, 1)
				cmd.Contents[1].ProductID = cmd.Contents[0].ProductID
				return cmd
			},
			wantErr: inventory.ErrInvalidPackContents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newPackFixture(t)

			// Act
			result, err := f.useCase.Execute(context.Background(), tt.command(f))

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, 3, f.pack.StockNumber())
			assert.Equal(t, 0, f.products.UpdateCalls)
			assert.Empty(t, f.histories.Items)
			assert.Empty(t, f.openings.Items)
			assert.Empty(t, f.publisher.Events)
			assert.Equal(t, 0, f.recorder.PackReleases)
		})
	}
}

func TestReleaseOriginalPack_ContentFromOtherStore_ReturnsNotFound(t *testing.T) {
	// Arrange：FindByIDs 只返回同店舖商品
	f := newPackFixture(t)
	other := apptest.NewProduct(t, store.NewStoreID(), "他店カード", 100, 0, 0)
	_ = f.products.Save(nil, other)
	cmd := f.command(1, 1, 1)
	cmd.Contents[0].ProductID = other.ID().String()

	// Act
	_, err := f.useCase.Execute(context.Background(), cmd)

	// Assert
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestReleaseOriginalPack_PackFromOtherStore_ReturnsNotFound(t *testing.T) {
	// Arrange：包裝屬於其他店舖，內容屬於本店舖
	f := newPackFixture(t)
	other := apptest.NewProduct(t, store.NewStoreID(), "他店BOX", 5000, 3, 1000, apptest.Kind(inventory.KindOriginalPack))
	require.NoError(t, f.products.Save(nil, other))
	cmd := f.command(1, 1, 1)
	cmd.PackProductID = other.ID().String()

	// Act
	result, err := f.useCase.Execute(context.Background(), cmd)

	// Assert
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.KindNotFound, domainErr.Kind)
	assert.Nil(t, result)
	assert.Equal(t, 3, other.StockNumber())
	assert.Equal(t, 0, f.products.UpdateCalls)
	assert.Empty(t, f.openings.Items)
}

func TestReleaseOriginalPack_VersionConflict_ReturnsConcurrentModification(t *testing.T) {
	// Arrange：其他操作已先更新包裝
	f := newPackFixture(t)
	f.products.BumpVersion(f.pack.ID())

	// Act
	result, err := f.useCase.Execute(context.Background(), f.command(1, 1, 1))

	// Assert
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Nil(t, result)
	assert.Empty(t, f.publisher.Events, "events are published only after commit")
	assert.Equal(t, 0, f.recorder.PackReleases)
}

func TestReleaseOriginalPack_PublishFailure_StillSucceeds(t *testing.T) {
	// Arrange
	f := newPackFixture(t)
	f.publisher.Err = assert.AnError

	// Act
	result, err := f.useCase.Execute(context.Background(), f.command(1, 1, 1))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.OpeningID)
	assert.Len(t, f.openings.Items, 1)
}
