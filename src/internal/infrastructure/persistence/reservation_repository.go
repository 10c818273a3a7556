package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/reservation"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationModel 予約資料表
type ReservationModel struct {
	ID               string    `gorm:"type:varchar(36);primaryKey"`
	StoreID          string    `gorm:"type:varchar(36);index;not null"`
	ProductID        string    `gorm:"type:varchar(36);index;not null"`
	LimitCount       int       `gorm:"not null"`
	LimitPerCustomer int       `gorm:"not null"`
	Deposit          int64     `gorm:"not null"`
	RemainingPrice   int64     `gorm:"not null"`
	Status           string    `gorm:"type:varchar(10);not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime:false"`
	Version          int       `gorm:"not null;default:1"`
}

// TableName 指定表名
func (ReservationModel) TableName() string {
	return "reservations"
}

// ReceptionModel 予約受付資料表
type ReceptionModel struct {
	ID            string     `gorm:"type:varchar(36);primaryKey"`
	ReservationID string     `gorm:"type:varchar(36);index;not null"`
	CustomerID    string     `gorm:"type:varchar(36);index;not null"`
	Count         int        `gorm:"not null"`
	Status        string     `gorm:"type:varchar(10);not null"`
	CreatedAt     time.Time  `gorm:"not null"`
	ReceivedAt    *time.Time
}

// TableName 指定表名
func (ReceptionModel) TableName() string {
	return "reservation_receptions"
}

func reservationToDomain(m *ReservationModel, receptionModels []ReceptionModel) (*reservation.Reservation, error) {
	id, err := reservation.ReservationIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	productID, err := inventory.ProductIDFromString(m.ProductID)
	if err != nil {
		return nil, err
	}

	receptions := make([]reservation.Reception, len(receptionModels))
	for i, rm := range receptionModels {
		receptionID, err := reservation.ReceptionIDFromString(rm.ID)
		if err != nil {
			return nil, err
		}
		customerID, err := customer.CustomerIDFromString(rm.CustomerID)
		if err != nil {
			return nil, err
		}
		receptions[i] = reservation.Reception{
			ID:         receptionID,
			CustomerID: customerID,
			Count:      rm.Count,
			Status:     reservation.ReceptionStatus(rm.Status),
			CreatedAt:  rm.CreatedAt,
			ReceivedAt: rm.ReceivedAt,
		}
	}

	terms := reservation.Terms{
		LimitCount:       m.LimitCount,
		LimitPerCustomer: m.LimitPerCustomer,
		Deposit:          m.Deposit,
		RemainingPrice:   m.RemainingPrice,
	}
	return reservation.ReconstructReservation(id, storeID, productID, terms, reservation.Status(m.Status), receptions, m.CreatedAt, m.UpdatedAt, m.Version)
}

func reservationToGORM(r *reservation.Reservation) (*ReservationModel, []ReceptionModel) {
	terms := r.Terms()
	model := &ReservationModel{
		ID:               r.ID().String(),
		StoreID:          r.StoreID().String(),
		ProductID:        r.ProductID().String(),
		LimitCount:       terms.LimitCount,
		LimitPerCustomer: terms.LimitPerCustomer,
		Deposit:          terms.Deposit,
		RemainingPrice:   terms.RemainingPrice,
		Status:           string(r.Status()),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
		Version:          r.Version(),
	}

	receptions := make([]ReceptionModel, 0, len(r.Receptions()))
	for _, rc := range r.Receptions() {
		receptions = append(receptions, ReceptionModel{
			ID:            rc.ID.String(),
			ReservationID: model.ID,
			CustomerID:    rc.CustomerID.String(),
			Count:         rc.Count,
			Status:        string(rc.Status),
			CreatedAt:     rc.CreatedAt,
			ReceivedAt:    rc.ReceivedAt,
		})
	}
	return model, receptions
}

// ===========================
// GORMReservationRepository
// ===========================

// GORMReservationRepository 予約倉儲（予約與受付一起讀寫）
type GORMReservationRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewReservationRepository 創建予約倉儲
func NewReservationRepository(db *gorm.DB) reservation.ReservationRepository {
	return &GORMReservationRepository{db: db, errs: errorSet{notFound: reservation.ErrReservationNotFound}}
}

// Save 保存新予約
func (r *GORMReservationRepository) Save(tx shared.TransactionContext, res *reservation.Reservation) error {
	db := dbFrom(tx, r.db)
	model, receptions := reservationToGORM(res)
	if err := db.Create(model).Error; err != nil {
		return r.errs.mapError(err)
	}
	return r.saveReceptions(db, receptions)
}

// Update 更新予約（樂觀鎖），受付以 upsert 保存
func (r *GORMReservationRepository) Update(tx shared.TransactionContext, res *reservation.Reservation) error {
	db := dbFrom(tx, r.db)
	model, receptions := reservationToGORM(res)
	model.Version = res.Version() + 1
	if err := updateVersioned(db, model, model.ID, res.Version(), r.errs); err != nil {
		return err
	}
	if err := r.saveReceptions(db, receptions); err != nil {
		return err
	}
	res.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找予約（含受付）
func (r *GORMReservationRepository) FindByID(tx shared.TransactionContext, id reservation.ReservationID) (*reservation.Reservation, error) {
	db := dbFrom(tx, r.db)

	var model ReservationModel
	if err := db.First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	var receptions []ReceptionModel
	if err := db.Where("reservation_id = ?", model.ID).Order("created_at, rowid").Find(&receptions).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return reservationToDomain(&model, receptions)
}

// saveReceptions 受付不會刪除，只新增或變更狀態（以 id upsert）
func (r *GORMReservationRepository) saveReceptions(db *gorm.DB, receptions []ReceptionModel) error {
	if len(receptions) == 0 {
		return nil
	}
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&receptions).Error
	return r.errs.mapError(err)
}
