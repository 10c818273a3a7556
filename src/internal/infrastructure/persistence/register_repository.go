package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM Models
// ===========================

// RegisterModel 收銀機資料表
type RegisterModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	StoreID     string    `gorm:"type:varchar(36);index;not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	CashBalance int64     `gorm:"not null"`
	Status      string    `gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	Version     int       `gorm:"not null;default:1"`
}

// TableName 指定表名
func (RegisterModel) TableName() string {
	return "registers"
}

// CashMovementModel 現金異動資料表（只追加）
type CashMovementModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	RegisterID   string    `gorm:"type:varchar(36);index:idx_movement_register_time;not null"`
	Kind         string    `gorm:"type:varchar(20);not null"`
	Amount       int64     `gorm:"not null"`
	SourceID     string    `gorm:"type:varchar(64)"`
	Reason       string    `gorm:"type:varchar(255)"`
	BalanceAfter int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index:idx_movement_register_time"`
}

// TableName 指定表名
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// SettlementModel 點算紀錄資料表（面額明細以 JSON 保存）
type SettlementModel struct {
	ID            string        `gorm:"type:varchar(36);primaryKey"`
	RegisterID    string        `gorm:"type:varchar(36);index;not null"`
	Kind          string        `gorm:"type:varchar(10);not null"`
	Denominations map[int64]int `gorm:"serializer:json"`
	Counted       int64         `gorm:"not null"`
	Expected      int64         `gorm:"not null"`
	Difference    int64         `gorm:"not null"`
	CreatedAt     time.Time     `gorm:"not null"`
}

// TableName 指定表名
func (SettlementModel) TableName() string {
	return "register_settlements"
}

// ===========================
// Mapper
// ===========================

func registerToDomain(m *RegisterModel) (*register.Register, error) {
	id, err := register.RegisterIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	return register.ReconstructRegister(id, storeID, m.Name, m.CashBalance, register.Status(m.Status), m.CreatedAt, m.UpdatedAt, m.Version)
}

func registerToGORM(r *register.Register) *RegisterModel {
	return &RegisterModel{
		ID:          r.ID().String(),
		StoreID:     r.StoreID().String(),
		Name:        r.Name(),
		CashBalance: r.CashBalance(),
		Status:      string(r.Status()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
		Version:     r.Version(),
	}
}

// ===========================
// GORMRegisterRepository
// ===========================

// GORMRegisterRepository 收銀機倉儲（收銀機、現金異動、點算紀錄）
type GORMRegisterRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewRegisterRepository 創建收銀機倉儲
func NewRegisterRepository(db *gorm.DB) register.RegisterRepository {
	return &GORMRegisterRepository{db: db, errs: errorSet{notFound: register.ErrRegisterNotFound}}
}

// Save 保存新收銀機
func (r *GORMRegisterRepository) Save(tx shared.TransactionContext, reg *register.Register) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(registerToGORM(reg)).Error)
}

// Update 更新收銀機（樂觀鎖）
func (r *GORMRegisterRepository) Update(tx shared.TransactionContext, reg *register.Register) error {
	model := registerToGORM(reg)
	model.Version = reg.Version() + 1
	if err := updateVersioned(dbFrom(tx, r.db), model, model.ID, reg.Version(), r.errs); err != nil {
		return err
	}
	reg.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找收銀機
func (r *GORMRegisterRepository) FindByID(tx shared.TransactionContext, id register.RegisterID) (*register.Register, error) {
	var model RegisterModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return registerToDomain(&model)
}

// AppendMovements 追加現金異動
func (r *GORMRegisterRepository) AppendMovements(tx shared.TransactionContext, movements ...register.CashMovement) error {
	if len(movements) == 0 {
		return nil
	}
	models := make([]CashMovementModel, len(movements))
	for i, m := range movements {
		models[i] = CashMovementModel{
			ID:           m.ID,
			RegisterID:   m.RegisterID.String(),
			Kind:         string(m.Kind),
			Amount:       m.Amount,
			SourceID:     m.SourceID,
			Reason:       m.Reason,
			BalanceAfter: m.BalanceAfter,
			CreatedAt:    m.CreatedAt.UTC(),
		}
	}
	return r.errs.mapError(dbFrom(tx, r.db).Create(&models).Error)
}

// SaveSettlement 保存點算紀錄
func (r *GORMRegisterRepository) SaveSettlement(tx shared.TransactionContext, s register.Settlement) error {
	model := &SettlementModel{
		ID:            s.ID,
		RegisterID:    s.RegisterID.String(),
		Kind:          string(s.Kind),
		Denominations: s.Denominations,
		Counted:       s.Counted,
		Expected:      s.Expected,
		Difference:    s.Difference,
		CreatedAt:     s.CreatedAt,
	}
	return r.errs.mapError(dbFrom(tx, r.db).Create(model).Error)
}

// FindMovements 查詢 [from, to) 區間的現金異動
//
// 時間以 UTC 保存與比較（SQLite 以字串比較時間）。
func (r *GORMRegisterRepository) FindMovements(tx shared.TransactionContext, id register.RegisterID, from, to time.Time) ([]register.CashMovement, error) {
	var models []CashMovementModel
	err := dbFrom(tx, r.db).
		Where("register_id = ? AND created_at >= ? AND created_at < ?", id.String(), from.UTC(), to.UTC()).
		Order("created_at, rowid").
		Find(&models).Error
	if err != nil {
		return nil, r.errs.mapError(err)
	}

	movements := make([]register.CashMovement, len(models))
	for i, m := range models {
		movements[i] = register.CashMovement{
			ID:           m.ID,
			RegisterID:   id,
			Kind:         register.MovementKind(m.Kind),
			Amount:       m.Amount,
			SourceID:     m.SourceID,
			Reason:       m.Reason,
			BalanceAfter: m.BalanceAfter,
			CreatedAt:    m.CreatedAt,
		}
	}
	return movements, nil
}
