package apptest

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/reservation"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/transaction"
)

// ===========================
// CustomerRepo
// ===========================

type CustomerRepo struct {
	Items     map[customer.CustomerID]*customer.Customer
	versions  versions[customer.CustomerID]
	SaveCalls int
}

func NewCustomerRepo(customers ...*customer.Customer) *CustomerRepo {
	r := &CustomerRepo{
		Items:    make(map[customer.CustomerID]*customer.Customer),
		versions: make(versions[customer.CustomerID]),
	}
	for _, c := range customers {
		r.Items[c.ID()] = c
		r.versions[c.ID()] = c.Version()
	}
	return r
}

func (r *CustomerRepo) Save(tx shared.TransactionContext, c *customer.Customer) error {
	r.SaveCalls++
	r.Items[c.ID()] = c
	r.versions[c.ID()] = c.Version()
	return nil
}

func (r *CustomerRepo) Update(tx shared.TransactionContext, c *customer.Customer) error {
	if err := r.versions.check(c.ID(), c.Version(), customer.ErrCustomerNotFound); err != nil {
		return err
	}
	c.AdvanceVersion()
	return nil
}

func (r *CustomerRepo) FindByID(tx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	c, ok := r.Items[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound.WithContext("customer_id", id.String())
	}
	return c, nil
}

func (r *CustomerRepo) ExistsByPhoneNumber(tx shared.TransactionContext, storeID store.StoreID, phone customer.PhoneNumber) (bool, error) {
	for _, c := range r.Items {
		if c.StoreID().Equals(storeID) && c.PhoneNumber().Equals(phone) {
			return true, nil
		}
	}
	return false, nil
}

// ===========================
// PointsRepo
// ===========================

type PointsRepo struct {
	Items     map[points.AccountID]*points.PointsAccount
	versions  versions[points.AccountID]
	SaveCalls int
}

func NewPointsRepo(accounts ...*points.PointsAccount) *PointsRepo {
	r := &PointsRepo{
		Items:    make(map[points.AccountID]*points.PointsAccount),
		versions: make(versions[points.AccountID]),
	}
	for _, a := range accounts {
		r.Items[a.AccountID()] = a
		r.versions[a.AccountID()] = a.Version()
	}
	return r
}

func (r *PointsRepo) Save(tx shared.TransactionContext, a *points.PointsAccount) error {
	r.SaveCalls++
	for _, existing := range r.Items {
		if existing.StoreID().Equals(a.StoreID()) && existing.CustomerID().Equals(a.CustomerID()) {
			return points.ErrAccountAlreadyExists.WithContext("customer_id", a.CustomerID().String())
		}
	}
	r.Items[a.AccountID()] = a
	r.versions[a.AccountID()] = a.Version()
	return nil
}

func (r *PointsRepo) Update(tx shared.TransactionContext, a *points.PointsAccount) error {
	if err := r.versions.check(a.AccountID(), a.Version(), points.ErrAccountNotFound); err != nil {
		return err
	}
	a.AdvanceVersion()
	return nil
}

func (r *PointsRepo) FindByID(tx shared.TransactionContext, id points.AccountID) (*points.PointsAccount, error) {
	a, ok := r.Items[id]
	if !ok {
		return nil, points.ErrAccountNotFound
	}
	return a, nil
}

func (r *PointsRepo) FindByCustomer(tx shared.TransactionContext, storeID store.StoreID, customerID customer.CustomerID) (*points.PointsAccount, error) {
	for _, a := range r.Items {
		if a.StoreID().Equals(storeID) && a.CustomerID().Equals(customerID) {
			return a, nil
		}
	}
	return nil, points.ErrAccountNotFound.WithContext("customer_id", customerID.String())
}

// ===========================
// RegisterRepo
// ===========================

type RegisterRepo struct {
	Items       map[register.RegisterID]*register.Register
	versions    versions[register.RegisterID]
	Movements   []register.CashMovement
	Settlements []register.Settlement
}

func NewRegisterRepo(registers ...*register.Register) *RegisterRepo {
	r := &RegisterRepo{
		Items:    make(map[register.RegisterID]*register.Register),
		versions: make(versions[register.RegisterID]),
	}
	for _, reg := range registers {
		r.Items[reg.ID()] = reg
		r.versions[reg.ID()] = reg.Version()
	}
	return r
}

func (r *RegisterRepo) Save(tx shared.TransactionContext, reg *register.Register) error {
	r.Items[reg.ID()] = reg
	r.versions[reg.ID()] = reg.Version()
	return nil
}

func (r *RegisterRepo) Update(tx shared.TransactionContext, reg *register.Register) error {
	if err := r.versions.check(reg.ID(), reg.Version(), register.ErrRegisterNotFound); err != nil {
		return err
	}
	reg.AdvanceVersion()
	return nil
}

func (r *RegisterRepo) FindByID(tx shared.TransactionContext, id register.RegisterID) (*register.Register, error) {
	reg, ok := r.Items[id]
	if !ok {
		return nil, register.ErrRegisterNotFound.WithContext("register_id", id.String())
	}
	return reg, nil
}

func (r *RegisterRepo) AppendMovements(tx shared.TransactionContext, movements ...register.CashMovement) error {
	r.Movements = append(r.Movements, movements...)
	return nil
}

func (r *RegisterRepo) SaveSettlement(tx shared.TransactionContext, s register.Settlement) error {
	r.Settlements = append(r.Settlements, s)
	return nil
}

func (r *RegisterRepo) FindMovements(tx shared.TransactionContext, id register.RegisterID, from, to time.Time) ([]register.CashMovement, error) {
	var out []register.CashMovement
	for _, m := range r.Movements {
		if m.RegisterID.Equals(id) && !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ===========================
// TransactionRepo
// ===========================

type TransactionRepo struct {
	Items    map[transaction.TransactionID]*transaction.Transaction
	versions versions[transaction.TransactionID]
}

func NewTransactionRepo(txs ...*transaction.Transaction) *TransactionRepo {
	r := &TransactionRepo{
		Items:    make(map[transaction.TransactionID]*transaction.Transaction),
		versions: make(versions[transaction.TransactionID]),
	}
	for _, t := range txs {
		r.Items[t.ID()] = t
		r.versions[t.ID()] = t.Version()
	}
	return r
}

func (r *TransactionRepo) Save(tx shared.TransactionContext, t *transaction.Transaction) error {
	r.Items[t.ID()] = t
	r.versions[t.ID()] = t.Version()
	return nil
}

func (r *TransactionRepo) Update(tx shared.TransactionContext, t *transaction.Transaction) error {
	if err := r.versions.check(t.ID(), t.Version(), transaction.ErrTransactionNotFound); err != nil {
		return err
	}
	t.AdvanceVersion()
	return nil
}

func (r *TransactionRepo) FindByID(tx shared.TransactionContext, id transaction.TransactionID) (*transaction.Transaction, error) {
	t, ok := r.Items[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound.WithContext("transaction_id", id.String())
	}
	return t, nil
}

// ===========================
// ReservationRepo
// ===========================

type ReservationRepo struct {
	Items    map[reservation.ReservationID]*reservation.Reservation
	versions versions[reservation.ReservationID]
}

func NewReservationRepo(items ...*reservation.Reservation) *ReservationRepo {
	r := &ReservationRepo{
		Items:    make(map[reservation.ReservationID]*reservation.Reservation),
		versions: make(versions[reservation.ReservationID]),
	}
	for _, res := range items {
		r.Items[res.ID()] = res
		r.versions[res.ID()] = res.Version()
	}
	return r
}

func (r *ReservationRepo) Save(tx shared.TransactionContext, res *reservation.Reservation) error {
	r.Items[res.ID()] = res
	r.versions[res.ID()] = res.Version()
	return nil
}

func (r *ReservationRepo) Update(tx shared.TransactionContext, res *reservation.Reservation) error {
	if err := r.versions.check(res.ID(), res.Version(), reservation.ErrReservationNotFound); err != nil {
		return err
	}
	res.AdvanceVersion()
	return nil
}

func (r *ReservationRepo) FindByID(tx shared.TransactionContext, id reservation.ReservationID) (*reservation.Reservation, error) {
	res, ok := r.Items[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound.WithContext("reservation_id", id.String())
	}
	return res, nil
}

// ===========================
// Consignment repos
// ===========================

type ClientRepo struct {
	Items map[consignment.ClientID]*consignment.Client
}

func NewClientRepo(clients ...*consignment.Client) *ClientRepo {
	r := &ClientRepo{Items: make(map[consignment.ClientID]*consignment.Client)}
	for _, c := range clients {
		r.Items[c.ID()] = c
	}
	return r
}

func (r *ClientRepo) Save(tx shared.TransactionContext, c *consignment.Client) error {
	r.Items[c.ID()] = c
	return nil
}

func (r *ClientRepo) FindByID(tx shared.TransactionContext, id consignment.ClientID) (*consignment.Client, error) {
	c, ok := r.Items[id]
	if !ok {
		return nil, consignment.ErrClientNotFound.WithContext("client_id", id.String())
	}
	return c, nil
}

type SaleRepo struct {
	Items []consignment.Sale
}

func (r *SaleRepo) Append(tx shared.TransactionContext, sales ...consignment.Sale) error {
	r.Items = append(r.Items, sales...)
	return nil
}

func (r *SaleRepo) FindByClient(tx shared.TransactionContext, clientID consignment.ClientID, from, to time.Time) ([]consignment.Sale, error) {
	var out []consignment.Sale
	for _, s := range r.Items {
		if s.ClientID.Equals(clientID) && !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ===========================
// EC repos
// ===========================

type CartRepo struct {
	Items    map[ec.CartID]*ec.Cart
	versions versions[ec.CartID]
}

func NewCartRepo(carts ...*ec.Cart) *CartRepo {
	r := &CartRepo{
		Items:    make(map[ec.CartID]*ec.Cart),
		versions: make(versions[ec.CartID]),
	}
	for _, c := range carts {
		r.Items[c.ID()] = c
		r.versions[c.ID()] = c.Version()
	}
	return r
}

func (r *CartRepo) Save(tx shared.TransactionContext, c *ec.Cart) error {
	r.Items[c.ID()] = c
	r.versions[c.ID()] = c.Version()
	return nil
}

func (r *CartRepo) Update(tx shared.TransactionContext, c *ec.Cart) error {
	if err := r.versions.check(c.ID(), c.Version(), ec.ErrCartNotFound); err != nil {
		return err
	}
	c.AdvanceVersion()
	return nil
}

func (r *CartRepo) FindByID(tx shared.TransactionContext, id ec.CartID) (*ec.Cart, error) {
	c, ok := r.Items[id]
	if !ok {
		return nil, ec.ErrCartNotFound.WithContext("cart_id", id.String())
	}
	return c, nil
}

type OrderRepo struct {
	Items []*ec.Order
}

func (r *OrderRepo) Save(tx shared.TransactionContext, o *ec.Order) error {
	r.Items = append(r.Items, o)
	return nil
}

func (r *OrderRepo) FindByID(tx shared.TransactionContext, id ec.OrderID) (*ec.Order, error) {
	for _, o := range r.Items {
		if o.ID.Equals(id) {
			return o, nil
		}
	}
	return nil, ec.ErrOrderNotFound
}
