package apptest

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// StoreRepo
// ===========================

type StoreRepo struct {
	Items     map[store.StoreID]*store.Store
	FindCalls int
}

func NewStoreRepo(stores ...*store.Store) *StoreRepo {
	r := &StoreRepo{Items: make(map[store.StoreID]*store.Store)}
	for _, s := range stores {
		r.Items[s.ID()] = s
	}
	return r
}

func (r *StoreRepo) Save(tx shared.TransactionContext, s *store.Store) error {
	if _, ok := r.Items[s.ID()]; ok {
		return store.ErrStoreAlreadyExists
	}
	r.Items[s.ID()] = s
	return nil
}

func (r *StoreRepo) Update(tx shared.TransactionContext, s *store.Store) error {
	if _, ok := r.Items[s.ID()]; !ok {
		return store.ErrStoreNotFound
	}
	r.Items[s.ID()] = s
	return nil
}

func (r *StoreRepo) FindByID(tx shared.TransactionContext, id store.StoreID) (*store.Store, error) {
	r.FindCalls++
	s, ok := r.Items[id]
	if !ok {
		return nil, store.ErrStoreNotFound.WithContext("store_id", id.String())
	}
	return s, nil
}

// ===========================
// ProductRepo
// ===========================

type ProductRepo struct {
	Items       map[inventory.ProductID]*inventory.Product
	versions    versions[inventory.ProductID]
	UpdateCalls int
}

func NewProductRepo(products ...*inventory.Product) *ProductRepo {
	r := &ProductRepo{
		Items:    make(map[inventory.ProductID]*inventory.Product),
		versions: make(versions[inventory.ProductID]),
	}
	for _, p := range products {
		r.Items[p.ID()] = p
		r.versions[p.ID()] = p.Version()
	}
	return r
}

func (r *ProductRepo) Save(tx shared.TransactionContext, p *inventory.Product) error {
	r.Items[p.ID()] = p
	r.versions[p.ID()] = p.Version()
	return nil
}

func (r *ProductRepo) Update(tx shared.TransactionContext, p *inventory.Product) error {
	r.UpdateCalls++
	if err := r.versions.check(p.ID(), p.Version(), inventory.ErrProductNotFound); err != nil {
		return err
	}
	p.AdvanceVersion()
	r.Items[p.ID()] = p
	return nil
}

func (r *ProductRepo) FindByID(tx shared.TransactionContext, id inventory.ProductID) (*inventory.Product, error) {
	p, ok := r.Items[id]
	if !ok {
		return nil, inventory.ErrProductNotFound.WithContext("product_id", id.String())
	}
	return p, nil
}

func (r *ProductRepo) FindByIDs(tx shared.TransactionContext, storeID store.StoreID, ids []inventory.ProductID) ([]*inventory.Product, error) {
	out := make([]*inventory.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.Items[id]; ok && p.BelongsTo(storeID) {
			out = append(out, p)
		}
	}
	return out, nil
}

// BumpVersion 模擬其他操作已先更新此商品
func (r *ProductRepo) BumpVersion(id inventory.ProductID) {
	r.versions[id]++
}

// ===========================
// PackOpeningRepo
// ===========================

type PackOpeningRepo struct {
	Items []*inventory.PackOpening
	Err   error
}

func (r *PackOpeningRepo) Save(tx shared.TransactionContext, o *inventory.PackOpening) error {
	if r.Err != nil {
		return r.Err
	}
	r.Items = append(r.Items, o)
	return nil
}

func (r *PackOpeningRepo) FindByID(tx shared.TransactionContext, id inventory.PackOpeningID) (*inventory.PackOpening, error) {
	for _, o := range r.Items {
		if o.ID().Equals(id) {
			return o, nil
		}
	}
	return nil, inventory.ErrPackOpeningNotFound
}

// ===========================
// StockHistoryRepo
// ===========================

type StockHistoryRepo struct {
	Items []inventory.StockHistory
}

func (r *StockHistoryRepo) Append(tx shared.TransactionContext, histories ...inventory.StockHistory) error {
	r.Items = append(r.Items, histories...)
	return nil
}

func (r *StockHistoryRepo) FindByProduct(tx shared.TransactionContext, productID inventory.ProductID) ([]inventory.StockHistory, error) {
	var out []inventory.StockHistory
	for _, h := range r.Items {
		if h.ProductID.Equals(productID) {
			out = append(out, h)
		}
	}
	return out, nil
}

// ===========================
// MethodRepo
// ===========================

type MethodRepo struct {
	Items     []*shipping.Method
	FindCalls int
}

func NewMethodRepo(methods ...*shipping.Method) *MethodRepo {
	return &MethodRepo{Items: methods}
}

func (r *MethodRepo) Save(tx shared.TransactionContext, m *shipping.Method) error {
	r.Items = append(r.Items, m)
	return nil
}

func (r *MethodRepo) Update(tx shared.TransactionContext, m *shipping.Method) error {
	for i, existing := range r.Items {
		if existing.ID().Equals(m.ID()) {
			r.Items[i] = m
			return nil
		}
	}
	return shipping.ErrMethodNotFound
}

func (r *MethodRepo) FindByID(tx shared.TransactionContext, id shipping.MethodID) (*shipping.Method, error) {
	for _, m := range r.Items {
		if m.ID().Equals(id) {
			return m, nil
		}
	}
	return nil, shipping.ErrMethodNotFound.WithContext("method_id", id.String())
}

func (r *MethodRepo) FindActiveByStore(tx shared.TransactionContext, storeID store.StoreID) ([]*shipping.Method, error) {
	r.FindCalls++
	var out []*shipping.Method
	for _, m := range r.Items {
		if m.StoreID().Equals(storeID) && !m.IsDeleted() {
			out = append(out, m)
		}
	}
	return out, nil
}
