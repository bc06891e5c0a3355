package store

import (
	"context"
	"sort"
	"sync"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
)

// MemoryDB is a pure in-memory backend implementing the same contracts as the
// postgres stores. Handler tests run against it; it also pins down the store
// semantics (id assignment, cascade, idempotent delete) without a database.
type MemoryDB struct {
	mu             sync.Mutex
	suppliers      map[int64]models.Supplier
	products       map[int64]models.Product
	favorites      map[int64]bool
	nextSupplierID int64
	nextProductID  int64
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		suppliers: make(map[int64]models.Supplier),
		products:  make(map[int64]models.Product),
		favorites: make(map[int64]bool),
	}
}

// Suppliers returns the supplier store view of the database.
func (db *MemoryDB) Suppliers() SupplierStore { return &memorySupplierStore{db} }

// Products returns the product store view of the database.
func (db *MemoryDB) Products() ProductStore { return &memoryProductStore{db} }

type memorySupplierStore struct{ db *MemoryDB }

func (m *memorySupplierStore) Create(_ context.Context, s *models.Supplier) error {
	if s.ID != 0 {
		return apperror.ValidationFailed("id", "create called with an already assigned supplier id")
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	// Identifiers increase monotonically and are never reused after deletes.
	m.db.nextSupplierID++
	s.ID = m.db.nextSupplierID
	m.db.suppliers[s.ID] = *s
	return nil
}

func (m *memorySupplierStore) Update(_ context.Context, s *models.Supplier) error {
	if s.ID == 0 {
		return apperror.ValidationFailed("id", "update called with empty supplier id")
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.suppliers[s.ID]; !ok {
		return apperror.NotFound("supplier", s.ID)
	}
	m.db.suppliers[s.ID] = *s
	return nil
}

func (m *memorySupplierStore) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for pid, p := range m.db.products {
		if p.SupplierID == id {
			delete(m.db.products, pid)
		}
	}
	delete(m.db.favorites, id)
	delete(m.db.suppliers, id)
	return nil
}

func (m *memorySupplierStore) Find(_ context.Context, id int64) (*models.Supplier, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySupplierStore) All(ctx context.Context) ([]*models.Supplier, error) {
	return m.filter(func(models.Supplier) bool { return true })
}

func (m *memorySupplierStore) FindByName(_ context.Context, name string) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Name == name })
}

func (m *memorySupplierStore) FindByEmail(_ context.Context, email string) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Email == email })
}

func (m *memorySupplierStore) FindByPhone(_ context.Context, phone string) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Phone == phone })
}

func (m *memorySupplierStore) FindByAddress(_ context.Context, address string) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Address == address })
}

func (m *memorySupplierStore) FindByAvailability(_ context.Context, available bool) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Available == available })
}

func (m *memorySupplierStore) FindByGreaterRating(_ context.Context, rating float64) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return s.Rating >= rating })
}

func (m *memorySupplierStore) FindByProduct(_ context.Context, productID int64) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool {
		for _, id := range s.ProductList {
			if id == productID {
				return true
			}
		}
		return false
	})
}

func (m *memorySupplierStore) Favorites(_ context.Context) ([]*models.Supplier, error) {
	return m.filter(func(s models.Supplier) bool { return m.db.favorites[s.ID] })
}

func (m *memorySupplierStore) AddFavorite(_ context.Context, supplierID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.suppliers[supplierID]; !ok {
		return apperror.NotFound("supplier", supplierID)
	}
	m.db.favorites[supplierID] = true
	return nil
}

func (m *memorySupplierStore) filter(keep func(models.Supplier) bool) ([]*models.Supplier, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []*models.Supplier{}
	for _, s := range m.db.suppliers {
		if keep(s) {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryProductStore struct{ db *MemoryDB }

func (m *memoryProductStore) Create(_ context.Context, p *models.Product) error {
	if p.ID != 0 {
		return apperror.ValidationFailed("id", "create called with an already assigned product id")
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.suppliers[p.SupplierID]; !ok {
		return apperror.NotFound("supplier", p.SupplierID)
	}
	m.db.nextProductID++
	p.ID = m.db.nextProductID
	m.db.products[p.ID] = *p
	return nil
}

func (m *memoryProductStore) Update(_ context.Context, p *models.Product) error {
	if p.ID == 0 {
		return apperror.ValidationFailed("id", "update called with empty product id")
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.products[p.ID]; !ok {
		return apperror.NotFound("product", p.ID)
	}
	if _, ok := m.db.suppliers[p.SupplierID]; !ok {
		return apperror.NotFound("supplier", p.SupplierID)
	}
	m.db.products[p.ID] = *p
	return nil
}

func (m *memoryProductStore) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.products, id)
	return nil
}

func (m *memoryProductStore) Find(_ context.Context, id int64) (*models.Product, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryProductStore) All(ctx context.Context) ([]*models.Product, error) {
	return m.filter(func(models.Product) bool { return true })
}

func (m *memoryProductStore) FindByName(_ context.Context, name string) ([]*models.Product, error) {
	return m.filter(func(p models.Product) bool { return p.Name == name })
}

func (m *memoryProductStore) FindByPrice(_ context.Context, price float64) ([]*models.Product, error) {
	return m.filter(func(p models.Product) bool { return p.Price == price })
}

func (m *memoryProductStore) FindBySupplier(_ context.Context, supplierID int64) ([]*models.Product, error) {
	return m.filter(func(p models.Product) bool { return p.SupplierID == supplierID })
}

func (m *memoryProductStore) DeleteBySupplier(_ context.Context, supplierID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for id, p := range m.db.products {
		if p.SupplierID == supplierID {
			delete(m.db.products, id)
		}
	}
	return nil
}

func (m *memoryProductStore) filter(keep func(models.Product) bool) ([]*models.Product, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []*models.Product{}
	for _, p := range m.db.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
