package store

import (
	"context"
	"database/sql"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
)

const productColumns = "id, name, price, supplier_id"

// PostgresProductStore persists products in the products table. The
// supplier_id foreign key enforces referential integrity; violations surface
// as not-found errors for the referenced supplier.
type PostgresProductStore struct {
	db    *sql.DB
	retry RetryPolicy
}

func NewPostgresProductStore(db *sql.DB, retry RetryPolicy) *PostgresProductStore {
	return &PostgresProductStore{db: db, retry: retry}
}

func (s *PostgresProductStore) Create(ctx context.Context, p *models.Product) error {
	if p.ID != 0 {
		return apperror.ValidationFailed("id", "create called with an already assigned product id")
	}
	return s.retry.Do(ctx, func() error {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO products (name, price, supplier_id)
			VALUES ($1,$2,$3)
			RETURNING id
		`, p.Name, p.Price, p.SupplierID).Scan(&p.ID)
		if isForeignKeyViolation(err) {
			return apperror.NotFound("supplier", p.SupplierID)
		}
		return err
	})
}

func (s *PostgresProductStore) Update(ctx context.Context, p *models.Product) error {
	if p.ID == 0 {
		return apperror.ValidationFailed("id", "update called with empty product id")
	}
	return s.retry.Do(ctx, func() error {
		var id int64
		err := s.db.QueryRowContext(ctx, `
			UPDATE products SET name = $1, price = $2, supplier_id = $3
			WHERE id = $4
			RETURNING id
		`, p.Name, p.Price, p.SupplierID, p.ID).Scan(&id)
		if err == sql.ErrNoRows {
			return apperror.NotFound("product", p.ID)
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("supplier", p.SupplierID)
		}
		return err
	})
}

func (s *PostgresProductStore) Delete(ctx context.Context, id int64) error {
	return s.retry.Do(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	})
}

func (s *PostgresProductStore) Find(ctx context.Context, id int64) (*models.Product, error) {
	var out *models.Product
	err := s.retry.Do(ctx, func() error {
		var p models.Product
		err := s.db.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = $1`, id).
			Scan(&p.ID, &p.Name, &p.Price, &p.SupplierID)
		if err == sql.ErrNoRows {
			out = nil
			return nil
		}
		if err != nil {
			return err
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *PostgresProductStore) All(ctx context.Context) ([]*models.Product, error) {
	return s.query(ctx, "")
}

func (s *PostgresProductStore) FindByName(ctx context.Context, name string) ([]*models.Product, error) {
	return s.query(ctx, " WHERE name = $1", name)
}

func (s *PostgresProductStore) FindByPrice(ctx context.Context, price float64) ([]*models.Product, error) {
	return s.query(ctx, " WHERE price = $1", price)
}

func (s *PostgresProductStore) FindBySupplier(ctx context.Context, supplierID int64) ([]*models.Product, error) {
	return s.query(ctx, " WHERE supplier_id = $1", supplierID)
}

func (s *PostgresProductStore) DeleteBySupplier(ctx context.Context, supplierID int64) error {
	return s.retry.Do(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE supplier_id = $1`, supplierID)
		return err
	})
}

func (s *PostgresProductStore) query(ctx context.Context, where string, args ...interface{}) ([]*models.Product, error) {
	var out []*models.Product
	err := s.retry.Do(ctx, func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products`+where+` ORDER BY id`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = []*models.Product{}
		for rows.Next() {
			var p models.Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SupplierID); err != nil {
				return err
			}
			out = append(out, &p)
		}
		return rows.Err()
	})
	return out, err
}
