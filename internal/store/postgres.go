package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
)

const supplierColumns = "id, name, email, phone, address, available, gender, rating, product_list"

// PostgresSupplierStore persists suppliers in the suppliers table. Every
// operation runs through the retry policy so transient connection failures
// are retried with backoff before surfacing.
type PostgresSupplierStore struct {
	db    *sql.DB
	retry RetryPolicy
}

func NewPostgresSupplierStore(db *sql.DB, retry RetryPolicy) *PostgresSupplierStore {
	return &PostgresSupplierStore{db: db, retry: retry}
}

func (s *PostgresSupplierStore) Create(ctx context.Context, sup *models.Supplier) error {
	if sup.ID != 0 {
		return apperror.ValidationFailed("id", "create called with an already assigned supplier id")
	}
	return s.retry.Do(ctx, func() error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO suppliers (name, email, phone, address, available, gender, rating, product_list)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING id
		`, sup.Name, sup.Email, sup.Phone, sup.Address, sup.Available, string(sup.Gender),
			sup.Rating, pq.Array(sup.ProductList)).Scan(&sup.ID)
	})
}

func (s *PostgresSupplierStore) Update(ctx context.Context, sup *models.Supplier) error {
	if sup.ID == 0 {
		return apperror.ValidationFailed("id", "update called with empty supplier id")
	}
	return s.retry.Do(ctx, func() error {
		var id int64
		err := s.db.QueryRowContext(ctx, `
			UPDATE suppliers
			SET name = $1, email = $2, phone = $3, address = $4, available = $5, gender = $6, rating = $7, product_list = $8
			WHERE id = $9
			RETURNING id
		`, sup.Name, sup.Email, sup.Phone, sup.Address, sup.Available, string(sup.Gender),
			sup.Rating, pq.Array(sup.ProductList), sup.ID).Scan(&id)
		if err == sql.ErrNoRows {
			return apperror.NotFound("supplier", sup.ID)
		}
		return err
	})
}

// Delete removes the supplier's products, its favorite mark and the supplier
// row itself in one transaction. Absent identifiers are a silent no-op.
func (s *PostgresSupplierStore) Delete(ctx context.Context, id int64) error {
	return s.retry.Do(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE supplier_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM favorite_suppliers WHERE supplier_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func (s *PostgresSupplierStore) Find(ctx context.Context, id int64) (*models.Supplier, error) {
	var out *models.Supplier
	err := s.retry.Do(ctx, func() error {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
		sup, err := scanSupplier(row)
		if err == sql.ErrNoRows {
			out = nil
			return nil
		}
		if err != nil {
			return err
		}
		out = sup
		return nil
	})
	return out, err
}

func (s *PostgresSupplierStore) All(ctx context.Context) ([]*models.Supplier, error) {
	return s.query(ctx, "")
}

func (s *PostgresSupplierStore) FindByName(ctx context.Context, name string) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE name = $1", name)
}

func (s *PostgresSupplierStore) FindByEmail(ctx context.Context, email string) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE email = $1", email)
}

func (s *PostgresSupplierStore) FindByPhone(ctx context.Context, phone string) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE phone = $1", phone)
}

func (s *PostgresSupplierStore) FindByAddress(ctx context.Context, address string) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE address = $1", address)
}

func (s *PostgresSupplierStore) FindByAvailability(ctx context.Context, available bool) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE available = $1", available)
}

func (s *PostgresSupplierStore) FindByGreaterRating(ctx context.Context, rating float64) ([]*models.Supplier, error) {
	return s.query(ctx, " WHERE rating >= $1", rating)
}

func (s *PostgresSupplierStore) FindByProduct(ctx context.Context, productID int64) ([]*models.Supplier, error) {
	// Array containment on the product_list column.
	return s.query(ctx, " WHERE product_list @> $1", pq.Array([]int64{productID}))
}

func (s *PostgresSupplierStore) Favorites(ctx context.Context) ([]*models.Supplier, error) {
	var out []*models.Supplier
	err := s.retry.Do(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT s.id, s.name, s.email, s.phone, s.address, s.available, s.gender, s.rating, s.product_list
			FROM suppliers s
			JOIN favorite_suppliers f ON f.supplier_id = s.id
			ORDER BY s.id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = collectSuppliers(rows)
		return err
	})
	return out, err
}

func (s *PostgresSupplierStore) AddFavorite(ctx context.Context, supplierID int64) error {
	return s.retry.Do(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO favorite_suppliers (supplier_id) VALUES ($1)
			ON CONFLICT (supplier_id) DO NOTHING`, supplierID)
		if isForeignKeyViolation(err) {
			return apperror.NotFound("supplier", supplierID)
		}
		return err
	})
}

func (s *PostgresSupplierStore) query(ctx context.Context, where string, args ...interface{}) ([]*models.Supplier, error) {
	var out []*models.Supplier
	err := s.retry.Do(ctx, func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+supplierColumns+` FROM suppliers`+where+` ORDER BY id`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = collectSuppliers(rows)
		return err
	})
	return out, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (*models.Supplier, error) {
	var sup models.Supplier
	var gender string
	var list pq.Int64Array
	if err := row.Scan(&sup.ID, &sup.Name, &sup.Email, &sup.Phone, &sup.Address,
		&sup.Available, &gender, &sup.Rating, &list); err != nil {
		return nil, err
	}
	sup.Gender = models.Gender(gender)
	sup.ProductList = []int64(list)
	return &sup, nil
}

func collectSuppliers(rows *sql.Rows) ([]*models.Supplier, error) {
	out := []*models.Supplier{}
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

// isForeignKeyViolation reports a postgres foreign_key_violation (23503),
// raised when a product or favorite references a supplier that does not
// exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
