// Package store owns the persistence lifecycle for supplier and product
// records. Entities are plain structs; all create/update/delete/find
// operations live behind these interfaces so the HTTP layer can run against
// either the postgres implementation or the in-memory one used in tests.
package store

import (
	"context"

	"supplier-inventory-api/internal/models"
)

// SupplierStore is the lifecycle and query surface for supplier records.
//
// Create assigns a fresh identifier and fails validation when one is already
// set. Update fails validation when the identifier is unset and reports not
// found when the row no longer exists. Delete is an idempotent no-op for
// absent identifiers and bulk-deletes the supplier's products first. Find
// returns (nil, nil) when the identifier is absent.
type SupplierStore interface {
	Create(ctx context.Context, s *models.Supplier) error
	Update(ctx context.Context, s *models.Supplier) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (*models.Supplier, error)
	All(ctx context.Context) ([]*models.Supplier, error)

	FindByName(ctx context.Context, name string) ([]*models.Supplier, error)
	FindByEmail(ctx context.Context, email string) ([]*models.Supplier, error)
	FindByPhone(ctx context.Context, phone string) ([]*models.Supplier, error)
	FindByAddress(ctx context.Context, address string) ([]*models.Supplier, error)
	FindByAvailability(ctx context.Context, available bool) ([]*models.Supplier, error)
	// FindByGreaterRating returns suppliers with rating >= threshold, ties included.
	FindByGreaterRating(ctx context.Context, rating float64) ([]*models.Supplier, error)
	// FindByProduct returns suppliers whose product_list contains productID.
	FindByProduct(ctx context.Context, productID int64) ([]*models.Supplier, error)

	Favorites(ctx context.Context) ([]*models.Supplier, error)
	AddFavorite(ctx context.Context, supplierID int64) error
}

// ProductStore is the lifecycle and query surface for product records.
// Creating a product whose supplier does not exist reports not found.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (*models.Product, error)
	All(ctx context.Context) ([]*models.Product, error)

	FindByName(ctx context.Context, name string) ([]*models.Product, error)
	FindByPrice(ctx context.Context, price float64) ([]*models.Product, error)
	FindBySupplier(ctx context.Context, supplierID int64) ([]*models.Product, error)
	// DeleteBySupplier removes every product owned by supplierID in one
	// statement. Used by the delete-by-supplier endpoint and by the
	// supplier delete cascade.
	DeleteBySupplier(ctx context.Context, supplierID int64) error
}
