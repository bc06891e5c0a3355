package internal

import (
	"context"
	"net/url"
	"strconv"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
	"supplier-inventory-api/internal/store"
)

// listSuppliersFor translates the request's query parameters into a single
// store filter call. Precedence is fixed: name > phone > email > address >
// available > rating > product_id. The first parameter present wins and the
// remaining ones are ignored.
func listSuppliersFor(ctx context.Context, st store.SupplierStore, values url.Values) ([]*models.Supplier, error) {
	if name := values.Get("name"); name != "" {
		return st.FindByName(ctx, name)
	}
	if phone := values.Get("phone"); phone != "" {
		return st.FindByPhone(ctx, phone)
	}
	if email := values.Get("email"); email != "" {
		return st.FindByEmail(ctx, email)
	}
	if address := values.Get("address"); address != "" {
		return st.FindByAddress(ctx, address)
	}
	if avail := values.Get("available"); avail != "" {
		flag, err := strconv.ParseBool(avail)
		if err != nil {
			return nil, apperror.ValidationFailed("available", "invalid filter: available must be a boolean")
		}
		return st.FindByAvailability(ctx, flag)
	}
	if rating := values.Get("rating"); rating != "" {
		threshold, err := strconv.ParseFloat(rating, 64)
		if err != nil {
			return nil, apperror.ValidationFailed("rating", "invalid filter: rating must be a number")
		}
		return st.FindByGreaterRating(ctx, threshold)
	}
	if productID := values.Get("product_id"); productID != "" {
		id, err := strconv.ParseInt(productID, 10, 64)
		if err != nil {
			return nil, apperror.ValidationFailed("product_id", "invalid filter: product_id must be an integer")
		}
		return st.FindByProduct(ctx, id)
	}
	return st.All(ctx)
}

// listProductsFor is the product-side filter dispatch.
// Precedence: name > price > supplier_id.
func listProductsFor(ctx context.Context, st store.ProductStore, values url.Values) ([]*models.Product, error) {
	if name := values.Get("name"); name != "" {
		return st.FindByName(ctx, name)
	}
	if price := values.Get("price"); price != "" {
		p, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return nil, apperror.ValidationFailed("price", "invalid filter: price must be a number")
		}
		return st.FindByPrice(ctx, p)
	}
	if supplierID := values.Get("supplier_id"); supplierID != "" {
		id, err := strconv.ParseInt(supplierID, 10, 64)
		if err != nil {
			return nil, apperror.ValidationFailed("supplier_id", "invalid filter: supplier_id must be an integer")
		}
		return st.FindBySupplier(ctx, id)
	}
	return st.All(ctx)
}
