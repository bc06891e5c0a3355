package models

import "supplier-inventory-api/internal/apperror"

// Product is an item offered by exactly one supplier. SupplierID is the only
// link back to the owner; the reverse view is derived by querying.
type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	SupplierID int64   `json:"supplier_id"`
}

// ProductShort is the reduced wire form embedded inside supplier responses.
type ProductShort struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	SupplierID int64   `json:"supplier_id"`
}

// ProductView is the full wire form with the owning supplier embedded in its
// short form.
type ProductView struct {
	ProductShort
	Supplier SupplierShort `json:"supplier"`
}

func (p *Product) Short() ProductShort {
	return ProductShort{ID: p.ID, Name: p.Name, Price: p.Price, SupplierID: p.SupplierID}
}

func (p *Product) View(supplier *Supplier) ProductView {
	return ProductView{ProductShort: p.Short(), Supplier: supplier.Short()}
}

var productRequired = []string{"name", "price", "supplier_id"}

// DeserializeProduct converts an inbound JSON body into a Product. The id is
// never read from the payload.
func DeserializeProduct(data []byte) (*Product, error) {
	raw, err := decodeObject(data, "product")
	if err != nil {
		return nil, err
	}
	for _, key := range productRequired {
		if _, ok := raw[key]; !ok {
			return nil, apperror.MissingField("product", key)
		}
	}

	var p Product
	if err := unmarshalField(raw, "product", "name", &p.Name); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "product", "price", &p.Price); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "product", "supplier_id", &p.SupplierID); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperror.ValidationFailed("name", "invalid product: name must not be empty")
	}
	if p.SupplierID <= 0 {
		return nil, apperror.ValidationFailed("supplier_id", "invalid product: supplier_id must be a positive id")
	}
	return &p, nil
}
