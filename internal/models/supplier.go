package models

import (
	"encoding/json"
	"fmt"

	"supplier-inventory-api/internal/apperror"
)

// Gender is the closed enumeration carried by supplier records. The wire
// representation is the constant name; anything else fails validation.
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

// ParseGender maps a wire string onto the enumeration.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderUnknown:
		return Gender(s), nil
	}
	return "", apperror.ValidationFailed("gender", fmt.Sprintf("invalid supplier: unknown gender %q", s))
}

// Supplier is a plain data record; persistence lives in the store package.
// ID is zero until the store assigns one on creation.
type Supplier struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Available   bool    `json:"available"`
	Gender      Gender  `json:"gender"`
	Rating      float64 `json:"rating"`
	ProductList []int64 `json:"product_list,omitempty"`
}

// SupplierShort is the reduced wire form embedded inside product responses.
// It carries no product collection, which breaks the supplier<->product
// serialization cycle.
type SupplierShort struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Available   bool    `json:"available"`
	Gender      string  `json:"gender"`
	Rating      float64 `json:"rating"`
	ProductList []int64 `json:"product_list,omitempty"`
}

// SupplierView is the full wire form with the supplier's products embedded in
// their short form.
type SupplierView struct {
	SupplierShort
	Products []ProductShort `json:"products"`
}

func (s *Supplier) Short() SupplierShort {
	return SupplierShort{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		Available:   s.Available,
		Gender:      string(s.Gender),
		Rating:      s.Rating,
		ProductList: s.ProductList,
	}
}

// View builds the outbound representation. products is the result of an
// explicit owner query; there is no live object graph to walk.
func (s *Supplier) View(products []*Product) SupplierView {
	shorts := make([]ProductShort, 0, len(products))
	for _, p := range products {
		shorts = append(shorts, p.Short())
	}
	return SupplierView{SupplierShort: s.Short(), Products: shorts}
}

// supplier payload keys that must be present on create/update
var supplierRequired = []string{"name", "email", "phone", "address", "available", "rating"}

// DeserializeSupplier converts an inbound JSON body into a Supplier. The id
// is never read from the payload. Missing required keys, non-object bodies
// and wrongly typed values all fail with a validation error naming the field.
func DeserializeSupplier(data []byte) (*Supplier, error) {
	raw, err := decodeObject(data, "supplier")
	if err != nil {
		return nil, err
	}
	for _, key := range supplierRequired {
		if _, ok := raw[key]; !ok {
			return nil, apperror.MissingField("supplier", key)
		}
	}

	var s Supplier
	if err := unmarshalField(raw, "supplier", "name", &s.Name); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "supplier", "email", &s.Email); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "supplier", "phone", &s.Phone); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "supplier", "address", &s.Address); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "supplier", "available", &s.Available); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "supplier", "rating", &s.Rating); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, apperror.ValidationFailed("name", "invalid supplier: name must not be empty")
	}

	s.Gender = GenderUnknown
	if msg, ok := raw["gender"]; ok {
		var g string
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, apperror.ValidationFailed("gender", "invalid supplier: bad value for gender")
		}
		if s.Gender, err = ParseGender(g); err != nil {
			return nil, err
		}
	}
	if msg, ok := raw["product_list"]; ok {
		if err := json.Unmarshal(msg, &s.ProductList); err != nil {
			return nil, apperror.ValidationFailed("product_list", "invalid supplier: bad value for product_list")
		}
	}
	return &s, nil
}

// decodeObject rejects bodies that are not JSON objects, e.g. a bare string.
func decodeObject(data []byte, entity string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, apperror.MalformedPayload(entity)
	}
	return raw, nil
}

func unmarshalField(raw map[string]json.RawMessage, entity, key string, dst any) error {
	if err := json.Unmarshal(raw[key], dst); err != nil {
		return apperror.ValidationFailed(key, fmt.Sprintf("invalid %s: bad value for %s", entity, key))
	}
	return nil
}
