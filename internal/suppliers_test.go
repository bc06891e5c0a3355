package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/models"
	"supplier-inventory-api/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := store.NewMemoryDB()
	return NewServerWithStores(&config.Config{}, db.Suppliers(), db.Products())
}

// doJSON performs a request with a JSON body against the server's router.
func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func doRaw(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func supplierPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"email":     name + "@example.test",
		"phone":     "555-0100",
		"address":   "1 Main St",
		"available": true,
		"rating":    3.0,
	}
}

func createSupplierT(t *testing.T, s *Server, name string) models.SupplierView {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/suppliers", supplierPayload(name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view models.SupplierView
	decodeBody(t, rec, &view)
	return view
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	rec := doRaw(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Supplier Inventory REST API Service", body["name"])
	assert.Equal(t, "1.0", body["version"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRaw(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCreateSupplier(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/suppliers", supplierPayload("Acme"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/suppliers/1", rec.Header().Get("Location"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, "Acme", view.Name)
	assert.Equal(t, "UNKNOWN", view.Gender)
	assert.NotNil(t, view.Products)
	assert.Empty(t, view.Products)
}

func TestCreateSupplierValidation(t *testing.T) {
	s := newTestServer(t)

	payload := supplierPayload("Acme")
	delete(payload, "name")
	rec := doJSON(t, s, http.MethodPost, "/suppliers", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "Bad Request", body["error"])
	assert.Contains(t, body["message"], "missing name")
}

func TestCreateSupplierMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Contains(t, body["message"], "bad or no data")
}

func TestCreateSupplierRequiresJSONContentType(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGetSupplier(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	rec := doRaw(t, s, http.MethodGet, fmt.Sprintf("/suppliers/%d", created.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "Acme", view.Name)
}

func TestGetSupplierNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doRaw(t, s, http.MethodGet, "/suppliers/999")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "supplier with id '999' was not found", body["message"])

	// Non-numeric ids are also not found, not bad requests.
	rec = doRaw(t, s, http.MethodGet, "/suppliers/abc")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSupplier(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	payload := supplierPayload("Acme Updated")
	payload["rating"] = 4.5
	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/suppliers/%d", created.ID), payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "Acme Updated", view.Name)
	assert.Equal(t, 4.5, view.Rating)
}

func TestUpdateSupplierNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPut, "/suppliers/999", supplierPayload("ghost"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSupplierIdempotent(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")
	path := fmt.Sprintf("/suppliers/%d", created.ID)

	rec := doRaw(t, s, http.MethodDelete, path)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRaw(t, s, http.MethodDelete, path)
	require.Equal(t, http.StatusNoContent, rec.Code, "repeat delete stays 204")

	rec = doRaw(t, s, http.MethodGet, path)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSupplierCascadesToProducts(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	rec := doJSON(t, s, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "supplier_id": created.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p models.ProductView
	decodeBody(t, rec, &p)

	rec = doRaw(t, s, http.MethodDelete, fmt.Sprintf("/suppliers/%d", created.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRaw(t, s, http.MethodGet, fmt.Sprintf("/products/%d", p.ID))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPenalizeSupplier(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme") // rating 3.0
	path := fmt.Sprintf("/suppliers/%d/penalize", created.ID)

	rec := doRaw(t, s, http.MethodPut, path)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.Equal(t, 2.0, view.Rating)

	// Rating floors at zero.
	for i := 0; i < 5; i++ {
		rec = doRaw(t, s, http.MethodPut, path)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	decodeBody(t, rec, &view)
	assert.Equal(t, 0.0, view.Rating)
}

func TestPenalizeSupplierFractionalRating(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	payload := supplierPayload("Acme")
	payload["rating"] = 0.7
	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/suppliers/%d", created.ID), payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRaw(t, s, http.MethodPut, fmt.Sprintf("/suppliers/%d/penalize", created.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.Equal(t, 0.0, view.Rating, "sub-unit ratings clamp to zero")
}

func TestPenalizeSupplierNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRaw(t, s, http.MethodPut, "/suppliers/999/penalize")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMakeSupplierAvailable(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	payload := supplierPayload("Acme")
	payload["available"] = false
	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/suppliers/%d", created.ID), payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRaw(t, s, http.MethodPut, fmt.Sprintf("/suppliers/%d/make-available", created.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.SupplierView
	decodeBody(t, rec, &view)
	assert.True(t, view.Available)
}

func TestListSuppliersWithFilters(t *testing.T) {
	s := newTestServer(t)
	createSupplierT(t, s, "Acme")
	createSupplierT(t, s, "Globex")

	rec := doRaw(t, s, http.MethodGet, "/suppliers")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.SupplierView
	decodeBody(t, rec, &views)
	assert.Len(t, views, 2)

	rec = doRaw(t, s, http.MethodGet, "/suppliers?name=Acme")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Acme", views[0].Name)

	rec = doRaw(t, s, http.MethodGet, "/suppliers?name=Nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "no match is an empty list, not an error")

	rec = doRaw(t, s, http.MethodGet, "/suppliers?available=maybe")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierViewEmbedsProducts(t *testing.T) {
	s := newTestServer(t)
	created := createSupplierT(t, s, "Acme")

	for _, name := range []string{"Widget", "Sprocket"} {
		rec := doJSON(t, s, http.MethodPost, "/products", map[string]interface{}{
			"name": name, "price": 1.0, "supplier_id": created.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRaw(t, s, http.MethodGet, fmt.Sprintf("/suppliers/%d", created.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.SupplierView
	decodeBody(t, rec, &view)
	require.Len(t, view.Products, 2)
	assert.Equal(t, "Widget", view.Products[0].Name)
	assert.Equal(t, created.ID, view.Products[0].SupplierID)
}

func TestFavoriteSuppliers(t *testing.T) {
	s := newTestServer(t)
	a := createSupplierT(t, s, "Acme")
	createSupplierT(t, s, "Globex")

	rec := doRaw(t, s, http.MethodGet, "/suppliers/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.SupplierView
	decodeBody(t, rec, &views)
	assert.Empty(t, views)

	rec = doJSON(t, s, http.MethodPost, "/suppliers/favorites", map[string]int64{"supplier_id": a.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]int64
	decodeBody(t, rec, &created)
	assert.Equal(t, a.ID, created["supplier_id"])

	rec = doRaw(t, s, http.MethodGet, "/suppliers/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &views)
	require.Len(t, views, 1)
	assert.Equal(t, a.ID, views[0].ID)
}

func TestAddFavoriteValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/suppliers/favorites", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Contains(t, body["message"], "missing supplier_id")

	rec = doJSON(t, s, http.MethodPost, "/suppliers/favorites", map[string]int64{"supplier_id": 999})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIKeyProtectsMutations(t *testing.T) {
	db := store.NewMemoryDB()
	s := NewServerWithStores(&config.Config{APIKey: "sekrit"}, db.Suppliers(), db.Products())

	// Reads stay open.
	rec := doRaw(t, s, http.MethodGet, "/suppliers")
	require.Equal(t, http.StatusOK, rec.Code)

	// Mutations without the key are rejected before any other check.
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/suppliers/1", nil)
	req.Header.Set("X-Api-Key", "wrong")
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The right key goes through.
	body, err := json.Marshal(supplierPayload("Acme"))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", "sekrit")
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
