package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
)

const maxBodyBytes = 1 << 20

// idParam parses the {id} route parameter. A non-numeric id denotes no
// resource, so it surfaces as not found rather than a validation failure.
func idParam(r *http.Request, resource string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: fmt.Sprintf("%s with id '%s' was not found", resource, raw),
		}
	}
	return id, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return io.ReadAll(r.Body)
}

// supplierView assembles the outbound form, deriving the embedded product
// list with an explicit owner query.
func (s *Server) supplierView(r *http.Request, sup *models.Supplier) (models.SupplierView, error) {
	products, err := s.Products.FindBySupplier(r.Context(), sup.ID)
	if err != nil {
		return models.SupplierView{}, err
	}
	return sup.View(products), nil
}

// LIST with single-filter dispatch (first matching query param wins)
func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := listSuppliersFor(r.Context(), s.Suppliers, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]models.SupplierView, 0, len(suppliers))
	for _, sup := range suppliers {
		view, err := s.supplierView(r, sup)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	sup, err := s.Suppliers.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if sup == nil {
		writeError(w, apperror.NotFound("supplier", id))
		return
	}
	view, err := s.supplierView(r, sup)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, apperror.MalformedPayload("supplier"))
		return
	}
	sup, err := models.DeserializeSupplier(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Suppliers.Create(r.Context(), sup); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.supplierView(r, sup)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/suppliers/%d", sup.ID))
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, apperror.MalformedPayload("supplier"))
		return
	}
	sup, err := models.DeserializeSupplier(body)
	if err != nil {
		writeError(w, err)
		return
	}
	sup.ID = id
	if err := s.Suppliers.Update(r.Context(), sup); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.supplierView(r, sup)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DELETE is idempotent: deleting an absent supplier still answers 204.
func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Suppliers.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// penalizeSupplier decrements the supplier's rating by one, floored at zero.
func (s *Server) penalizeSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	sup, err := s.Suppliers.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if sup == nil {
		writeError(w, apperror.NotFound("supplier", id))
		return
	}
	if sup.Rating >= 1 {
		sup.Rating--
	} else {
		sup.Rating = 0
	}
	if err := s.Suppliers.Update(r.Context(), sup); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.supplierView(r, sup)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) makeSupplierAvailable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	sup, err := s.Suppliers.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if sup == nil {
		writeError(w, apperror.NotFound("supplier", id))
		return
	}
	sup.Available = true
	if err := s.Suppliers.Update(r.Context(), sup); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.supplierView(r, sup)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) listFavoriteSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.Suppliers.Favorites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]models.SupplierView, 0, len(suppliers))
	for _, sup := range suppliers {
		view, err := s.supplierView(r, sup)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) addFavoriteSupplier(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, apperror.MalformedPayload("favorite"))
		return
	}
	var in struct {
		SupplierID *int64 `json:"supplier_id"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, apperror.MalformedPayload("favorite"))
		return
	}
	if in.SupplierID == nil {
		writeError(w, apperror.MissingField("favorite", "supplier_id"))
		return
	}
	if err := s.Suppliers.AddFavorite(r.Context(), *in.SupplierID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"supplier_id": *in.SupplierID})
}
