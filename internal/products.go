package internal

import (
	"fmt"
	"net/http"

	"supplier-inventory-api/internal/apperror"
	"supplier-inventory-api/internal/models"
)

// productView assembles the outbound form with the owning supplier embedded
// in its short form.
func (s *Server) productView(r *http.Request, p *models.Product) (models.ProductView, error) {
	sup, err := s.Suppliers.Find(r.Context(), p.SupplierID)
	if err != nil {
		return models.ProductView{}, err
	}
	if sup == nil {
		// Owner deleted between queries; serve what we have.
		sup = &models.Supplier{ID: p.SupplierID}
	}
	return p.View(sup), nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := listProductsFor(r.Context(), s.Products, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		view, err := s.productView(r, p)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "product")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.Products.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if p == nil {
		writeError(w, apperror.NotFound("product", id))
		return
	}
	view, err := s.productView(r, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, apperror.MalformedPayload("product"))
		return
	}
	p, err := models.DeserializeProduct(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Products.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.productView(r, p)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/products/%d", p.ID))
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "product")
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, apperror.MalformedPayload("product"))
		return
	}
	p, err := models.DeserializeProduct(body)
	if err != nil {
		writeError(w, err)
		return
	}
	p.ID = id
	if err := s.Products.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.productView(r, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "product")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Products.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteProductsBySupplier bulk-deletes every product owned by the supplier
// in the path. Answers 204 regardless of how many rows matched.
func (s *Server) deleteProductsBySupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "supplier")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Products.DeleteBySupplier(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
