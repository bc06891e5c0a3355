package internal

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/handlers"
	"supplier-inventory-api/internal/store"
)

type Server struct {
	DB        *sql.DB
	Pool      *pgxpool.Pool
	Router    *chi.Mux
	Suppliers store.SupplierStore
	Products  store.ProductStore
	Metrics   *Metrics

	cfg *config.Config
}

// NewServer opens the database, wires the postgres stores through the
// configured retry policy and mounts all routes.
func NewServer(cfg *config.Config) *Server {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// Also create a pgxpool for the bulk importer
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to create pgxpool:", err)
	}

	retry := store.RetryPolicy{
		MaxAttempts:   cfg.RetryMaxAttempts,
		InitialDelay:  cfg.RetryInitialDelay,
		BackoffFactor: cfg.RetryBackoffFactor,
	}

	s := &Server{
		DB:        db,
		Pool:      pool,
		Router:    chi.NewRouter(),
		Suppliers: store.NewPostgresSupplierStore(db, retry),
		Products:  store.NewPostgresProductStore(db, retry),
		Metrics:   NewMetrics(),
		cfg:       cfg,
	}
	s.mountRoutes()
	return s
}

// NewServerWithStores builds a server around injected stores and no database
// handle. Handler tests run against this with the in-memory backend.
func NewServerWithStores(cfg *config.Config, suppliers store.SupplierStore, products store.ProductStore) *Server {
	s := &Server{
		Router:    chi.NewRouter(),
		Suppliers: suppliers,
		Products:  products,
		Metrics:   NewMetrics(),
		cfg:       cfg,
	}
	s.mountRoutes()
	return s
}

// Close shuts down the server's database handles.
func (s *Server) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *Server) mountRoutes() {
	r := s.Router

	// Middleware must be registered before any route.
	if os.Getenv("ENABLE_METRICS") == "true" {
		r.Use(s.Metrics.Middleware())
		r.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	r.Get("/", s.index)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	r.Get("/dbping", s.dbPing)

	// Read endpoints
	r.Get("/suppliers", s.listSuppliers)
	r.Get("/suppliers/favorites", s.listFavoriteSuppliers)
	r.Get("/suppliers/{id}", s.getSupplier)
	r.Get("/products", s.listProducts)
	r.Get("/products/{id}", s.getProduct)

	// Mutating endpoints: API key protected when one is configured
	r.Group(func(r chi.Router) {
		r.Use(requireAPIKey(s.cfg.APIKey))

		// Endpoints carrying a JSON body
		r.Group(func(r chi.Router) {
			r.Use(requireJSON)
			r.Post("/suppliers", s.createSupplier)
			r.Put("/suppliers/{id}", s.updateSupplier)
			r.Post("/suppliers/favorites", s.addFavoriteSupplier)
			r.Post("/products", s.createProduct)
			r.Put("/products/{id}", s.updateProduct)
		})

		r.Delete("/suppliers/{id}", s.deleteSupplier)
		r.Put("/suppliers/{id}/penalize", s.penalizeSupplier)
		r.Put("/suppliers/{id}/make-available", s.makeSupplierAvailable)
		r.Delete("/products/{id}", s.deleteProduct)
		r.Delete("/products/delete-by-supplier/{id}", s.deleteProductsBySupplier)

		// Excel bulk import needs the pgx pool; absent in store-injected test servers
		if s.Pool != nil {
			importsHandler := handlers.NewImportsHandler(s.Pool)
			r.Post("/imports/excel", importsHandler.UploadExcel)
		}
	})
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Supplier Inventory REST API Service",
		"version": "1.0",
	})
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "db: not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.PingContext(r.Context()); err != nil {
		http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
