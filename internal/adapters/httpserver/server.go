package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/auth"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/usecase"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20
)

type Server struct {
	mux      *http.ServeMux
	products *usecase.ProductUC
	accounts *usecase.AccountUC
	orders   *usecase.OrderUC
	tokens   *auth.Issuer
	images   string
}

// New returns the API handler. Every route lives under /api.
func New(p *usecase.ProductUC, a *usecase.AccountUC, o *usecase.OrderUC, tokens *auth.Issuer, imagePrefix string) http.Handler {
	s := &Server{mux: http.NewServeMux(), products: p, accounts: a, orders: o, tokens: tokens, images: imagePrefix}
	s.routes()

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", s.mux))
	return Chain(root,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /products", s.handleProducts)
	s.mux.HandleFunc("GET /products/{id}", s.handleProduct)
	s.mux.HandleFunc("GET /categories", s.handleCategories)
	s.mux.HandleFunc("GET /brands", s.handleBrands)

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /auth/me", s.requireRole(auth.RoleCustomer, s.handleMe))

	s.mux.HandleFunc("POST /orders", s.requireRole(auth.RoleCustomer, s.handlePlaceOrder))
	s.mux.HandleFunc("GET /orders", s.requireRole(auth.RoleCustomer, s.handleListOrders))

	s.mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("POST /admin/products", s.requireRole(auth.RoleAdmin, s.handleCreateProduct))
	s.mux.HandleFunc("POST /admin/products/import", s.requireRole(auth.RoleAdmin, s.handleImportProducts))
	s.mux.HandleFunc("PUT /admin/products/{id}", s.requireRole(auth.RoleAdmin, s.handleUpdateProduct))
	s.mux.HandleFunc("DELETE /admin/products/{id}", s.requireRole(auth.RoleAdmin, s.handleDeleteProduct))
	s.mux.HandleFunc("POST /admin/categories", s.requireRole(auth.RoleAdmin, s.handleCreateCategory))
	s.mux.HandleFunc("DELETE /admin/categories/{id}", s.requireRole(auth.RoleAdmin, s.handleDeleteCategory))
	s.mux.HandleFunc("POST /admin/brands", s.requireRole(auth.RoleAdmin, s.handleCreateBrand))
	s.mux.HandleFunc("DELETE /admin/brands/{id}", s.requireRole(auth.RoleAdmin, s.handleDeleteBrand))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

var (
	errInvalidJSON = domain.BadRequest("invalid_json")
	errNotFound    = domain.NotFound("not_found")
)

// decodeJSON reads a JSON body into dst. An empty body leaves dst zero so
// the use case reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindBadRequest:   http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
}

// writeError renders client errors as {"error": code}; anything else is
// logged and hidden behind internal_error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := domain.AsError(err); ok {
		body := map[string]any{"error": de.Code}
		if len(de.Fields) > 0 {
			body["fields"] = de.Fields
		}
		code, ok := statusByKind[de.Kind]
		if !ok {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, body)
		return
	}
	log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric filter. A missing or non-numeric
// value yields nil and filters nothing; 0 is a real filter.
func queryID(r *http.Request, key string) *uint {
	id, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}
