package httpserver

import (
	"net/http"

	"github.com/phenrril/storefront/internal/domain"
)

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	f := domain.ProductFilter{
		Query:      r.URL.Query().Get("q"),
		CategoryID: queryID(r, "category_id"),
		BrandID:    queryID(r, "brand_id"),
	}
	list, err := s.products.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.productDTOs(list))
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, errNotFound)
		return
	}
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.productDTO(*p))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]namedDTO, 0, len(list))
	for _, c := range list {
		out = append(out, namedDTO{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.Brands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]namedDTO, 0, len(list))
	for _, b := range list {
		out = append(out, namedDTO{ID: b.ID, Name: b.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
