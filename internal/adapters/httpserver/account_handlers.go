package httpserver

import (
	"net/http"

	"github.com/phenrril/storefront/internal/usecase"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.accounts.Register(r.Context(), usecase.RegisterInput{
		Name:     string(req.Name),
		Username: string(req.Username),
		Email:    string(req.Email),
		Password: string(req.Password),
		Country:  string(req.Country),
		City:     string(req.City),
		Contact:  string(req.Contact),
		Address:  string(req.Address),
		Zipcode:  string(req.Zipcode),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": c.ID, "email": c.Email, "username": c.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    looseString `json:"email"`
		Password looseString `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.accounts.Login(r.Context(), string(req.Email), string(req.Password))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": res.Token,
		"expires_at":   res.ExpiresAt.Unix(),
		"user": map[string]any{
			"id":    res.Customer.ID,
			"email": res.Customer.Email,
			"name":  res.Customer.Name,
		},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	c, err := s.accounts.Me(r.Context(), subjectFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       c.ID,
		"email":    c.Email,
		"name":     c.Name,
		"username": c.Username,
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username looseString `json:"username"`
		Password looseString `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.accounts.AdminLogin(r.Context(), string(req.Username), string(req.Password))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": res.Token,
		"expires_at":   res.ExpiresAt.Unix(),
		"user": map[string]any{
			"id":       res.Admin.ID,
			"username": res.Admin.Username,
			"name":     res.Admin.Name,
		},
	})
}
