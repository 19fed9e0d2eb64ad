package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/phenrril/storefront/internal/auth"
	"github.com/phenrril/storefront/internal/domain"
)

type subjectKey struct{}

var (
	errUnauthorized  = domain.Unauthorized("unauthorized")
	errNotACustomer  = domain.Forbidden("not_a_customer")
	errAdminRequired = domain.Forbidden("admin_required")
)

// requireRole decodes the bearer token once and hands the subject to h
// through the request context.
func (s *Server) requireRole(role auth.Role, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, r, errUnauthorized)
			return
		}
		sub, err := s.tokens.Verify(raw)
		if err != nil {
			writeError(w, r, errUnauthorized)
			return
		}
		if sub.Role != role {
			if role == auth.RoleAdmin {
				writeError(w, r, errAdminRequired)
			} else {
				writeError(w, r, errNotACustomer)
			}
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, sub)))
	}
}

func subjectFrom(ctx context.Context) auth.Subject {
	sub, _ := ctx.Value(subjectKey{}).(auth.Subject)
	return sub
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
