package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/phenrril/storefront/internal/domain"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items json.RawMessage `json:"items"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := cartItems(req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.orders.Place(r.Context(), subjectFrom(r.Context()).ID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": o.ID, "invoice": o.Invoice, "status": o.Status})
}

// cartItems accepts only a JSON array. A non-object entry stays in place
// with no product id, so it is reported where it sits in the cart.
func cartItems(raw json.RawMessage) ([]domain.CartItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, domain.ErrItemsRequired
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, domain.ErrItemsRequired
	}
	items := make([]domain.CartItem, len(entries))
	for i, e := range entries {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		if err := json.Unmarshal(e, &items[i]); err != nil {
			items[i] = domain.CartItem{}
		}
	}
	return items, nil
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListForCustomer(r.Context(), subjectFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, out)
}
