package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/domain"
)

const (
	invoiceBytes       = 5
	maxInvoiceAttempts = 5
	publishTimeout     = 5 * time.Second
)

type OrderUC struct {
	Orders   domain.OrderRepo
	Products domain.ProductRepo
	// Events is optional.
	Events domain.OrderEvents
	// NewInvoice defaults to NewInvoice.
	NewInvoice func() (string, error)
}

// NewInvoice returns a random 10 character hex invoice code.
func NewInvoice() (string, error) {
	b := make([]byte, invoiceBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Place turns a cart into a Pending order holding a snapshot of every
// product. Items are judged in cart order and the first bad item, whether
// malformed or unknown, rejects the whole cart. A repeated product id
// replaces the earlier line.
func (uc *OrderUC) Place(ctx context.Context, customerID uint, items []domain.CartItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrItemsRequired
	}
	parsed := make([]cartLine, 0, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		l := parseCartItem(it)
		parsed = append(parsed, l)
		if l.err != nil {
			// nothing past a malformed item can be reached
			break
		}
		if l.id > 0 {
			ids = append(ids, uint(l.id))
		}
	}

	found, err := uc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make(domain.OrderLines, len(parsed))
	for _, l := range parsed {
		if l.err != nil {
			return nil, l.err
		}
		p, ok := found[uint(l.id)]
		if l.id < 1 || !ok {
			return nil, domain.ProductNotFound(l.id)
		}
		lines[domain.LineKey(p.ID)] = domain.SnapshotLine(p, l.qty)
	}

	o := &domain.Order{CustomerID: customerID, Status: domain.OrderStatusPending, Lines: lines}
	if err := uc.create(ctx, o); err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", o.ID).Str("invoice", o.Invoice).Uint("customer_id", customerID).Int("lines", len(lines)).Msg("order placed")
	uc.publish(ctx, o)
	return o, nil
}

type cartLine struct {
	id  int64
	qty int
	err error
}

// parseCartItem checks the item's shape. The quantity defaults to 1.
func parseCartItem(it domain.CartItem) cartLine {
	if !it.ProductID.Set || !it.ProductID.Valid {
		return cartLine{err: domain.ErrInvalidProductID}
	}
	q := int64(1)
	if it.Quantity.Set {
		if !it.Quantity.Valid || it.Quantity.Value < 1 || it.Quantity.Value > math.MaxInt32 {
			return cartLine{err: domain.ErrInvalidQuantity}
		}
		q = it.Quantity.Value
	}
	return cartLine{id: it.ProductID.Value, qty: int(q)}
}

// create inserts the order, drawing a new invoice when the random one is
// already taken.
func (uc *OrderUC) create(ctx context.Context, o *domain.Order) error {
	gen := uc.NewInvoice
	if gen == nil {
		gen = NewInvoice
	}
	for attempt := 1; ; attempt++ {
		inv, err := gen()
		if err != nil {
			return err
		}
		o.ID = 0
		o.Invoice = inv
		err = uc.Orders.Create(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == maxInvoiceAttempts {
			return err
		}
		log.Warn().Str("invoice", inv).Int("attempt", attempt).Msg("invoice collision")
	}
}

func (uc *OrderUC) publish(ctx context.Context, o *domain.Order) {
	if uc.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.Events.OrderPlaced(ctx, o); err != nil {
		log.Warn().Err(err).Uint("order_id", o.ID).Msg("order event not published")
	}
}

func (uc *OrderUC) ListForCustomer(ctx context.Context, customerID uint) ([]domain.Order, error) {
	return uc.Orders.ListByCustomer(ctx, customerID)
}
