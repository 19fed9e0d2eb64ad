package httpserver

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/usecase"
)

type namedDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type productDTO struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Discount    int        `json:"discount"`
	Stock       int        `json:"stock"`
	Colors      string     `json:"colors"`
	Description string     `json:"description"`
	Category    *namedDTO  `json:"category"`
	Brand       *namedDTO  `json:"brand"`
	Images      [3]*string `json:"images"`
}

func (s *Server) productDTO(p domain.Product) productDTO {
	dto := productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Discount:    p.Discount,
		Stock:       p.Stock,
		Colors:      p.Colors,
		Description: p.Description,
	}
	if p.Category != nil {
		dto.Category = &namedDTO{ID: p.Category.ID, Name: p.Category.Name}
	}
	if p.Brand != nil {
		dto.Brand = &namedDTO{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	for i, img := range p.Images() {
		dto.Images[i] = s.imageURL(img)
	}
	return dto
}

func (s *Server) productDTOs(list []domain.Product) []productDTO {
	out := make([]productDTO, 0, len(list))
	for _, p := range list {
		out = append(out, s.productDTO(p))
	}
	return out
}

// imageURL resolves a stored filename under the static prefix. Absolute
// URLs and paths are returned unchanged.
func (s *Server) imageURL(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") || strings.HasPrefix(name, "/") {
		return &name
	}
	u := s.images + name
	return &u
}

// productRequest is the admin create/update body. Numeric fields stay raw
// so a bad value reports the field instead of a generic decode error.
type productRequest struct {
	Name        *string         `json:"name"`
	Price       json.RawMessage `json:"price"`
	Discount    json.RawMessage `json:"discount"`
	Stock       json.RawMessage `json:"stock"`
	Colors      *string         `json:"colors"`
	Description *string         `json:"description"`
	CategoryID  json.RawMessage `json:"category_id"`
	BrandID     json.RawMessage `json:"brand_id"`
	Image1      *string         `json:"image_1"`
	Image2      *string         `json:"image_2"`
	Image3      *string         `json:"image_3"`
}

// present reports whether a raw field carries a value. Forms send an
// empty string for a field left blank, which counts as absent.
func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && !bytes.Equal(raw, []byte(`""`))
}

func (req productRequest) input() (usecase.ProductInput, error) {
	in := usecase.ProductInput{
		Name:        req.Name,
		Colors:      req.Colors,
		Description: req.Description,
		Image1:      req.Image1,
		Image2:      req.Image2,
		Image3:      req.Image3,
	}
	if present(req.Price) {
		var d decimal.Decimal
		if err := d.UnmarshalJSON(req.Price); err != nil {
			return in, domain.BadRequest("invalid_price")
		}
		in.Price = &d
	}
	var err error
	if in.Discount, err = optionalInt(req.Discount, "invalid_discount"); err != nil {
		return in, err
	}
	if in.Stock, err = optionalInt(req.Stock, "invalid_stock"); err != nil {
		return in, err
	}
	if in.CategoryID, err = optionalID(req.CategoryID, "category_not_found"); err != nil {
		return in, err
	}
	if in.BrandID, err = optionalID(req.BrandID, "brand_not_found"); err != nil {
		return in, err
	}
	return in, nil
}

func optionalInt(raw json.RawMessage, code string) (*int, error) {
	if !present(raw) {
		return nil, nil
	}
	var n domain.WholeNumber
	_ = n.UnmarshalJSON(raw)
	if !n.Valid || n.Value < -1<<31 || n.Value > 1<<31-1 {
		return nil, domain.BadRequest(code)
	}
	v := int(n.Value)
	return &v, nil
}

func optionalID(raw json.RawMessage, code string) (*uint, error) {
	if !present(raw) {
		return nil, nil
	}
	var n domain.WholeNumber
	_ = n.UnmarshalJSON(raw)
	if !n.Valid || n.Value < 1 || n.Value > 1<<32-1 {
		return nil, domain.NotFound(code)
	}
	v := uint(n.Value)
	return &v, nil
}

// looseString accepts a JSON string or number. Forms post contact numbers
// and zip codes either way.
type looseString string

func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = looseString(n.String())
	return nil
}

type registerRequest struct {
	Name     looseString `json:"name"`
	Username looseString `json:"username"`
	Email    looseString `json:"email"`
	Password looseString `json:"password"`
	Country  looseString `json:"country"`
	City     looseString `json:"city"`
	Contact  looseString `json:"contact"`
	Address  looseString `json:"address"`
	Zipcode  looseString `json:"zipcode"`
}

type orderDTO struct {
	ID          uint              `json:"id"`
	Invoice     string            `json:"invoice"`
	Status      string            `json:"status"`
	DateCreated string            `json:"date_created"`
	Orders      domain.OrderLines `json:"orders"`
}

func toOrderDTO(o domain.Order) orderDTO {
	lines := o.Lines
	if lines == nil {
		lines = domain.OrderLines{}
	}
	return orderDTO{
		ID:          o.ID,
		Invoice:     o.Invoice,
		Status:      string(o.Status),
		DateCreated: o.CreatedAt.UTC().Format(time.RFC3339),
		Orders:      lines,
	}
}
