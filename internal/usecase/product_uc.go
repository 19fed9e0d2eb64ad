package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/storefront/internal/domain"
)

var errNotFound = domain.NotFound("not_found")

type ProductUC struct {
	Products domain.ProductRepo
	Taxonomy domain.TaxonomyRepo
}

// ProductInput carries the admin-supplied product fields. A nil field was
// not present in the request.
type ProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	Discount    *int
	Stock       *int
	Colors      *string
	Description *string
	CategoryID  *uint
	BrandID     *uint
	Image1      *string
	Image2      *string
	Image3      *string
}

func (in ProductInput) missing() []string {
	var out []string
	blank := func(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }
	if blank(in.Name) {
		out = append(out, "name")
	}
	if in.Price == nil {
		out = append(out, "price")
	}
	if in.Stock == nil {
		out = append(out, "stock")
	}
	if blank(in.Colors) {
		out = append(out, "colors")
	}
	if blank(in.Description) {
		out = append(out, "description")
	}
	if in.CategoryID == nil {
		out = append(out, "category_id")
	}
	if in.BrandID == nil {
		out = append(out, "brand_id")
	}
	return out
}

func (in ProductInput) apply(p *domain.Product) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, in.Name)
	set(&p.Colors, in.Colors)
	set(&p.Description, in.Description)
	set(&p.Image1, in.Image1)
	set(&p.Image2, in.Image2)
	set(&p.Image3, in.Image3)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		p.BrandID = *in.BrandID
	}
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	f.Query = strings.TrimSpace(f.Query)
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotFound
	}
	return p, err
}

func (uc *ProductUC) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.Taxonomy.Categories(ctx)
}

func (uc *ProductUC) Brands(ctx context.Context) ([]domain.Brand, error) {
	return uc.Taxonomy.Brands(ctx)
}

func (uc *ProductUC) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if missing := in.missing(); len(missing) > 0 {
		return nil, domain.MissingFields(missing)
	}
	p := &domain.Product{
		Image1: domain.DefaultImage,
		Image2: domain.DefaultImage,
		Image3: domain.DefaultImage,
	}
	in.apply(p)
	for _, img := range []*string{&p.Image1, &p.Image2, &p.Image3} {
		if strings.TrimSpace(*img) == "" {
			*img = domain.DefaultImage
		}
	}
	if err := uc.save(ctx, p, true, true); err != nil {
		return nil, err
	}
	return uc.Products.FindByID(ctx, p.ID)
}

// Update applies a partial change to an existing product.
func (uc *ProductUC) Update(ctx context.Context, id uint, in ProductInput) (*domain.Product, error) {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	p.Category, p.Brand = nil, nil
	if err := uc.save(ctx, p, in.CategoryID != nil, in.BrandID != nil); err != nil {
		return nil, err
	}
	return uc.Products.FindByID(ctx, p.ID)
}

func (uc *ProductUC) save(ctx context.Context, p *domain.Product, checkCategory, checkBrand bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if checkCategory {
		if _, err := uc.Taxonomy.FindCategory(ctx, p.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("category_not_found")
			}
			return err
		}
	}
	if checkBrand {
		if _, err := uc.Taxonomy.FindBrand(ctx, p.BrandID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("brand_not_found")
			}
			return err
		}
	}
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, id uint) error {
	err := uc.Products.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return errNotFound
	}
	return err
}

func (uc *ProductUC) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := taxonomyName(name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: name}
	if err := uc.Taxonomy.SaveCategory(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("category_exists")
		}
		return nil, err
	}
	return c, nil
}

func (uc *ProductUC) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	name, err := taxonomyName(name)
	if err != nil {
		return nil, err
	}
	b := &domain.Brand{Name: name}
	if err := uc.Taxonomy.SaveBrand(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("brand_exists")
		}
		return nil, err
	}
	return b, nil
}

func (uc *ProductUC) DeleteCategory(ctx context.Context, id uint) error {
	return taxonomyDeleteErr(uc.Taxonomy.DeleteCategory(ctx, id), "category_in_use")
}

func (uc *ProductUC) DeleteBrand(ctx context.Context, id uint) error {
	return taxonomyDeleteErr(uc.Taxonomy.DeleteBrand(ctx, id), "brand_in_use")
}

func taxonomyDeleteErr(err error, inUse string) error {
	switch {
	case errors.Is(err, domain.ErrInUse):
		return domain.Conflict(inUse)
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound
	}
	return err
}

const maxTaxonomyName = 30

func taxonomyName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.MissingFields([]string{"name"})
	}
	if len([]rune(name)) > maxTaxonomyName {
		return "", domain.BadRequest("name_too_long")
	}
	return name, nil
}
