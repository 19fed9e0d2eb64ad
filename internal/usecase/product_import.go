package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/storefront/internal/domain"
)

type ImportReport struct {
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Errors  []ImportError `json:"errors"`
}

type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

var importRequired = []string{"name", "price", "stock", "category", "brand"}

// ImportXLSX creates one product per data row of the first sheet. The
// header row names the columns; unknown categories and brands are created.
// Bad rows are reported and skipped, the rest are imported.
func (uc *ProductUC) ImportXLSX(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.BadRequest("invalid_xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.BadRequest("invalid_xlsx")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.BadRequest("invalid_xlsx")
	}
	if len(rows) == 0 {
		return nil, domain.BadRequest("empty_sheet")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range importRequired {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domain.MissingFields(missing)
	}

	rep := &ImportReport{Errors: []ImportError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			rep.Skipped++
			continue
		}
		p, err := uc.productFromRow(ctx, cell)
		if err == nil {
			err = uc.Products.Save(ctx, p)
		}
		if err != nil {
			rep.Skipped++
			rep.Errors = append(rep.Errors, ImportError{Row: rowNum, Error: importErrorText(err)})
			continue
		}
		rep.Created++
	}
	log.Info().Int("created", rep.Created).Int("skipped", rep.Skipped).Msg("product import")
	return rep, nil
}

func (uc *ProductUC) productFromRow(ctx context.Context, cell func(string) string) (*domain.Product, error) {
	name := cell("name")
	var missing []string
	for _, col := range []string{"name", "category", "brand"} {
		if cell(col) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domain.MissingFields(missing)
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(cell("price"), ",", "."))
	if err != nil {
		return nil, domain.BadRequest("invalid_price")
	}
	stock, err := strconv.Atoi(cell("stock"))
	if err != nil {
		return nil, domain.BadRequest("invalid_stock")
	}
	discount := 0
	if raw := cell("discount"); raw != "" {
		if discount, err = strconv.Atoi(raw); err != nil {
			return nil, domain.BadRequest("invalid_discount")
		}
	}
	p := &domain.Product{
		Name:        name,
		Price:       price,
		Discount:    discount,
		Stock:       stock,
		Colors:      cell("colors"),
		Description: cell("description"),
		Image1:      orDefaultImage(cell("image_1")),
		Image2:      orDefaultImage(cell("image_2")),
		Image3:      orDefaultImage(cell("image_3")),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cat, err := uc.categoryNamed(ctx, cell("category"))
	if err != nil {
		return nil, err
	}
	brand, err := uc.brandNamed(ctx, cell("brand"))
	if err != nil {
		return nil, err
	}
	p.CategoryID = cat.ID
	p.BrandID = brand.ID
	return p, nil
}

func (uc *ProductUC) categoryNamed(ctx context.Context, name string) (*domain.Category, error) {
	c, err := uc.Taxonomy.FindCategoryByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return uc.CreateCategory(ctx, name)
	}
	return c, err
}

func (uc *ProductUC) brandNamed(ctx context.Context, name string) (*domain.Brand, error) {
	b, err := uc.Taxonomy.FindBrandByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return uc.CreateBrand(ctx, name)
	}
	return b, err
}

func orDefaultImage(s string) string {
	if s == "" {
		return domain.DefaultImage
	}
	return s
}

func importErrorText(err error) string {
	if de, ok := domain.AsError(err); ok {
		if len(de.Fields) > 0 {
			return fmt.Sprintf("%s:%s", de.Code, strings.Join(de.Fields, ","))
		}
		return de.Code
	}
	return "internal_error"
}
