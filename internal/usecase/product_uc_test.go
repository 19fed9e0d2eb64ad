package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/adapters/repo/postgres"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/testsupport"
	"github.com/phenrril/storefront/internal/usecase"
)

func newProductUC(t *testing.T) (*usecase.ProductUC, *gorm.DB, testsupport.Catalog) {
	t.Helper()
	db := testsupport.NewDB(t)
	c := testsupport.SeedTaxonomy(t, db)
	return &usecase.ProductUC{
		Products: postgres.NewProductRepo(db),
		Taxonomy: postgres.NewTaxonomyRepo(db),
	}, db, c
}

func ptr[T any](v T) *T { return &v }

func fullInput(c testsupport.Catalog) usecase.ProductInput {
	return usecase.ProductInput{
		Name:        ptr("Shirt"),
		Price:       ptr(decimal.RequireFromString("19.90")),
		Stock:       ptr(4),
		Colors:      ptr("white"),
		Description: ptr("cotton shirt"),
		CategoryID:  ptr(c.Category.ID),
		BrandID:     ptr(c.Brand.ID),
	}
}

func TestCreateProduct(t *testing.T) {
	uc, _, c := newProductUC(t)
	p, err := uc.Create(context.Background(), fullInput(c))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.True(t, decimal.RequireFromString("19.90").Equal(p.Price))
	assert.Equal(t, 0, p.Discount)
	assert.Equal(t, [3]string{domain.DefaultImage, domain.DefaultImage, domain.DefaultImage}, p.Images())
	require.NotNil(t, p.Category)
	assert.Equal(t, "Clothes", p.Category.Name)
	require.NotNil(t, p.Brand)
	assert.Equal(t, "Acme", p.Brand.Name)
}

func TestCreateProductValidation(t *testing.T) {
	uc, _, c := newProductUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.ProductInput{Name: ptr("  "), Stock: ptr(1)})
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "missing_fields", de.Code)
	assert.Equal(t, []string{"name", "price", "colors", "description", "category_id", "brand_id"}, de.Fields)

	in := fullInput(c)
	in.Price = ptr(decimal.NewFromInt(-1))
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "invalid_price", errCode(t, err))

	in = fullInput(c)
	in.Discount = ptr(101)
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "invalid_discount", errCode(t, err))

	in = fullInput(c)
	in.Stock = ptr(-3)
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "invalid_stock", errCode(t, err))

	in = fullInput(c)
	in.CategoryID = ptr(uint(99))
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "category_not_found", errCode(t, err))

	in = fullInput(c)
	in.BrandID = ptr(uint(99))
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "brand_not_found", errCode(t, err))
}

func TestUpdateProductIsPartial(t *testing.T) {
	uc, db, c := newProductUC(t)
	ctx := context.Background()
	testsupport.SeedProduct(t, db, c, 3, "Mug", 5, 0)

	p, err := uc.Update(ctx, 3, usecase.ProductInput{Price: ptr(decimal.NewFromInt(7)), Discount: ptr(15)})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.True(t, decimal.NewFromInt(7).Equal(p.Price))
	assert.Equal(t, 15, p.Discount)
	assert.Equal(t, "red,blue", p.Colors)

	_, err = uc.Update(ctx, 3, usecase.ProductInput{Discount: ptr(-1)})
	assert.Equal(t, "invalid_discount", errCode(t, err))
	_, err = uc.Update(ctx, 404, usecase.ProductInput{Name: ptr("x")})
	assert.Equal(t, "not_found", errCode(t, err))
}

func TestDeleteProduct(t *testing.T) {
	uc, db, c := newProductUC(t)
	ctx := context.Background()
	testsupport.SeedProduct(t, db, c, 3, "Mug", 5, 0)

	require.NoError(t, uc.Delete(ctx, 3))
	_, err := uc.Get(ctx, 3)
	assert.Equal(t, "not_found", errCode(t, err))
	assert.Equal(t, "not_found", errCode(t, uc.Delete(ctx, 3)))
}

func TestListTrimsQuery(t *testing.T) {
	uc, db, c := newProductUC(t)
	testsupport.SeedProduct(t, db, c, 1, "Blue Shirt", 10, 0)
	testsupport.SeedProduct(t, db, c, 2, "Mug", 5, 0)

	list, err := uc.List(context.Background(), domain.ProductFilter{Query: "  SHIRT "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Blue Shirt", list[0].Name)
}

func TestTaxonomyManagement(t *testing.T) {
	uc, db, c := newProductUC(t)
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, " Shoes ")
	require.NoError(t, err)
	assert.Equal(t, "Shoes", cat.Name)
	_, err = uc.CreateCategory(ctx, "Shoes")
	assert.Equal(t, "category_exists", errCode(t, err))
	_, err = uc.CreateBrand(ctx, "Acme")
	assert.Equal(t, "brand_exists", errCode(t, err))
	_, err = uc.CreateBrand(ctx, strings.Repeat("x", 31))
	assert.Equal(t, "name_too_long", errCode(t, err))
	_, err = uc.CreateBrand(ctx, "")
	assert.Equal(t, "missing_fields", errCode(t, err))

	testsupport.SeedProduct(t, db, c, 1, "Mug", 5, 0)
	assert.Equal(t, "category_in_use", errCode(t, uc.DeleteCategory(ctx, c.Category.ID)))
	assert.Equal(t, "brand_in_use", errCode(t, uc.DeleteBrand(ctx, c.Brand.ID)))
	require.NoError(t, uc.DeleteCategory(ctx, cat.ID))
	assert.Equal(t, "not_found", errCode(t, uc.DeleteCategory(ctx, cat.ID)))

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Clothes", cats[0].Name)
}

func workbook(t *testing.T, rows ...[]any) *strings.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return strings.NewReader(buf.String())
}

func TestImportXLSX(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()
	book := workbook(t,
		[]any{"Name", "Price", "Discount", "Stock", "Colors", "Description", "Category", "Brand"},
		[]any{"Cap", "12,50", 5, 3, "black", "wool cap", "clothes", "Acme"},
		[]any{"Boots", "80", "", 2, "brown", "leather", "Shoes", "Hiker"},
		[]any{"Broken", "abc", "", 1, "", "", "Shoes", "Hiker"},
		[]any{"", "1", "", 1, "", "", "Shoes", "Hiker"},
		[]any{"Discounted", "5", 150, 1, "", "", "Shoes", "Hiker"},
	)

	rep, err := uc.ImportXLSX(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Created)
	assert.Equal(t, 3, rep.Skipped)
	assert.Equal(t, []usecase.ImportError{
		{Row: 4, Error: "invalid_price"},
		{Row: 5, Error: "missing_fields:name"},
		{Row: 6, Error: "invalid_discount"},
	}, rep.Errors)

	list, err := uc.List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	boots, hat := list[0], list[1]
	assert.Equal(t, "Boots", boots.Name)
	assert.Equal(t, "Shoes", boots.Category.Name)
	assert.Equal(t, "Hiker", boots.Brand.Name)
	assert.Equal(t, "Cap", hat.Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(hat.Price))
	assert.Equal(t, 5, hat.Discount)
	assert.Equal(t, "Clothes", hat.Category.Name)
	assert.Equal(t, domain.DefaultImage, hat.Image1)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestImportXLSXRejectsBadSheets(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	_, err := uc.ImportXLSX(ctx, strings.NewReader("not a workbook"))
	assert.Equal(t, "invalid_xlsx", errCode(t, err))

	_, err = uc.ImportXLSX(ctx, workbook(t, []any{"Name", "Price"}))
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "missing_fields", de.Code)
	assert.Equal(t, []string{"stock", "category", "brand"}, de.Fields)
}
