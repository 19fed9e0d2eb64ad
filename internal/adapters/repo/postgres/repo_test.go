package postgres_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/adapters/repo/postgres"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/testsupport"
)

type RepoTestSuite struct {
	suite.Suite
	db        *gorm.DB
	catalog   testsupport.Catalog
	products  *postgres.ProductRepo
	taxonomy  *postgres.TaxonomyRepo
	customers *postgres.CustomerRepo
	admins    *postgres.AdminRepo
	orders    *postgres.OrderRepo
}

func TestRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RepoTestSuite))
}

// SetupTest gives every test a fresh database.
func (s *RepoTestSuite) SetupTest() {
	s.db = testsupport.NewDB(s.T())
	s.catalog = testsupport.SeedTaxonomy(s.T(), s.db)
	s.products = postgres.NewProductRepo(s.db)
	s.taxonomy = postgres.NewTaxonomyRepo(s.db)
	s.customers = postgres.NewCustomerRepo(s.db)
	s.admins = postgres.NewAdminRepo(s.db)
	s.orders = postgres.NewOrderRepo(s.db)
}

func (s *RepoTestSuite) TestProductSearchIsCaseInsensitive() {
	ctx := context.Background()
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 1, "Blue T-SHIRT", 10, 0)
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 2, "Mug", 5, 0)
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 3, "Hoodie", 30, 0)
	require.NoError(s.T(), s.db.Model(&domain.Product{}).Where("id = ?", 3).Update("description", "Warmer than a Shirt").Error)

	list, err := s.products.List(ctx, domain.ProductFilter{Query: "shirt"})
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	require.Equal(s.T(), uint(3), list[0].ID)
	require.Equal(s.T(), uint(1), list[1].ID)
	require.NotNil(s.T(), list[0].Category)
	require.Equal(s.T(), "Clothes", list[0].Category.Name)

	list, err = s.products.List(ctx, domain.ProductFilter{Query: "100%"})
	require.NoError(s.T(), err)
	require.Empty(s.T(), list)
}

func (s *RepoTestSuite) TestProductFilters() {
	ctx := context.Background()
	other := domain.Brand{Name: "Other"}
	require.NoError(s.T(), s.taxonomy.SaveBrand(ctx, &other))
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 1, "Shirt", 10, 0)
	p := testsupport.SeedProduct(s.T(), s.db, s.catalog, 2, "Cap", 7, 0)
	p.BrandID = other.ID
	require.NoError(s.T(), s.products.Save(ctx, &p))

	list, err := s.products.List(ctx, domain.ProductFilter{BrandID: &other.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	require.Equal(s.T(), "Cap", list[0].Name)

	list, err = s.products.List(ctx, domain.ProductFilter{CategoryID: &s.catalog.Category.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)

	zero := uint(0)
	list, err = s.products.List(ctx, domain.ProductFilter{CategoryID: &zero})
	require.NoError(s.T(), err)
	require.Empty(s.T(), list)
}

func (s *RepoTestSuite) TestProductFindAndDelete() {
	ctx := context.Background()
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 5, "Shirt", 10, 10)

	p, err := s.products.FindByID(ctx, 5)
	require.NoError(s.T(), err)
	require.True(s.T(), decimal.NewFromInt(10).Equal(p.Price))
	require.Equal(s.T(), "Acme", p.Brand.Name)

	byID, err := s.products.FindByIDs(ctx, []uint{5, 999})
	require.NoError(s.T(), err)
	require.Len(s.T(), byID, 1)

	require.NoError(s.T(), s.products.Delete(ctx, 5))
	_, err = s.products.FindByID(ctx, 5)
	require.ErrorIs(s.T(), err, domain.ErrNotFound)
	require.ErrorIs(s.T(), s.products.Delete(ctx, 5), domain.ErrNotFound)
}

func (s *RepoTestSuite) TestOrderSnapshotSurvivesProductEdit() {
	ctx := context.Background()
	p := testsupport.SeedProduct(s.T(), s.db, s.catalog, 5, "Shirt", 10, 10)

	o := &domain.Order{
		Invoice:    "abcdef0123",
		CustomerID: 1,
		Lines:      domain.OrderLines{domain.LineKey(p.ID): domain.SnapshotLine(p, 3)},
	}
	require.NoError(s.T(), s.orders.Create(ctx, o))
	require.Equal(s.T(), domain.OrderStatusPending, o.Status)

	p.Price = decimal.NewFromInt(99)
	p.Name = "Renamed"
	require.NoError(s.T(), s.products.Save(ctx, &p))

	list, err := s.orders.ListByCustomer(ctx, 1)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	line := list[0].Lines["5"]
	require.Equal(s.T(), 10.0, line.Price)
	require.Equal(s.T(), "Shirt", line.Name)
	require.Equal(s.T(), 3, line.Quantity)
}

func (s *RepoTestSuite) TestOrderDuplicateInvoice() {
	ctx := context.Background()
	require.NoError(s.T(), s.orders.Create(ctx, &domain.Order{Invoice: "same", CustomerID: 1, Lines: domain.OrderLines{}}))
	err := s.orders.Create(ctx, &domain.Order{Invoice: "same", CustomerID: 2, Lines: domain.OrderLines{}})
	require.ErrorIs(s.T(), err, domain.ErrDuplicate)
}

func (s *RepoTestSuite) TestCustomerUniqueness() {
	ctx := context.Background()
	c := &domain.Customer{Name: "Ana", Username: "ana", Email: "Ana@Example.com", Password: "x"}
	require.NoError(s.T(), s.customers.Create(ctx, c))

	found, err := s.customers.FindByEmail(ctx, " ana@example.COM ")
	require.NoError(s.T(), err)
	require.Equal(s.T(), c.ID, found.ID)

	dup := &domain.Customer{Name: "Other", Username: "other", Email: "ana@example.com", Password: "y"}
	require.ErrorIs(s.T(), s.customers.Create(ctx, dup), domain.ErrDuplicate)

	exists, err := s.customers.UsernameExists(ctx, "ana")
	require.NoError(s.T(), err)
	require.True(s.T(), exists)

	require.NoError(s.T(), s.customers.UpdatePassword(ctx, c.ID, "hashed"))
	found, err = s.customers.FindByID(ctx, c.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "hashed", found.Password)
}

func (s *RepoTestSuite) TestAdminLookup() {
	ctx := context.Background()
	require.NoError(s.T(), s.admins.Save(ctx, &domain.Admin{Name: "Root", Username: "root", Password: "x"}))
	a, err := s.admins.FindByUsername(ctx, "root")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Root", a.Name)

	_, err = s.admins.FindByUsername(ctx, "nobody")
	require.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *RepoTestSuite) TestTaxonomyDeleteIsRestricted() {
	ctx := context.Background()
	testsupport.SeedProduct(s.T(), s.db, s.catalog, 1, "Shirt", 10, 0)

	require.ErrorIs(s.T(), s.taxonomy.DeleteCategory(ctx, s.catalog.Category.ID), domain.ErrInUse)
	require.ErrorIs(s.T(), s.taxonomy.DeleteBrand(ctx, s.catalog.Brand.ID), domain.ErrInUse)

	empty := domain.Category{Name: "Empty"}
	require.NoError(s.T(), s.taxonomy.SaveCategory(ctx, &empty))
	require.NoError(s.T(), s.taxonomy.DeleteCategory(ctx, empty.ID))
	require.ErrorIs(s.T(), s.taxonomy.DeleteCategory(ctx, empty.ID), domain.ErrNotFound)

	dup := domain.Category{Name: "Clothes"}
	require.ErrorIs(s.T(), s.taxonomy.SaveCategory(ctx, &dup), domain.ErrDuplicate)

	c, err := s.taxonomy.FindCategoryByName(ctx, "clothes")
	require.NoError(s.T(), err)
	require.Equal(s.T(), s.catalog.Category.ID, c.ID)

	cats, err := s.taxonomy.Categories(ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), cats, 1)
}
