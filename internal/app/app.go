package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/adapters/cache/rediscache"
	"github.com/phenrril/storefront/internal/adapters/events/kafkaevents"
	"github.com/phenrril/storefront/internal/adapters/httpserver"
	"github.com/phenrril/storefront/internal/adapters/repo/postgres"
	"github.com/phenrril/storefront/internal/auth"
	"github.com/phenrril/storefront/internal/config"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Config    *config.Config
	Tokens    *auth.Issuer
	ProductUC *usecase.ProductUC
	AccountUC *usecase.AccountUC
	OrderUC   *usecase.OrderUC

	closers []func() error
}

func NewApp(ctx context.Context, db *gorm.DB, cfg *config.Config) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	var (
		catalogProducts domain.ProductRepo  = prodRepo
		catalogTaxonomy domain.TaxonomyRepo = postgres.NewTaxonomyRepo(db)
	)

	app := &App{DB: db, Config: cfg, Tokens: auth.NewIssuer([]byte(cfg.JWTSecret))}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, catalog cache disabled")
			_ = rdb.Close()
		} else {
			catalogProducts = rediscache.NewProductRepo(prodRepo, rdb, cfg.Redis.TTL)
			catalogTaxonomy = rediscache.NewTaxonomyRepo(catalogTaxonomy, rdb, cfg.Redis.TTL)
			app.closers = append(app.closers, rdb.Close)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("catalog cache enabled")
		}
	}

	// orders always read live product rows for their snapshots
	app.OrderUC = &usecase.OrderUC{Orders: postgres.NewOrderRepo(db), Products: prodRepo}
	if cfg.Kafka.Enabled() {
		pub := kafkaevents.New(kafkaevents.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic))
		app.OrderUC.Events = pub
		app.closers = append(app.closers, pub.Close)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("order events enabled")
	}

	app.ProductUC = &usecase.ProductUC{Products: catalogProducts, Taxonomy: catalogTaxonomy}
	app.AccountUC = &usecase.AccountUC{
		Customers: postgres.NewCustomerRepo(db),
		Admins:    postgres.NewAdminRepo(db),
		Tokens:    app.Tokens,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.AccountUC, a.OrderUC, a.Tokens, a.Config.StaticImagesPrefix)
}

func (a *App) MigrateAndSeed(ctx context.Context) error {
	if err := postgres.Migrate(a.DB); err != nil {
		return err
	}

	_ = a.DB.Exec("UPDATE orders SET status = 'Pending' WHERE status IS NULL OR status = ''").Error
	if a.DB.Dialector.Name() == "postgres" {
		_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products (LOWER(name))").Error
		_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email_lower ON customers (LOWER(email))").Error
	}

	admin := a.Config.Admin
	return a.AccountUC.EnsureAdmin(ctx, admin.Name, admin.Username, admin.Password)
}

// Close releases the optional redis and kafka clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
