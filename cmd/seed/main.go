package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"
	"github.com/calzado-next/internal/service"

	"github.com/go-extras/cobraflags"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

var adminFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Admin email (defaults to admin.email from config)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Admin password (defaults to admin.password from config)",
	},
}

type seedProduct struct {
	name     string
	brand    string
	price    string
	promo    string
	featured bool
	sizes    map[string]int
}

type seedCategory struct {
	name     string
	slug     string
	products []seedProduct
}

var catalog = []seedCategory{
	{
		name: "Deportivas",
		slug: "deportivas",
		products: []seedProduct{
			{name: "Runner Pro", brand: "Andina", price: "100.00", promo: "80.00", featured: true, sizes: map[string]int{"39": 4, "40": 6, "41": 6, "42": 3}},
			{name: "Trail Cumbre", brand: "Andina", price: "129.90", sizes: map[string]int{"40": 2, "41": 5, "43": 1}},
		},
	},
	{
		name: "Casuales",
		slug: "casuales",
		products: []seedProduct{
			{name: "Mocasín Clásico", brand: "Sevilla", price: "75.50", sizes: map[string]int{"38": 3, "39": 3, "40": 3}},
			{name: "Zapatilla Lona", brand: "Sevilla", price: "39.99", promo: "29.99", sizes: map[string]int{"36": 8, "37": 8, "38": 8}},
		},
	},
	{
		name: "Accesorios",
		slug: "accesorios",
		products: []seedProduct{
			{name: "Kit de limpieza", brand: "Brillo", price: "12.00", sizes: map[string]int{models.SizeNone: 25}},
		},
	},
}

func main() {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the shoe store database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCatalogCommand(), newAdminCommand())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Create demo categories, products and size stock (idempotent per category slug)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = models.CloseDB(db) }()
			return seedCatalog(cmd.Context(), cfg, db)
		},
	}
}

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create the default admin account when no admin exists",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = models.CloseDB(db) }()
			email := adminFlags[emailFlag].GetString()
			if email == "" {
				email = cfg.Admin.Email
			}
			password := adminFlags[passwordFlag].GetString()
			if password == "" {
				password = cfg.Admin.Password
			}
			return models.InitDefaultAdmin(db, email, password)
		},
	}
	cobraflags.RegisterMap(cmd, adminFlags)
	return cmd
}

func openDB() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		_ = models.CloseDB(db)
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}

func seedCatalog(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	categoryRepo := repository.NewCategoryRepository(db)
	categories := service.NewCategoryService(categoryRepo)
	products := service.NewProductService(
		service.NewTxRunner(db, cfg.Database.QueryTimeout()),
		repository.NewProductRepository(db),
		categoryRepo,
		repository.NewSizeStockRepository(db),
		repository.NewCartRepository(db),
	)

	for sortOrder, item := range catalog {
		category, err := categories.Create(ctx, service.CategoryInput{Name: item.name, Slug: item.slug, SortOrder: sortOrder})
		if errors.Is(err, service.ErrSlugExists) {
			logger.Infow("seed_category_exists", "slug", item.slug)
			continue
		}
		if err != nil {
			return fmt.Errorf("create category %s: %w", item.slug, err)
		}
		logger.Infow("seed_category_created", "slug", item.slug, "id", category.ID)

		for _, p := range item.products {
			input := service.ProductInput{
				CategoryID: category.ID,
				Name:       p.name,
				Brand:      p.brand,
				Price:      decimal.RequireFromString(p.price),
				Featured:   p.featured,
			}
			if p.promo != "" {
				promo := decimal.RequireFromString(p.promo)
				input.PromoPrice = &promo
			}
			for size, qty := range p.sizes {
				input.Sizes = append(input.Sizes, service.SizeStockInput{Size: size, Quantity: qty})
			}
			product, err := products.Create(ctx, input)
			if err != nil {
				return fmt.Errorf("create product %s: %w", p.name, err)
			}
			logger.Infow("seed_product_created", "name", p.name, "id", product.ID, "sizes", len(p.sizes))
		}
	}
	return nil
}
