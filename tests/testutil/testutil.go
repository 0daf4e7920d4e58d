// Package testutil provides common test utilities for the storefront:
// a migrated SQLite catalog, an assembled app and HTTP helpers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/bootstrap"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDatabase opens a migrated in-memory database
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err, "Failed to open sqlite database")
	require.NoError(t, db.AutoMigrate(), "Failed to migrate sqlite database")
	return db
}

// Catalog holds the seeded rows
type Catalog struct {
	Proteins  models.CategoryModel
	Vitamins  models.CategoryModel
	Whey      models.ProductModel // 100.000, discounted to 80.000, flavored
	Creatine  models.ProductModel // 90.000, stock 3
	Multi     models.ProductModel // 50.000, featured
	Retired   models.ProductModel // inactive
	Chocolate models.ProductFlavorModel
	Vanilla   models.ProductFlavorModel
}

// SeedCatalog inserts a small catalog. Products are created an hour
// apart, Whey first.
func SeedCatalog(t *testing.T, db *gorm.DB) Catalog {
	t.Helper()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	var c Catalog
	c.Proteins = seedCategory(t, db, "Proteínas", "proteinas", base)
	c.Vitamins = seedCategory(t, db, "Vitaminas", "vitaminas", base)

	discounted := decimal.NewFromInt(80000)
	c.Whey = seedProduct(t, db, models.ProductModel{
		CategoryID:      c.Proteins.ID,
		Name:            "Whey 1kg",
		Slug:            "whey-1kg",
		Price:           decimal.NewFromInt(100000),
		DiscountedPrice: &discounted,
		Stock:           10,
		IsFeatured:      true,
		HasFlavors:      true,
	}, base)
	c.Creatine = seedProduct(t, db, models.ProductModel{
		CategoryID: c.Proteins.ID,
		Name:       "Creatina 300g",
		Slug:       "creatina-300g",
		Price:      decimal.NewFromInt(90000),
		Stock:      3,
	}, base.Add(time.Hour))
	c.Multi = seedProduct(t, db, models.ProductModel{
		CategoryID: c.Vitamins.ID,
		Name:       "Multivitamínico",
		Slug:       "multivitaminico",
		Price:      decimal.NewFromInt(50000),
		Stock:      20,
		IsFeatured: true,
	}, base.Add(2*time.Hour))
	c.Retired = seedProduct(t, db, models.ProductModel{
		CategoryID: c.Proteins.ID,
		Name:       "Retirado",
		Slug:       "retirado",
		Price:      decimal.NewFromInt(10000),
		Stock:      5,
		IsFeatured: true,
	}, base.Add(3*time.Hour))
	require.NoError(t, db.Model(&c.Retired).Update("is_active", false).Error)

	c.Chocolate = seedFlavor(t, db, c.Whey.ID, "Chocolate", 4)
	c.Vanilla = seedFlavor(t, db, c.Whey.ID, "Vainilla", 6)
	return c
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string, at time.Time) models.CategoryModel {
	t.Helper()
	m := models.CategoryModel{
		BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: at, UpdatedAt: at},
		Name:      name,
		Slug:      slug,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func seedProduct(t *testing.T, db *gorm.DB, m models.ProductModel, at time.Time) models.ProductModel {
	t.Helper()
	m.BaseModel = models.BaseModel{ID: uuid.New(), CreatedAt: at, UpdatedAt: at}
	m.Brand = "Optimum"
	m.IsActive = true
	require.NoError(t, db.Create(&m).Error)
	return m
}

func seedFlavor(t *testing.T, db *gorm.DB, productID uuid.UUID, name string, stock int) models.ProductFlavorModel {
	t.Helper()
	now := time.Now()
	m := models.ProductFlavorModel{
		BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		ProductID: productID,
		Name:      name,
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// TestApp is an assembled storefront over SQLite and in-memory cart storage
type TestApp struct {
	*bootstrap.App
	Config  *config.Config
	Catalog Catalog
	Storage *cache.InMemoryCartStorage
	Logs    *observer.ObservedLogs
}

// NewTestApp builds a seeded storefront. configure may adjust the
// configuration before assembly.
func NewTestApp(t *testing.T, configure func(*config.Config), opts ...bootstrap.Option) *TestApp {
	t.Helper()

	cfg := config.Defaults()
	cfg.Database.Driver = "sqlite"
	if configure != nil {
		configure(cfg)
	}

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	db := NewSQLiteDatabase(t)
	catalog := SeedCatalog(t, db.DB)
	storage := cache.NewInMemoryCartStorage()

	opts = append([]bootstrap.Option{
		bootstrap.WithDatabase(db),
		bootstrap.WithCartStorage(storage),
	}, opts...)
	app, err := bootstrap.New(context.Background(), cfg, log, opts...)
	require.NoError(t, err, "Failed to assemble storefront")
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	return &TestApp{
		App:     app,
		Config:  cfg,
		Catalog: catalog,
		Storage: storage,
		Logs:    logs,
	}
}
