package service

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	users     *repository.GormUserRepository
	books     *repository.GormBookRepository
	carts     *repository.GormCartRepository
	orders    *repository.GormOrderRepository
	sessions  *SessionManager
	auth      *UserAuthService
	catalog   *CatalogService
	cart      *CartService
	checkout  *CheckoutService
	reporting *ReportService
}

func newTestConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			SecretKey:        "test-session-secret",
			ExpireHours:      24,
			GuestExpireHours: 24,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Catalog:  config.CatalogConfig{DeletePolicy: "cascade"},
		Checkout: config.CheckoutConfig{PaymentModes: []string{"cod"}},
	}
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, newTestConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	db := openServiceTestDB(t)
	env := &testEnv{
		db:     db,
		cfg:    cfg,
		users:  repository.NewUserRepository(db),
		books:  repository.NewBookRepository(db),
		carts:  repository.NewCartRepository(db),
		orders: repository.NewOrderRepository(db),
	}
	env.sessions = NewSessionManager(cfg.Session, env.users)
	env.auth = NewUserAuthService(cfg, env.users, env.carts, env.sessions)
	env.catalog = NewCatalogService(env.books, env.carts, cfg.Catalog.DeletePolicy)
	env.cart = NewCartService(env.carts, env.books)
	env.checkout = NewCheckoutService(env.carts, env.orders, nil, cfg.Checkout.PaymentModes)
	env.reporting = NewReportService(env.books)
	return env
}

func (e *testEnv) addBook(t *testing.T, name, price string) *models.Book {
	t.Helper()
	book := &models.Book{
		Name:   name,
		Author: "Author " + name,
		Price:  models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Rating: 4.5,
	}
	require.NoError(t, e.db.Create(book).Error)
	return book
}

func (e *testEnv) register(t *testing.T, email string) *SessionContext {
	t.Helper()
	result, err := e.auth.Register(t.Context(), nil, email, "password1")
	require.NoError(t, err)
	return e.parse(t, result.Session.Token)
}

func (e *testEnv) parse(t *testing.T, token string) *SessionContext {
	t.Helper()
	sess, err := e.sessions.Parse(t.Context(), token)
	require.NoError(t, err)
	return sess
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}
