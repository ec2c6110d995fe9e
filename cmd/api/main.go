package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealership/internal/auth"
	"dealership/internal/config"
	"dealership/internal/flash"
	"dealership/internal/httpserver"
	"dealership/internal/httpserver/handlers"
	"dealership/internal/httpserver/view"
	"dealership/internal/logger"
	"dealership/internal/models"
	"dealership/internal/services/accounts"
	"dealership/internal/services/favorites"
	"dealership/internal/services/inventory"
	"dealership/internal/store"
	"dealership/internal/store/memory"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, lg)
	if err != nil {
		lg.Fatalw("storage init failed", "error", err)
	}
	defer be.close()

	flashStore, closeFlash := openFlash(cfg, lg)
	defer closeFlash()

	hasher := auth.Bcrypt{Cost: auth.PasswordCost}
	seedDefaultAdmin(ctx, be.accounts, hasher, cfg, lg)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret))
	cookies := auth.NewCookieWriter(cfg.Development(), cfg.JWTTTL)
	fm := flash.NewManager(flashStore, cfg.Development(), lg)
	pages, err := view.New()
	if err != nil {
		lg.Fatalw("templates failed to parse", "error", err)
	}
	d := &handlers.Deps{
		Accounts:  accounts.NewService(be.accounts, hasher, tokens, cfg.JWTTTL, lg),
		Favorites: favorites.NewService(be.favorites, lg),
		Inventory: inventory.NewService(be.inventory, lg),
		Cookies:   cookies,
		Flash:     fm,
		View:      pages,
		Log:       lg,
	}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpserver.NewRouter(d, auth.NewGate(tokens, cookies, fm, lg), lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Infow("listening", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("server failed", "error", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("shutdown", "error", err)
	}
	lg.Infow("stopped")
}

type accountStore interface {
	accounts.Store
	SetRole(ctx context.Context, id int, role models.Role) error
}

type backend struct {
	accounts  accountStore
	favorites favorites.Store
	inventory inventory.Store
	close     func() error
}

// openBackend connects to PostgreSQL and applies migrations. A development
// run without DATABASE_URL gets a seeded in-memory store instead.
func openBackend(ctx context.Context, cfg config.Config, lg *zap.SugaredLogger) (backend, error) {
	if cfg.DatabaseURL == "" {
		lg.Warnw("DATABASE_URL is empty, using in-memory storage")
		db := memory.New()
		if err := db.SeedSample(ctx); err != nil {
			return backend{}, err
		}
		return backend{accounts: db.Accounts(), favorites: db.Favorites(), inventory: db.Inventory(), close: func() error { return nil }}, nil
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return backend{}, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		return backend{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return backend{}, err
	}
	return backend{
		accounts:  store.NewAccounts(db),
		favorites: store.NewFavorites(db),
		inventory: store.NewInventory(db),
		close:     sqlDB.Close,
	}, nil
}

func openFlash(cfg config.Config, lg *zap.SugaredLogger) (flash.Store, func()) {
	if cfg.RedisURL == "" {
		return flash.NewMemory(), func() {}
	}
	pool := flash.NewRedisPool(cfg.RedisURL)
	lg.Infow("flash messages stored in redis")
	return flash.NewRedis(pool, time.Hour), func() { _ = pool.Close() }
}

// seedDefaultAdmin creates the configured admin account once. Without
// ADMIN_EMAIL and ADMIN_PASSWORD nothing is seeded.
func seedDefaultAdmin(ctx context.Context, st accountStore, h accounts.Hasher, cfg config.Config, lg *zap.SugaredLogger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	email := models.NormalizeEmail(cfg.AdminEmail)
	exists, err := st.EmailExists(ctx, email)
	if err != nil {
		lg.Errorw("admin seed lookup failed", "error", err)
		return
	}
	if exists {
		return
	}
	hash, err := h.Hash(cfg.AdminPassword)
	if err != nil {
		lg.Errorw("admin seed hash failed", "error", err)
		return
	}
	acc, err := models.NewAccount("Site", "Admin", email, hash)
	if err != nil {
		lg.Errorw("admin seed invalid", "error", err)
		return
	}
	if _, err := st.Create(ctx, acc); err != nil {
		lg.Errorw("admin seed insert failed", "error", err)
		return
	}
	if err := st.SetRole(ctx, acc.ID, models.RoleAdmin); err != nil {
		lg.Errorw("admin seed role failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", email)
}
