// cmd/web/main.go
//
// Theme preview server – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load config (conf/.env → conf/global.yaml → ADEPT_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY)
//     and size GOMAXPROCS to the container quota.
//
//  3. Build the public store, cached when manifest.cache_ttl > 0, and the
//     theme Manager.  The default theme is loaded once up front so a broken
//     theme fails the boot rather than the first request, then handed to
//     the per-host cache so it is not parsed twice.
//
//  4. When database.global_dsn is set, open the control-plane DB (password
//     optionally from Vault) and look up each host's theme in `site`.
//
//  5. Serve the preview routes behind the security-header middleware and
//     shut down cleanly on SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/yanizio/themetags/internal/config"
	"github.com/yanizio/themetags/internal/database"
	"github.com/yanizio/themetags/internal/logger"
	"github.com/yanizio/themetags/internal/middleware"
	"github.com/yanizio/themetags/internal/server"
	"github.com/yanizio/themetags/internal/site"
	"github.com/yanizio/themetags/internal/tenant"
	"github.com/yanizio/themetags/internal/theme"
	"github.com/yanizio/themetags/internal/vault"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	_, _ = maxprocs.Set(maxprocs.Logger(logOut.Infof))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Public store and theme manager ──────────────────────────────
	//
	dirStore, err := theme.NewDirStore(cfg.Theme.PublicDir)
	if err != nil {
		logOut.Fatalw("public dir unavailable", "err", err)
	}
	var public theme.Store = dirStore
	if cfg.Manifest.CacheTTL > 0 {
		public = theme.NewCachedStore(dirStore, cfg.Manifest.CacheTTL, cfg.Manifest.CacheSize)
	}

	mgr := &theme.Manager{
		BaseDir: cfg.Theme.BaseDir,
		Public:  public,
		RootURL: cfg.Theme.RootURL,
		Logger:  logOut,
	}
	defaultTheme, err := mgr.Load(cfg.Theme.Name)
	if err != nil {
		logOut.Fatalw("default theme failed to load", "theme", cfg.Theme.Name, "err", err)
	}

	//
	// ── 2.  Optional per-host theme lookup ─────────────────────────────
	//
	var lookup tenant.ThemeLookup
	if cfg.Database.GlobalDSN != "" {
		db, err := openGlobalDB(ctx, cfg.Database, logOut)
		if err != nil {
			logOut.Fatalw("connect global DB", "err", err)
		}
		defer db.Close()
		lookup = site.Lookup{DB: db}
		logOut.Infow("global DB online, per-host themes enabled")
	}

	themes := tenant.New(lookup, mgr, cfg.Theme.Name, cfg.Theme.IdleTTL, logOut)
	defer themes.Close()
	themes.Prime(defaultTheme)

	//
	// ── 3.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP,
		middleware.Security(newRouter(themes, cfg.Theme.PublicDir, logOut)))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr, "theme", cfg.Theme.Name)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("server stopped")
}

// openGlobalDB fills the DSN's %s verb with the password, resolving a
// vault: reference first when present.
func openGlobalDB(ctx context.Context, cfg config.Database, log *zap.SugaredLogger) (*sqlx.DB, error) {
	pw := cfg.GlobalPassword
	if vault.IsRef(pw) {
		cli, err := vault.New(log.Infof)
		if err != nil {
			return nil, err
		}
		if pw, err = cli.Resolve(ctx, pw); err != nil {
			return nil, err
		}
	}
	dsn := strings.Replace(cfg.GlobalDSN, "%s", pw, 1)
	return database.Open(ctx, dsn)
}
