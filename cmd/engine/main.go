package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recruitpipe/internal/auth"
	"recruitpipe/internal/config"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/events"
	"recruitpipe/internal/httpapi"
	"recruitpipe/internal/logger"
	"recruitpipe/internal/match"
	"recruitpipe/internal/notify"
	"recruitpipe/internal/scheduler"
	"recruitpipe/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := os.Getenv("RECRUITPIPE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	log, err := logger.New(os.Getenv("RECRUITPIPE_LOG_JSON") == "1", os.Getenv("RECRUITPIPE_DEBUG") == "1")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// One engine per data dir; a second process would fight over the sqlite
	// file and the requisition counters.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("another engine instance holds " + dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		normalized, vr := config.NormalizeAndValidate(raw)
		for _, w := range vr.Warnings {
			log.Warn("config", zap.String("warning", w))
		}
		if !vr.OK() {
			return config.Config{}, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "recruitpipe.db")
	sdb, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer sdb.Close()
	db := sdb.Pool

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureTenant(ctx, db, "default", "Default"); err != nil {
		return err
	}
	if err := applySeed(ctx, db, filepath.Join(dataDir, "seed.yml"), log); err != nil {
		return err
	}

	hub := events.NewHub()
	fanout := notify.New(db, hub, log)
	engine := match.NewEngine(match.RuleProvider{Cfg: cfg}, log)
	authSvc := &auth.Service{
		DB:            db,
		TTL:           time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute,
		BootstrapUser: cfg.Auth.BootstrapUser,
		Log:           log,
	}

	router := httpapi.NewRouter(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		Fanout:      fanout,
		Engine:      engine,
		Auth:        authSvc,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Log:         log,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("engine listening", zap.String("addr", "http://"+addr), zap.String("db", dbPath))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	// Unread-count digest keeps every connected client within the staleness
	// bound even when individual events were dropped.
	g.Go(func() error {
		interval := time.Duration(cfg.Notifications.DigestSeconds) * time.Second
		scheduler.Every(gctx, interval, "notification_digest", fanout.BroadcastDigest, log)
		return nil
	})

	g.Go(func() error {
		scheduler.Every(gctx, time.Hour, "retention_sweep", func(context.Context) error {
			cur := cfgVal.Load().(config.Config)
			if n, err := store.CleanupReadNotifications(db, cur.Notifications.RetentionDays); err != nil {
				return err
			} else if n > 0 {
				log.Info("notifications pruned", zap.Int64("deleted", n))
			}
			if n, err := store.DeleteExpiredSessions(db); err != nil {
				return err
			} else if n > 0 {
				log.Info("sessions pruned", zap.Int64("deleted", n))
			}
			return nil
		}, log)
		return nil
	})

	return g.Wait()
}

// applySeed loads optional first-run reference data: companies, sites and
// recruiter accounts. It only runs against an empty store, so restarting the
// engine never duplicates rows. Seeded recruiters have no password yet; they
// log in once an admin sets one, or via the bootstrap credential.
func applySeed(ctx context.Context, db *sql.DB, path string, log *zap.Logger) error {
	existing, err := store.ListCompanies(ctx, db, "default")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	sf, err := config.LoadSeed(path)
	if err != nil {
		return fmt.Errorf("seed load (%s): %w", path, err)
	}

	for _, c := range sf.Companies {
		created, err := store.InsertCompany(ctx, db, domain.Company{TenantID: "default", Name: c.Name})
		if err != nil {
			return err
		}
		for _, s := range c.Sites {
			if _, err := store.InsertSite(ctx, db, domain.Site{
				TenantID:  "default",
				CompanyID: created.ID,
				Name:      s.Name,
				City:      s.City,
				Country:   s.Country,
			}); err != nil {
				return err
			}
		}
	}
	for _, r := range sf.Recruiters {
		if _, err := store.UpsertRecruiter(ctx, db, domain.Recruiter{
			TenantID: "default",
			Username: r.Username,
			Role:     r.Role,
		}); err != nil {
			return err
		}
	}
	if n := len(sf.Companies) + len(sf.Recruiters); n > 0 {
		log.Info("seed applied",
			zap.Int("companies", len(sf.Companies)),
			zap.Int("recruiters", len(sf.Recruiters)))
	}
	return nil
}
