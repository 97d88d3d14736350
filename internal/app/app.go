// Package app owns the process-wide application context: every long-lived
// component, built in a fixed order by New and torn down in reverse by Close.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/DPR2204/atiexg-sub001/internal/board"
	"github.com/DPR2204/atiexg-sub001/internal/cache"
	"github.com/DPR2204/atiexg-sub001/internal/config"
	"github.com/DPR2204/atiexg-sub001/internal/events"
	"github.com/DPR2204/atiexg-sub001/internal/logging"
	"github.com/DPR2204/atiexg-sub001/internal/notify"
	"github.com/DPR2204/atiexg-sub001/internal/realtime"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
	"github.com/DPR2204/atiexg-sub001/internal/service"
	"github.com/DPR2204/atiexg-sub001/migrations"
)

// Tables the realtime feed is subscribed to.
const (
	tableReservations = "reservations"
	tablePassengers   = "reservation_passengers"
	tableBoats        = "boats"
	tableStaff        = "staff"
)

// dashboardPrefix namespaces dashboard keys in Redis.
const dashboardPrefix = "atitlan:dashboard"

// App is the application context. Fields are read-only after New returns.
type App struct {
	Config config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool

	Agents       *service.AgentService
	Reservations *service.ReservationService
	Logistics    *service.LogisticsService
	Dashboard    *service.DashboardService
	Boats        *service.BoatService
	Staff        *service.StaffService
	Suppliers    *service.SupplierService
	Notes        *service.DailyNoteService
	Autosaver    *service.Autosaver
	Boards       *board.Set
	Syncer       *realtime.Syncer

	logOut    io.Closer
	redis     *redis.Client
	cache     *cache.Redis
	publisher *events.Publisher
}

// New builds the application context: logger, database (plus migrations when
// AUTO_MIGRATE is set), agent session, services, optional cache and broker,
// boards and finally the realtime sync adapter. Redis and RabbitMQ are
// optional: a failed connection is logged and the feature runs disabled.
// On error everything built so far is closed.
func New(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// --- Logger -----------------------------------------------------------
	a.Log, a.logOut = logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	slog.SetDefault(a.Log)

	// --- Database ---------------------------------------------------------
	a.Pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app.New: create database pool: %w", err)
	}
	if err = a.Pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("app.New: connect to database: %w", err)
	}
	a.Log.Info("database connection established")

	if cfg.AutoMigrate {
		if err = migrate(ctx, a.Pool, a.Log); err != nil {
			return nil, err
		}
	}

	// --- Agent session and services --------------------------------------
	reservations := repo.NewReservationRepo(a.Pool)
	boats := repo.NewBoatRepo(a.Pool)
	staff := repo.NewStaffRepo(a.Pool)

	a.Agents = service.NewAgentService(repo.NewAgentRepo(a.Pool))
	a.Reservations = service.NewReservationService(reservations, repo.NewAuditRepo(a.Pool), a.Log)
	a.Boats = service.NewBoatService(boats)
	a.Staff = service.NewStaffService(staff)
	a.Suppliers = service.NewSupplierService(repo.NewSupplierRepo(a.Pool))
	a.Notes = service.NewDailyNoteService(repo.NewDailyNoteRepo(a.Pool))
	a.Logistics = service.NewLogisticsService(reservations, boats, staff, a.Notes, cfg.DefaultBoatCapacity)

	// --- Optional cache and broker ----------------------------------------
	var dashboardCache service.Cache
	if cfg.RedisURL != "" {
		if client, cerr := cache.Connect(ctx, cfg.RedisURL); cerr != nil {
			a.Log.Warn("redis unavailable, dashboard cache disabled", "error", cerr)
		} else {
			a.redis = client
			a.cache = cache.New(client, dashboardPrefix, cfg.DashboardCacheTTL)
			dashboardCache = a.cache
		}
	}
	a.Dashboard = service.NewDashboardService(reservations, dashboardCache, a.Log)

	if cfg.AMQPURL != "" {
		if p, perr := events.Dial(cfg.AMQPURL, a.Log); perr != nil {
			a.Log.Warn("broker unavailable, status events disabled", "error", perr)
		} else {
			a.publisher = p
			a.Reservations.WithPublisher(p)
		}
	}

	// --- Boards, realtime, autosave ---------------------------------------
	a.Boards = board.NewSet(a.Reservations, a.Reservations, notify.Log{Logger: a.Log}, a.Log)

	a.Syncer = realtime.NewSyncer(realtime.NewPGFeed(a.Pool, a.Log), cfg.RealtimeDebounce, a.Log)
	a.Syncer.Subscribe(realtime.Subscription{Table: tableReservations, Delay: cfg.RealtimeUrgentDebounce})
	a.Syncer.Subscribe(realtime.Subscription{Table: tablePassengers})
	a.Syncer.Subscribe(realtime.Subscription{Table: tableBoats})
	a.Syncer.Subscribe(realtime.Subscription{Table: tableStaff})
	a.Syncer.OnChange(a.refetch)
	a.Syncer.Start(context.WithoutCancel(ctx))

	a.Autosaver = service.NewAutosaver(a.Notes, cfg.NoteAutosaveDelay, a.Log)

	return a, nil
}

// refetch reacts to a settled burst of changes: open boards reload their
// snapshot and cached dashboards are dropped when reservation data moved.
func (a *App) refetch(ctx context.Context, table string) {
	if a.Boards != nil {
		if err := a.Boards.Refresh(ctx); err != nil {
			a.Log.WarnContext(ctx, "realtime board refresh failed", "table", table, "error", err)
		}
	}
	if a.cache == nil || (table != tableReservations && table != tablePassengers) {
		return
	}
	n, err := a.cache.InvalidateAll(ctx)
	if err != nil {
		a.Log.WarnContext(ctx, "dashboard cache invalidation failed", "error", err)
		return
	}
	a.Log.DebugContext(ctx, "dashboard cache invalidated", "keys", n)
}

// Close tears the context down in reverse order of construction. It is safe
// on a partially built App.
func (a *App) Close() {
	if a.Syncer != nil {
		a.Syncer.Close()
	}
	if a.Autosaver != nil {
		a.Autosaver.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Log.Warn("broker close failed", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Log != nil {
		a.Log.Info("application stopped")
	}
	if a.logOut != nil {
		_ = a.logOut.Close()
	}
}

// migrate applies pending goose migrations over the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("app.migrate: create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("app.migrate: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return nil
}
