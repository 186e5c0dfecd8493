package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-enroll"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

type App struct {
	config *Config
	bunDB  *bun.DB
	repo   enroll.RepositoryManager
	auth   enroll.Authenticator
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("enrolld"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := LoadConfig()
	if err != nil {
		lgr.Error("config load failed", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		lgr.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Redacted()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		lgr.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		lgr.Error("http setup failed", "error", err)
		os.Exit(1)
	}

	app.srv.Serve(app.config.HTTPAddr)

	WaitExitSignal()

	if err := app.bunDB.Close(); err != nil {
		lgr.Error("database close failed", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	logger := app.GetLogger("persistence")

	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// one writer connection keeps sqlite transactions serialized
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := enroll.SeedActivities(ctx, db, logger); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}

	repo := enroll.NewRepositoryManager(db)
	repo.MustValidate()

	app.bunDB = db
	app.repo = repo

	return nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrationsFS, err := fs.Sub(enroll.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(migrationsFS); err != nil {
		return err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "enrolld",
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	userProvider := enroll.NewUserProvider(userTrackerAdapter{users: app.repo.Users()})
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	authenticator := enroll.NewAuthenticator(userProvider, app.config)
	authenticator.WithLogger(app.GetLogger("auth:authz"))

	app.auth = authenticator

	protected := enroll.ProtectedRoute(
		authenticator,
		app.config,
		enroll.UnauthorizedErrorHandler(app.GetLogger("auth:http")),
	)

	r := srv.Router()

	enroll.RegisterEnrollmentRoutes(r,
		enroll.WithEnrollmentRepo(app.repo),
		enroll.WithEnrollmentLogger(app.GetLogger("enroll:ctrl")),
	)

	enroll.RegisterAuthRoutes(r, protected,
		enroll.WithAuthRepo(app.repo),
		enroll.WithAuthAuther(authenticator),
		enroll.WithAuthLogger(app.GetLogger("auth:ctrl")),
		enroll.WithAuthContextKey(app.config.GetContextKey()),
	)

	app.srv = srv

	return nil
}

type userTrackerAdapter struct {
	users enroll.Users
}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*enroll.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *enroll.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userTrackerAdapter) TrackSuccessfulLogin(ctx context.Context, user *enroll.User) error {
	return a.users.TrackSuccessfulLogin(ctx, user)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
