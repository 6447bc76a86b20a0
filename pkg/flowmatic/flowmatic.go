package flowmatic

import (
	"database/sql"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/flowmatic/flowmatic/internal/actions"
	"github.com/flowmatic/flowmatic/internal/config"
	"github.com/flowmatic/flowmatic/internal/controllers"
	"github.com/flowmatic/flowmatic/internal/engine"
	"github.com/flowmatic/flowmatic/internal/migrations"
	"github.com/flowmatic/flowmatic/internal/repository"
	"github.com/flowmatic/flowmatic/internal/schema"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lmittmann/tint"

	_ "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Start boots the workflow engine, worker pool and HTTP server. Pass a mux to
// mount additional routes on the same server; pass nil to get a fresh one.
// This call blocks until the HTTP server stops.
func Start(mux *http.ServeMux) error {

	databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
	if databaseType == "" || (databaseType != config.DATABASE_TYPE_POSTGRES && databaseType != config.DATABASE_TYPE_MYSQL && databaseType != config.DATABASE_TYPE_SQLLITE) {
		panic("FMATIC_DATABASE_TYPE must be set to one of the following values: POSTGRES, MYSQL, SQLLITE")
	}

	var db *sql.DB
	if databaseType == config.DATABASE_TYPE_POSTGRES {
		db = setupPostgresDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_SQLLITE {
		db = setupSqlLiteDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_MYSQL {
		db = setupMysqlDatabase()
		defer db.Close()
	}

	clock := &core.RealClock{}
	workflowRepo := repository.NewWorkflowRepository(db, clock)
	executionRepo := repository.NewExecutionRepository(db, clock)
	notificationRepo := repository.NewNotificationRepository(db, clock)

	handlerSettings, err := config.LoadHandlerSettings()
	if err != nil {
		slog.Error("Loading handler settings failed", "error", err)
		return err
	}

	registry := actions.NewRegistry()
	registry.Register(actions.NewWebhookHandler(handlerSettings.DefaultTimeout))
	registry.Register(actions.NewEmailHandler(handlerSettings))
	registry.Register(actions.NewSMSHandler(handlerSettings))
	registry.Register(actions.NewDelayHandler(clock))
	registry.Register(actions.NewNotificationHandler(notificationRepo, clock))
	registry.Register(actions.NewDatabaseHandler(db))
	registry.Register(actions.NewTransformHandler())
	slog.Info("Registered action handlers", "kinds", registry.Kinds())

	runner := engine.NewRunner(executionRepo, notificationRepo, registry, clock)

	queueSize := config.GetSystemSettingInteger(config.ENGINE_RUN_QUEUE_SIZE)
	runQueue := make(chan engine.RunRequest, queueSize)
	executorSize := config.GetSystemSettingInteger(config.ENGINE_EXECUTOR_SIZE)
	for i := 0; i < executorSize; i++ {
		go engine.Worker(i, runner, runQueue)
	}
	slog.Info("Started workers", "count", executorSize, "queueSize", queueSize)

	validator, err := schema.NewValidator()
	if err != nil {
		slog.Error("Compiling workflow schema failed", "error", err)
		return err
	}

	if mux == nil {
		mux = http.NewServeMux()
	}
	auth := controllers.NewAuthController()
	workflowsController := controllers.NewWorkflowsController(workflowRepo, validator, runner, auth)
	workflowsController.RegisterRoutes(mux)
	executionsController := controllers.NewExecutionsController(executionRepo, auth)
	executionsController.RegisterRoutes(mux)
	notificationsController := controllers.NewNotificationsController(notificationRepo, auth)
	notificationsController.RegisterRoutes(mux)
	hooksController := controllers.NewHooksController(workflowRepo, runQueue)
	hooksController.RegisterRoutes(mux)

	addr := ":" + config.GetSystemSettingString(config.ENGINE_SERVER_WEB_PORT)
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		addr = v
	}
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}

func setupPostgresDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FMATIC_DATABASE_URL must be set when using the POSTGRES database type")
	}
	slog.Info("Using Postgres database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("postgres", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening Postgres database")
	dbPostgres, err := sql.Open("postgres", dbURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbPostgres
}

func setupSqlLiteDatabase() *sql.DB {
	fileName := config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
	if fileName == "" {
		panic("FMATIC_DATABASE_SQLLITE_FILE_NAME must be set")
	}
	dbURL := "sqlite3://" + fileName
	slog.Info("Using SQLite database", "file", fileName)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("sqllite3", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening SQLite database")
	dbSqlLite, err := sql.Open("sqlite3", fileName)
	if err != nil {
		log.Fatalf("Failed to open SQLite DB: %v", err)
	}
	if err := dbSqlLite.Ping(); err != nil {
		log.Fatalf("Failed to ping SQLite DB: %v", err)
	}
	return dbSqlLite
}

func setupMysqlDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FMATIC_DATABASE_URL must be set when using the MYSQL database type")
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		panic("FMATIC_DATABASE_URL must contain 'parseTime=true' for MySQL")
	}
	if !strings.HasPrefix(dbURL, "mysql://") {
		panic("FMATIC_DATABASE_URL must start with 'mysql://' for MySQL")
	}

	slog.Info("Using MySQL database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("mysql", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening MySQL database")
	dbMysql, err := sql.Open("mysql", strings.Replace(dbURL, "mysql://", "", 1))
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbMysql
}

func runMigrationsFromEmbed(migrationsPath string, dbURL string) error {
	sub, err := fs.Sub(migrations.FS, migrationsPath)
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func SetupLogger() {
	w := os.Stderr
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}
