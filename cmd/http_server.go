package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	authPostgres "github.com/frahmantamala/mediscript/internal/auth/postgres"
	"github.com/frahmantamala/mediscript/internal/core/events"
	"github.com/frahmantamala/mediscript/internal/formalizer"
	"github.com/frahmantamala/mediscript/internal/patient"
	patientPostgres "github.com/frahmantamala/mediscript/internal/patient/postgres"
	"github.com/frahmantamala/mediscript/internal/report"
	reportPostgres "github.com/frahmantamala/mediscript/internal/report/postgres"
	"github.com/frahmantamala/mediscript/internal/reporttemplate"
	templatePostgres "github.com/frahmantamala/mediscript/internal/reporttemplate/postgres"
	"github.com/frahmantamala/mediscript/internal/transport"
	"github.com/frahmantamala/mediscript/internal/transport/rest"
	"github.com/frahmantamala/mediscript/internal/transport/swagger"
	"github.com/frahmantamala/mediscript/internal/user"
	userPostgres "github.com/frahmantamala/mediscript/internal/user/postgres"
	"github.com/frahmantamala/mediscript/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight archive writes land before the pool goes away
		if err := deps.EventBus.Drain(ctx); err != nil {
			deps.Logger.Error("Event bus drain error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	baseHandler := transport.NewBaseHandler(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.GormDB), tokenGen, cfg.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(baseHandler, authService)
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg)

	userService := user.NewService(userPostgres.NewUserRepository(deps.GormDB), lg)
	patientService := patient.NewService(patientPostgres.NewPatientRepository(deps.DB), lg)
	templateService := reporttemplate.NewService(templatePostgres.NewTemplateRepository(deps.GormDB), lg)

	formalizerClient := formalizer.NewClient(formalizer.Config{
		BaseURL: cfg.Formalizer.BaseURL,
		APIKey:  cfg.Formalizer.APIKey,
		Model:   cfg.Formalizer.Model,
		Timeout: cfg.Formalizer.Timeout,
	}, lg)
	if !formalizerClient.Enabled() {
		lg.Warn("formalizer api key not set; formalize and suggest-diagnosis will fail")
	}

	report.NewArchiveHandler(reportPostgres.NewArchiveRepository(deps.GormDB), lg).RegisterEventHandlers(deps.EventBus)
	report.NewAuditHandler(lg).RegisterEventHandlers(deps.EventBus)

	reportService := report.NewService(
		report.NewSessionStore(),
		patientService,
		templateService,
		formalizerClient,
		deps.EventBus,
		report.Config{DateLayout: cfg.Report.DateLayout},
		lg,
	)
	authHandler.OnLogout(reportService.CloseForUser)

	healthHandler := rest.NewHealthHandler(deps.DB.DB)
	healthHandler.AddCheck("formalizer", func(context.Context) (map[string]any, error) {
		return map[string]any{"enabled": formalizerClient.Enabled(), "model": cfg.Formalizer.Model}, nil
	})

	var openAPIDoc []byte
	if raw, doc, err := swagger.Load(context.Background(), cfg.Server.OpenAPIPath); err != nil {
		lg.Warn("openapi document not served", "path", cfg.Server.OpenAPIPath, "error", err)
	} else {
		lg.Info("openapi document loaded", "title", doc.Info.Title, "version", doc.Info.Version)
		openAPIDoc = raw
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:     healthHandler,
		Auth:       authHandler,
		User:       user.NewHandler(baseHandler, userService),
		Patient:    patient.NewHandler(baseHandler, patientService),
		Template:   reporttemplate.NewHandler(baseHandler, templateService),
		Report:     report.NewHandler(baseHandler, reportService),
		RBAC:       rbac,
		OpenAPIDoc: openAPIDoc,
	}, cfg.Server, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: events.NewEventBus(lg),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm so both see the same limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
