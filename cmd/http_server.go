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

	"expense-approval/internal"
	auditlogPostgres "expense-approval/internal/auditlog/postgres"
	"expense-approval/internal/auth"
	authPostgres "expense-approval/internal/auth/postgres"
	"expense-approval/internal/budget"
	budgetPostgres "expense-approval/internal/budget/postgres"
	"expense-approval/internal/category"
	categoryPostgres "expense-approval/internal/category/postgres"
	"expense-approval/internal/comment"
	commentPostgres "expense-approval/internal/comment/postgres"
	"expense-approval/internal/core/events"
	"expense-approval/internal/expense"
	expensePostgres "expense-approval/internal/expense/postgres"
	"expense-approval/internal/transport/middleware"
	"expense-approval/internal/transport/rest"
	"expense-approval/internal/transport/swagger"
	"expense-approval/internal/user"
	userPostgres "expense-approval/internal/user/postgres"
	"expense-approval/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const openAPISpecPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format)
	lg := logger.L()

	if err := swagger.ValidateSpec(context.Background(), openAPISpecPath); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx connection pool instead of opening its own
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	registerEventHandlers(bus, lg)

	// repositories
	userRepo := userPostgres.NewUserRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)
	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	auditRepo := auditlogPostgres.NewAuditLogRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	budgetRepo := budgetPostgres.NewBudgetRepository(gormDB)
	commentRepo := commentPostgres.NewCommentRepository(gormDB)

	// services
	userService := user.NewService(userRepo, lg)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	expenseService := expense.NewService(expenseRepo, auditRepo, userService, bus, lg)
	categoryService := category.NewService(categoryRepo, lg)
	budgetService := budget.NewService(budgetRepo, lg)
	commentService := comment.NewService(commentRepo, expenseRepo, lg)

	router := chi.NewRouter()
	router.Use(middleware.LoggingMiddleware(lg))

	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:     auth.NewHandler(authService),
		User:     user.NewHandler(userService),
		Expense:  expense.NewHandler(expenseService),
		Category: category.NewHandler(categoryService),
		Budget:   budget.NewHandler(budgetService),
		Comment:  comment.NewHandler(commentService),
	}, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// registerEventHandlers wires the workflow notifications. Handlers are
// best-effort listeners; state transitions never depend on them.
func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeExpenseSubmitted, func(ctx context.Context, e events.Event) error {
		lg.Info("expense submitted for review", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeExpenseApproved, func(ctx context.Context, e events.Event) error {
		lg.Info("expense approved", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeExpenseRejected, func(ctx context.Context, e events.Event) error {
		lg.Info("expense rejected", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
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
