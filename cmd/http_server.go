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

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/auth"
	authPostgres "github.com/frahmantamala/idea-portal/internal/auth/postgres"
	"github.com/frahmantamala/idea-portal/internal/idea"
	ideaPostgres "github.com/frahmantamala/idea-portal/internal/idea/postgres"
	"github.com/frahmantamala/idea-portal/internal/notification"
	notificationPostgres "github.com/frahmantamala/idea-portal/internal/notification/postgres"
	"github.com/frahmantamala/idea-portal/internal/otp"
	"github.com/frahmantamala/idea-portal/internal/tasks"
	"github.com/frahmantamala/idea-portal/internal/transport"
	"github.com/frahmantamala/idea-portal/internal/transport/rest"
	"github.com/frahmantamala/idea-portal/internal/user"
	userPostgres "github.com/frahmantamala/idea-portal/internal/user/postgres"
	"github.com/frahmantamala/idea-portal/pkg/logger"
	"github.com/frahmantamala/idea-portal/pkg/queue"
	"github.com/go-chi/chi"
	"github.com/hibiken/asynq"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
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
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Redis  *redis.Client
	Queue  *asynq.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

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

	// Signal handling for graceful shutdown
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
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	tickets := auth.NewTicketManager(cfg.Security.JWTSecret, cfg.Security.TicketDuration)
	authService := auth.NewService(
		authPostgres.NewRepository(deps.DB),
		tickets,
		otp.NewStore(deps.Redis),
		tasks.NewDispatcher(deps.Queue, deps.Logger),
		deps.Logger,
		auth.Options{
			AllowedDomain: cfg.Security.AllowedEmailDomain,
			OTPTTL:        cfg.Security.OTPTTL,
			BCryptCost:    cfg.Security.BCryptCost,
		},
	)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.Logger, cfg.Security.BCryptCost)
	ideaService := idea.NewService(ideaPostgres.NewIdeaRepository(deps.Gorm), deps.Logger)
	notificationService := notification.NewService(notificationPostgres.NewNotificationRepository(deps.Gorm), deps.Logger)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:       rest.NewHealthHandler(deps.DB, deps.Redis),
		Auth:         auth.NewHandler(base, authService),
		User:         user.NewHandler(base, userService),
		Idea:         idea.NewHandler(base, ideaService),
		Notification: notification.NewHandler(base, notificationService),
	}, cfg.Server.Origins(), deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Redis:  rdb,
		Queue:  queue.NewClient(&config.Redis),
		Router: chi.NewRouter(),
	}, nil
}

func (d *Dependencies) Close() {
	if d.Queue != nil {
		if err := d.Queue.Close(); err != nil {
			d.Logger.Error("Queue close error", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}
