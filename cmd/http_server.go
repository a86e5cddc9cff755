package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/announcement"
	announcementPostgres "github.com/frahmantamala/police-portal/internal/announcement/postgres"
	"github.com/frahmantamala/police-portal/internal/auth"
	"github.com/frahmantamala/police-portal/internal/core/events"
	"github.com/frahmantamala/police-portal/internal/department"
	departmentPostgres "github.com/frahmantamala/police-portal/internal/department/postgres"
	"github.com/frahmantamala/police-portal/internal/discord"
	"github.com/frahmantamala/police-portal/internal/mailer"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/password"
	"github.com/frahmantamala/police-portal/internal/passwordreset"
	passwordresetPostgres "github.com/frahmantamala/police-portal/internal/passwordreset/postgres"
	"github.com/frahmantamala/police-portal/internal/personnel"
	personnelPostgres "github.com/frahmantamala/police-portal/internal/personnel/postgres"
	"github.com/frahmantamala/police-portal/internal/ratelimit"
	"github.com/frahmantamala/police-portal/internal/report"
	reportPostgres "github.com/frahmantamala/police-portal/internal/report/postgres"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/frahmantamala/police-portal/internal/transport/rest"
	"github.com/frahmantamala/police-portal/internal/transport/swagger"
	"github.com/frahmantamala/police-portal/internal/upload"
	"github.com/frahmantamala/police-portal/internal/user"
	userPostgres "github.com/frahmantamala/police-portal/internal/user/postgres"
	"github.com/frahmantamala/police-portal/internal/wanted"
	wantedPostgres "github.com/frahmantamala/police-portal/internal/wanted/postgres"
	"github.com/frahmantamala/police-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

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
	Gorm     *gorm.DB
	Redis    *redis.Client
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	ctx := context.Background()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(ctx, deps); err != nil {
		deps.Logger.Error("failed to wire routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Server.Env)

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(shutdownCtx); err != nil {
			deps.Logger.Error("Event handlers did not drain", "error", err)
		}
		deps.close()
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("Redis close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// setupRoutes builds every service on top of the shared stores and mounts
// their handlers. The bootstrap admin is ensured before traffic is accepted.
func setupRoutes(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	var metrics *observability.Metrics
	if cfg.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = observability.NewMetrics(registry)
	}

	limiter := newLimiter(cfg, deps.Redis)
	hasher := password.NewHasher(cfg.Security.BCryptCost)
	base := transport.NewBaseHandler(lg)

	users := userPostgres.NewUserRepository(deps.Gorm)
	userService := user.NewService(users, hasher, lg)
	if created, err := userService.EnsureAdmin(ctx, cfg.Security.AdminDefaultPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	} else if created {
		lg.Warn("bootstrap admin created with the default password; change it after first login")
	}

	sessions := session.NewStore(deps.Redis, cfg.Redis.KeyPrefix, cfg.Security.SessionTTL)
	cookies := session.NewCookieCodec(cfg.Security.SessionSecret, cfg.Security.CookieName, cfg.Security.CookieSecure, cfg.Security.SessionTTL)
	authService := auth.NewService(users, sessions, hasher, limiter, metrics, lg)

	mail, err := newMailer(cfg.Mail, lg)
	if err != nil {
		return err
	}
	mail.RegisterEventHandlers(deps.EventBus)

	resetService := passwordreset.NewService(
		passwordresetPostgres.NewTokenRepository(deps.Gorm),
		users,
		hasher,
		deps.EventBus,
		cfg.Server.BaseURL,
		lg,
		passwordreset.WithRateLimiter(limiter),
		passwordreset.WithMetrics(metrics),
	)

	var reportOpts []report.Option
	if cfg.Discord.VerifyReports {
		verifier, err := discord.NewVerifier(cfg.Discord.BotToken, cfg.Discord.GuildID, lg)
		if err != nil {
			return fmt.Errorf("discord verifier: %w", err)
		}
		reportOpts = append(reportOpts, report.WithMembershipCheck(verifier))
	}

	presigner, err := upload.NewPresigner(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("upload presigner: %w", err)
	}
	if !cfg.Storage.Configured() {
		lg.Warn("storage bucket not configured; upload url requests will fail")
	}

	spec, err := swagger.LoadSpec(ctx, cfg.Server.OpenAPIPath)
	if err != nil {
		lg.Warn("openapi spec unavailable; swagger ui disabled", "path", cfg.Server.OpenAPIPath, "error", err)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Routes{
		Logger:         lg,
		AllowedOrigins: cfg.Server.Origins(),
		Metrics:        metrics,
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPISpec:    spec,
		Health:         rest.NewHealthHandler(deps.DB, deps.Redis),

		Authorizer:    auth.NewAuthorizer(base, authService, cookies, metrics),
		Auth:          auth.NewHandler(base, authService, cookies),
		Users:         user.NewHandler(base, userService),
		PasswordReset: passwordreset.NewHandler(base, resetService),
		Uploads:       upload.NewHandler(base, upload.NewService(presigner, limiter, lg)),
		Departments:   department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(deps.Gorm), lg)),
		Announcements: announcement.NewHandler(base, announcement.NewService(announcementPostgres.NewAnnouncementRepository(deps.Gorm), lg)),
		Wanted:        wanted.NewHandler(base, wanted.NewService(wantedPostgres.NewWantedRepository(deps.Gorm), lg)),
		Reports:       report.NewHandler(base, report.NewService(reportPostgres.NewReportRepository(deps.Gorm), lg, reportOpts...)),
		Personnel:     personnel.NewHandler(base, personnel.NewService(personnelPostgres.NewPersonnelRepository(deps.Gorm), lg)),
	})
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	rdb, err := initRedis(ctx, config.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Redis:    rdb,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm reuses the sqlx pool so both layers share one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}

func initRedis(ctx context.Context, cfg internal.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// newLimiter always returns a limiter; with rate limiting disabled it has no
// rules and every Allow passes.
func newLimiter(cfg *internal.Config, client redis.UniversalClient) *ratelimit.Limiter {
	return ratelimit.NewLimiter(client, cfg.Redis.KeyPrefix, rateLimitRules(cfg.RateLimit))
}

func rateLimitRules(cfg internal.RateLimitConfig) map[ratelimit.Scope]ratelimit.Rule {
	if !cfg.Enabled {
		return map[ratelimit.Scope]ratelimit.Rule{}
	}
	return map[ratelimit.Scope]ratelimit.Rule{
		ratelimit.ScopeLogin:  {Attempts: cfg.LoginAttempts, Window: cfg.LoginWindow},
		ratelimit.ScopeForgot: {Attempts: cfg.ResetAttempts, Window: cfg.ResetWindow},
		ratelimit.ScopeUpload: {Attempts: cfg.UploadAttempts, Window: cfg.UploadWindow},
	}
}

// newMailer delivers over SMTP when mail is enabled and logs messages otherwise.
func newMailer(cfg internal.MailConfig, lg *slog.Logger) (*mailer.Mailer, error) {
	if !cfg.Enabled {
		return mailer.NewMailer(mailer.NewLogSender(lg), lg), nil
	}
	sender, err := mailer.NewSMTPSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("smtp sender: %w", err)
	}
	return mailer.NewMailer(sender, lg), nil
}
