package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Mail          MailConfig          `mapstructure:"mail"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Discord       DiscordConfig       `mapstructure:"discord"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Env               string        `mapstructure:"env"`
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type SecurityConfig struct {
	SessionSecret        string        `mapstructure:"session_secret" validate:"required,min=32"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	CookieName           string        `mapstructure:"cookie_name"`
	CookieSecure         bool          `mapstructure:"cookie_secure"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	AdminDefaultPassword string        `mapstructure:"admin_default_password"`
}

type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	LoginAttempts  int           `mapstructure:"login_attempts"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	ResetAttempts  int           `mapstructure:"reset_attempts"`
	ResetWindow    time.Duration `mapstructure:"reset_window"`
	UploadAttempts int           `mapstructure:"upload_attempts"`
	UploadWindow   time.Duration `mapstructure:"upload_window"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type StorageConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Region       string        `mapstructure:"region"`
	Bucket       string        `mapstructure:"bucket"`
	AccessKey    string        `mapstructure:"access_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	UsePathStyle bool          `mapstructure:"use_path_style"`
	PresignTTL   time.Duration `mapstructure:"presign_ttl"`
}

type DiscordConfig struct {
	VerifyReports bool   `mapstructure:"verify_reports"`
	BotToken      string `mapstructure:"bot_token"`
	GuildID       string `mapstructure:"guild_id"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ApplyDefaults fills the zero values a minimal config file leaves behind.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Server.OpenAPIPath == "" {
		c.Server.OpenAPIPath = "./api/openapi.yml"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "portal"
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 24 * time.Hour
	}
	if c.Security.CookieName == "" {
		c.Security.CookieName = "portal_session"
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Security.AdminDefaultPassword == "" {
		c.Security.AdminDefaultPassword = "1234"
	}
	if c.RateLimit.LoginAttempts == 0 {
		c.RateLimit.LoginAttempts = 10
	}
	if c.RateLimit.LoginWindow == 0 {
		c.RateLimit.LoginWindow = 15 * time.Minute
	}
	if c.RateLimit.ResetAttempts == 0 {
		c.RateLimit.ResetAttempts = 5
	}
	if c.RateLimit.ResetWindow == 0 {
		c.RateLimit.ResetWindow = time.Hour
	}
	if c.RateLimit.UploadAttempts == 0 {
		c.RateLimit.UploadAttempts = 30
	}
	if c.RateLimit.UploadWindow == 0 {
		c.RateLimit.UploadWindow = 10 * time.Minute
	}
	if c.Storage.PresignTTL == 0 {
		c.Storage.PresignTTL = 15 * time.Minute
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration for container deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Env:               getEnv("APP_ENV", "production"),
			Port:              getEnvAsInt("PORT", 5000),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", ""),
			OpenAPIPath:       getEnv("OPENAPI_PATH", "./api/openapi.yml"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "portal"),
		},
		Security: SecurityConfig{
			SessionSecret:        getEnv("SESSION_SECRET", ""),
			SessionTTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName:           getEnv("SESSION_COOKIE_NAME", "portal_session"),
			CookieSecure:         getEnvAsBool("SESSION_COOKIE_SECURE", true),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
			AdminDefaultPassword: getEnv("ADMIN_DEFAULT_PASSWORD", "1234"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			LoginAttempts:  getEnvAsInt("RATE_LIMIT_LOGIN_ATTEMPTS", 10),
			LoginWindow:    getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
			ResetAttempts:  getEnvAsInt("RATE_LIMIT_RESET_ATTEMPTS", 5),
			ResetWindow:    getEnvAsDuration("RATE_LIMIT_RESET_WINDOW", time.Hour),
			UploadAttempts: getEnvAsInt("RATE_LIMIT_UPLOAD_ATTEMPTS", 30),
			UploadWindow:   getEnvAsDuration("RATE_LIMIT_UPLOAD_WINDOW", 10*time.Minute),
		},
		Mail: MailConfig{
			Enabled:  getEnvAsBool("MAIL_ENABLED", false),
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			Username: getEnv("MAIL_USERNAME", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "Phantom RP <noreply@localhost>"),
		},
		Storage: StorageConfig{
			Endpoint:     getEnv("S3_ENDPOINT", ""),
			Region:       getEnv("S3_REGION", "us-east-1"),
			Bucket:       getEnv("S3_BUCKET", ""),
			AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("S3_SECRET_KEY", ""),
			UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", false),
			PresignTTL:   getEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
		Discord: DiscordConfig{
			VerifyReports: getEnvAsBool("DISCORD_VERIFY_REPORTS", false),
			BotToken:      getEnv("DISCORD_BOT_TOKEN", ""),
			GuildID:       getEnv("DISCORD_GUILD_ID", ""),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Redis.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("redis config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mail config: %v", err))
	}

	if err := c.Discord.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("discord config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				return errors.New("allowed_origins cannot contain * because session cookies are sent with credentials")
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins returns the trimmed allow-list; an empty list allows no cross-origin callers.
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	if c.SessionTTL < time.Minute {
		return errors.New("session_ttl must be at least 1m")
	}
	return nil
}

func (c *MailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return errors.New("host is required when mail is enabled")
	}
	if c.From == "" {
		return errors.New("from is required when mail is enabled")
	}
	return nil
}

func (c *DiscordConfig) Validate() error {
	if c.VerifyReports && (c.BotToken == "" || c.GuildID == "") {
		return errors.New("bot_token and guild_id are required when verify_reports is enabled")
	}
	return nil
}

// Configured reports whether uploads can be presigned.
func (c *StorageConfig) Configured() bool {
	return c.Bucket != ""
}
