package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Email    EmailConfig
	AWS      AWSConfig
	Stripe   StripeConfig
	NATS     NATSConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         int
	APIBasePath  string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CORSOrigins is empty or "*" to allow every origin
	CORSOrigins []string
}

// DatabaseConfig holds database settings. URL wins over the discrete fields when set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application settings
type AppConfig struct {
	Environment    string
	LogLevel       string
	CustomerLocale string
	AdminLocale    string
	WorkflowLocale string
	Timezone       string
	CompanyName    string
	ViewOrderURL   string
}

// EmailConfig holds mail transport settings
type EmailConfig struct {
	// Provider is one of smtp, ses or sendgrid
	Provider string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	From       string
	FromName   string
	AdminEmail string

	SendGridAPIKey string
}

// AWSConfig holds AWS credentials for SES
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// StripeConfig holds checkout settings
type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// NATSConfig holds NATS settings
type NATSConfig struct {
	Enabled       bool
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 3000),
			APIBasePath:  getEnv("API_BASE_PATH", "/api/sendEmail"),
			StaticDir:    getEnv("STATIC_DIR", "public"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "studentlife"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment:    getEnv("ENVIRONMENT", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			CustomerLocale: getEnv("CUSTOMER_EMAIL_LOCALE", "da"),
			AdminLocale:    getEnv("ADMIN_EMAIL_LOCALE", "en"),
			WorkflowLocale: getEnv("WORKFLOW_EMAIL_LOCALE", "en"),
			Timezone:       getEnv("EMAIL_TIMEZONE", "Europe/Copenhagen"),
			CompanyName:    getEnv("COMPANY_NAME", "Studentlife"),
			ViewOrderURL:   getEnv("VIEW_ORDER_URL", ""),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
			SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:       getEnvInt("SMTP_PORT", 587),
			SMTPUsername:   getEnv("EMAIL_USER", ""),
			SMTPPassword:   getEnv("EMAIL_PASS", ""),
			From:           getEnvWithFallback("EMAIL_FROM", "EMAIL_USER", ""),
			FromName:       getEnv("EMAIL_FROM_NAME", "Studentlife"),
			AdminEmail:     getEnv("ADMIN_EMAIL", "salg@studentlife.dk"),
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-north-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Stripe: StripeConfig{
			SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			Currency:   getEnv("CHECKOUT_CURRENCY", "dkk"),
			SuccessURL: getEnv("CHECKOUT_SUCCESS_URL", ""),
			CancelURL:  getEnv("CHECKOUT_CANCEL_URL", ""),
		},
		NATS: NATSConfig{
			Enabled:       getEnvBool("NATS_ENABLED", false),
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects: getEnvInt("NATS_MAX_RECONNECTS", -1),
			ReconnectWait: time.Duration(getEnvInt("NATS_RECONNECT_WAIT_SECONDS", 2)) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.APIBasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with /")
	}
	switch c.Email.Provider {
	case "smtp", "ses", "sendgrid":
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Email.Provider)
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsProduction reports whether the service runs in production
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvWithFallback(primaryKey, fallbackKey, defaultValue string) string {
	if value := os.Getenv(primaryKey); value != "" {
		return value
	}
	if value := os.Getenv(fallbackKey); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
