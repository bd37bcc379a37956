package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "API_BASE_PATH", "STATIC_DIR", "CORS_ALLOWED_ORIGINS",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"ENVIRONMENT", "LOG_LEVEL", "CUSTOMER_EMAIL_LOCALE", "ADMIN_EMAIL_LOCALE", "WORKFLOW_EMAIL_LOCALE",
	"EMAIL_TIMEZONE", "COMPANY_NAME", "VIEW_ORDER_URL",
	"MAIL_PROVIDER", "SMTP_HOST", "SMTP_PORT", "EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM", "EMAIL_FROM_NAME",
	"ADMIN_EMAIL", "SENDGRID_API_KEY",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	"STRIPE_SECRET_KEY", "CHECKOUT_CURRENCY", "CHECKOUT_SUCCESS_URL", "CHECKOUT_CANCEL_URL",
	"NATS_ENABLED", "NATS_URL", "NATS_MAX_RECONNECTS", "NATS_RECONNECT_WAIT_SECONDS",
}

// clearEnv blanks every key Load reads. Empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/api/sendEmail", cfg.Server.APIBasePath)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Empty(t, cfg.Server.CORSOrigins)

	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "salg@studentlife.dk", cfg.Email.AdminEmail)

	assert.Equal(t, "da", cfg.App.CustomerLocale)
	assert.Equal(t, "en", cfg.App.AdminLocale)
	assert.Equal(t, "en", cfg.App.WorkflowLocale)
	assert.Equal(t, "Europe/Copenhagen", cfg.App.Timezone)
	assert.False(t, cfg.App.IsProduction())

	assert.Equal(t, "dkk", cfg.Stripe.Currency)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
}

func TestLoad_EmailFromFallsBackToUser(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_USER", "orders@studentlife.dk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "orders@studentlife.dk", cfg.Email.From)
	assert.Equal(t, "orders@studentlife.dk", cfg.Email.SMTPUsername)

	t.Setenv("EMAIL_FROM", "noreply@studentlife.dk")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "noreply@studentlife.dk", cfg.Email.From)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MAIL_PROVIDER", "SES")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://studentlife.dk, ,https://elipsestudio.com")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, []string{"https://studentlife.dk", "https://elipsestudio.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown provider", key: "MAIL_PROVIDER", value: "pigeon"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "relative base path", key: "API_BASE_PATH", value: "api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "orders", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=orders sslmode=require", db.DSN())

	db.URL = "postgres://app:secret@db:5432/orders"
	assert.Equal(t, "postgres://app:secret@db:5432/orders", db.DSN())
}
