package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	AppURL      string `envconfig:"APP_URL" default:"http://localhost:3000"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	DBMaxConns         int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	AutoMigrate        bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"720h"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Google sign-in
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/api/auth/google/callback"`

	// Stripe
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeProPriceID    string `envconfig:"STRIPE_PRO_PRICE_ID"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Razorpay
	RazorpayKeyID         string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `envconfig:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `envconfig:"RAZORPAY_WEBHOOK_SECRET"`
	RazorpayPlanIDINR     string `envconfig:"RAZORPAY_PLAN_ID_INR"`
	RazorpayPlanIDUSD     string `envconfig:"RAZORPAY_PLAN_ID_USD"`

	// Avatar storage. Uploads fall back to data URLs when unset.
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	// Billing events
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubBillingTopic string `envconfig:"PUBSUB_BILLING_TOPIC" default:"billing-events"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// Analytics
	PageViewDedupWindow    time.Duration `envconfig:"PAGE_VIEW_DEDUP_WINDOW" default:"0s"`
	AnalyticsRetentionDays int           `envconfig:"ANALYTICS_RETENTION_DAYS" default:"0"`
	RetentionInterval      time.Duration `envconfig:"RETENTION_INTERVAL" default:"24h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != "" && c.StripeProPriceID != ""
}

func (c *Config) RazorpayEnabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) PubSubEnabled() bool {
	return c.GCPProjectID != ""
}

// RazorpayPlanID returns the recurring plan configured for a currency, or "".
func (c *Config) RazorpayPlanID(currency string) string {
	if currency == "INR" {
		return c.RazorpayPlanIDINR
	}
	return c.RazorpayPlanIDUSD
}
