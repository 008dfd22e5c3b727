package config

import (
	"os"
	"strconv"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type AIConfig struct {
	AnthropicAPIKey string
	GeminiAPIKey    string
	ReplicateToken  string
}

type WorkerConfig struct {
	// PoolSize bounds how many generations execute concurrently.
	PoolSize int
	// QueueSize bounds how many accepted jobs may wait for a worker.
	QueueSize int
	// TextureConcurrency bounds per-job texture image fan-out.
	TextureConcurrency int
}

type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	FrontendURL string

	R2     R2Config
	Stripe StripeConfig
	AI     AIConfig
	Worker WorkerConfig

	EmailFromAddress string
	ResendAPIKey     string

	// RefundOnFailure controls whether a failed generation credits back its
	// reserved amount. Off by default: the historical behavior keeps the
	// debit and leaves refunds to operators.
	RefundOnFailure bool

	// PaymentDedup controls whether payment webhooks are deduplicated by
	// payment reference. Off by default: replays double-credit.
	PaymentDedup bool
}

func LoadConfig() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),

		RefundOnFailure: getEnvBool("REFUND_ON_FAILURE", false),
		PaymentDedup:    getEnvBool("PAYMENT_DEDUP", false),
	}

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.AI.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.ReplicateToken = os.Getenv("REPLICATE_API_TOKEN")

	cfg.Worker.PoolSize = getEnvInt("WORKER_POOL_SIZE", 4)
	cfg.Worker.QueueSize = getEnvInt("WORKER_QUEUE_SIZE", 64)
	cfg.Worker.TextureConcurrency = getEnvInt("TEXTURE_CONCURRENCY", 4)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
