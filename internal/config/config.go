package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port   string
	AppEnv string

	LogMode string

	DBDriver    string
	DatabaseURL string

	Generation GenerationConfig
	Email      EmailConfig
	Notify     NotifyConfig
	Checkout   CheckoutConfig
	RateLimit  RateLimitConfig

	FrontendURL string
	BaseURL     string
	Otel        OtelConfig
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

type GenerationConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
}

type EmailConfig struct {
	SendGridAPIKey  string
	SendGridBaseURL string
	FromEmail       string
	FromName        string
}

type NotifyConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

type CheckoutConfig struct {
	StripeSecretKey string
	DefaultAmount   int64
	Currency        string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads the process environment. Call godotenv.Load first to pick up a .env file.
func Load() Config {
	return Config{
		Port:        String("PORT", "8080"),
		AppEnv:      String("APP_ENV", "development"),
		LogMode:     String("LOG_MODE", "development"),
		DBDriver:    strings.ToLower(String("DB_DRIVER", "sqlite")),
		DatabaseURL: String("DATABASE_URL", "file:stack.db?_foreign_keys=on"),
		Generation: GenerationConfig{
			Provider:      strings.ToLower(String("GENERATION_PROVIDER", "gemini")),
			GeminiAPIKey:  String("GEMINI_API_KEY", ""),
			GeminiModel:   String("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			OpenAIAPIKey:  String("OPENAI_API_KEY", ""),
			OpenAIModel:   String("OPENAI_MODEL", "gpt-4o"),
			OpenAIBaseURL: String("OPENAI_BASE_URL", "https://api.openai.com"),
			Timeout:       time.Duration(Int("GENERATION_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Email: EmailConfig{
			SendGridAPIKey:  String("SENDGRID_API_KEY", ""),
			SendGridBaseURL: String("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
			FromEmail:       String("SENDGRID_FROM_EMAIL", "noreply@bizzai.com"),
			FromName:        String("SENDGRID_FROM_NAME", "Bizz AI"),
		},
		Notify: NotifyConfig{
			Workers:   Int("NOTIFY_WORKERS", 2),
			QueueSize: Int("NOTIFY_QUEUE_SIZE", 100),
			Timeout:   time.Duration(Int("NOTIFY_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Checkout: CheckoutConfig{
			StripeSecretKey: String("STRIPE_SECRET_KEY", ""),
			DefaultAmount:   int64(Int("CHECKOUT_DEFAULT_AMOUNT", 19700)),
			Currency:        strings.ToLower(String("CHECKOUT_CURRENCY", "brl")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       Bool("RATE_LIMIT_ENABLED", true),
			RedisAddr:     String("REDIS_ADDR", ""),
			RedisPassword: String("REDIS_PASSWORD", ""),
			RedisDB:       Int("REDIS_DB", 0),
		},
		FrontendURL: strings.TrimRight(String("FRONTEND_URL", "http://localhost:5000"), "/"),
		BaseURL:     strings.TrimRight(String("BASE_URL", "http://localhost:"+String("PORT", "8080")), "/"),
		Otel: OtelConfig{
			Enabled:     Bool("OTEL_ENABLED", false),
			Endpoint:    String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func Bool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
