package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/HydraItalia/hydra-sub002/services"
)

type Config struct {
	Env      string
	DBSource string
	Port     string

	JWTSecret string
	JWTTTL    time.Duration

	// platform fee rate, basis points
	HydraFeeBps int

	PaymentMaxRetryAttempts int
	PaymentRetryBatch       int

	JobSecret           string
	StripeWebhookSecret string
}

func LoadConfig() *Config {
	// .env มีเฉพาะตอน dev
	_ = godotenv.Load()

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		DBSource:  getEnv("DB_SOURCE", "hydra.db"),
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    time.Duration(24) * time.Hour,

		HydraFeeBps: services.ParseFeeRateBasisPoints(os.Getenv("HYDRA_FEE_BPS"), services.DefaultFeeRateBps),

		PaymentMaxRetryAttempts: getEnvInt("PAYMENT_MAX_RETRY_ATTEMPTS", services.DefaultMaxRetryAttempts),
		PaymentRetryBatch:       getEnvInt("PAYMENT_RETRY_BATCH", 50),

		JobSecret:           os.Getenv("JOB_SECRET"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
