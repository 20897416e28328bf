package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port                string
	Env                 string
	MongoURI            string
	MongoDB             string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
	SMTPHost            string
	SMTPPort            string
	SMTPUser            string
	SMTPPass            string
	KafkaBrokers        string
	OrderEventsTopic    string
	RedisAddr           string
	JWTSecret           string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8085"),
		Env:                 getEnv("ENV", "development"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "techzone"),
		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:     os.Getenv("STRIPE_CANCEL_URL"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		KafkaBrokers:        os.Getenv("KAFKA_BROKERS"),
		OrderEventsTopic:    getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
