package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	StripeSecretKey  string
	StripeWebhookKey string

	EmailUser        string
	EmailAppPassword string
	OwnerEmail       string
	SMTPHost         string
	SMTPPort         string

	GoogleMapsAPIKey string

	DomainURL string

	KafkaBrokers    string
	OrderEventTopic string

	AdminUser     string
	AdminPassword string
	JWTSecret     string

	// Service area settings. When DirectionalRadii is empty the single
	// ServiceRadiusMiles applies in every direction.
	ServiceCenterName  string
	ServiceCenterLat   float64
	ServiceCenterLng   float64
	ServiceRadiusMiles float64
	EarthRadiusMiles   float64
	DirectionalRadii   map[string]float64
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "America/New_York"),

		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		EmailUser:        os.Getenv("EMAIL_USER"),
		EmailAppPassword: os.Getenv("EMAIL_APP_PASSWORD"),
		OwnerEmail:       os.Getenv("OWNER_EMAIL"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),

		DomainURL: getEnv("DOMAIN_URL", "http://localhost:3000"),

		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrderEventTopic: getEnv("ORDER_EVENT_TOPIC", "order-events"),

		AdminUser:     os.Getenv("ADMIN_USER"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		ServiceCenterName:  getEnv("SERVICE_CENTER_NAME", "Parma City Hall"),
		ServiceCenterLat:   getEnvFloat("SERVICE_CENTER_LAT", 41.4048),
		ServiceCenterLng:   getEnvFloat("SERVICE_CENTER_LNG", -81.7229),
		ServiceRadiusMiles: getEnvFloat("SERVICE_RADIUS_MILES", 30),
		EarthRadiusMiles:   getEnvFloat("EARTH_RADIUS_MILES", 3958.8),
		DirectionalRadii:   parseDirectionalRadii(os.Getenv("SERVICE_DIRECTIONAL_RADII")),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" ||
		cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" ||
		cfg.EmailUser == "" || cfg.EmailAppPassword == "" || cfg.OwnerEmail == "" ||
		cfg.GoogleMapsAPIKey == "" || cfg.JWTSecret == "" ||
		cfg.AdminUser == "" || cfg.AdminPassword == "" {
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

func getEnvFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}

// parseDirectionalRadii reads "N=12,E=20,S=25,W=15" style values. Only the
// four cardinal directions are configurable; diagonals are derived from their
// neighbors by the service-area validator.
func parseDirectionalRadii(raw string) map[string]float64 {
	if raw == "" {
		return nil
	}
	radii := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		miles, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		radii[strings.ToUpper(parts[0])] = miles
	}
	if len(radii) == 0 {
		return nil
	}
	return radii
}
