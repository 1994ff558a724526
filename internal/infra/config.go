package infra

import (
	"crypto/rand"
	"encoding/hex"
	"github.com/joho/godotenv"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	GinMode string

	BackendURL     string
	BackendTimeout time.Duration

	PricingProvider  string
	SerpAPIKey       string
	DepartureAirport string
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string

	PlanLayout string
	TimeZone   string

	PostgresURL string

	SessionSecret []byte
	SessionTTL    time.Duration

	CORSOrigins     []string
	RateLimitPerSec float64
	RateLimitBurst  int
}

// LoadConfig reads the environment, loading .env first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnvWithDefault("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		BackendURL:     strings.TrimRight(getEnvWithDefault("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: getDurationWithDefault("BACKEND_TIMEOUT", 60*time.Second),

		PricingProvider:  strings.ToLower(getEnvWithDefault("PRICING_PROVIDER", "mock")),
		SerpAPIKey:       os.Getenv("SERPAPI_KEY"),
		DepartureAirport: getEnvWithDefault("DEPARTURE_AIRPORT", "TLV"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		PlanLayout: strings.ToLower(getEnvWithDefault("PLAN_LAYOUT", "lines")),
		TimeZone:   os.Getenv("TZ_NAME"),

		PostgresURL: os.Getenv("POSTGRES_URL"),

		SessionTTL: getDurationWithDefault("SESSION_TTL", 2*time.Hour),

		RateLimitPerSec: getFloatWithDefault("RATE_LIMIT_PER_SEC", 2),
		RateLimitBurst:  int(getFloatWithDefault("RATE_LIMIT_BURST", 5)),
	}

	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		log.Println("WARNING: SESSION_SECRET not set, sessions will not survive a restart")
		cfg.SessionSecret = randomSecret()
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getFloatWithDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate session secret: %v", err)
	}
	return []byte(hex.EncodeToString(buf))
}
