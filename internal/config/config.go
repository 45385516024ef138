package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port            int
		RESTPort        int
		SOAPPort        int
		JWTSecret       string
		JWTExpiresHours int
		CORSOrigin      string
	}
	Postgres struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	RateLimit  RateLimitConfig
	BcryptCost int
}

type RateLimitConfig struct {
	Max           int
	WindowMinutes int
}

// Window returns the rate-limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMinutes) * time.Minute
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads configuration from the environment (singleton).
// A .env file in the working directory is merged in first when present.
func LoadConfig() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()

		var c Config
		c.Server.Port = getInt("PORT", 3001)
		c.Server.RESTPort = getInt("REST_PORT", 8081)
		c.Server.SOAPPort = getInt("SOAP_PORT", 8080)
		c.Server.JWTSecret = os.Getenv("JWT_SECRET")
		c.Server.JWTExpiresHours = getInt("JWT_EXPIRES_HOURS", 168)
		c.Server.CORSOrigin = getEnv("CORS_ORIGIN", "http://localhost:3000")
		c.Postgres.DSN = os.Getenv("DATABASE_DSN")
		c.Redis.Addr = os.Getenv("REDIS_ADDR")
		c.Redis.Password = os.Getenv("REDIS_PASSWORD")
		c.Redis.DB = getInt("REDIS_DB", 0)
		c.RateLimit.Max = getInt("RATE_LIMIT_MAX", 500)
		c.RateLimit.WindowMinutes = getInt("RATE_LIMIT_WINDOW_MINUTES", 15)
		c.BcryptCost = getInt("BCRYPT_COST", 12)

		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("JWT_SECRET must be set")
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
