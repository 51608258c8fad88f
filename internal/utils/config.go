package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")
	ErrInvalidTokenTTL  = errors.New("token TTLs must be positive")
)

type DatabaseConfig struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	SSLMode          string
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.PostgresHost +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" port=" + c.PostgresPort +
		" sslmode=" + c.SSLMode + " TimeZone=UTC"
}

type ServerConfig struct {
	Port        string
	Environment string
	Locale      string
}

type AdminConfig struct {
	Username string
	Password string
}

type TokenConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

// RedisConfig is optional. An empty Addr keeps per-user locking in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type CookieConfig struct {
	Secure bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type Config struct {
	Database *DatabaseConfig
	Server   *ServerConfig
	Admin    *AdminConfig
	Token    *TokenConfig
	Redis    *RedisConfig
	Cookie   *CookieConfig
	CORS     *CORSConfig
}

// LoadConfig reads dotenvPath if it exists and then the process environment.
func LoadConfig(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	dbCfg := &DatabaseConfig{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		SSLMode:          getEnv("POSTGRES_SSLMODE", "disable"),
	}
	serverCfg := &ServerConfig{
		Port:        getEnv("SERVER_PORT", "3000"),
		Environment: getEnv("APP_ENV", "development"),
		Locale:      getEnv("APP_LOCALE", "en"),
	}
	adminCfg := &AdminConfig{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	tokenCfg := &TokenConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 10*time.Minute),
		RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:      getEnvAsInt("BCRYPT_COST", 10),
	}
	redisCfg := &RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
		LockTTL:  getEnvAsDuration("REDIS_LOCK_TTL", 10*time.Second),
	}
	cookieCfg := &CookieConfig{
		Secure: getEnvAsBool("COOKIE_SECURE", false),
	}
	corsCfg := &CORSConfig{
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	cfg := &Config{
		Database: dbCfg,
		Server:   serverCfg,
		Admin:    adminCfg,
		Token:    tokenCfg,
		Redis:    redisCfg,
		Cookie:   cookieCfg,
		CORS:     corsCfg,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.Token.AccessTokenTTL <= 0 || c.Token.RefreshTokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
