package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names recognised by parseEnv.
const (
	EnvHTTPAddr           = "HTTP_ADDR"
	EnvDatabaseDSN        = "DATABASE_DSN"
	EnvSecretKey          = "SECRET_KEY"
	EnvAccessTokenTTL     = "ACCESS_TOKEN_TTL"
	EnvBcryptCost         = "BCRYPT_COST"
	EnvRedisAddr          = "REDIS_ADDR"
	EnvRedisPassword      = "REDIS_PASSWORD"
	EnvRedisDB            = "REDIS_DB"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvLogLevel           = "LOG_LEVEL"
	EnvGinMode            = "GIN_MODE"
)

// parseEnv overlays values from environment variables. When -env points
// to a dotenv file it is loaded first; variables already present in the
// process environment are never overwritten by the file. A missing file
// is silently ignored, as is a malformed numeric or duration value.
func parseEnv(config *Config, args []string) {
	if _, envFile := flagx.ConfigFiles(args); envFile != "" {
		_ = godotenv.Load(envFile)
	}

	setString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	setString(&config.DatabaseDSN, EnvDatabaseDSN)
	setString(&config.SecretKey, EnvSecretKey)
	setString(&config.RedisAddr, EnvRedisAddr)
	setString(&config.RedisPassword, EnvRedisPassword)
	setString(&config.CORSAllowedOrigins, EnvCORSAllowedOrigins)
	setString(&config.LogLevel, EnvLogLevel)
	setString(&config.GinMode, EnvGinMode)
	setInt(&config.BcryptCost, EnvBcryptCost)
	setInt(&config.RedisDB, EnvRedisDB)

	if v := strings.TrimSpace(os.Getenv(EnvAccessTokenTTL)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
