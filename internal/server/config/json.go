package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/walletapi/internal/flagx"
	"github.com/dmitrijs2005/walletapi/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file.
// Duration fields accept both "1h" style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisPassword               string         `json:"redis_password"`
	RedisDB                     int            `json:"redis_db"`
	CORSAllowedOrigins          string         `json:"cors_allowed_origins"`
	LogLevel                    string         `json:"log_level"`
	GinMode                     string         `json:"gin_mode"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flag. Without the flag nothing happens. Only keys present
// with a non-zero value override the current settings.
//
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile, _ := flagx.ConfigFiles(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	overlay(&config.BcryptCost, c.BcryptCost)
	overlay(&config.RedisAddr, c.RedisAddr)
	overlay(&config.RedisPassword, c.RedisPassword)
	overlay(&config.RedisDB, c.RedisDB)
	overlay(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.GinMode, c.GinMode)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
