package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by parseEnv.
const (
	envHTTPAddr          = "HTTP_ADDR"
	envDatabaseDSN       = "DATABASE_DSN"
	envDBMaxOpenConns    = "DB_MAX_OPEN_CONNS"
	envDBMaxIdleConns    = "DB_MAX_IDLE_CONNS"
	envDBConnMaxLifetime = "DB_CONN_MAX_LIFETIME"
	envAccessSecret      = "JWT_ACCESS_SECRET"
	envRefreshSecret     = "JWT_REFRESH_SECRET"
	envAccessTTL         = "ACCESS_TOKEN_TTL"
	envRefreshTTL        = "REFRESH_TOKEN_TTL"
	envEnvironment       = "APP_ENV"
	envSecureCookies     = "SECURE_COOKIES"
	envLoginPath         = "LOGIN_PATH"
	envPublicPaths       = "PUBLIC_PATHS"
	envAllowedOrigin     = "CORS_ALLOWED_ORIGIN"
	envLogLevel          = "LOG_LEVEL"
	envLogFormat         = "LOG_FORMAT"
)

// parseEnv overlays values from the process environment. If dotenvPath
// exists it is loaded first; variables already set in the environment win
// over the file. Malformed numbers and durations panic.
func parseEnv(config *Config, dotenvPath string) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				panic(err)
			}
		}
	}

	envString(&config.EndpointAddrHTTP, envHTTPAddr)
	envString(&config.DatabaseDSN, envDatabaseDSN)
	envInt(&config.DBMaxOpenConns, envDBMaxOpenConns)
	envInt(&config.DBMaxIdleConns, envDBMaxIdleConns)
	envDuration(&config.DBConnMaxLifetime, envDBConnMaxLifetime)
	envString(&config.AccessTokenSecret, envAccessSecret)
	envString(&config.RefreshTokenSecret, envRefreshSecret)
	envDuration(&config.AccessTokenValidityDuration, envAccessTTL)
	envDuration(&config.RefreshTokenValidityDuration, envRefreshTTL)
	envString(&config.Environment, envEnvironment)
	envString(&config.LoginPath, envLoginPath)
	envString(&config.AllowedOrigin, envAllowedOrigin)
	envString(&config.LogLevel, envLogLevel)
	envString(&config.LogFormat, envLogFormat)

	if v, ok := os.LookupEnv(envSecureCookies); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.SecureCookies = &b
	}

	if v, ok := os.LookupEnv(envPublicPaths); ok {
		config.PublicPaths = splitList(v)
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
