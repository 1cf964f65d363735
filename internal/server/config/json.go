package config

import (
	"encoding/json"
	"os"

	"github.com/licitacrm/licitacrm/internal/flagx"
	"github.com/licitacrm/licitacrm/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Pointer and
// zero-aware fields mean "leave as is" when absent, so a partial file only
// overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	DBMaxOpenConns               *int            `json:"db_max_open_conns"`
	DBMaxIdleConns               *int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime            *timex.Duration `json:"db_conn_max_lifetime"`
	AccessTokenSecret            *string         `json:"access_token_secret"`
	RefreshTokenSecret           *string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	Environment                  *string         `json:"environment"`
	SecureCookies                *bool           `json:"secure_cookies"`
	LoginPath                    *string         `json:"login_path"`
	PublicPaths                  []string        `json:"public_paths"`
	AllowedOrigin                *string         `json:"allowed_origin"`
	LogLevel                     *string         `json:"log_level"`
	LogFormat                    *string         `json:"log_format"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag in args. Without the flag nothing is loaded. An unreadable or
// invalid file panics, as a misconfigured server must not start.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DBMaxOpenConns != nil {
		config.DBMaxOpenConns = *c.DBMaxOpenConns
	}
	if c.DBMaxIdleConns != nil {
		config.DBMaxIdleConns = *c.DBMaxIdleConns
	}
	if c.DBConnMaxLifetime != nil {
		config.DBConnMaxLifetime = c.DBConnMaxLifetime.Duration
	}
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.Environment, c.Environment)
	if c.SecureCookies != nil {
		v := *c.SecureCookies
		config.SecureCookies = &v
	}
	setString(&config.LoginPath, c.LoginPath)
	if c.PublicPaths != nil {
		config.PublicPaths = c.PublicPaths
	}
	setString(&config.AllowedOrigin, c.AllowedOrigin)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
