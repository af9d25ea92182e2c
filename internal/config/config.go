// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-user-auth server. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, an
// optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the bcrypt work factor
	// and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the user store backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Log holds logger level, output format and redaction settings.
	Log Log `envPrefix:"LOG_"`

	// Adapter holds the settings of the HTTP client used by the CLI.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// BcryptCost is the bcrypt work factor used for password hashing.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the storage backend.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the user store.
type DB struct {
	// DSN selects and configures the backend:
	//   - "" or "memory"                      in-process store;
	//   - "postgres://..." / "postgresql://"  PostgreSQL through pgx;
	//   - "sqlite://<path>" / "file:<path>"   SQLite;
	//   - "mongodb://..." / "mongodb+srv://"  MongoDB.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:5000").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server. Empty
	// disables it.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Log holds the logger settings.
type Log struct {
	// Level is one of trace, debug, info, warn, error.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// Pretty enables human readable console output instead of JSON.
	// Env: LOG_PRETTY
	Pretty bool `env:"PRETTY"`

	// RedactFields is a comma separated list of sensitive field names.
	// Env: LOG_REDACT_FIELDS
	RedactFields []string `env:"REDACT_FIELDS" envSeparator:","`

	// Redaction replaces the value of every sensitive field.
	// Env: LOG_REDACTION
	Redaction string `env:"REDACTION"`

	// Separator delimits name=value pairs in log messages.
	// Env: LOG_SEPARATOR
	Separator string `env:"SEPARATOR"`
}

// Adapter holds the settings of the outbound HTTP client.
type Adapter struct {
	// HTTPAddress is the base URL of the auth server
	// (e.g. "http://localhost:5000").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources. For every field the first non-zero value wins,
// in the following order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// Redacted returns a copy of cfg that is safe to log: the password in the
// database URI is replaced.
func (cfg StructuredConfig) Redacted() StructuredConfig {
	cfg.Storage.DB.DSN = redactDSN(cfg.Storage.DB.DSN)
	return cfg
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
