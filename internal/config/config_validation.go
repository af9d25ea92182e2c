// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

var supportedDSNPrefixes = []string{
	"postgres://",
	"postgresql://",
	"sqlite://",
	"file:",
	"mongodb://",
	"mongodb+srv://",
}

var supportedLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "warning": {}, "error": {},
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Zero values are
// accepted everywhere; the consumers fall back to their own defaults.
func (cfg *StructuredConfig) validate() error {
	if cost := cfg.App.BcryptCost; cost != 0 && (cost < minBcryptCost || cost > maxBcryptCost) {
		return fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]", ErrInvalidAppConfigs, cost, minBcryptCost, maxBcryptCost)
	}

	if !isSupportedDSN(cfg.Storage.DB.DSN) {
		return fmt.Errorf("%w: unsupported database URI scheme", ErrInvalidStorageConfigs)
	}

	if cfg.Server.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidServerConfigs)
	}

	if cfg.Server.GRPCAddress != "" && cfg.Server.GRPCAddress == cfg.Server.HTTPAddress {
		return fmt.Errorf("%w: http and grpc servers share %s", ErrInvalidServerConfigs, cfg.Server.HTTPAddress)
	}

	if err := cfg.Log.validate(); err != nil {
		return err
	}

	return nil
}

func (l Log) validate() error {
	if l.Level != "" {
		if _, ok := supportedLogLevels[strings.ToLower(strings.TrimSpace(l.Level))]; !ok {
			return fmt.Errorf("%w: unknown level %q", ErrInvalidLogConfigs, l.Level)
		}
	}

	for _, f := range l.RedactFields {
		if f == "" || strings.Contains(f, "=") {
			return fmt.Errorf("%w: invalid redact field %q", ErrInvalidLogConfigs, f)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if !strings.HasPrefix(cfg.Adapter.HTTPAddress, "http://") && !strings.HasPrefix(cfg.Adapter.HTTPAddress, "https://") &&
		strings.Contains(cfg.Adapter.HTTPAddress, "://") {
		return fmt.Errorf("%w: unsupported scheme in %s", ErrInvalidAdapterConfigs, cfg.Adapter.HTTPAddress)
	}

	return cfg.Log.validate()
}

func isSupportedDSN(dsn string) bool {
	if dsn == "" || dsn == "memory" {
		return true
	}

	for _, prefix := range supportedDSNPrefixes {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}

	return false
}
