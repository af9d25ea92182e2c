// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command line client of the auth server.
//
// It builds a cobra command tree whose subcommands map one to one onto the
// operations of [adapter.ServerAdapter], plus an "e2e" command that replays
// the full account lifecycle against a running server.
package client
