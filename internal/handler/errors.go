// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

var (
	// errNoHandlersAreCreated is returned by NewHandlers when neither an HTTP
	// nor a gRPC address is configured. It is a fatal misconfiguration.
	errNoHandlersAreCreated = errors.New("no handlers are created")

	// errNoStorageToProbe is returned when the gRPC health handler is
	// requested without a user store to probe.
	errNoStorageToProbe = errors.New("grpc health handler needs a user store")
)
