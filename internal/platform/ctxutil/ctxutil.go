// Copyright (c) 2026 Vidora. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/vidora/vidora/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithUserID returns a new context with the authenticated user's ID attached.
//
// The full user entity is stored under [ctxkey.KeyUser] by the access guard;
// the bare ID is duplicated here so platform middleware can enrich log lines
// without depending on the users domain.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUserID, id)
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns an empty string for anonymous requests.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyUserID).(string)
	return id
}
