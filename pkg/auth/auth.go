// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth defines the provider contract for verifying bearer tokens.
// Verification is delegated to an external identity service; the gateway
// never inspects token contents itself beyond the claims a provider exposes.
package auth

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userContextKey  contextKey = "auth.user"
	emailContextKey contextKey = "auth.email"
)

// Provider authenticates an incoming request. On success it returns a
// context carrying the caller's identity; on failure it returns an error the
// HTTP layer maps to 401.
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// WithUser returns a context carrying the authenticated user ID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// WithEmail returns a context carrying the authenticated email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}

// UserID returns the authenticated user ID, if any.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userContextKey).(string)
	return v, ok && v != ""
}

// Email returns the authenticated email, if any.
func Email(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailContextKey).(string)
	return v, ok && v != ""
}

// BearerToken extracts the bearer token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}
