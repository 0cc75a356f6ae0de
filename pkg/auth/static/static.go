// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package static implements auth.Provider with a single shared token,
// intended for development and for deployments behind a trusted proxy that
// forwards identity headers.
package static

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/skillscore/extraction-gw/pkg/auth"
)

type Provider struct {
	token string

	userHeader  string
	emailHeader string
}

type Option func(*Provider)

// WithUserHeader overrides the forwarded-user header (default X-Forwarded-User).
func WithUserHeader(name string) Option {
	return func(p *Provider) { p.userHeader = name }
}

// WithEmailHeader overrides the forwarded-email header (default X-Forwarded-Email).
func WithEmailHeader(name string) Option {
	return func(p *Provider) { p.emailHeader = name }
}

// New creates a shared-token provider. An empty token disables verification
// and lets every request through.
func New(token string, opts ...Option) *Provider {
	p := &Provider{
		token:       token,
		userHeader:  "X-Forwarded-User",
		emailHeader: "X-Forwarded-Email",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	token, ok := auth.BearerToken(r)
	if !ok {
		return ctx, errors.New("missing or malformed authorization header")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ctx, errors.New("invalid token")
	}

	if user := strings.TrimSpace(r.Header.Get(p.userHeader)); user != "" {
		ctx = auth.WithUser(ctx, user)
	}
	if email := strings.TrimSpace(r.Header.Get(p.emailHeader)); email != "" {
		ctx = auth.WithEmail(ctx, email)
	}

	return ctx, nil
}
