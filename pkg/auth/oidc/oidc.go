// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package oidc implements auth.Provider by verifying bearer JWTs against an
// external OpenID Connect issuer (the identity service the gateway delegates
// authentication to).
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/skillscore/extraction-gw/pkg/auth"
)

type Provider struct {
	verifier *gooidc.IDTokenVerifier
}

// New discovers the issuer's verification keys and returns a Provider.
// An empty audience skips the audience check.
func New(ctx context.Context, issuer, audience string) (*Provider, error) {
	if issuer == "" {
		return nil, errors.New("oidc: issuer is required")
	}

	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc: discover issuer %s: %w", issuer, err)
	}

	cfg := &gooidc.Config{ClientID: audience}
	if audience == "" {
		cfg.SkipClientIDCheck = true
	}

	return &Provider{verifier: provider.Verifier(cfg)}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	raw, ok := auth.BearerToken(r)
	if !ok {
		return ctx, errors.New("missing or malformed authorization header")
	}

	token, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return ctx, fmt.Errorf("token verification failed: %w", err)
	}

	ctx = auth.WithUser(ctx, token.Subject)

	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err == nil && claims.Email != "" {
		ctx = auth.WithEmail(ctx, claims.Email)
	}

	return ctx, nil
}
