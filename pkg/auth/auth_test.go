// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{name: "well-formed", header: "Bearer abc123", want: "abc123", ok: true},
		{name: "missing header", header: "", ok: false},
		{name: "wrong scheme", header: "Basic abc123", ok: false},
		{name: "lowercase scheme rejected", header: "bearer abc123", ok: false},
		{name: "empty token", header: "Bearer ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerToken(r)
			if ok != tt.ok || got != tt.want {
				t.Errorf("BearerToken = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestContextIdentity(t *testing.T) {
	ctx := context.Background()

	if _, ok := UserID(ctx); ok {
		t.Error("empty context should carry no user")
	}
	if _, ok := Email(ctx); ok {
		t.Error("empty context should carry no email")
	}

	ctx = WithUser(ctx, "user-1")
	ctx = WithEmail(ctx, "user@example.com")

	if id, ok := UserID(ctx); !ok || id != "user-1" {
		t.Errorf("UserID = (%q, %v)", id, ok)
	}
	if email, ok := Email(ctx); !ok || email != "user@example.com" {
		t.Errorf("Email = (%q, %v)", email, ok)
	}

	if _, ok := UserID(WithUser(context.Background(), "")); ok {
		t.Error("empty user ID should not count as authenticated")
	}
}
