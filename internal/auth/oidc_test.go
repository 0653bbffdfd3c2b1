// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"context"
	"testing"

	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/mathesis/internal/config"
)

func TestNewOIDCVerifierRequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.OIDCConfig
	}{
		{name: "missing issuer", cfg: config.OIDCConfig{ClientID: "mathesis"}},
		{name: "missing client id", cfg: config.OIDCConfig{IssuerURL: "https://auth.example.edu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOIDCVerifier(context.Background(), &tt.cfg); err == nil {
				t.Error("NewOIDCVerifier() expected error, got nil")
			}
		})
	}
}

func TestOIDCSubjectPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		claims *oidc.IDTokenClaims
		want   string
	}{
		{
			name: "preferred username wins",
			claims: &oidc.IDTokenClaims{
				TokenClaims:     oidc.TokenClaims{Subject: "sub-123"},
				UserInfoProfile: oidc.UserInfoProfile{PreferredUsername: "casey"},
				UserInfoEmail:   oidc.UserInfoEmail{Email: "casey@example.edu"},
			},
			want: "casey",
		},
		{
			name: "email when no username",
			claims: &oidc.IDTokenClaims{
				TokenClaims:   oidc.TokenClaims{Subject: "sub-123"},
				UserInfoEmail: oidc.UserInfoEmail{Email: "casey@example.edu"},
			},
			want: "casey@example.edu",
		},
		{
			name: "opaque subject as last resort",
			claims: &oidc.IDTokenClaims{
				TokenClaims: oidc.TokenClaims{Subject: "sub-123"},
			},
			want: "sub-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oidcSubject(tt.claims); got != tt.want {
				t.Errorf("oidcSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}
