// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/logging"
)

// OIDCVerifier validates ID tokens issued by an external OpenID Connect
// provider. Only bearer verification is implemented: Mathesis never drives a
// login flow itself, it just accepts tokens an institution's IdP already
// minted. Verified identities are mapped to learner-role claims; admin
// rights stay local.
type OIDCVerifier struct {
	rp rp.RelyingParty
}

// NewOIDCVerifier performs OIDC discovery against the configured issuer and
// prepares the ID token verifier. The context bounds the discovery request.
func NewOIDCVerifier(ctx context.Context, cfg *config.OIDCConfig) (*OIDCVerifier, error) {
	if cfg.IssuerURL == "" {
		return nil, fmt.Errorf("oidc issuer_url is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oidc client_id is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// No client secret and no redirect URL: this relying party only ever
	// verifies tokens, it never exchanges authorization codes.
	relyingParty, err := rp.NewRelyingPartyOIDC(ctx,
		cfg.IssuerURL,
		cfg.ClientID,
		"",
		"",
		[]string{"openid", "profile", "email"},
		rp.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery failed: %w", err)
	}

	logging.Info().
		Str("issuer", cfg.IssuerURL).
		Str("client_id", cfg.ClientID).
		Msg("OIDC token verification enabled")

	return &OIDCVerifier{rp: relyingParty}, nil
}

// Verify validates an ID token (signature via JWKS, issuer, audience,
// expiry) and maps it to local claims. OIDC identities always get the
// learner role.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	verifier := v.rp.IDTokenVerifier()
	if verifier == nil {
		return nil, fmt.Errorf("oidc verifier not initialized")
	}

	idClaims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, rawToken, verifier)
	if err != nil {
		return nil, fmt.Errorf("oidc token verification failed: %w", err)
	}

	return &Claims{
		Subject: oidcSubject(idClaims),
		Role:    RoleLearner,
	}, nil
}

// oidcSubject picks a human-readable identity from the token, falling back
// to the opaque subject identifier.
func oidcSubject(claims *oidc.IDTokenClaims) string {
	if claims.PreferredUsername != "" {
		return claims.PreferredUsername
	}
	if claims.Email != "" {
		return claims.Email
	}
	return claims.Subject
}
