// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package auth provides authentication for the HTTP API.
//
// Two kinds of identities exist:
//
//   - Session tokens: local HS256 JWTs minted when a session is created,
//     bound to that session via the session_id claim and carrying the
//     learner role. A learner token grants access to exactly one session.
//   - Admin tokens: the same JWT shape minted after a successful login
//     against the configured bcrypt admin credentials, with no session
//     binding and the admin role.
//
// Optionally, bearer ID tokens from an external OIDC provider are accepted
// as learner identities when an issuer is configured. OIDC tokens never
// grant admin rights.
//
// Token issuance (login and session creation) is throttled per client by
// IssueLimiter; role checks beyond the learner/admin split live in the
// authz package.
package auth
