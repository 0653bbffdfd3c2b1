// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package authz provides role-based authorization using Casbin.
//
// The default policy ships embedded in the binary: learners may work their
// own sessions and read the catalog and archive, admins additionally reload
// the catalog. Operators can override model and policy with files and get
// automatic reload on change.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/logging"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer wraps a Casbin synced enforcer behind the request vocabulary the
// middleware speaks: subject role, request path, read/write/delete action.
type Enforcer struct {
	cfg      config.CasbinConfig
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from configuration. Empty model and policy
// paths select the embedded defaults.
func NewEnforcer(cfg config.CasbinConfig) (*Enforcer, error) {
	m, err := loadModel(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		adapter := fileadapter.NewAdapter(cfg.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	// Auto-reload only makes sense with a file-backed policy.
	if cfg.AutoReload && cfg.PolicyPath != "" {
		interval := cfg.ReloadInterval
		if interval <= 0 {
			interval = 30 * time.Second
		}
		enforcer.StartAutoLoadPolicy(interval)
	}

	logging.Info().
		Bool("embedded_policy", cfg.PolicyPath == "").
		Str("default_role", cfg.DefaultRole).
		Msg("Authorization enforcer initialized")

	return &Enforcer{cfg: cfg, enforcer: enforcer}, nil
}

func loadModel(path string) (model.Model, error) {
	var m model.Model
	var err error
	if path != "" && fileExists(path) {
		m, err = model.NewModelFromFile(path)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	return m, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV line by line. The file
// adapter cannot read from a string, so the rules are added through the API.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) >= 4 {
				if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) >= 3 {
				if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

// Enforce reports whether the subject may perform the action on the object.
// Every decision is recorded in the authz metrics.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	start := time.Now()
	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	RecordDecision(subject, object, action, allowed, time.Since(start))
	return allowed, nil
}

// EnforceRole checks the role, falling back to the configured default role
// for subjects with no role at all.
func (e *Enforcer) EnforceRole(role, object, action string) (bool, error) {
	if role == "" {
		role = e.cfg.DefaultRole
	}
	if role == "" {
		return false, nil
	}
	return e.Enforce(role, object, action)
}

// GetRolesForUser returns the roles granted to the given subject, including
// inherited ones resolved one level deep.
func (e *Enforcer) GetRolesForUser(user string) ([]string, error) {
	return e.enforcer.GetRolesForUser(user)
}

// AddPolicy adds a rule at runtime. Returns false if it already existed.
func (e *Enforcer) AddPolicy(subject, object, action string) (bool, error) {
	added, err := e.enforcer.AddPolicy(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to add policy: %w", err)
	}
	return added, nil
}

// RemovePolicy removes a rule at runtime.
func (e *Enforcer) RemovePolicy(subject, object, action string) (bool, error) {
	removed, err := e.enforcer.RemovePolicy(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to remove policy: %w", err)
	}
	return removed, nil
}

// Close stops the auto-reload goroutine if one is running.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
