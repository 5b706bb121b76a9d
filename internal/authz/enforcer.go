// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/mverdier/leafbase/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// decisionCacheTTL bounds how long an enforcement decision is reused.
// Policy edits through LoadPolicy clear the cache immediately; the TTL
// only matters for file edits made behind the enforcer's back.
const decisionCacheTTL = 5 * time.Minute

// ErrNoAdapter is returned by SavePolicy and LoadPolicy when the
// enforcer runs on the embedded policy and has no file to sync with.
var ErrNoAdapter = errors.New("no policy adapter configured; using embedded policy")

// Enforcer wraps a Casbin enforcer with the role policy for API routes.
//
// Subjects are account roles ("user", "contributor", "admin") plus the
// synthetic "apiclient" subject; objects are request paths; actions are
// "read", "write" and "delete". Admins bypass the policy in the model
// matcher.
type Enforcer struct {
	config   *config.CasbinConfig
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer creates an enforcer from the embedded model and policy,
// overridden by cfg.ModelPath / cfg.PolicyPath when those files exist.
func NewEnforcer(cfg *config.CasbinConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = &config.CasbinConfig{DefaultRole: "user"}
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
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

	return &Enforcer{
		config:   cfg,
		enforcer: enforcer,
		cache:    newDecisionCache(decisionCacheTTL),
	}, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype := parts[0]
		rule := parts[1:]
		switch ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", rule, err)
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
				}
			}
		}
	}
	return nil
}

// Allowed checks whether the subject may perform the action on the
// object. An empty subject falls back to the configured default role.
func (e *Enforcer) Allowed(subject, object, action string) (bool, error) {
	if subject == "" {
		subject = e.config.DefaultRole
	}

	if allowed, ok := e.cache.get(subject, object, action); ok {
		return allowed, nil
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	e.cache.set(subject, object, action, allowed)
	return allowed, nil
}

// RolesForSubject returns the roles a subject inherits from.
func (e *Enforcer) RolesForSubject(subject string) ([]string, error) {
	return e.enforcer.GetRolesForUser(subject)
}

// Policy returns all policy rules.
func (e *Enforcer) Policy() [][]string {
	//nolint:errcheck // GetPolicy only fails on a nil enforcer
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// GroupingPolicy returns all role inheritance rules.
func (e *Enforcer) GroupingPolicy() [][]string {
	//nolint:errcheck // GetGroupingPolicy only fails on a nil enforcer
	policies, _ := e.enforcer.GetGroupingPolicy()
	return policies
}

// SavePolicy persists the policy to the configured file.
func (e *Enforcer) SavePolicy() error {
	if e.config.PolicyPath == "" {
		return ErrNoAdapter
	}
	return e.enforcer.SavePolicy()
}

// LoadPolicy re-reads the policy file and drops cached decisions.
func (e *Enforcer) LoadPolicy() error {
	if e.config.PolicyPath == "" {
		return ErrNoAdapter
	}
	if err := e.enforcer.LoadPolicy(); err != nil {
		return err
	}
	e.cache.clear()
	return nil
}

// Close releases the enforcer's resources.
func (e *Enforcer) Close() {
	e.cache.stop()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
