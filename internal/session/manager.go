// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package session orchestrates learner sessions: it owns the engine
// instances, tees accepted observations into the journal, publishes domain
// events, and expires idle sessions. Everything above it (API, websocket)
// and below it (journal, archive) connects through this package.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/engine"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/journal"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// CreateParams are the caller-supplied session attributes.
type CreateParams struct {
	// LearnerTag is an opaque label for archive analytics; never used for
	// authentication.
	LearnerTag string

	// Domain restricts selection to one catalog domain when set. A
	// per-request domain on selectNext overrides it.
	Domain string
}

// RecordResult bundles what a recorded observation changed.
type RecordResult struct {
	Observation engine.Observation `json:"observation"`
	State       engine.State       `json:"state"`
	Confidence  engine.Confidence  `json:"confidence"`
}

// Manager owns all live sessions. Sessions are created against the
// catalog current at creation time; a catalog reload affects only sessions
// created afterwards.
type Manager struct {
	cfg       config.SessionConfig
	engineCfg config.EngineConfig
	store     *catalog.Store
	journal   *journal.Journal // nil when journaling is disabled
	bus       *events.Bus
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. jnl may be nil to run memory-only.
func NewManager(cfg config.SessionConfig, engineCfg config.EngineConfig, store *catalog.Store, jnl *journal.Journal, bus *events.Bus) *Manager {
	return &Manager{
		cfg:       cfg,
		engineCfg: engineCfg,
		store:     store,
		journal:   jnl,
		bus:       bus,
		logger:    logging.With().Str("component", "session").Logger(),
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new session against the current catalog snapshot.
func (m *Manager) Create(ctx context.Context, params CreateParams) (*Session, error) {
	cat := m.store.Current()
	eng, err := engine.NewEngine(cat, engineConfig(m.engineCfg), m.logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	now := time.Now()
	s := &Session{
		id:         uuid.New().String(),
		learnerTag: params.LearnerTag,
		domain:     params.Domain,
		createdAt:  now,
		eng:        eng,
		lastActive: now,
	}

	m.mu.Lock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	m.sessions[s.id] = s
	m.mu.Unlock()

	if m.journal != nil {
		meta := journal.SessionMeta{
			LearnerTag: params.LearnerTag,
			Domain:     params.Domain,
			CreatedAt:  now,
		}
		if err := m.journal.PutMeta(ctx, s.id, meta); err != nil {
			m.logger.Error().Err(err).Str("session_id", s.id).Msg("Failed to journal session meta")
		}
	}

	metrics.RecordSessionCreated()
	m.logger.Info().
		Str("session_id", s.id).
		Str("domain", params.Domain).
		Int("catalog_items", cat.Len()).
		Msg("Session created")

	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrRestore returns a live session, falling back to journal replay for
// sessions lost to a restart. Completed sessions purge their journal data,
// so they are not restorable through this path.
func (m *Manager) GetOrRestore(ctx context.Context, id string) (*Session, error) {
	if s, err := m.Get(id); err == nil {
		return s, nil
	}
	return m.restore(ctx, id)
}

// restore rebuilds a session by replaying its journal through the engine.
func (m *Manager) restore(ctx context.Context, id string) (*Session, error) {
	if m.journal == nil {
		return nil, ErrNotFound
	}

	meta, hasMeta, err := m.journal.Meta(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	obs, err := m.journal.Replay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	if !hasMeta && len(obs) == 0 {
		return nil, ErrNotFound
	}

	eng, err := engine.NewEngine(m.store.Current(), engineConfig(m.engineCfg), m.logger)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	for i, o := range obs {
		if err := eng.Restore(o); err != nil {
			return nil, fmt.Errorf("restore session %s: entry %d: %w", id, i, err)
		}
	}

	now := time.Now()
	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	s := &Session{
		id:         id,
		learnerTag: meta.LearnerTag,
		domain:     meta.Domain,
		createdAt:  createdAt,
		eng:        eng,
		lastActive: now,
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// Lost the race against a concurrent restore; use the winner.
		m.mu.Unlock()
		return existing, nil
	}
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	m.sessions[id] = s
	m.mu.Unlock()

	metrics.SessionsActive.Inc()
	m.logger.Info().
		Str("session_id", id).
		Int("observations", len(obs)).
		Msg("Session restored from journal")

	return s, nil
}

// Record applies a learner response to a session: engine first, then the
// journal tee, then event fan-out, all under the session lock so journal
// order always matches engine order.
func (m *Manager) Record(ctx context.Context, sessionID, itemID string, outcome float64, skipped bool) (RecordResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return RecordResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return RecordResult{}, ErrCompleted
	}

	o, err := s.eng.Record(itemID, outcome, skipped)
	if err != nil {
		return RecordResult{}, err
	}
	s.lastActive = time.Now()

	if m.journal != nil {
		// The engine has already accepted the observation; a journal
		// failure degrades restore, not the live session.
		if err := m.journal.Append(ctx, s.id, o); err != nil {
			m.logger.Error().Err(err).Str("session_id", s.id).Msg("Failed to journal observation")
		}
	}

	state := s.eng.State()
	conf := s.eng.Confidence()
	m.publishObservation(s, o, skipped, state.CurrentLevel)
	m.publishConfidence(s.id, conf)

	return RecordResult{Observation: o, State: state, Confidence: conf}, nil
}

// SelectNext picks the next probe for a session. A nil item with nil error
// means the catalog is exhausted for the effective filter.
func (m *Manager) SelectNext(sessionID, domain string) (*catalog.Item, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return nil, ErrCompleted
	}
	s.lastActive = time.Now()
	return s.eng.SelectNext(s.effectiveDomain(domain)), nil
}

// Confidence reports a session's current confidence.
func (m *Manager) Confidence(sessionID string) (engine.Confidence, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return engine.Confidence{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Confidence(), nil
}

// Recommendations ranks trajectories for a session, trimmed to the
// configured maximum.
func (m *Manager) Recommendations(sessionID string) ([]engine.Recommendation, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	recs := s.eng.Rank()
	s.mu.Unlock()

	if max := m.engineCfg.Ranker.MaxRecommend; max > 0 && len(recs) > max {
		recs = recs[:max]
	}
	return recs, nil
}

// Grid evaluates a session's mastery field over a res x res lattice.
func (m *Manager) Grid(sessionID string, res int) (*engine.Grid, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.EstimateGrid(res), nil
}

// Info snapshots a session for the API.
func (m *Manager) Info(sessionID string) (Info, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return Info{}, err
	}
	return s.Info(), nil
}

// Complete finishes a session: final confidence is computed, the session
// leaves the live set, and a completion event carries everything the
// archive stores. Completing an unknown or already-completed session
// returns ErrNotFound.
func (m *Manager) Complete(ctx context.Context, sessionID, reason string) (events.SessionCompleted, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return events.SessionCompleted{}, err
	}

	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return events.SessionCompleted{}, ErrNotFound
	}
	s.completed = true
	conf := s.eng.Confidence()
	state := s.eng.State()
	s.mu.Unlock()

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if m.journal != nil {
		if err := m.journal.Purge(ctx, sessionID); err != nil {
			m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to purge session journal")
		}
	}

	now := time.Now()
	ev := events.SessionCompleted{
		SessionID:      s.id,
		LearnerTag:     s.learnerTag,
		Domain:         s.domain,
		Reason:         reason,
		StartedAt:      s.createdAt,
		CompletedAt:    now,
		QuestionsAsked: state.QuestionsAsked,
		FinalLevel:     state.CurrentLevel,
		Confidence:     conf,
		PerLevel:       state.PerLevel,
	}
	if err := m.bus.Publish(events.TopicSessionCompleted, ev); err != nil {
		m.logger.Warn().Err(err).Str("session_id", s.id).Msg("Failed to publish completion event")
	}

	metrics.RecordSessionCompleted(reason, now.Sub(s.createdAt), state.QuestionsAsked, conf.Overall)
	m.logger.Info().
		Str("session_id", s.id).
		Str("reason", reason).
		Int("questions_asked", state.QuestionsAsked).
		Float64("confidence", conf.Overall).
		Msg("Session completed")

	return ev, nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunJanitor expires idle sessions until the context is cancelled. It is
// run as a supervised service.
func (m *Manager) RunJanitor(ctx context.Context) error {
	interval := m.cfg.JanitorInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info().
		Dur("interval", interval).
		Dur("idle_timeout", m.cfg.IdleTimeout).
		Msg("Session janitor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.expireIdle(ctx)
		}
	}
}

// expireIdle completes every session idle past the timeout.
func (m *Manager) expireIdle(ctx context.Context) {
	if m.cfg.IdleTimeout <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.cfg.IdleTimeout)

	m.mu.RLock()
	stale := make([]string, 0)
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if _, err := m.Complete(ctx, id, events.ReasonExpired); err != nil {
			// Raced with an explicit completion; nothing to do.
			continue
		}
		m.logger.Info().Str("session_id", id).Msg("Idle session expired")
	}
}

func (m *Manager) publishObservation(s *Session, o engine.Observation, skipped bool, level int) {
	ev := events.ObservationRecorded{
		SessionID:       s.id,
		ItemID:          o.ItemID,
		Outcome:         o.Outcome,
		Weight:          o.Weight,
		Skipped:         skipped,
		DifficultyLevel: o.DifficultyLevel,
		SessionLevel:    level,
		Timestamp:       o.Timestamp,
	}
	if err := m.bus.Publish(events.TopicObservationRecorded, ev); err != nil {
		m.logger.Warn().Err(err).Str("session_id", s.id).Msg("Failed to publish observation event")
	}
}

func (m *Manager) publishConfidence(sessionID string, conf engine.Confidence) {
	ev := events.ConfidenceUpdated{
		SessionID:  sessionID,
		Confidence: conf,
		Timestamp:  time.Now(),
	}
	if err := m.bus.Publish(events.TopicConfidenceUpdated, ev); err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to publish confidence event")
	}
}
