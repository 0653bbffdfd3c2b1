// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package journal provides a durable append-only observation journal on
// BadgerDB. Every recorded observation is written under its session before
// the response is acknowledged, so an interrupted session can be restored
// by replaying its journal in order. The journal stores observations
// verbatim and nothing derived: fields, levels and confidence are always
// recomputed from the replayed log.
package journal

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mathesis/internal/engine"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// Keys are obs:<sessionID>:<zero-padded seq> so a prefix scan yields one
// session's observations in append order. Session metadata lives under a
// separate meta:<sessionID> key, outside the observation prefix.
const (
	keyPrefix  = "obs:"
	metaPrefix = "meta:"
	seqDigits  = 12
)

// ErrClosed is returned by operations on a closed journal.
var ErrClosed = fmt.Errorf("journal is closed")

// Config holds journal settings. The journal is constructed only when a
// path is configured; without one the session layer runs memory-only.
type Config struct {
	// Path is the BadgerDB directory. Must be on a durable filesystem.
	Path string

	// TTL expires journal entries; sessions older than this can no
	// longer be restored. Zero keeps entries until deleted.
	TTL time.Duration

	// SyncWrites forces fsync per append. Default: true.
	SyncWrites bool
}

// DefaultConfig returns the production defaults for a given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		TTL:        7 * 24 * time.Hour,
		SyncWrites: true,
	}
}

// Stats is a point-in-time journal counter snapshot.
type Stats struct {
	TotalAppends  int64 `json:"total_appends"`
	TotalReplays  int64 `json:"total_replays"`
	LSMSizeBytes  int64 `json:"lsm_size_bytes"`
	VLogSizeBytes int64 `json:"vlog_size_bytes"`
}

// Journal is a BadgerDB-backed observation journal. Appends within one
// session must be serialized by the caller (the session manager holds one
// lock per session); appends across sessions may be concurrent.
type Journal struct {
	db  *badger.DB
	cfg Config

	totalAppends atomic.Int64
	totalReplays atomic.Int64

	// mu guards seqs and closed. seqs caches the next sequence number per
	// session, seeded from the store on first use after open.
	mu     sync.Mutex
	seqs   map[string]uint64
	closed bool
}

// Open opens (or creates) the journal at cfg.Path.
func Open(cfg Config) (*Journal, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("sync_writes", cfg.SyncWrites).
		Dur("ttl", cfg.TTL).
		Msg("Observation journal opened")

	return &Journal{db: db, cfg: cfg, seqs: make(map[string]uint64)}, nil
}

// Append durably records one observation for a session.
func (j *Journal) Append(ctx context.Context, sessionID string, o engine.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		metrics.RecordJournalAppend(ErrClosed)
		return ErrClosed
	}

	seq, err := j.nextSeqLocked(sessionID)
	if err != nil {
		metrics.RecordJournalAppend(err)
		return err
	}

	payload, err := json.Marshal(o)
	if err != nil {
		metrics.RecordJournalAppend(err)
		return fmt.Errorf("marshal observation: %w", err)
	}

	key := entryKey(sessionID, seq)
	err = j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, payload)
		if j.cfg.TTL > 0 {
			e = e.WithTTL(j.cfg.TTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		metrics.RecordJournalAppend(err)
		return fmt.Errorf("append observation: %w", err)
	}

	j.seqs[sessionID] = seq + 1
	j.totalAppends.Add(1)
	metrics.RecordJournalAppend(nil)
	return nil
}

// Replay returns a session's observations in append order. An unknown
// session replays empty. A corrupt entry fails the whole replay: a silently
// shortened log would reconstruct a different session.
func (j *Journal) Replay(ctx context.Context, sessionID string) ([]engine.Observation, error) {
	start := time.Now()

	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil, ErrClosed
	}
	j.mu.Unlock()

	var out []engine.Observation
	prefix := sessionPrefix(sessionID)

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var o engine.Observation
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &o)
			})
			if err != nil {
				return fmt.Errorf("corrupt entry %q: %w", string(it.Item().Key()), err)
			}
			out = append(out, o)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", sessionID, err)
	}

	j.totalReplays.Add(1)
	metrics.RecordJournalReplay(time.Since(start), len(out))
	return out, nil
}

// SessionMeta is the session attributes journaled once at creation.
// Observations alone rebuild the engine state; the meta entry preserves
// what the engine does not know, such as the session's domain filter.
type SessionMeta struct {
	LearnerTag string    `json:"learner_tag,omitempty"`
	Domain     string    `json:"domain,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PutMeta durably records a session's metadata. Written once at session
// creation, before the first observation.
func (j *Journal) PutMeta(ctx context.Context, sessionID string, meta SessionMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session meta: %w", err)
	}

	key := []byte(metaPrefix + sessionID)
	err = j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, payload)
		if j.cfg.TTL > 0 {
			e = e.WithTTL(j.cfg.TTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("put session meta: %w", err)
	}
	return nil
}

// Meta returns a session's metadata. The second return is false when the
// session has no meta entry (pre-meta journals, or TTL-expired meta with
// surviving observations).
func (j *Journal) Meta(ctx context.Context, sessionID string) (SessionMeta, bool, error) {
	if err := ctx.Err(); err != nil {
		return SessionMeta{}, false, err
	}

	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return SessionMeta{}, false, ErrClosed
	}
	j.mu.Unlock()

	var meta SessionMeta
	found := false
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaPrefix + sessionID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return SessionMeta{}, false, fmt.Errorf("read session meta %s: %w", sessionID, err)
	}
	return meta, found, nil
}

// Purge removes a session's meta and observations. Called after session
// completion so a finished session cannot be replayed back to life; purging
// an unknown session is a no-op.
func (j *Journal) Purge(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}

	prefix := sessionPrefix(sessionID)
	keys := [][]byte{[]byte(metaPrefix + sessionID)}
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge session %s: %w", sessionID, err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil && err != badger.ErrKeyNotFound {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge session %s: %w", sessionID, err)
	}

	delete(j.seqs, sessionID)
	return nil
}

// Stats returns journal counters and store sizes.
func (j *Journal) Stats() Stats {
	lsm, vlog := j.db.Size()
	return Stats{
		TotalAppends:  j.totalAppends.Load(),
		TotalReplays:  j.totalReplays.Load(),
		LSMSizeBytes:  lsm,
		VLogSizeBytes: vlog,
	}
}

// RunGC runs one value-log garbage collection pass. Badger reports
// ErrNoRewrite when there was nothing to collect; that is not a failure.
func (j *Journal) RunGC(ratio float64) error {
	err := j.db.RunValueLogGC(ratio)
	if err != nil && err != badger.ErrNoRewrite {
		return fmt.Errorf("journal gc: %w", err)
	}
	return nil
}

// Close flushes and closes the store. Further operations return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	logging.Info().Msg("Observation journal closed")
	return nil
}

// nextSeqLocked returns the next sequence number for a session, seeding
// from the last stored key when the session is first seen after open.
func (j *Journal) nextSeqLocked(sessionID string) (uint64, error) {
	if seq, ok := j.seqs[sessionID]; ok {
		return seq, nil
	}

	var next uint64
	prefix := sessionPrefix(sessionID)
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse-seek past the prefix range; the first valid key is the
		// session's highest sequence.
		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		key := string(it.Item().Key())
		seq, err := strconv.ParseUint(key[len(key)-seqDigits:], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed journal key %q: %w", key, err)
		}
		next = seq + 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	j.seqs[sessionID] = next
	return next, nil
}

func sessionPrefix(sessionID string) []byte {
	return []byte(keyPrefix + sessionID + ":")
}

func entryKey(sessionID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%0*d", keyPrefix, sessionID, seqDigits, seq))
}
