// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/mathesis/internal/logging"
)

// defaultDebounce batches rapid write events (editors and atomic-rename
// writers emit several per save) into a single reload.
const defaultDebounce = 250 * time.Millisecond

// ReloadHook is invoked after a successful reload with the new catalog.
type ReloadHook func(*Catalog)

// Watcher reloads the catalog file on change and swaps it into a Store.
// Write events are debounced; a failed reload keeps the previous catalog.
//
// Implements suture.Service: Serve blocks until the context is canceled.
type Watcher struct {
	path     string
	store    *Store
	debounce time.Duration
	onReload ReloadHook
}

// NewWatcher creates a watcher for the catalog file at path.
// The hook may be nil.
func NewWatcher(path string, store *Store, onReload ReloadHook) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		debounce: defaultDebounce,
		onReload: onReload,
	}
}

// Serve implements suture.Service. It watches the catalog file's directory
// (watching the file itself breaks on atomic-rename writers) and reloads on
// debounced change events until ctx is canceled.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info().
		Str("path", w.path).
		Dur("debounce", w.debounce).
		Msg("Catalog watcher started")

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logging.Info().Str("path", w.path).Msg("Catalog watcher stopped")
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("file watcher event channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Reset or start the debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("file watcher error channel closed")
			}
			logging.Warn().Err(err).Msg("Catalog watcher error")
		}
	}
}

// reload loads the catalog file and swaps it in on success. Failures are
// logged and the previous catalog stays current.
func (w *Watcher) reload() {
	c, err := LoadFile(w.path)
	if err != nil {
		logging.Error().Err(err).Str("path", w.path).Msg("Catalog reload failed, keeping previous catalog")
		return
	}

	old := w.store.Swap(c)
	logging.Info().
		Str("path", w.path).
		Int("items", c.Len()).
		Int("previous_items", old.Len()).
		Msg("Catalog reloaded")

	if w.onReload != nil {
		w.onReload(c)
	}
}
