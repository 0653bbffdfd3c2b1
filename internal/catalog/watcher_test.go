// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const watcherDocV2 = `{
	"version": "v2",
	"items": [
		{"id": "p1", "kind": "probe", "positions": [{"x": 0.1, "y": 0.1}], "difficulty_level": 1},
		{"id": "p2", "kind": "probe", "positions": [{"x": 0.9, "y": 0.9}], "difficulty_level": 2}
	]
}`

func writeCatalogFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing catalog file: %v", err)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	writeCatalogFile(t, path, validDoc)

	initial, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	store := NewStore(initial)

	reloaded := make(chan *Catalog, 1)
	w := NewWatcher(path, store, func(c *Catalog) {
		select {
		case reloaded <- c:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	// Give the watcher time to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	writeCatalogFile(t, path, watcherDocV2)

	select {
	case c := <-reloaded:
		if c.Len() != 2 {
			t.Errorf("reloaded catalog Len() = %d, want 2", c.Len())
		}
		if store.Current() != c {
			t.Error("store should hold the reloaded catalog")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog reload")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not stop after cancel")
	}
}

func TestWatcherKeepsPreviousOnBadReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	writeCatalogFile(t, path, validDoc)

	initial, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	store := NewStore(initial)

	w := NewWatcher(path, store, nil)
	w.reload() // valid file, swaps an equivalent catalog

	writeCatalogFile(t, path, "{ not json")
	w.reload()

	if got := store.Current().Len(); got != 3 {
		t.Errorf("after failed reload, Current().Len() = %d, want previous 3", got)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	writeCatalogFile(t, path, validDoc)

	initial, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	store := NewStore(initial)

	reloaded := make(chan *Catalog, 1)
	w := NewWatcher(path, store, func(c *Catalog) {
		select {
		case reloaded <- c:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	writeCatalogFile(t, filepath.Join(dir, "other.json"), watcherDocV2)

	select {
	case <-reloaded:
		t.Error("sibling file write should not trigger a reload")
	case <-time.After(600 * time.Millisecond):
		// Debounce window passed with no reload
	}
}
