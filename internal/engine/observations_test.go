// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// --- Test: ObservationLog ---

func TestObservationLogAppendOrder(t *testing.T) {
	t.Parallel()

	log := NewObservationLog()
	for i, id := range []string{"a", "b", "c"} {
		log.Append(Observation{ItemID: id, Outcome: float64(i) / 2})
	}

	if log.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", log.Len())
	}
	snap := log.Snapshot()
	for i, id := range []string{"a", "b", "c"} {
		if snap[i].ItemID != id {
			t.Errorf("Snapshot()[%d].ItemID = %q, want %q", i, snap[i].ItemID, id)
		}
	}
}

func TestObservationLogSnapshotIsolation(t *testing.T) {
	t.Parallel()

	log := NewObservationLog()
	log.Append(Observation{ItemID: "a"})

	snap := log.Snapshot()
	log.Append(Observation{ItemID: "b"})

	if len(snap) != 1 {
		t.Fatalf("snapshot length changed after append: %d", len(snap))
	}

	// Appending through a snapshot must reallocate, never write into the
	// log's backing array.
	_ = append(snap, Observation{ItemID: "x"})
	if got := log.Snapshot()[1].ItemID; got != "b" {
		t.Errorf("log entry overwritten via snapshot append: got %q, want %q", got, "b")
	}
}

// --- Test: observation derivation ---

func TestNewObservationAnswer(t *testing.T) {
	t.Parallel()

	it := &catalog.Item{
		ID:              "q1",
		Kind:            catalog.KindProbe,
		Positions:       []catalog.Position{{X: 0.3, Y: 0.7}},
		DifficultyLevel: 2,
	}
	w := DefaultConfig().Weights

	o := newObservation(it, 0.8, false, w)

	if o.ItemID != "q1" {
		t.Errorf("ItemID = %q, want %q", o.ItemID, "q1")
	}
	if o.Position != (catalog.Position{X: 0.3, Y: 0.7}) {
		t.Errorf("Position = %v, want (0.3, 0.7)", o.Position)
	}
	if o.Outcome != 0.8 {
		t.Errorf("Outcome = %v, want 0.8", o.Outcome)
	}
	if o.Weight != w.Answer {
		t.Errorf("Weight = %v, want answer weight %v", o.Weight, w.Answer)
	}
	if o.DifficultyLevel != 2 {
		t.Errorf("DifficultyLevel = %d, want 2", o.DifficultyLevel)
	}
	if o.Timestamp.IsZero() || o.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want non-zero UTC", o.Timestamp)
	}
}

func TestNewObservationSkip(t *testing.T) {
	t.Parallel()

	it := &catalog.Item{
		ID:              "q1",
		Kind:            catalog.KindProbe,
		Positions:       []catalog.Position{{X: 0.5, Y: 0.5}},
		DifficultyLevel: 1,
	}
	w := DefaultConfig().Weights

	// The outcome argument is ignored for skips, even when unusable.
	o := newObservation(it, math.NaN(), true, w)

	if o.Outcome != 0 {
		t.Errorf("skip Outcome = %v, want 0", o.Outcome)
	}
	if o.Weight != w.Skip {
		t.Errorf("skip Weight = %v, want %v", o.Weight, w.Skip)
	}
}

// Every observation carries positive weight: a skip is weak evidence, not
// a discarded event.
func TestObservationWeightAlwaysPositive(t *testing.T) {
	t.Parallel()

	it := &catalog.Item{
		ID:              "q1",
		Kind:            catalog.KindProbe,
		Positions:       []catalog.Position{{X: 0.5, Y: 0.5}},
		DifficultyLevel: 1,
	}
	w := DefaultConfig().Weights

	for _, skipped := range []bool{false, true} {
		o := newObservation(it, 1.0, skipped, w)
		if o.Weight <= 0 {
			t.Errorf("skipped=%v: Weight = %v, want > 0", skipped, o.Weight)
		}
		if err := validateObservation(o); err != nil {
			t.Errorf("skipped=%v: validateObservation = %v, want nil", skipped, err)
		}
	}
}

func TestValidateObservation(t *testing.T) {
	t.Parallel()

	valid := Observation{
		ItemID:          "q1",
		Position:        catalog.Position{X: 0.5, Y: 0.5},
		Outcome:         0.7,
		Weight:          1.0,
		DifficultyLevel: 3,
	}

	tests := []struct {
		name    string
		mutate  func(*Observation)
		wantErr bool
	}{
		{"valid", func(*Observation) {}, false},
		{"outcome zero", func(o *Observation) { o.Outcome = 0 }, false},
		{"outcome one", func(o *Observation) { o.Outcome = 1 }, false},
		{"outcome NaN", func(o *Observation) { o.Outcome = math.NaN() }, true},
		{"outcome negative", func(o *Observation) { o.Outcome = -0.1 }, true},
		{"outcome above one", func(o *Observation) { o.Outcome = 1.1 }, true},
		{"weight zero", func(o *Observation) { o.Weight = 0 }, true},
		{"weight negative", func(o *Observation) { o.Weight = -0.5 }, true},
		{"weight above one", func(o *Observation) { o.Weight = 1.5 }, true},
		{"weight NaN", func(o *Observation) { o.Weight = math.NaN() }, true},
		{"level below minimum", func(o *Observation) { o.DifficultyLevel = 0 }, true},
		{"level above maximum", func(o *Observation) { o.DifficultyLevel = 6 }, true},
		{"position out of bounds", func(o *Observation) { o.Position = catalog.Position{X: 1.5, Y: 0.5} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := valid
			tt.mutate(&o)
			err := validateObservation(o)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateObservation() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidObservation) {
				t.Errorf("error %v does not wrap ErrInvalidObservation", err)
			}
		})
	}
}
