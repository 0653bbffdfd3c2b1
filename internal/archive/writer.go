// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package archive

import (
	"context"
	"fmt"

	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
)

// Writer consumes sessions.completed events and archives their
// summaries. Failures are logged and the event acked anyway: the archive
// is an analytic store, and replaying an insert that keeps failing would
// stall every event behind it.
type Writer struct {
	archive *Archive
	bus     *events.Bus
}

// NewWriter wires the archive to the bus.
func NewWriter(archive *Archive, bus *events.Bus) *Writer {
	return &Writer{archive: archive, bus: bus}
}

// RunWithContext consumes completion events until the context is
// cancelled or the bus closes.
func (w *Writer) RunWithContext(ctx context.Context) error {
	msgs, err := w.bus.Subscribe(ctx, events.TopicSessionCompleted)
	if err != nil {
		return fmt.Errorf("archive writer subscribe: %w", err)
	}

	for msg := range msgs {
		ev, err := events.Decode[events.SessionCompleted](msg)
		if err != nil {
			logging.Warn().Err(err).Msg("archive writer dropping malformed completion event")
			msg.Ack()
			continue
		}

		if err := w.archive.InsertSummary(ctx, summaryFromEvent(ev)); err != nil {
			logging.Error().Err(err).Str("session_id", ev.SessionID).Msg("failed to archive session summary")
		} else {
			logging.Debug().Str("session_id", ev.SessionID).Str("reason", ev.Reason).Msg("session archived")
		}
		msg.Ack()
	}
	return ctx.Err()
}

func summaryFromEvent(ev events.SessionCompleted) SessionSummary {
	return SessionSummary{
		SessionID:             ev.SessionID,
		LearnerTag:            ev.LearnerTag,
		Domain:                ev.Domain,
		Reason:                ev.Reason,
		StartedAt:             ev.StartedAt,
		CompletedAt:           ev.CompletedAt,
		QuestionsAsked:        ev.QuestionsAsked,
		FinalLevel:            ev.FinalLevel,
		ConfidenceOverall:     ev.Confidence.Overall,
		ConfidenceCoverage:    ev.Confidence.Coverage,
		ConfidenceUncertainty: ev.Confidence.UncertaintyConfidence,
		PerLevel:              ev.PerLevel,
	}
}
