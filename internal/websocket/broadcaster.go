// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package websocket

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
)

// Broadcaster subscribes to the event bus and pushes session activity to
// the hub. It is the only coupling between the bus and websocket clients;
// the session layer never talks to the hub directly.
type Broadcaster struct {
	hub *Hub
	bus *events.Bus
}

// NewBroadcaster wires a hub to the bus.
func NewBroadcaster(hub *Hub, bus *events.Bus) *Broadcaster {
	return &Broadcaster{hub: hub, bus: bus}
}

// RunWithContext consumes bus topics until the context is cancelled or
// the bus closes. Malformed payloads are logged and acked; one bad event
// must not wedge the subscription.
func (b *Broadcaster) RunWithContext(ctx context.Context) error {
	type topicHandler struct {
		topic  string
		handle func(*message.Message)
	}

	handlers := []topicHandler{
		{events.TopicObservationRecorded, b.handleObservation},
		{events.TopicConfidenceUpdated, b.handleConfidence},
		{events.TopicSessionCompleted, b.handleCompleted},
	}

	var wg sync.WaitGroup
	for _, th := range handlers {
		msgs, err := b.bus.Subscribe(ctx, th.topic)
		if err != nil {
			return fmt.Errorf("broadcaster subscribe: %w", err)
		}

		wg.Add(1)
		go func(th topicHandler, msgs <-chan *message.Message) {
			defer wg.Done()
			for msg := range msgs {
				th.handle(msg)
				msg.Ack()
			}
		}(th, msgs)
	}

	wg.Wait()
	return ctx.Err()
}

// handleObservation pushes the observation and flags the mastery grid
// stale: every accepted response moves the field.
func (b *Broadcaster) handleObservation(msg *message.Message) {
	ev, err := events.Decode[events.ObservationRecorded](msg)
	if err != nil {
		logging.Warn().Err(err).Msg("broadcaster dropping malformed observation event")
		return
	}
	b.hub.BroadcastJSON(MessageTypeObservation, ev)
	b.hub.BroadcastGridRefresh(ev.SessionID)
}

func (b *Broadcaster) handleConfidence(msg *message.Message) {
	ev, err := events.Decode[events.ConfidenceUpdated](msg)
	if err != nil {
		logging.Warn().Err(err).Msg("broadcaster dropping malformed confidence event")
		return
	}
	b.hub.BroadcastConfidence(ev.SessionID, ev.Confidence)
}

func (b *Broadcaster) handleCompleted(msg *message.Message) {
	ev, err := events.Decode[events.SessionCompleted](msg)
	if err != nil {
		logging.Warn().Err(err).Msg("broadcaster dropping malformed completion event")
		return
	}
	b.hub.BroadcastJSON(MessageTypeSessionCompleted, ev)
}
