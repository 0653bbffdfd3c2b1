// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package events carries session activity over an in-process Watermill
// pub/sub bus. The session layer publishes after every state change;
// the websocket broadcaster and the session archive consume. Builds with
// the nats tag can additionally forward the bus to NATS JetStream for
// out-of-process consumers.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/mathesis/internal/engine"
)

// Topics published by the session layer.
const (
	// TopicObservationRecorded fires after each accepted response.
	TopicObservationRecorded = "observations.recorded"

	// TopicSessionCompleted fires when a session completes or expires.
	TopicSessionCompleted = "sessions.completed"

	// TopicConfidenceUpdated fires whenever a confidence report changes.
	TopicConfidenceUpdated = "confidence.updated"
)

// ObservationRecorded is published after a response is accepted and the
// session level re-evaluated.
type ObservationRecorded struct {
	SessionID       string    `json:"session_id"`
	ItemID          string    `json:"item_id"`
	Outcome         float64   `json:"outcome"`
	Weight          float64   `json:"weight"`
	Skipped         bool      `json:"skipped"`
	DifficultyLevel int       `json:"difficulty_level"`
	SessionLevel    int       `json:"session_level"`
	Timestamp       time.Time `json:"timestamp"`
}

// ConfidenceUpdated is published with the fresh confidence report after
// each recorded observation.
type ConfidenceUpdated struct {
	SessionID  string            `json:"session_id"`
	Confidence engine.Confidence `json:"confidence"`
	Timestamp  time.Time         `json:"timestamp"`
}

// SessionCompleted is published once per session, on explicit completion
// or idle expiry. It carries everything the archive stores, so consumers
// never reach back into live session state.
type SessionCompleted struct {
	SessionID      string                    `json:"session_id"`
	LearnerTag     string                    `json:"learner_tag,omitempty"`
	Domain         string                    `json:"domain,omitempty"`
	Reason         string                    `json:"reason"`
	StartedAt      time.Time                 `json:"started_at"`
	CompletedAt    time.Time                 `json:"completed_at"`
	QuestionsAsked int                       `json:"questions_asked"`
	FinalLevel     int                       `json:"final_level"`
	Confidence     engine.Confidence         `json:"confidence"`
	PerLevel       map[int]engine.LevelStats `json:"per_level"`
}

// Completion reasons carried by SessionCompleted.
const (
	ReasonCompleted = "completed"
	ReasonExpired   = "expired"
)

// NewMessage wraps a payload in a Watermill message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return message.NewMessage(uuid.New().String(), data), nil
}

// Decode unmarshals a message payload into the given event type.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return out, nil
}
