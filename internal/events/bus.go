// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/mathesis/internal/metrics"
)

// DefaultBufferSize is the per-subscriber output channel buffer used when
// no buffer size is configured.
const DefaultBufferSize = 64

// Bus is the in-process pub/sub fabric. Publishes are fan-out: every
// subscriber of a topic receives its own copy. Slow subscribers buffer up
// to the configured size and then exert backpressure on publishers, so
// consumers must drain promptly (the websocket hub drops instead of
// blocking for exactly this reason).
type Bus struct {
	pubsub *gochannel.GoChannel

	mu     sync.Mutex
	closed bool
}

// NewBus creates an in-process bus. bufferSize <= 0 selects the default.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(bufferSize),
	}, NewLoggerAdapter())
	return &Bus{pubsub: pubsub}
}

// Publish serializes the payload and fans it out to the topic's
// subscribers.
func (b *Bus) Publish(topic string, payload any) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		err := fmt.Errorf("bus is closed")
		metrics.RecordEventPublished(topic, err)
		return err
	}
	b.mu.Unlock()

	msg, err := NewMessage(payload)
	if err != nil {
		metrics.RecordEventPublished(topic, err)
		return err
	}

	err = b.pubsub.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of messages for a topic. The channel closes
// when ctx is cancelled or the bus closes. Consumers must Ack or Nack
// every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return msgs, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
