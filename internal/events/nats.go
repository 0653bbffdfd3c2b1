// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

//go:build nats

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mathesis/internal/logging"
)

// NATSConfig configures the JetStream server the forwarder publishes
// into. When URL is set the forwarder connects to that external server;
// otherwise it embeds one in-process on Host:Port.
type NATSConfig struct {
	URL      string
	Host     string
	Port     int
	StoreDir string
}

// EmbeddedServer wraps an in-process NATS JetStream server so single-node
// deployments need no external broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server, waiting
// up to 30 seconds for it to accept connections.
func NewEmbeddedServer(cfg NATSConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "mathesis-events",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  true,
		StoreDir:   cfg.StoreDir,
		MaxPayload: 1 * 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}
	ns.ConfigureLogger()

	go ns.Start()
	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready within timeout")
	}

	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server and waits for it to wind down.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}

// Forwarder drains the in-process bus into NATS JetStream for
// out-of-process consumers. Forwarding is best effort: in-process
// subscribers have already received each message, so a failed forward is
// logged and dropped rather than replayed.
type Forwarder struct {
	bus     *Bus
	server  *EmbeddedServer
	pub     message.Publisher
	breaker *gobreaker.CircuitBreaker[any]
	topics  []string
}

// NewForwarder connects a JetStream publisher to the configured server,
// embedding one in-process unless cfg.URL names an external broker. The
// publisher is circuit-broken so a wedged broker cannot stall the
// forward loop indefinitely.
func NewForwarder(cfg NATSConfig, bus *Bus) (*Forwarder, error) {
	var srv *EmbeddedServer
	url := cfg.URL
	if url == "" {
		var err error
		srv, err = NewEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		url = srv.ClientURL()
	}

	pubCfg := wmNats.PublisherConfig{
		URL: url,
		NatsOptions: []natsgo.Option{
			natsgo.RetryOnFailedConnect(true),
			natsgo.MaxReconnects(-1),
			natsgo.ReconnectWait(2 * time.Second),
		},
		Marshaler: &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(pubCfg, NewLoggerAdapter())
	if err != nil {
		if srv != nil {
			srv.Shutdown()
		}
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "nats-forwarder",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Event forwarder circuit state changed")
		},
	})

	return &Forwarder{
		bus:     bus,
		server:  srv,
		pub:     pub,
		breaker: breaker,
		topics: []string{
			TopicObservationRecorded,
			TopicSessionCompleted,
			TopicConfidenceUpdated,
		},
	}, nil
}

// RunWithContext forwards bus messages to NATS until the context is
// cancelled or the bus closes.
func (f *Forwarder) RunWithContext(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range f.topics {
		ch, err := f.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("forwarder subscribe: %w", err)
		}

		wg.Add(1)
		go func(topic string, ch <-chan *message.Message) {
			defer wg.Done()
			for msg := range ch {
				f.forward(topic, msg)
				msg.Ack()
			}
		}(topic, ch)
	}

	wg.Wait()
	return ctx.Err()
}

func (f *Forwarder) forward(topic string, msg *message.Message) {
	// Nats-Msg-Id drives JetStream deduplication across reconnects.
	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	_, err := f.breaker.Execute(func() (any, error) {
		return nil, f.pub.Publish(topic, msg)
	})
	if err != nil {
		logging.Error().Err(err).Str("topic", topic).Msg("Event forward to NATS failed")
	}
}

// Close releases the publisher and, when one was embedded, shuts the
// server down.
func (f *Forwarder) Close() error {
	err := f.pub.Close()
	if f.server != nil {
		f.server.Shutdown()
	}
	return err
}
