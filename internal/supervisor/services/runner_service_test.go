// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockRunner is a test double for the ContextRunner interface.
type mockRunner struct {
	runCount atomic.Int32
	err      error
}

func (m *mockRunner) RunWithContext(ctx context.Context) error {
	m.runCount.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerService_Interface(t *testing.T) {
	var _ suture.Service = (*RunnerService)(nil)
}

func TestRunnerServiceNames(t *testing.T) {
	runner := &mockRunner{}

	tests := []struct {
		svc  *RunnerService
		want string
	}{
		{NewHubService(runner), "websocket-hub"},
		{NewBroadcasterService(runner), "event-broadcaster"},
		{NewArchiveWriterService(runner), "archive-writer"},
		{NewForwarderService(runner), "nats-forwarder"},
	}
	for _, tc := range tests {
		if got := tc.svc.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestRunnerService_Serve(t *testing.T) {
	t.Run("delegates and returns on cancellation", func(t *testing.T) {
		runner := &mockRunner{}
		svc := NewHubService(runner)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancellation")
		}

		if got := runner.runCount.Load(); got != 1 {
			t.Errorf("expected 1 run, got %d", got)
		}
	})

	t.Run("propagates runner failure", func(t *testing.T) {
		failure := errors.New("subscriber closed")
		runner := &mockRunner{err: failure}
		svc := NewBroadcasterService(runner)

		if err := svc.Serve(context.Background()); !errors.Is(err, failure) {
			t.Errorf("expected runner error, got %v", err)
		}
	})
}
