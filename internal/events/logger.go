// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mathesis/internal/logging"
)

// loggerAdapter bridges Watermill's logging into the application logger,
// so bus internals land in the same structured stream as everything else.
type loggerAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter returns a Watermill logger writing through the global
// application logger under the events component.
func NewLoggerAdapter() watermill.LoggerAdapter {
	return &loggerAdapter{
		logger: logging.With().Str("component", "events").Logger(),
	}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{
		logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}
