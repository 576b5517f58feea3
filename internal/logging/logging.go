// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

// Package logging wraps github.com/luxfi/log so every core component logs
// through the same facade the rest of the module uses, with a no-op
// implementation for tests and for components that are never configured
// with a real sink.
package logging

import (
	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// Logger is the interface every core component depends on. A
// github.com/luxfi/log.Logger is adapted to it through New.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

// wrapped adapts a github.com/luxfi/log.Logger to Logger.
type wrapped struct {
	inner log.Logger
}

// New adapts an existing luxfi/log.Logger.
func New(inner log.Logger) Logger {
	return &wrapped{inner: inner}
}

func (w *wrapped) Debug(msg string, fields ...zap.Field) { w.inner.Debug(msg, fields...) }
func (w *wrapped) Info(msg string, fields ...zap.Field)  { w.inner.Info(msg, fields...) }
func (w *wrapped) Warn(msg string, fields ...zap.Field)  { w.inner.Warn(msg, fields...) }
func (w *wrapped) Error(msg string, fields ...zap.Field) { w.inner.Error(msg, fields...) }
func (w *wrapped) With(fields ...zap.Field) Logger {
	return &wrapped{inner: w.inner.WithFields(fields...)}
}

// zapLogger adapts a *zap.Logger directly, for callers that want a real
// sink without going through a github.com/luxfi/log.Logger instance.
type zapLogger struct {
	inner *zap.Logger
}

// NewZap adapts an existing *zap.Logger.
func NewZap(inner *zap.Logger) Logger {
	return &zapLogger{inner: inner}
}

func (z *zapLogger) Debug(msg string, fields ...zap.Field) { z.inner.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...zap.Field)  { z.inner.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...zap.Field)  { z.inner.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...zap.Field) { z.inner.Error(msg, fields...) }
func (z *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{inner: z.inner.With(fields...)}
}

// noop never logs; used as the logger in tests.
type noop struct{}

// NewNoOp returns a Logger that discards everything.
func NewNoOp() Logger { return noop{} }

func (noop) Debug(string, ...zap.Field) {}
func (noop) Info(string, ...zap.Field)  {}
func (noop) Warn(string, ...zap.Field)  {}
func (noop) Error(string, ...zap.Field) {}
func (n noop) With(...zap.Field) Logger { return n }
