// Package logging provides the structured logger used throughout the
// catalog engine. internal/catalog and internal/persist accept a
// *zap.SugaredLogger in their Config structs, in the style of the teacher's
// engine/storage/index packages, so they stay testable (pass
// zaptest.NewLogger in tests) and warnings and progress lines share one
// sink.
package logging

import (
	"go.uber.org/zap"
)

// New builds a production-profile logger scoped to the given component
// name (e.g. "catalog", "persist", "transindex.fn").
func New(component string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().Named(component)
}

// NewDevelopment builds a development-profile logger (human-readable,
// colorized console output, debug level enabled) for the given component.
// Intended for the CLI and for ad-hoc debugging, mirroring the spec's
// "debug-builds additionally emit progress traces" requirement (§7).
func NewDevelopment(component string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().Named(component)
}

// Noop returns a logger that discards everything, for tests that don't
// care about log output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
