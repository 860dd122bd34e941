package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/jg18/fs2open.github.com/internal/model"
)

var (
	debugLoggingEnabled atomic.Bool
	tracedShip          atomic.Pointer[string]
)

// EnableDebugLogging turns per-tick AI debug logging on or off.
// Called once from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-tick debug logging is on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}

// TraceShip limits per-tick debug lines to the ship with the given name. An empty
// name traces every ship.
func TraceShip(name string) {
	if name == "" {
		tracedShip.Store(nil)
		return
	}
	tracedShip.Store(&name)
}

// traced reports whether debug lines about ship should be written.
func traced(ship *model.Object) bool {
	if !debugLoggingEnabled.Load() {
		return false
	}
	only := tracedShip.Load()
	return only == nil || (ship != nil && ship.Name == *only)
}

func (t *tick) tracing() bool { return traced(t.self) }

// debug writes a debug line tagged with the ship, its submode and mission time.
// Arguments that are costly to build should be guarded with tracing.
func (t *tick) debug(msg string, args ...any) {
	if !t.tracing() {
		return
	}
	attrs := make([]any, 0, len(args)+6)
	attrs = append(attrs, "ship", t.self.Name)
	if t.a.mode != nil {
		attrs = append(attrs, "submode", t.a.Submode().String())
	}
	attrs = append(attrs, "at", t.now.Seconds())
	slog.Debug(msg, append(attrs, args...)...)
}
