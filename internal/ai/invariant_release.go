//go:build !aidebug

package ai

import (
	"fmt"
	"log/slog"
)

// invariant logs a broken invariant and drops the ship into mode none.
func (t *tick) invariant(ok bool, format string, args ...any) {
	if ok {
		return
	}
	slog.Error("ai invariant violated", "ship", t.self.Name, "detail", fmt.Sprintf(format, args...))
	t.setMode(&noneState{})
}
