//go:build aidebug

package ai

import "fmt"

// invariant panics in aidebug builds so broken state is caught where it happens.
func (t *tick) invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("ai invariant: %s: ", t.self.Name) + fmt.Sprintf(format, args...))
	}
}
