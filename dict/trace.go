package dict

import (
	"fmt"
	"sync"
)

// TraceEvent is one structured record appended to a Trace during a query.
// Pretty-printing a trace is out of scope for this package (see SPEC_FULL.md
// §4.9); callers that want human-readable output format Events themselves.
type TraceEvent struct {
	Gram      string
	Candidate uint32
	Distance  int
	Note      string
}

// Trace is an optional per-query debug sink. It models the original
// implementation's compile-time debug-trace flag as a runtime parameter:
// pass a non-nil *Trace to FindTrace to collect events, or nil (the default
// through Find) to skip tracing overhead entirely.
//
// Trace is safe for concurrent appends from the threaded search
// coordinator's workers.
type Trace struct {
	mu     sync.Mutex
	Events []TraceEvent
}

// NewTrace returns an empty Trace ready to be passed to FindTrace.
func NewTrace() *Trace { return &Trace{} }

func (t *Trace) append(e TraceEvent) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.Events = append(t.Events, e)
	t.mu.Unlock()
}

func (t *Trace) logf(format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.append(TraceEvent{Note: fmt.Sprintf(format, args...)})
}
