package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"kiln/types"
)

// Tracer provides lowering tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if a node tag matches any of the filter patterns
func (t *Tracer) matchesFilter(tag string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, tag); matched {
			return true
		}
	}
	return false
}

// Lower logs one lowering step: the node tag plus a short detail
func (t *Tracer) Lower(tag string, detail string) {
	if !t.enabled || !t.matchesFilter(tag) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if detail != "" {
		fmt.Fprintf(t.writer, "[TRACE] LOWER %s %s\n", tag, detail)
	} else {
		fmt.Fprintf(t.writer, "[TRACE] LOWER %s\n", tag)
	}
}

// Result logs the value kind a node lowered to
func (t *Tracer) Result(tag string, kind types.Kind) {
	if !t.enabled || !t.matchesFilter(tag) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] RESULT %s => %s\n", tag, kind)
}

// Abort logs the classified error that ended the compile
func (t *Tracer) Abort(tag string, err error) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	code, _ := types.CodeOf(err)
	fmt.Fprintf(t.writer, "[TRACE] ABORT %s %s: %v\n", tag, code, err)
}

// Global convenience functions

// Lower logs a lowering step using the global tracer
func Lower(tag string, detail string) {
	if globalTracer != nil {
		globalTracer.Lower(tag, detail)
	}
}

// Result logs a lowering result using the global tracer
func Result(tag string, kind types.Kind) {
	if globalTracer != nil {
		globalTracer.Result(tag, kind)
	}
}

// Abort logs a compile abort using the global tracer
func Abort(tag string, err error) {
	if globalTracer != nil {
		globalTracer.Abort(tag, err)
	}
}
