package core

import (
	"fmt"
	"io"
)

// Tracer writes one line per traced event to an underlying writer, in the
// teacher's line-oriented execution/flag/register trace style. Any field
// left false is simply never emitted; nil Tracer disables tracing entirely
// (every call site nil-checks before using it).
type Tracer struct {
	w io.Writer

	Instructions bool
	Registers    bool
	Flags        bool
	Exceptions   bool

	// MaxEntries caps the number of lines written; 0 means unlimited. Once
	// reached, every subsequent call is a silent no-op rather than growing
	// the trace file without bound.
	MaxEntries int
	emitted    int
}

// NewTracer wraps a writer; callers enable the categories they want.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// underBudget reports whether another line may be written, and accounts for
// it. Called once per emitted line, not per trace event, so a Register/Flag
// line following an Instruction line each consume their own slot.
func (t *Tracer) underBudget() bool {
	if t.MaxEntries > 0 && t.emitted >= t.MaxEntries {
		return false
	}
	t.emitted++
	return true
}

func (t *Tracer) Instruction(pc uint32, word uint32) {
	if t == nil || !t.Instructions || !t.underBudget() {
		return
	}
	fmt.Fprintf(t.w, "%08X: %08X\n", pc, word)
}

func (t *Tracer) Register(reg int, old, new uint32) {
	if t == nil || !t.Registers || old == new || !t.underBudget() {
		return
	}
	fmt.Fprintf(t.w, "  R%d: %08X -> %08X\n", reg, old, new)
}

func (t *Tracer) FlagChange(p PSR) {
	if t == nil || !t.Flags || !t.underBudget() {
		return
	}
	fmt.Fprintf(t.w, "  flags: N=%v Z=%v C=%v V=%v\n", p.N, p.Z, p.C, p.V)
}

func (t *Tracer) Exception(kind ExceptionKind, returnAddr uint32) {
	if t == nil || !t.Exceptions || !t.underBudget() {
		return
	}
	fmt.Fprintf(t.w, "  exception %s -> vector %08X, link=%08X\n", kind, kind.vector(), returnAddr)
}

// Undefined logs a diagnostic-only undefined-instruction sub-case (§4.F),
// e.g. PC as a multiply destination: execution still completes a defined
// fallback result, so this never vectors.
func (t *Tracer) Undefined(reason string) {
	if t == nil || !t.underBudget() {
		return
	}
	fmt.Fprintf(t.w, "  undefined-subcase: %s\n", reason)
}
