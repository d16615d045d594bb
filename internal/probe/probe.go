// Package probe implements guarded attempts against components of
// uncertain interface shape. A probe applies a configured value through an
// optional capability and reports whether it was applied or skipped; it
// never panics into the caller and never aborts the surrounding run.
package probe

import (
	"errors"
	"fmt"
)

// ErrCapabilityAbsent reports that the target does not expose the probed
// operation at all.
var ErrCapabilityAbsent = errors.New("capability not present")

// Outcome describes one probe attempt.
type Outcome struct {
	// Name identifies the probed operation.
	Name string

	// Applied is true when the operation ran to completion.
	Applied bool

	// Err holds the skip reason when Applied is false.
	Err error
}

// Skipped reports whether the probe was skipped rather than applied.
func (o Outcome) Skipped() bool { return !o.Applied }

// String renders the outcome for debug logging.
func (o Outcome) String() string {
	if o.Applied {
		return o.Name + ": applied"
	}
	return fmt.Sprintf("%s: skipped (%v)", o.Name, o.Err)
}

// Try invokes fn and reports the outcome. Panics raised by fn are
// recovered and recorded as the skip reason.
func Try(name string, fn func() error) (out Outcome) {
	out.Name = name
	defer func() {
		if r := recover(); r != nil {
			out.Applied = false
			out.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	if fn == nil {
		out.Err = ErrCapabilityAbsent
		return out
	}
	if err := fn(); err != nil {
		out.Err = err
		return out
	}
	out.Applied = true
	return out
}

// Capability asserts the capability interface S against target and, when
// present, invokes call under the same guarantees as Try. An absent
// capability yields a skipped outcome with ErrCapabilityAbsent.
func Capability[S any](target any, name string, call func(S) error) Outcome {
	s, ok := target.(S)
	if !ok {
		return Outcome{Name: name, Err: ErrCapabilityAbsent}
	}
	return Try(name, func() error { return call(s) })
}
