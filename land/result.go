package land

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code classifies the outcome of a Land operation, per the taxonomy in
// the Failover design: OK and FAIL are both expected, routine outcomes;
// AllocFailure is a resource-exhaustion condition the Failover knows how
// to recover from; Param and Unknown are surfaced to the caller.
type Code int

const (
	// OK indicates success.
	OK Code = iota
	// FAIL indicates a logically-expected negative outcome, such as a
	// range not being present for deletion.
	FAIL
	// AllocFailure indicates a child could not allocate metadata to
	// represent the requested mutation.
	AllocFailure
	// Param indicates invalid input to a diagnostic entrypoint.
	Param
	// Unknown carries a child-specific kind this module does not
	// otherwise name; Result.Err holds the wrapped cause when UnknownErr
	// was given a non-nil error.
	Unknown
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case FAIL:
		return "FAIL"
	case AllocFailure:
		return "ALLOC_FAILURE"
	case Param:
		return "PARAM"
	case Unknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Result is the outcome of a Land operation. Err is non-nil only for
// Param and Unknown codes, where it carries the underlying cause (often a
// wrapped child error) for callers using errors.Is/errors.As.
type Result struct {
	Code Code
	Err  error
}

// Ok returns the canonical success Result.
func Ok() Result { return Result{Code: OK} }

// Fail returns the canonical "not found" / "refused" Result.
func Fail() Result { return Result{Code: FAIL} }

// Alloc returns the canonical metadata-exhaustion Result.
func Alloc() Result { return Result{Code: AllocFailure} }

// ParamErr wraps err as a Param-coded Result.
func ParamErr(err error) Result { return Result{Code: Param, Err: err} }

// UnknownErr wraps err (typically a child's own error) as an Unknown-coded
// Result, preserving the error chain via errors.Wrap.
func UnknownErr(err error, context string) Result {
	return Result{Code: Unknown, Err: errors.Wrap(err, context)}
}

// Success reports whether the operation succeeded outright.
func (r Result) Success() bool { return r.Code == OK }

// Recoverable reports whether the outcome is the kind of resource
// exhaustion the Failover spills or splits around: anything other than
// OK or FAIL, including Unknown — an unrecognized child error is
// conservatively treated as a reason to try the other child rather than
// to fail the whole operation outright, but is also surfaced if the
// other child does not save it (see failover.Insert).
func (r Result) Recoverable() bool { return r.Code != OK && r.Code != FAIL }

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Code, r.Err)
	}

	return r.Code.String()
}
