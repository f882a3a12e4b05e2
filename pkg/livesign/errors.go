package livesign

import (
	"errors"
	"fmt"
)

// Stage names the step of the signing pipeline that failed.
type Stage string

const (
	StageToken Stage = "token"
	StageQuery Stage = "query"
	StagePanic Stage = "panic"
)

// Fault is an internal signing failure.
//
// Faults never escape Generate; they are reported through Config.Logger and
// Config.OnFault while the caller receives a fallback Result. Verify returns
// them directly.
type Fault struct {
	Stage Stage
	Err   error
}

// Error returns the fault message.
func (f *Fault) Error() string {
	return fmt.Sprintf("livesign: %s fault: %v", f.Stage, f.Err)
}

// Unwrap returns the underlying cause.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Is reports whether target is a *Fault for the same stage.
//
// A target with an empty Stage matches any fault.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	if !ok {
		return false
	}
	return t.Stage == "" || t.Stage == f.Stage
}

// Predefined causes.
var (
	// ErrMalformedEscape is returned when a query value holds an invalid
	// percent escape such as "%zz" or a trailing "%".
	ErrMalformedEscape = errors.New("livesign: malformed percent escape")

	// ErrInvalidEncoding is returned when the URL or a decoded value is not
	// valid UTF-8.
	ErrInvalidEncoding = errors.New("livesign: invalid UTF-8")

	// ErrBadToken is returned when a token source yields something other
	// than a base-36 token of the requested length.
	ErrBadToken = errors.New("livesign: malformed random token")
)
