package core

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the generator. Callers match them with errors.Is.
var (
	// ErrInvalidArgument marks malformed configuration or contract misuse.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientData marks a request the map cannot satisfy in full.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNonConvergence marks an iterative pass that hit its cap.
	ErrNonConvergence = errors.New("non-convergence")
	// ErrGeometryDegeneracy marks input the triangulation cannot handle.
	ErrGeometryDegeneracy = errors.New("geometry degeneracy")
)

// Diagnostic is a non-fatal condition reported by a stage. Kind is the
// sentinel it would have been reported as had the stage given up.
type Diagnostic struct {
	Kind    error
	Message string
}

// Warn builds a Diagnostic with a formatted message.
func Warn(kind error, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) Error() string {
	if d.Kind == nil {
		return d.Message
	}
	return d.Kind.Error() + ": " + d.Message
}

func (d Diagnostic) Unwrap() error { return d.Kind }
