package truss

import (
	"errors"

	"github.com/alexiusacademia/gotruss/internal/geometry"
)

// Analysis errors. All of them are fatal to the analysis attempt; callers
// should test for them with errors.Is.
var (
	ErrMissingLoad        = errors.New("truss load has not been defined")
	ErrUnknownJoint       = errors.New("no joint at the given coordinates")
	ErrSingularMatrix     = errors.New("free-DOF stiffness matrix is singular (unstable structure)")
	ErrDegenerateMember   = geometry.ErrDegenerateMember
	ErrConflictingSupport = errors.New("joint redefined with a different support condition")
	ErrEmptyTruss         = errors.New("truss has no members")
)

// ValidationError represents a truss definition error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
