package model

import "github.com/cockroachdb/errors"

var (
	// ErrStructuralViolation marks an edge whose endpoints violate its
	// type's compatibility rule, or any other construction-time defect.
	// Fatal to the graph being built; the producing pipeline must fix it.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrUnsealedGraph is returned when a comparison is attempted on a
	// graph that has not been sealed yet.
	ErrUnsealedGraph = errors.New("graph not sealed")

	// ErrGraphSealed is returned on any mutation after Seal.
	ErrGraphSealed = errors.New("graph already sealed")
)
