package graph

import "errors"

var (
	// ErrInvalidLabel is returned when an entity or relationship label
	// fails the safety pattern. Labels are interpolated into Cypher text
	// (the driver cannot parameterize them), so anything outside the
	// pattern never reaches the store.
	ErrInvalidLabel = errors.New("graph: invalid label")

	// ErrInvalidProperty is returned for property keys outside the label
	// pattern or for non-scalar property values. Keys are interpolated
	// into match clauses the same way labels are.
	ErrInvalidProperty = errors.New("graph: invalid property")

	// ErrNoProperties is returned when a match operation is given no
	// constraining properties. An unconstrained match is never intended.
	ErrNoProperties = errors.New("graph: no match properties")

	// ErrNotFound is returned by GetEntity when no node matches.
	ErrNotFound = errors.New("graph: entity not found")

	// ErrInvalidDepth is returned when a traversal depth is below 1.
	ErrInvalidDepth = errors.New("graph: depth must be at least 1")
)
