package graph

import "errors"

var (
	// ErrDuplicateNode is returned when a node ID is already present in the store.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDanglingEdge is returned when an edge endpoint does not exist.
	ErrDanglingEdge = errors.New("dangling edge")

	// ErrInvalidNode is returned for nil nodes, empty IDs, and node types
	// outside the schema.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidRelation is returned for unknown relations and for relations
	// whose endpoint kinds do not match the schema.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrNodeNotFound is returned when a lookup names a node that does not exist.
	ErrNodeNotFound = errors.New("node not found")
)
