package pipeline

import "errors"

var (
	// ErrIndexerRequired is returned when an indexer is not provided.
	ErrIndexerRequired = errors.New("indexer required")

	// ErrNoSources is returned when Run is called without any source pattern.
	ErrNoSources = errors.New("at least one source pattern required")
)
