package solr

import "context"

// Indexer is the remote document-indexing service.
// Implementations must be safe for concurrent use; the uploader shares one
// Indexer across all in-flight requests.
type Indexer interface {
	// Extract sends one document to the content extraction/update handler.
	// Returns a *TransportError when no response was received and a
	// *StatusError when the service answered with a non-2xx status.
	Extract(ctx context.Context, doc Document) error

	// Commit makes every previously extracted document visible to queries.
	Commit(ctx context.Context) error

	// Ping checks that the service is alive. It is not part of the upload path.
	Ping(ctx context.Context) error

	// Close releases resources held by the client.
	Close() error
}

// Document is a single file prepared for extraction.
type Document struct {
	// ID is the unique key stored in the index (literal.id).
	ID string

	// ResourceName is the name the extractor uses to sniff the format
	// (resource.name).
	ResourceName string

	// ContentType is sent as the request Content-Type.
	ContentType string

	// Body holds the raw file bytes.
	Body []byte
}
