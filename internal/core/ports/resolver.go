package ports

import (
	"context"
	"time"
)

// Resolver is the build resolver collaborator: it expands name specifiers
// into concrete logical paths and produces compiled artifact descriptors.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Expand resolves specifiers (exact names or glob patterns) into logical
	// paths. Absolute paths are not expanded here; the coordinator passes
	// them through unchanged.
	Expand(ctx context.Context, specifiers []string) ([]string, error)

	// Resolve returns the compiled artifact for a logical path.
	// Returns nil, nil when the name does not resolve to anything.
	Resolve(ctx context.Context, name string) (Artifact, error)
}

// Artifact describes one compiled asset ready to be materialized.
type Artifact interface {
	// LogicalPath is the stable human-facing name, e.g. "application.js".
	LogicalPath() string

	// Fingerprint is the content-addressed output filename.
	Fingerprint() string

	// Digest is the hex-encoded content hash.
	Digest() string

	// Mtime is the source modification time recorded in the manifest.
	Mtime() time.Time

	// Size is the artifact size in bytes.
	Size() int64

	// WriteTo materializes the artifact at the destination path.
	WriteTo(dst string) error
}
