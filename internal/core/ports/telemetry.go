package ports

import "context"

// Tracer records progress for units of work during a compile run.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Tracer interface {
	// Record starts recording a new vertex for the named unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one unit of work.
type Vertex interface {
	// Cached marks the vertex as satisfied without doing any work.
	Cached()

	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
}
