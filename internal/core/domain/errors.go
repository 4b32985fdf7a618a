package domain

import "go.trai.ch/zerr"

var (
	// ErrNotTracked is returned when a fingerprint has no entry in the manifest.
	ErrNotTracked = zerr.New("fingerprint not tracked")

	// ErrDigestMismatch is returned when a tracked file's content no longer
	// matches its recorded digest.
	ErrDigestMismatch = zerr.New("digest mismatch")
)
