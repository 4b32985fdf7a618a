package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mast/internal/core/ports"
)

const VerifierNodeID graft.ID = "adapter.verifier"

func init() {
	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}
