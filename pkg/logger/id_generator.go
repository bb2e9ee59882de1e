package logger

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

type IDGenerator interface {
	NewLogID(ctx context.Context) ID
}

// chachaIDGenerator is safe for concurrent use; rand.ChaCha8 itself is not.
type chachaIDGenerator struct {
	mu     sync.Mutex
	source *rand.ChaCha8
}

var _ IDGenerator = (*chachaIDGenerator)(nil)

func newIDGenerator(seed [32]byte) *chachaIDGenerator {
	return &chachaIDGenerator{source: rand.NewChaCha8(seed)}
}

// NewLogID never returns the zero ID.
func (gen *chachaIDGenerator) NewLogID(context.Context) ID {
	gen.mu.Lock()
	defer gen.mu.Unlock()

	var id ID
	for !id.IsValid() {
		_, _ = gen.source.Read(id[:])
	}
	return id
}

func defaultIDGenerator() IDGenerator {
	var seed [32]byte
	_ = binary.Read(crand.Reader, binary.LittleEndian, &seed)
	return newIDGenerator(seed)
}
