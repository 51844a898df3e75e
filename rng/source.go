package rng

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source provides uniformly random 64-bit words.
//
// Implementations must be safe for concurrent use.
type Source interface {
	Uint64() uint64
}

// Func adapts an ordinary function to the [Source] interface.
type Func func() uint64

// Uint64 implements [Source].
func (f Func) Uint64() uint64 { return f() }

type cryptoSource struct{}

// Uint64 reads 8 bytes from [crypto/rand.Reader].
func (cryptoSource) Uint64() uint64 {
	var buf [8]byte

	// crypto/rand.Read never returns an error on supported platforms; it
	// crashes the program irrecoverably instead.
	_, _ = rand.Read(buf[:])

	return binary.LittleEndian.Uint64(buf[:])
}

// Crypto is the default [Source], backed by the operating system's CSPRNG.
var Crypto Source = cryptoSource{}

// seeded is a deterministic ChaCha8 stream guarded by a mutex.
type seeded struct {
	mu  sync.Mutex
	gen *mrand.ChaCha8
}

// NewSeeded returns a deterministic [Source] derived from seed.
// Two sources created with the same seed produce the same sequence of words.
func NewSeeded(seed uint64) Source {
	var key [32]byte

	binary.LittleEndian.PutUint64(key[:], seed)

	return &seeded{gen: mrand.NewChaCha8(key)}
}

// Uint64 implements [Source].
func (s *seeded) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen.Uint64()
}
