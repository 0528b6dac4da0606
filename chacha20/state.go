package chacha20

import "encoding/binary"

// freshOffset is the sentinel value of offset meaning "no block has ever
// been generated" — only true immediately after construction.
const freshOffset = 255

// State is a stateful instance of the ChaCha20 stream cipher. It holds the
// 16-word input matrix (constants, key, counter, nonce), the 64-byte output
// of the most recently generated block, and enough bookkeeping to resume
// an XORRead or SeekTo call at any byte offset.
//
// A State is not safe for concurrent use.
type State struct {
	// matrix is the 4x4 input matrix: constants, key, counter, nonce.
	matrix [16]uint32

	// output holds the most recently generated 64-byte keystream block.
	output [64]byte

	// offset is the next unused byte in output. 0..=64 during normal
	// operation; freshOffset before the first block has been generated.
	offset uint8

	// largeCounter selects original mode (64-bit counter, 64-bit nonce)
	// over IETF mode (32-bit counter, 96-bit nonce).
	largeCounter bool
}

// New creates a ChaCha20 state in IETF mode: a 32-bit block counter and a
// 96-bit nonce. The block counter starts at 0.
func New(key [32]byte, nonce [12]byte) *State {
	m := baseMatrix(key)
	m[13] = binary.LittleEndian.Uint32(nonce[0:4])
	m[14] = binary.LittleEndian.Uint32(nonce[4:8])
	m[15] = binary.LittleEndian.Uint32(nonce[8:12])

	return &State{matrix: m, offset: freshOffset}
}

// NewWithSmallNonce creates a ChaCha20 state in original mode: a 64-bit
// block counter split across matrix[12:14] and a 64-bit nonce. The block
// counter starts at 0.
func NewWithSmallNonce(key [32]byte, nonce [8]byte) *State {
	m := baseMatrix(key)
	m[14] = binary.LittleEndian.Uint32(nonce[0:4])
	m[15] = binary.LittleEndian.Uint32(nonce[4:8])

	return &State{matrix: m, offset: freshOffset, largeCounter: true}
}

// baseMatrix builds the portion of the input matrix shared by both modes:
// the ChaCha constants, the key, and a zeroed counter. The nonce words are
// filled in by the caller.
func baseMatrix(key [32]byte) [16]uint32 {
	var m [16]uint32

	copy(m[0:4], constant[:])
	for i := 0; i < 8; i++ {
		m[4+i] = binary.LittleEndian.Uint32(key[i*4 : i*4+4])
	}
	// m[12] (and m[13] in original mode) is the block counter, starting at 0.

	return m
}

// generateBlock computes permute-and-add over the current input matrix and
// writes the 64-byte result into output. The input matrix itself is left
// unchanged; only the counter advances, via incrementCounter.
func (s *State) generateBlock() {
	result := permute(Rounds, s.matrix, true)
	for i, word := range result {
		binary.LittleEndian.PutUint32(s.output[i*4:i*4+4], word)
	}
}

// incrementCounter advances the block counter to the next block, following
// generateBlock. It reports ErrEndReached once the counter can no longer be
// advanced within the stream's finite length for this mode.
func (s *State) incrementCounter() error {
	if s.matrix[12] != 0 {
		// Common case: bump the low word, carrying into the high word in
		// original mode if it wrapped.
		before := s.matrix[12]
		s.matrix[12]++
		if s.matrix[12] < before && s.largeCounter {
			s.matrix[13]++
		}
		return nil
	}

	// matrix[12] == 0: either this is the very first block (offset still
	// carries the fresh-state sentinel), or the low counter word wrapped
	// to 0 on a prior increment.
	if s.offset == freshOffset {
		s.matrix[12] = 1
		s.offset = 64
		return nil
	}

	if !s.largeCounter || s.matrix[13] == 0 {
		return ErrEndReached
	}

	// Original mode: the high word absorbed the carry on the prior
	// increment and is nonzero, so the 64-bit counter hasn't rolled over.
	// The block just generated used low word 0; move on to low word 1.
	s.matrix[12] = 1
	return nil
}
