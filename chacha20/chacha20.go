// Package chacha20 implements the ChaCha20 stream cipher as specified in
// https://datatracker.ietf.org/doc/html/rfc8439. It exposes a seekable,
// incrementally-consumable keystream: callers XOR arbitrary-sized chunks
// of the stream into their own buffers and may seek to any byte offset.
//
// The package only produces the raw keystream. Higher-level constructions
// such as ChaCha20-Poly1305 AEAD, and key/nonce provenance (KDFs, random
// generation), are out of scope.
package chacha20

import "math/bits"

// BlockSize is the size (in bytes) of one ChaCha20 keystream block.
const BlockSize = 64

// Rounds is the standard ChaCha20 round count used by the block pump.
const Rounds = 20

// constant is the ChaCha "expand 32-byte k" constant, as four little-endian
// 32-bit words.
var constant = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// PermuteOnly runs rounds/2 double-rounds of the ChaCha permutation over
// matrix in place, without adding the original matrix back in. rounds must
// be even.
func PermuteOnly(rounds uint8, matrix *[16]uint32) {
	*matrix = permute(rounds, *matrix, false)
}

// PermuteAndAdd runs rounds/2 double-rounds of the ChaCha permutation over
// matrix, then adds (32-bit wrapping) the original matrix word-wise into
// the result and writes that back in place. rounds must be even.
func PermuteAndAdd(rounds uint8, matrix *[16]uint32) {
	*matrix = permute(rounds, *matrix, true)
}

// permute runs rounds/2 double-rounds over a copy of in, optionally adding
// the original matrix back into the result, and returns the final matrix.
func permute(rounds uint8, in [16]uint32, addOriginal bool) [16]uint32 {
	working := in

	for i := uint8(0); i < rounds/2; i++ {
		columnRound(&working)
		diagonalRound(&working)
	}

	if addOriginal {
		for i := range working {
			working[i] += in[i]
		}
	}

	return working
}

// columnRound applies quarterRound to each column of the 4x4 matrix.
func columnRound(m *[16]uint32) {
	m[0], m[4], m[8], m[12] = quarterRound(m[0], m[4], m[8], m[12])
	m[1], m[5], m[9], m[13] = quarterRound(m[1], m[5], m[9], m[13])
	m[2], m[6], m[10], m[14] = quarterRound(m[2], m[6], m[10], m[14])
	m[3], m[7], m[11], m[15] = quarterRound(m[3], m[7], m[11], m[15])
}

// diagonalRound applies quarterRound to each diagonal of the 4x4 matrix.
func diagonalRound(m *[16]uint32) {
	m[0], m[5], m[10], m[15] = quarterRound(m[0], m[5], m[10], m[15])
	m[1], m[6], m[11], m[12] = quarterRound(m[1], m[6], m[11], m[12])
	m[2], m[7], m[8], m[13] = quarterRound(m[2], m[7], m[8], m[13])
	m[3], m[4], m[9], m[14] = quarterRound(m[3], m[4], m[9], m[14])
}

// quarterRound is the ChaCha quarter-round function: four wrapping adds,
// xors, and fixed-distance rotates, with no data-dependent branches.
func quarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	a += b
	d ^= a
	d = bits.RotateLeft32(d, 16)

	c += d
	b ^= c
	b = bits.RotateLeft32(b, 12)

	a += b
	d ^= a
	d = bits.RotateLeft32(d, 8)

	c += d
	b ^= c
	b = bits.RotateLeft32(b, 7)

	return a, b, c, d
}
