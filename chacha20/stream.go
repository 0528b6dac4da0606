package chacha20

import "errors"

// ErrEndReached is returned by XORRead and SeekTo when the requested
// position lies at or past the end of the finite keystream for the
// state's mode (2^38 bytes in IETF mode, 2^70 bytes in original mode).
// There is no retry: callers may SeekTo an earlier valid position and
// continue from there.
var ErrEndReached = errors.New("chacha20: end of keystream reached")

// XORRead XORs len(dest) bytes of keystream into dest, advancing the
// stream position by len(dest) bytes. It drains whatever is left of the
// current block first, then generates and consumes further blocks as
// needed.
//
// On ErrEndReached, dest may have been partially XORed up to the point of
// failure; callers must treat it as garbage rather than partial output.
func (s *State) XORRead(dest []byte) error {
	if s.offset < BlockSize {
		n := BlockSize - int(s.offset)
		if n > len(dest) {
			n = len(dest)
		}
		for i := 0; i < n; i++ {
			dest[i] ^= s.output[int(s.offset)+i]
		}
		s.offset += uint8(n)
		dest = dest[n:]
	}

	for len(dest) > 0 {
		chunk := dest
		if len(chunk) > BlockSize {
			chunk = chunk[:BlockSize]
		}

		s.generateBlock()
		if err := s.incrementCounter(); err != nil {
			return err
		}

		for i := range chunk {
			chunk[i] ^= s.output[i]
		}
		if len(chunk) < BlockSize {
			s.offset = uint8(len(chunk))
		}

		dest = dest[len(chunk):]
	}

	return nil
}

// SeekTo repositions the logical stream cursor to byteOffset. It generates
// the block covering byteOffset immediately, so a subsequent XORRead reads
// bytes starting at byteOffset regardless of how the stream was previously
// consumed.
//
// In IETF mode, byteOffset values at or beyond 2^38 cannot be reached; this
// leaves the state in an exhausted position and returns ErrEndReached.
func (s *State) SeekTo(byteOffset uint64) error {
	if s.largeCounter {
		s.matrix[12] = uint32(byteOffset >> 6)
		s.matrix[13] = uint32(byteOffset >> 38)
	} else {
		if byteOffset >= BlockSize*(1<<32) {
			s.matrix[12] = 0
			s.offset = BlockSize
			return ErrEndReached
		}
		s.matrix[12] = uint32(byteOffset >> 6)
	}

	s.offset = uint8(byteOffset & 0x3f)
	s.generateBlock()

	before := s.matrix[12]
	s.matrix[12]++
	if s.matrix[12] < before && s.largeCounter {
		s.matrix[13]++
	}

	return nil
}
