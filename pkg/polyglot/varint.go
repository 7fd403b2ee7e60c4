package polyglot

import "math/bits"

const continuation = 0x80

// Maximum number of 7-bit groups per integer width.
const (
	MaxVarintLen16 = 3
	MaxVarintLen32 = 5
	MaxVarintLen64 = 10
)

type unsigned interface {
	~uint16 | ~uint32 | ~uint64
}

// width returns the bit width of T.
func width[T unsigned]() int {
	return bits.Len64(uint64(^T(0)))
}

// maxGroups returns MaxVarintLen16, MaxVarintLen32 or MaxVarintLen64 for T.
func maxGroups[T unsigned]() int {
	return (width[T]() + 6) / 7
}

// appendUvarint appends v to b, 7 bits at a time, least significant group
// first, with the continuation bit set on every group but the last.
func appendUvarint[T unsigned](b []byte, v T) []byte {
	for v >= continuation {
		b = append(b, byte(v)|continuation)
		v >>= 7
	}
	return append(b, byte(v))
}

// uvarint decodes a varint of type T from the start of b and returns the
// value and the number of bytes consumed. A stream that has not terminated
// within maxGroups, or whose final group carries bits beyond the width of
// T, fails with ErrVarintOverflow.
func uvarint[T unsigned](b []byte) (T, int, error) {
	groups := maxGroups[T]()
	// bits available in the last group
	last := byte(1)<<(width[T]()-7*(groups-1)) - 1

	var x T
	var s uint
	for i := 0; i < groups; i++ {
		if i >= len(b) {
			return 0, i, ErrTruncated
		}
		c := b[i]
		if c < continuation {
			if i == groups-1 && c > last {
				return 0, i + 1, ErrVarintOverflow
			}
			return x | T(c)<<s, i + 1, nil
		}
		x |= T(c&(continuation-1)) << s
		s += 7
	}
	return 0, groups, ErrVarintOverflow
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
