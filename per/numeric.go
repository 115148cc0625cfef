package per

import (
	"encoding/binary"
	"math/bits"

	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/errs"
)

// octetCount returns the number of big-endian octets needed to hold d, 0 if
// d == 0. Mirrors desc.IntInfo's own derivation of MaxOctetLenBitLen so the
// two agree on what "the octet count of d_max" means.
func octetCount(d uint64) int {
	return (bits.Len64(d) + 7) / 8
}

// minimalSignedBytes returns the minimal big-endian two's-complement
// representation of v, at least one byte.
func minimalSignedBytes(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))

	i := 0
	for i < 7 {
		b, next := buf[i], buf[i+1]
		if b == 0x00 && next&0x80 == 0 {
			i++
			continue
		}
		if b == 0xFF && next&0x80 != 0 {
			i++
			continue
		}

		break
	}

	return buf[i:]
}

// minimalUnsignedBytes returns the minimal big-endian unsigned
// representation of v, at least one byte (for v == 0).
func minimalUnsignedBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)

	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}

	return buf[i:]
}

func decodeSignedBytes(b []byte) (int64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, errs.ErrMalformedHeader
	}

	var u uint64
	for _, x := range b {
		u = u<<8 | uint64(x)
	}

	return bitio.SignExtend(u, len(b)*8), nil
}

func decodeUnconstrainedUnsigned(b []byte) (uint64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, errs.ErrMalformedHeader
	}

	var u uint64
	for _, x := range b {
		u = u<<8 | uint64(x)
	}

	return u, nil
}
