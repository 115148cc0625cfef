package ber

import (
	"encoding/binary"

	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/errs"
)

// minimalSignedBytes returns the minimal big-endian two's-complement
// representation of v: the shortest byte string that sign-extends back to
// v, per spec's "minimal two's-complement big-endian representation."
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
// representation of v, with an extra leading 0x00 byte when the
// high-order bit of the shortest representation is set — the ASN.1
// convention that disambiguates an unsigned INTEGER from a negative one.
func minimalUnsignedBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)

	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}

	if buf[i]&0x80 != 0 {
		out := make([]byte, 8-i+1)
		copy(out[1:], buf[i:])

		return out
	}

	return buf[i:]
}

// decodeSignedBytes parses b (1..8 bytes) as a big-endian two's-complement
// signed integer.
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

// decodeUnsignedBytes parses b as a big-endian unsigned integer bounded by
// nativeSize bytes, tolerating exactly one extra leading 0x00 byte (the
// "oversize unsigned integer" case spec.md calls out: accepted only when
// the encoded length is exactly nativeSize+1).
func decodeUnsignedBytes(b []byte, nativeSize int) (uint64, error) {
	if len(b) == 0 {
		return 0, errs.ErrMalformedHeader
	}

	if len(b) > nativeSize {
		if len(b) != nativeSize+1 || b[0] != 0x00 {
			return 0, errs.ErrMalformedHeader
		}

		b = b[1:]
	}

	var u uint64
	for _, x := range b {
		u = u<<8 | uint64(x)
	}

	return u, nil
}

// unusedBits returns the number of padding bits in a bit string's last
// octet for a value of bitLen bits: (8 - bitLen mod 8) mod 8.
func unusedBits(bitLen int) int {
	return (8 - bitLen%8) % 8
}
