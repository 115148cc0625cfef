package desc

import (
	"math"
	"math/bits"

	"github.com/arloliu/asn1codec/errs"
)

// IntInfo describes the root (and optionally extended) bounds of an integer
// field, with the derived fields the PER codec needs precomputed at
// registration time rather than recomputed on every encode/decode call.
//
// StrInfo and SeqOfInfo reuse the exact same shape, applied to a string's
// byte length or a SEQUENCE OF's element count respectively — the source
// keeps three structurally identical structs for clarity; this module
// collapses them into one type used three ways.
type IntInfo struct {
	Min, Max int64

	Extended bool
	ExtMin   int64
	ExtMax   int64

	// Constrained is false when Min == math.MinInt64 or Max == math.MaxInt64
	// — i.e. the root range is unbounded on at least one side.
	Constrained bool
	// DMax is Max - Min, valid only when Constrained.
	DMax uint64
	// MaxBitLen is the bit-length of DMax (0 if DMax == 0).
	MaxBitLen int
	// MaxOctetLenBitLen is the bit-length of the octet count needed to hold
	// DMax, used by the PER codec's octet-form compound length encoding.
	MaxOctetLenBitLen int
}

// StrInfo bounds the byte length of an octet-string/character-string/
// bit-string field.
type StrInfo = IntInfo

// SeqOfInfo bounds the element count of a SEQUENCE OF field.
type SeqOfInfo = IntInfo

func newIntInfo(min, max int64) IntInfo {
	info := IntInfo{Min: min, Max: max}
	info.deriveRoot()

	return info
}

func (info *IntInfo) deriveRoot() {
	if info.Min == math.MinInt64 || info.Max == math.MaxInt64 {
		info.Constrained = false
		info.DMax = 0
		info.MaxBitLen = 0
		info.MaxOctetLenBitLen = 0

		return
	}

	info.Constrained = true
	info.DMax = uint64(info.Max - info.Min)
	info.MaxBitLen = bitLen(info.DMax)
	info.MaxOctetLenBitLen = bitLen(uint64(octetCount(info.DMax)))
}

func (info *IntInfo) setExtended(extMin, extMax int64) {
	info.Extended = true
	info.ExtMin = extMin
	info.ExtMax = extMax
}

// bitLen returns the number of bits needed to represent d, 0 if d == 0.
func bitLen(d uint64) int {
	return bits.Len64(d)
}

// octetCount returns the number of octets needed to hold d in a big-endian
// unsigned representation, 0 if d == 0.
func octetCount(d uint64) int {
	return (bitLen(d) + 7) / 8
}

// EnumInfo is the ordered list of allowed values for an ENUMERATED field.
type EnumInfo struct {
	Values   []int64
	Extended bool

	// rootBitLen is the bit-length of the 0-based root index, cached on
	// every registration per §4.1 ("cached bit-length for the root index,
	// computed as bit-length(n-1) on update") — the same bitLen helper
	// int_info uses for d_max, applied to n-1.
	rootBitLen int
}

// RootBitLen returns the number of bits needed to encode a 0-based index
// into the root value list.
func (e *EnumInfo) RootBitLen() int {
	return e.rootBitLen
}

func (e *EnumInfo) register(v int64) error {
	for _, existing := range e.Values {
		if existing == v {
			return errs.ErrDuplicateEnumValue
		}
	}
	if len(e.Values) >= 256 {
		return errs.ErrTooManyEnumValues
	}

	e.Values = append(e.Values, v)
	e.rootBitLen = bitLen(uint64(len(e.Values) - 1))

	return nil
}

// IndexOf returns the 0-based index of v in the root value list, or -1.
func (e *EnumInfo) IndexOf(v int64) int {
	for i, existing := range e.Values {
		if existing == v {
			return i
		}
	}

	return -1
}
