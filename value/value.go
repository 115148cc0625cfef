// Package value implements the dynamic tagged-union host value used by both
// wire codecs: one registered descriptor (see package desc) drives the size,
// BER, and PER passes over the same Value tree.
//
// This replaces the original struct-offset / pointer-arithmetic host layout
// with a single generic container: a Value carries its own Kind discriminant
// instead of the codec reaching into caller structs via recorded byte
// offsets, so one descriptor can walk either codec without any reflection
// or unsafe pointer arithmetic.
package value

// Kind discriminates which field of a Value is meaningful. The zero value,
// KindAbsent, represents an OPTIONAL field that was not present — scalar
// optionals decode to KindAbsent with their numeric fields left at zero,
// matching the source's "{value, has_field}" record collapsed into one
// discriminated union member.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindInt
	KindUint
	KindBytes
	KindBitString
	KindSequence
	KindChoice
	KindSeqOf
	KindExt
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBytes:
		return "bytes"
	case KindBitString:
		return "bit-string"
	case KindSequence:
		return "sequence"
	case KindChoice:
		return "choice"
	case KindSeqOf:
		return "seq-of"
	case KindExt:
		return "ext"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is the dynamic tagged union exchanged between a desc.Descriptor and
// both wire codecs. Only the member(s) matching Kind are meaningful.
type Value struct {
	Kind Kind

	Bool bool
	Int  int64
	Uint uint64

	// Bytes holds octet-string/character-string content for KindBytes, or
	// the tightly packed bit content (plus trailing zero padding in the
	// last byte) for KindBitString.
	Bytes []byte
	// BitLen is the number of significant bits in Bytes for KindBitString.
	BitLen int

	// Fields holds one entry per registered field of a SEQUENCE/SET, in
	// registration order. An absent OPTIONAL field is KindAbsent.
	Fields []Value

	// ChoiceIndex is the 0-based index of the selected alternative and
	// Choice is its value, for KindChoice.
	ChoiceIndex int
	Choice      *Value

	// Elems holds the repeated elements of a SEQUENCE OF, for KindSeqOf.
	Elems []Value

	// Ext holds a deferred external sub-tree, for KindExt.
	Ext *Ext

	// Opaque holds already-packed bytes produced by a caller-supplied pack
	// hook (optionally passed through a payload.Codec), for KindOpaque.
	Opaque []byte
}

// Ext defers encoding/decoding of a sub-tree to a separately registered
// descriptor while retaining the raw byte range it was read from, mirroring
// the source's {data, desc, has_value, raw_ps} holder. The sub-descriptor
// pointer itself lives on the owning desc.Field, not here, to avoid an
// import cycle between value and desc.
type Ext struct {
	Value    Value
	Raw      []byte
	HasValue bool
}

// Absent returns the zero Value, representing an absent OPTIONAL field.
func Absent() Value { return Value{Kind: KindAbsent} }

// Null returns a Value of KindNull.
func Null() Value { return Value{Kind: KindNull} }

// NewBool returns a Value of KindBool.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewInt returns a Value of KindInt.
func NewInt(v int64) Value { return Value{Kind: KindInt, Int: v} }

// NewUint returns a Value of KindUint.
func NewUint(v uint64) Value { return Value{Kind: KindUint, Uint: v} }

// NewBytes returns a Value of KindBytes wrapping b. b is not copied.
func NewBytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// NewBitString returns a Value of KindBitString. bits holds the packed content,
// MSB-first, with unused trailing bits in the last byte zeroed; bitLen is
// the number of significant bits.
func NewBitString(bits []byte, bitLen int) Value {
	return Value{Kind: KindBitString, Bytes: bits, BitLen: bitLen}
}

// NewSequence returns a Value of KindSequence over fields. fields is not
// copied.
func NewSequence(fields []Value) Value {
	return Value{Kind: KindSequence, Fields: fields}
}

// NewChoice returns a Value of KindChoice selecting alternative index.
func NewChoice(index int, alt Value) Value {
	return Value{Kind: KindChoice, ChoiceIndex: index, Choice: &alt}
}

// NewSeqOf returns a Value of KindSeqOf over elems. elems is not copied.
func NewSeqOf(elems []Value) Value {
	return Value{Kind: KindSeqOf, Elems: elems}
}

// NewExt returns a Value of KindExt.
func NewExt(ext *Ext) Value { return Value{Kind: KindExt, Ext: ext} }

// NewOpaque returns a Value of KindOpaque wrapping already-packed bytes.
func NewOpaque(b []byte) Value { return Value{Kind: KindOpaque, Opaque: b} }

// IsAbsent reports whether v represents an absent OPTIONAL field.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }
