package desc

import "github.com/arloliu/asn1codec/payload"

// FieldKind classifies the wire shape of a field, analogous to the source's
// kind enum spanning scalar, null, string, composite, and extensibility
// kinds.
type FieldKind uint8

const (
	KindBool FieldKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindEnum
	KindNull
	KindOptNull
	KindOctetString
	KindCharString
	KindBitString
	KindSequence
	KindChoice
	KindUntaggedChoice
	KindExt
	KindOpaque
	KindSkip
	KindOpenType
)

func (k FieldKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindEnum:
		return "enum"
	case KindNull:
		return "null"
	case KindOptNull:
		return "opt-null"
	case KindOctetString:
		return "octet-string"
	case KindCharString:
		return "character-string"
	case KindBitString:
		return "bit-string"
	case KindSequence:
		return "sequence"
	case KindChoice:
		return "choice"
	case KindUntaggedChoice:
		return "untagged-choice"
	case KindExt:
		return "ext"
	case KindOpaque:
		return "opaque"
	case KindSkip:
		return "skip"
	case KindOpenType:
		return "open-type"
	default:
		return "unknown"
	}
}

// IsInteger reports whether k is one of the signed/unsigned integer kinds
// that IntInfo constraints apply to.
func (k FieldKind) IsInteger() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	default:
		return false
	}
}

// IsString reports whether k is one of the kinds StrInfo constraints apply
// to.
func (k FieldKind) IsString() bool {
	switch k {
	case KindOctetString, KindCharString, KindBitString:
		return true
	default:
		return false
	}
}

// Mode is a field's multiplicity within its owning descriptor.
type Mode uint8

const (
	Mandatory Mode = iota
	Optional
	SeqOf
)

func (m Mode) String() string {
	switch m {
	case Mandatory:
		return "mandatory"
	case Optional:
		return "optional"
	case SeqOf:
		return "seq-of"
	default:
		return "unknown"
	}
}

// Field is one entry in a Descriptor's field list.
type Field struct {
	Name     string
	TypeName string

	Tag  Tag
	Mode Mode
	Kind FieldKind

	IntInfo   *IntInfo
	StrInfo   *StrInfo
	SeqOfInfo *SeqOfInfo
	EnumInfo  *EnumInfo

	IsOpenType     bool
	OpenTypeBufLen int

	// Sub is the sub-descriptor for KindSequence, KindChoice,
	// KindUntaggedChoice, KindExt fields, and for the element field of a
	// SEQUENCE OF whose elements are themselves composite.
	Sub *Descriptor

	// PayloadCodec, when set on a KindOpaque field, wraps the raw content
	// bytes on encode and unwraps them on decode. It never touches TLV/PER
	// framing, only the opaque payload itself. Neither codec applies it to
	// open-type fields.
	PayloadCodec payload.Codec

	// Pointed records whether the host representation this field was
	// generated for addresses its value via an owning pointer rather than
	// storing it inline. It is informational only: the Go value model
	// (package value) always represents both the same way, as a value.Value
	// held directly or through a *value.Ext.
	Pointed bool
}
