package desc

import (
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/internal/options"
	"github.com/arloliu/asn1codec/payload"
)

// IntRange sets the root [min,max] bound of an integer field.
func IntRange(min, max int64) FieldOption {
	return options.New(func(f *Field) error {
		if !f.Kind.IsInteger() {
			return errs.ErrWrongFieldKind
		}
		if min > max {
			return errs.ErrInvalidBounds
		}

		info := newIntInfo(min, max)
		f.IntInfo = &info

		return nil
	})
}

// IntExtended marks an integer field's range as PER-extensible, with the
// given extended bounds. IntRange must be applied first.
func IntExtended(extMin, extMax int64) FieldOption {
	return options.New(func(f *Field) error {
		if f.IntInfo == nil {
			return errs.ErrInvalidBounds
		}
		if extMin > extMax {
			return errs.ErrInvalidBounds
		}

		f.IntInfo.setExtended(extMin, extMax)

		return nil
	})
}

// StrRange sets the root [min,max] byte-length (or bit-length, for
// KindBitString) bound of a string field.
func StrRange(min, max int64) FieldOption {
	return options.New(func(f *Field) error {
		if !f.Kind.IsString() {
			return errs.ErrWrongFieldKind
		}
		if min > max {
			return errs.ErrInvalidBounds
		}

		info := newIntInfo(min, max)
		f.StrInfo = &info

		return nil
	})
}

// StrExtended marks a string field's length bound as PER-extensible.
func StrExtended(extMin, extMax int64) FieldOption {
	return options.New(func(f *Field) error {
		if f.StrInfo == nil {
			return errs.ErrInvalidBounds
		}
		if extMin > extMax {
			return errs.ErrInvalidBounds
		}

		f.StrInfo.setExtended(extMin, extMax)

		return nil
	})
}

// CountRange sets the root [min,max] element-count bound of a SEQUENCE OF
// field.
func CountRange(min, max int64) FieldOption {
	return options.New(func(f *Field) error {
		if f.Mode != SeqOf {
			return errs.ErrWrongFieldKind
		}
		if min > max {
			return errs.ErrInvalidBounds
		}

		info := newIntInfo(min, max)
		f.SeqOfInfo = &info

		return nil
	})
}

// CountExtended marks a SEQUENCE OF field's count bound as PER-extensible.
func CountExtended(extMin, extMax int64) FieldOption {
	return options.New(func(f *Field) error {
		if f.SeqOfInfo == nil {
			return errs.ErrInvalidBounds
		}
		if extMin > extMax {
			return errs.ErrInvalidBounds
		}

		f.SeqOfInfo.setExtended(extMin, extMax)

		return nil
	})
}

// EnumValues registers the ordered list of allowed values for a KindEnum
// field.
func EnumValues(values ...int64) FieldOption {
	return options.New(func(f *Field) error {
		if f.Kind != KindEnum {
			return errs.ErrWrongFieldKind
		}

		info := &EnumInfo{}
		for _, v := range values {
			if err := info.register(v); err != nil {
				return err
			}
		}
		f.EnumInfo = info

		return nil
	})
}

// EnumExtended marks an enum field's value set as PER-extensible.
func EnumExtended() FieldOption {
	return options.New(func(f *Field) error {
		if f.EnumInfo == nil {
			return errs.ErrInvalidBounds
		}

		f.EnumInfo.Extended = true

		return nil
	})
}

// OpenType sets the field's IsOpenType flag and its OpenTypeBufLen size
// hint. The codecs select open-type encoding from KindOpenType and read
// neither value; IsOpenType only lets Compressed accept the field.
func OpenType(bufLen int) FieldOption {
	return options.New(func(f *Field) error {
		f.IsOpenType = true
		f.OpenTypeBufLen = bufLen

		return nil
	})
}

// Pointed records that the host representation this field was generated
// for addresses its value via an owning pointer. Informational only; see
// Field.Pointed.
func Pointed() FieldOption {
	return options.New(func(f *Field) error {
		f.Pointed = true

		return nil
	})
}

// Sub attaches a sub-descriptor to a composite field (SEQUENCE, CHOICE,
// UNTAGGED_CHOICE, EXT, or a SEQUENCE OF whose elements are composite).
func Sub(d *Descriptor) FieldOption {
	return options.New(func(f *Field) error {
		f.Sub = d

		return nil
	})
}

// Compressed wires a payload codec onto an opaque or open-type field. For a
// KindOpaque field, raw content bytes are passed through codec on encode
// and reversed through it on decode, never touching TLV/PER framing;
// neither codec applies it to open-type content.
func Compressed(codec payload.Codec) FieldOption {
	return options.New(func(f *Field) error {
		if f.Kind != KindOpaque && !f.IsOpenType {
			return errs.ErrWrongFieldKind
		}

		f.PayloadCodec = codec

		return nil
	})
}
