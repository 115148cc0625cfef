package per

import (
	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Decoder parses an Aligned PER byte slice into a value.Value tree driven
// by a desc.Descriptor, mirroring ber.Decoder's shape but reading bits
// instead of self-describing tag-length-value records.
type Decoder struct {
	hook trace.Hook
}

// NewDecoder returns a ready-to-use Decoder with diagnostics disabled.
func NewDecoder() *Decoder {
	return &Decoder{hook: trace.Noop()}
}

// SetHook wires a diagnostic Hook into the decoder. See ber.Decoder.SetHook.
func (dec *Decoder) SetHook(h trace.Hook) {
	if h == nil {
		h = trace.Noop()
	}

	dec.hook = h
}

func (dec *Decoder) trace(level trace.Level, msg string, args ...any) {
	if dec.hook == nil {
		return
	}

	dec.hook.Trace(level, msg, args...)
}

// Unmarshal decodes data against d. Per spec.md §4.4.6, after consuming
// the top-level value the reader is byte-aligned and the remaining byte
// slice returned to the caller for downstream framing.
func (dec *Decoder) Unmarshal(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, []byte, error) {
	r := bitio.NewReader(data)

	v, err := dec.decodeComposite(r, d, a, copyMode)
	if err != nil {
		return value.Value{}, nil, err
	}

	r.Align()

	rest, err := r.GetBytes(r.LenBits() / 8)
	if err != nil {
		return value.Value{}, nil, err
	}

	return v, rest, nil
}

func (dec *Decoder) decodeComposite(r *bitio.Reader, d *desc.Descriptor, a *arena.Arena, copyMode bool) (value.Value, error) {
	switch {
	case d.IsSeqOf:
		return dec.decodeSeqOf(r, d, a, copyMode)

	case d.Type == desc.TypeChoice:
		return dec.decodeChoice(r, d, a, copyMode)

	default:
		return dec.decodeSequence(r, d, a, copyMode)
	}
}

func (dec *Decoder) decodeSequence(r *bitio.Reader, d *desc.Descriptor, a *arena.Arena, copyMode bool) (value.Value, error) {
	if d.Extended {
		bit, err := r.GetBit()
		if err != nil {
			return value.Value{}, err
		}
		if bit == 1 {
			return value.Value{}, errs.ErrExtensionUnsupported
		}
	}

	presence := make(map[int]bool, len(d.OptFields))
	for _, idx := range d.OptFields {
		bit, err := r.GetBit()
		if err != nil {
			return value.Value{}, err
		}

		presence[idx] = bit == 1
	}

	fields := make([]value.Value, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]

		if f.Mode == desc.Optional && !presence[i] {
			fields[i] = value.Absent()

			continue
		}

		fv, err := dec.decodeField(r, f, a, copyMode)
		if err != nil {
			return value.Value{}, errs.WithField(err, f.Name)
		}

		fields[i] = fv
	}

	return value.NewSequence(fields), nil
}

func (dec *Decoder) decodeChoice(r *bitio.Reader, d *desc.Descriptor, a *arena.Arena, copyMode bool) (value.Value, error) {
	if d.Extended {
		bit, err := r.GetBit()
		if err != nil {
			return value.Value{}, err
		}
		if bit == 1 {
			return value.Value{}, errs.ErrExtensionUnsupported
		}
	}

	idx64, err := readInteger(r, &d.ChoiceIntInfo)
	if err != nil {
		return value.Value{}, err
	}

	idx := int(idx64)
	if idx < 0 || idx >= len(d.Fields) {
		return value.Value{}, errs.ErrChoiceMiss
	}

	f := &d.Fields[idx]
	dec.trace(trace.LevelVerbose, "choice %q: root index %d selects alternative %q", d.Name, idx, f.Name)

	altVal, err := dec.decodeField(r, f, a, copyMode)
	if err != nil {
		return value.Value{}, err
	}

	return value.NewChoice(idx, altVal), nil
}

func (dec *Decoder) decodeSeqOf(r *bitio.Reader, d *desc.Descriptor, a *arena.Arena, copyMode bool) (value.Value, error) {
	elemField := &d.Fields[0]

	count, err := readLengthDeterminant(r, elemField.SeqOfInfo)
	if err != nil {
		return value.Value{}, err
	}

	elems := make([]value.Value, count)
	for i := range elems {
		ev, err := dec.decodeField(r, elemField, a, copyMode)
		if err != nil {
			return value.Value{}, err
		}

		elems[i] = ev
	}

	return value.NewSeqOf(elems), nil
}

func (dec *Decoder) decodeField(r *bitio.Reader, f *desc.Field, a *arena.Arena, copyMode bool) (value.Value, error) {
	switch f.Kind {
	case desc.KindBool:
		bit, err := r.GetBit()
		if err != nil {
			return value.Value{}, err
		}

		return value.NewBool(bit == 1), nil

	case desc.KindInt8, desc.KindInt16, desc.KindInt32, desc.KindInt64:
		v, err := readInteger(r, f.IntInfo)
		if err != nil {
			return value.Value{}, err
		}

		return value.NewInt(v), nil

	case desc.KindUint8, desc.KindUint16, desc.KindUint32:
		v, err := readInteger(r, f.IntInfo)
		if err != nil {
			return value.Value{}, err
		}

		return value.NewUint(uint64(v)), nil

	case desc.KindUint64:
		if f.IntInfo != nil {
			v, err := readInteger(r, f.IntInfo)
			if err != nil {
				return value.Value{}, err
			}

			return value.NewUint(uint64(v)), nil
		}

		v, err := readUnconstrainedUnsigned(r)
		if err != nil {
			return value.Value{}, err
		}

		return value.NewUint(v), nil

	case desc.KindEnum:
		v, err := readEnum(r, f.EnumInfo)
		if err != nil {
			return value.Value{}, err
		}
		if f.EnumInfo.IndexOf(v) == -1 && !f.EnumInfo.Extended {
			return value.Value{}, errs.ErrUnknownEnum
		}

		return value.NewInt(v), nil

	case desc.KindNull, desc.KindOptNull:
		return value.Null(), nil

	case desc.KindOctetString, desc.KindCharString:
		b, err := readOctetString(r, f.StrInfo)
		if err != nil {
			return value.Value{}, err
		}

		return value.NewBytes(maybeCopyBits(b, a, copyMode)), nil

	case desc.KindBitString:
		b, bitLen, err := readBitString(r, f.StrInfo)
		if err != nil {
			return value.Value{}, err
		}

		return value.NewBitString(maybeCopyBits(b, a, copyMode), bitLen), nil

	case desc.KindOpaque:
		raw, err := readOctetString(r, f.StrInfo)
		if err != nil {
			return value.Value{}, err
		}

		raw = maybeCopyBits(raw, a, copyMode)

		if f.PayloadCodec != nil {
			raw, err = f.PayloadCodec.Decompress(raw)
			if err != nil {
				return value.Value{}, err
			}
		}

		return value.NewOpaque(raw), nil

	case desc.KindSkip:
		return value.Absent(), nil

	case desc.KindSequence, desc.KindExt:
		return dec.decodeComposite(r, f.Sub, a, copyMode)

	case desc.KindOpenType:
		return dec.decodeOpenType(r, f, a, copyMode)

	case desc.KindChoice, desc.KindUntaggedChoice:
		return dec.decodeComposite(r, f.Sub, a, copyMode)

	default:
		return value.Value{}, errs.ErrUnimplemented
	}
}

// decodeOpenType mirrors encodeOpenType: the content is carried as a plain
// octet string with no constraint info, then re-parsed as a fresh bit
// stream against f.Sub.
func (dec *Decoder) decodeOpenType(r *bitio.Reader, f *desc.Field, a *arena.Arena, copyMode bool) (value.Value, error) {
	data, err := readOctetString(r, nil)
	if err != nil {
		return value.Value{}, err
	}

	inner := bitio.NewReader(data)

	return dec.decodeComposite(inner, f.Sub, a, copyMode)
}

// maybeCopyBits duplicates data into a when copyMode is set, matching the
// ber package's identical "copy" semantics for decoded byte ranges.
func maybeCopyBits(data []byte, a *arena.Arena, copyMode bool) []byte {
	if !copyMode || a == nil {
		return data
	}

	return a.CopyBytes(data)
}
