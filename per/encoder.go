package per

import (
	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Encoder produces an Aligned PER encoding of a value.Value tree against a
// desc.Descriptor. Unlike ber.Encoder, PER needs no size pre-pass: every
// field writes directly into the bit stream, since nothing on the wire is
// self-describing and there is no length-prefixed envelope to back-patch.
//
// An Encoder is reusable across calls but not safe for concurrent use.
type Encoder struct {
	hook trace.Hook
}

// NewEncoder returns a ready-to-use Encoder with diagnostics disabled.
func NewEncoder() *Encoder {
	return &Encoder{hook: trace.Noop()}
}

// SetHook wires a diagnostic Hook into the encoder. See ber.Decoder.SetHook.
func (e *Encoder) SetHook(h trace.Hook) {
	if h == nil {
		h = trace.Noop()
	}

	e.hook = h
}

func (e *Encoder) trace(level trace.Level, msg string, args ...any) {
	if e.hook == nil {
		return
	}

	e.hook.Trace(level, msg, args...)
}

// Marshal encodes v against d, returning the Aligned PER bytes. Per
// spec.md §4.4.6, an empty top-level encoding is rendered as a single zero
// byte rather than zero bytes.
func (e *Encoder) Marshal(d *desc.Descriptor, v value.Value) ([]byte, error) {
	w := bitio.NewWriter()
	defer w.Release()

	if err := e.encodeComposite(w, d, v); err != nil {
		return nil, err
	}

	out := w.Bytes()
	if len(out) == 0 {
		return []byte{0x00}, nil
	}

	result := make([]byte, len(out))
	copy(result, out)

	return result, nil
}

func (e *Encoder) encodeComposite(w *bitio.Writer, d *desc.Descriptor, v value.Value) error {
	switch {
	case d.IsSeqOf:
		return e.encodeSeqOf(w, d, v)

	case d.Type == desc.TypeChoice:
		return e.encodeChoice(w, d, v)

	default:
		return e.encodeSequence(w, d, v)
	}
}

// encodeSequence implements spec.md §4.4.5's SEQUENCE rule: an
// extension-present bit (always 0, this codec never sends extensions),
// then a presence bitmap over the OPTIONAL fields in registration order,
// then each present field in order.
func (e *Encoder) encodeSequence(w *bitio.Writer, d *desc.Descriptor, v value.Value) error {
	if d.Extended {
		w.PushBit(0)
	}

	for _, idx := range d.OptFields {
		present := idx < len(v.Fields) && !v.Fields[idx].IsAbsent()

		bit := uint64(0)
		if present {
			bit = 1
		}

		w.PushBit(bit)
	}

	for i := range d.Fields {
		f := &d.Fields[i]

		fv := value.Absent()
		if i < len(v.Fields) {
			fv = v.Fields[i]
		}

		if f.Mode == desc.Optional && fv.IsAbsent() {
			continue
		}

		if err := e.encodeField(w, f, fv); err != nil {
			return err
		}
	}

	return nil
}

// encodeChoice implements spec.md §4.4.5's CHOICE rule: an
// extension-present bit (always 0), then the root alternative index using
// the descriptor's own ChoiceIntInfo, then the chosen alternative.
func (e *Encoder) encodeChoice(w *bitio.Writer, d *desc.Descriptor, v value.Value) error {
	if v.ChoiceIndex < 0 || v.ChoiceIndex >= len(d.Fields) {
		return errs.ErrChoiceMiss
	}

	if d.Extended {
		w.PushBit(0)
	}

	if err := writeInteger(w, &d.ChoiceIntInfo, int64(v.ChoiceIndex)); err != nil {
		return err
	}

	f := &d.Fields[v.ChoiceIndex]
	e.trace(trace.LevelVerbose, "choice %q: emitting root index %d (%q)", d.Name, v.ChoiceIndex, f.Name)

	var altVal value.Value
	if v.Choice != nil {
		altVal = *v.Choice
	}

	return e.encodeField(w, f, altVal)
}

// encodeSeqOf implements spec.md §4.4.5's SEQUENCE OF rule: a length
// determinant per the element count, then each element as the single
// repeated field.
func (e *Encoder) encodeSeqOf(w *bitio.Writer, d *desc.Descriptor, v value.Value) error {
	elemField := &d.Fields[0]

	if err := writeLengthDeterminant(w, elemField.SeqOfInfo, int64(len(v.Elems))); err != nil {
		return err
	}

	for _, elem := range v.Elems {
		if err := e.encodeField(w, elemField, elem); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeField(w *bitio.Writer, f *desc.Field, v value.Value) error {
	switch f.Kind {
	case desc.KindBool:
		bit := uint64(0)
		if v.Bool {
			bit = 1
		}

		w.PushBit(bit)

		return nil

	case desc.KindInt8, desc.KindInt16, desc.KindInt32, desc.KindInt64:
		return writeInteger(w, f.IntInfo, v.Int)

	case desc.KindUint8, desc.KindUint16, desc.KindUint32:
		return writeInteger(w, f.IntInfo, int64(v.Uint))

	case desc.KindUint64:
		if f.IntInfo != nil {
			return writeInteger(w, f.IntInfo, int64(v.Uint))
		}

		return writeUnconstrainedUnsigned(w, v.Uint)

	case desc.KindEnum:
		return writeEnum(w, f.EnumInfo, v.Int)

	case desc.KindNull, desc.KindOptNull:
		return nil

	case desc.KindOctetString, desc.KindCharString:
		return writeOctetString(w, f.StrInfo, v.Bytes)

	case desc.KindBitString:
		return writeBitString(w, f.StrInfo, v.Bytes, v.BitLen)

	case desc.KindOpaque:
		data, err := compressOpaque(f, v.Opaque)
		if err != nil {
			return err
		}

		return writeOctetString(w, f.StrInfo, data)

	case desc.KindSkip:
		return nil

	case desc.KindSequence, desc.KindExt:
		return e.encodeComposite(w, f.Sub, v)

	case desc.KindOpenType:
		return e.encodeOpenType(w, f, v)

	case desc.KindChoice, desc.KindUntaggedChoice:
		return e.encodeComposite(w, f.Sub, v)

	default:
		return errs.ErrUnimplemented
	}
}

// encodeOpenType implements spec.md §4.4.5's OPEN TYPE rule: the inner
// value is encoded into an intermediate bit buffer, then emitted as an
// octet string of that buffer's (byte-aligned) bytes with no constraint
// info of its own.
func (e *Encoder) encodeOpenType(w *bitio.Writer, f *desc.Field, v value.Value) error {
	inner := bitio.NewWriter()
	defer inner.Release()

	if err := e.encodeComposite(inner, f.Sub, v); err != nil {
		return err
	}

	data := inner.Bytes()
	if len(data) == 0 {
		data = []byte{0x00}
	}

	return writeOctetString(w, nil, data)
}

// compressOpaque applies f's payload codec (if any) to data for an opaque
// field's content bytes.
func compressOpaque(f *desc.Field, data []byte) ([]byte, error) {
	if f.PayloadCodec == nil {
		return data, nil
	}

	return f.PayloadCodec.Compress(data)
}
