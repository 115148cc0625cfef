package ber

import (
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/internal/pool"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Encoder runs the two-pass BER encode spec.md §4.3.1 describes: Size walks
// the descriptor/value tree once, reserving and filling a SizeStack slot
// for every composite node; Marshal re-walks the identical tree in the
// identical order, consuming those slots to write each composite's length
// header before recursing into its content — no back-patching, no second
// recursive size computation.
//
// An Encoder is reusable across calls but not safe for concurrent use.
type Encoder struct {
	stack *SizeStack
	hook  trace.Hook
}

// NewEncoder returns a ready-to-use Encoder with diagnostics disabled.
func NewEncoder() *Encoder {
	return &Encoder{stack: NewSizeStack(), hook: trace.Noop()}
}

// SetHook wires a diagnostic Hook into the encoder. See Decoder.SetHook.
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

// Size computes the total encoded byte count of v against d, returning the
// populated SizeStack so a subsequent Marshal (or a caller driving its own
// serialization) can reuse the precomputed composite sizes without
// recomputing them.
func (e *Encoder) Size(d *desc.Descriptor, v value.Value) (int, *SizeStack, error) {
	e.stack.Reset()

	n, err := e.sizeComposite(d, v)
	if err != nil {
		return 0, nil, err
	}

	return n, e.stack, nil
}

// Marshal encodes v against d, returning the BER bytes. The top-level value
// is written bare — its fields (or, for a CHOICE, the selected
// alternative's own tag-length-value) directly, with no enclosing envelope
// tag, matching spec.md §8's worked examples (S1-S3, S6).
func (e *Encoder) Marshal(d *desc.Descriptor, v value.Value) ([]byte, error) {
	n, _, err := e.Size(d, v)
	if err != nil {
		return nil, err
	}

	bb := pool.GetMsgBuffer()
	defer pool.PutMsgBuffer(bb)
	bb.Grow(n)

	counter := 0
	if err := e.serializeComposite(d, v, &counter, bb); err != nil {
		return nil, err
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// sizeComposite returns the complete encoded byte count for d/v with no
// additional wrapper: for a CHOICE this is the chosen alternative's own
// full tag-length-value; for a SEQUENCE OF descriptor (d.IsSeqOf) this is
// the concatenation of every element's encoding; otherwise it is the
// concatenation of every field's encoding, in registration order.
func (e *Encoder) sizeComposite(d *desc.Descriptor, v value.Value) (int, error) {
	switch {
	case d.IsSeqOf:
		total := 0
		elemField := &d.Fields[0]

		for _, elem := range v.Elems {
			n, err := e.sizeField(elemField, elem)
			if err != nil {
				return 0, err
			}

			total += n
		}

		return total, nil

	case d.Type == desc.TypeChoice:
		if v.ChoiceIndex < 0 || v.ChoiceIndex >= len(d.Fields) {
			return 0, errs.ErrChoiceMiss
		}

		f := &d.Fields[v.ChoiceIndex]

		var altVal value.Value
		if v.Choice != nil {
			altVal = *v.Choice
		}

		return e.sizeField(f, altVal)

	default:
		total := 0

		for i := range d.Fields {
			f := &d.Fields[i]

			fv := value.Absent()
			if i < len(v.Fields) {
				fv = v.Fields[i]
			}

			n, err := e.sizeField(f, fv)
			if err != nil {
				return 0, err
			}

			total += n
		}

		return total, nil
	}
}

// sizeField returns the full wire size (tag+length+content, or 0 if an
// absent OPTIONAL) of one field occurrence.
func (e *Encoder) sizeField(f *desc.Field, v value.Value) (int, error) {
	if f.Mode == desc.Optional && v.IsAbsent() {
		return 0, nil
	}

	switch f.Kind {
	case desc.KindBool, desc.KindInt8:
		return 3, nil

	case desc.KindInt16, desc.KindInt32, desc.KindInt64:
		content := len(minimalSignedBytes(v.Int))

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindUint8, desc.KindUint16, desc.KindUint32, desc.KindUint64:
		content := len(minimalUnsignedBytes(v.Uint))

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindEnum:
		content := len(minimalSignedBytes(v.Int))

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindNull, desc.KindOptNull:
		return 2, nil

	case desc.KindOctetString, desc.KindCharString:
		content := len(v.Bytes)

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindBitString:
		content := 1 + (v.BitLen+7)/8

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindOpaque:
		data, err := compressOpaque(f, v.Opaque)
		if err != nil {
			return 0, err
		}

		return 1 + lengthHeaderSize(len(data)) + len(data), nil

	case desc.KindSkip:
		return 0, nil

	case desc.KindSequence, desc.KindExt, desc.KindOpenType:
		idx := e.stack.Reserve()

		content, err := e.sizeComposite(f.Sub, v)
		if err != nil {
			return 0, err
		}

		e.stack.Fill(idx, content)

		return 1 + lengthHeaderSize(content) + content, nil

	case desc.KindChoice, desc.KindUntaggedChoice:
		return e.sizeComposite(f.Sub, v)

	default:
		return 0, errs.ErrUnimplemented
	}
}

// serializeComposite mirrors sizeComposite's traversal exactly, writing
// bytes instead of counting them and consuming stack slots in the same
// order sizeComposite reserved them.
func (e *Encoder) serializeComposite(d *desc.Descriptor, v value.Value, counter *int, bb *pool.ByteBuffer) error {
	switch {
	case d.IsSeqOf:
		elemField := &d.Fields[0]
		for _, elem := range v.Elems {
			if err := e.serializeField(elemField, elem, counter, bb); err != nil {
				return err
			}
		}

		return nil

	case d.Type == desc.TypeChoice:
		if v.ChoiceIndex < 0 || v.ChoiceIndex >= len(d.Fields) {
			return errs.ErrChoiceMiss
		}

		f := &d.Fields[v.ChoiceIndex]
		e.trace(trace.LevelVerbose, "choice %q: emitting alternative %q", d.Name, f.Name)

		var altVal value.Value
		if v.Choice != nil {
			altVal = *v.Choice
		}

		return e.serializeField(f, altVal, counter, bb)

	default:
		for i := range d.Fields {
			f := &d.Fields[i]

			fv := value.Absent()
			if i < len(v.Fields) {
				fv = v.Fields[i]
			}

			if err := e.serializeField(f, fv, counter, bb); err != nil {
				return err
			}
		}

		return nil
	}
}

func (e *Encoder) serializeField(f *desc.Field, v value.Value, counter *int, bb *pool.ByteBuffer) error {
	if f.Mode == desc.Optional && v.IsAbsent() {
		return nil
	}

	switch f.Kind {
	case desc.KindBool:
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWriteByte(1)

		b := byte(0x00)
		if v.Bool {
			b = 0x01
		}
		bb.MustWriteByte(b)

		return nil

	case desc.KindInt8:
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWriteByte(1)
		bb.MustWriteByte(byte(int8(v.Int))) //nolint:gosec // Int8-kind fields hold values registered within int8 range

		return nil

	case desc.KindInt16, desc.KindInt32, desc.KindInt64:
		content := minimalSignedBytes(v.Int)
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, len(content)))
		bb.MustWrite(content)

		return nil

	case desc.KindUint8, desc.KindUint16, desc.KindUint32, desc.KindUint64:
		content := minimalUnsignedBytes(v.Uint)
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, len(content)))
		bb.MustWrite(content)

		return nil

	case desc.KindEnum:
		content := minimalSignedBytes(v.Int)
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, len(content)))
		bb.MustWrite(content)

		return nil

	case desc.KindNull, desc.KindOptNull:
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWriteByte(0)

		return nil

	case desc.KindOctetString, desc.KindCharString:
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, len(v.Bytes)))
		bb.MustWrite(v.Bytes)

		return nil

	case desc.KindBitString:
		content := 1 + (v.BitLen+7)/8
		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, content))
		bb.MustWriteByte(byte(unusedBits(v.BitLen)))
		bb.MustWrite(v.Bytes)

		return nil

	case desc.KindOpaque:
		data, err := compressOpaque(f, v.Opaque)
		if err != nil {
			return err
		}

		bb.MustWriteByte(f.Tag.Octet())
		bb.MustWrite(writeLength(nil, len(data)))
		bb.MustWrite(data)

		return nil

	case desc.KindSkip:
		return nil

	case desc.KindSequence, desc.KindExt, desc.KindOpenType:
		idx := *counter
		*counter++
		content := e.stack.Get(idx)

		bb.MustWriteByte(f.Tag.AsConstructed().Octet())
		bb.MustWrite(writeLength(nil, content))

		return e.serializeComposite(f.Sub, v, counter, bb)

	case desc.KindChoice, desc.KindUntaggedChoice:
		return e.serializeComposite(f.Sub, v, counter, bb)

	default:
		return errs.ErrUnimplemented
	}
}

// compressOpaque applies f's payload codec (if any) to data for an opaque
// field's content bytes. Never applied to TLV framing, only to this
// specific field's payload.
func compressOpaque(f *desc.Field, data []byte) ([]byte, error) {
	if f.PayloadCodec == nil {
		return data, nil
	}

	return f.PayloadCodec.Compress(data)
}
