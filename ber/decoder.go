package ber

import (
	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Decoder runs the single recursive BER decode pass spec.md §4.3.3
// describes: one descriptor-driven walk compares each field's expected tag
// against the next tag on the wire, parses its length header, and recurses
// into composite content — no separate size pre-pass is needed on decode,
// only on encode.
//
// A Decoder holds no state besides its diagnostic Hook and is safe for
// concurrent use; the Arena and copyMode passed to Unmarshal are per-call.
type Decoder struct {
	hook trace.Hook
}

// NewDecoder returns a ready-to-use Decoder with diagnostics disabled.
func NewDecoder() *Decoder {
	return &Decoder{hook: trace.Noop()}
}

// SetHook wires a diagnostic Hook into the decoder. Trace events report
// already-decided facts (tag read, chosen CHOICE branch) and never affect
// the decoded result.
func (dec *Decoder) SetHook(h trace.Hook) {
	if h == nil {
		h = trace.Noop()
	}

	dec.hook = h
}

// Unmarshal decodes one value of d's shape from the front of data. As with
// Marshal, the top level carries no enclosing envelope tag. The returned
// slice is whatever of data followed the decoded value, for callers that
// frame multiple messages back to back.
//
// When copyMode is true, every decoded byte range is duplicated into a,
// so the returned Value stays valid after data is reused or discarded;
// when false, the Value borrows directly from data and a may be nil.
func (dec *Decoder) Unmarshal(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, []byte, error) {
	v, consumed, err := dec.decodeComposite(d, data, a, copyMode)
	if err != nil {
		return value.Value{}, nil, err
	}

	return v, data[consumed:], nil
}

// decodeComposite decodes d's shape (SEQUENCE/SET, CHOICE, or SEQUENCE OF)
// from the front of data, returning the number of bytes consumed.
func (dec *Decoder) decodeComposite(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, int, error) {
	switch {
	case d.IsSeqOf:
		elemField := &d.Fields[0]

		pos := 0
		var elems []value.Value

		for pos < len(data) {
			tagByte, ok := peekTag(data[pos:])
			if !ok || !fieldTagMatches(elemField, tagByte) {
				break
			}

			elemVal, consumed, err := dec.decodeField(elemField, data[pos:], a, copyMode)
			if err != nil {
				return value.Value{}, 0, err
			}
			if consumed == 0 {
				break
			}

			elems = append(elems, elemVal)
			pos += consumed
		}

		return value.NewSeqOf(elems), pos, nil

	case d.Type == desc.TypeChoice:
		tagByte, ok := peekTag(data)
		if !ok {
			return value.Value{}, 0, errs.ErrChoiceMiss
		}

		idx := d.AlternativeIndex(tagByte)
		if idx == -1 {
			return value.Value{}, 0, errs.ErrChoiceMiss
		}

		f := &d.Fields[idx]
		dec.trace(trace.LevelVerbose, "choice %q: tag 0x%02x selects alternative %q", d.Name, tagByte, f.Name)

		altVal, consumed, err := dec.decodeField(f, data, a, copyMode)
		if err != nil {
			return value.Value{}, 0, err
		}

		return value.NewChoice(idx, altVal), consumed, nil

	default:
		pos := 0
		fields := make([]value.Value, len(d.Fields))

		for i := range d.Fields {
			f := &d.Fields[i]

			fv, consumed, err := dec.decodeField(f, data[pos:], a, copyMode)
			if err != nil {
				return value.Value{}, 0, errs.WithField(err, f.Name)
			}

			fields[i] = fv
			pos += consumed
		}

		return value.NewSequence(fields), pos, nil
	}
}

// decodeField decodes one occurrence of f from the front of data. An
// OPTIONAL field whose expected tag doesn't match the next tag on the wire
// (or whose choice table has no matching alternative, or whose stream is
// exhausted) decodes to an absent Value with zero bytes consumed, rather
// than failing.
func (dec *Decoder) decodeField(f *desc.Field, data []byte, a *arena.Arena, copyMode bool) (value.Value, int, error) {
	if f.Kind == desc.KindSkip {
		consumed, err := skipOneTLV(data)
		if err != nil {
			return value.Value{}, 0, err
		}

		return value.Absent(), consumed, nil
	}

	if f.Kind == desc.KindChoice || f.Kind == desc.KindUntaggedChoice {
		subVal, consumed, err := dec.decodeComposite(f.Sub, data, a, copyMode)
		if err != nil {
			if f.Mode == desc.Optional && isChoiceMiss(err) {
				return value.Absent(), 0, nil
			}

			return value.Value{}, 0, err
		}

		return subVal, consumed, nil
	}

	tagByte, ok := peekTag(data)
	expected := expectedTag(f)

	if !ok || tagByte != expected {
		if f.Mode == desc.Optional {
			return value.Absent(), 0, nil
		}

		return value.Value{}, 0, errs.WithField(errs.ErrMalformedHeader, f.Name)
	}

	dec.trace(trace.LevelVerbose, "field %q: tag 0x%02x matched", f.Name, tagByte)

	pos := 1

	length, indefinite, lenConsumed, err := readLength(data[pos:])
	if err != nil {
		return value.Value{}, 0, err
	}
	pos += lenConsumed

	switch f.Kind {
	case desc.KindSequence, desc.KindExt, desc.KindOpenType:
		var content []byte
		var total int

		if indefinite {
			inner, serr := skipToEOC(data[pos:])
			if serr != nil {
				return value.Value{}, 0, serr
			}

			content = data[pos : pos+inner-2]
			total = pos + inner
		} else {
			if pos+length > len(data) {
				return value.Value{}, 0, errs.ErrShortRead
			}

			content = data[pos : pos+length]
			total = pos + length
		}

		subVal, subConsumed, serr := dec.decodeComposite(f.Sub, content, a, copyMode)
		if serr != nil {
			return value.Value{}, 0, serr
		}
		if subConsumed != len(content) {
			return value.Value{}, 0, errs.ErrMalformedHeader
		}

		return subVal, total, nil

	default:
		if indefinite {
			return value.Value{}, 0, errs.ErrMalformedHeader
		}
		if pos+length > len(data) {
			return value.Value{}, 0, errs.ErrShortRead
		}

		content := data[pos : pos+length]
		total := pos + length

		val, serr := dec.decodeScalarContent(f, content, a, copyMode)
		if serr != nil {
			return value.Value{}, 0, serr
		}

		return val, total, nil
	}
}

// decodeScalarContent parses content (already carved to its declared
// length) into a Value according to f's kind.
func (dec *Decoder) decodeScalarContent(f *desc.Field, content []byte, a *arena.Arena, copyMode bool) (value.Value, error) {
	switch f.Kind {
	case desc.KindBool:
		if len(content) != 1 {
			return value.Value{}, errs.ErrMalformedHeader
		}

		return value.NewBool(content[0] != 0), nil

	case desc.KindInt8:
		if len(content) != 1 {
			return value.Value{}, errs.ErrMalformedHeader
		}

		return value.NewInt(int64(int8(content[0]))), nil

	case desc.KindInt16:
		return decodeBoundedSignedContent(content, 2)

	case desc.KindInt32:
		return decodeBoundedSignedContent(content, 4)

	case desc.KindInt64:
		return decodeBoundedSignedContent(content, 8)

	case desc.KindUint8:
		return decodeUintContent(content, 1)

	case desc.KindUint16:
		return decodeUintContent(content, 2)

	case desc.KindUint32:
		return decodeUintContent(content, 4)

	case desc.KindUint64:
		return decodeUintContent(content, 8)

	case desc.KindEnum:
		v, err := decodeSignedBytes(content)
		if err != nil {
			return value.Value{}, err
		}
		if f.EnumInfo != nil && f.EnumInfo.IndexOf(v) == -1 {
			return value.Value{}, errs.ErrUnknownEnum
		}

		return value.NewInt(v), nil

	case desc.KindNull, desc.KindOptNull:
		if len(content) != 0 {
			return value.Value{}, errs.ErrMalformedHeader
		}

		return value.Null(), nil

	case desc.KindOctetString, desc.KindCharString:
		return value.NewBytes(maybeCopy(content, a, copyMode)), nil

	case desc.KindBitString:
		if len(content) < 1 {
			return value.Value{}, errs.ErrMalformedHeader
		}

		unused := int(content[0])
		if unused > 7 {
			return value.Value{}, errs.ErrMalformedHeader
		}

		bits := content[1:]
		bitLen := len(bits)*8 - unused

		return value.NewBitString(maybeCopy(bits, a, copyMode), bitLen), nil

	case desc.KindOpaque:
		raw := maybeCopy(content, a, copyMode)

		if f.PayloadCodec != nil {
			var err error

			raw, err = f.PayloadCodec.Decompress(raw)
			if err != nil {
				return value.Value{}, err
			}
		}

		return value.NewOpaque(raw), nil

	default:
		return value.Value{}, errs.ErrUnimplemented
	}
}

func decodeBoundedSignedContent(content []byte, nativeSize int) (value.Value, error) {
	if len(content) > nativeSize {
		return value.Value{}, errs.ErrMalformedHeader
	}

	v, err := decodeSignedBytes(content)
	if err != nil {
		return value.Value{}, err
	}

	return value.NewInt(v), nil
}

func decodeUintContent(content []byte, nativeSize int) (value.Value, error) {
	v, err := decodeUnsignedBytes(content, nativeSize)
	if err != nil {
		return value.Value{}, err
	}

	return value.NewUint(v), nil
}

// expectedTag returns the tag octet decodeField must see on the wire for f,
// forcing the constructed bit for the kinds that always wrap a nested TLV.
func expectedTag(f *desc.Field) byte {
	switch f.Kind {
	case desc.KindSequence, desc.KindExt, desc.KindOpenType:
		return f.Tag.AsConstructed().Octet()
	default:
		return f.Tag.Octet()
	}
}

// fieldTagMatches reports whether tagByte is a valid opening tag for an
// occurrence of f, used both for SEQ_OF's greedy element scan and for
// peeking an OPTIONAL composite field's presence.
func fieldTagMatches(f *desc.Field, tagByte byte) bool {
	switch f.Kind {
	case desc.KindChoice, desc.KindUntaggedChoice:
		return f.Sub.AlternativeIndex(tagByte) != -1
	case desc.KindSkip:
		return true
	default:
		return tagByte == expectedTag(f)
	}
}

// peekTag returns the next tag byte in data without consuming it.
func peekTag(data []byte) (byte, bool) {
	if len(data) == 0 {
		return 0, false
	}

	return data[0], true
}

// skipOneTLV advances past one arbitrarily-shaped TLV — any tag, any
// length form including indefinite — used by SKIP fields, which scan past
// wire content no registered field claims.
func skipOneTLV(data []byte) (int, error) {
	if len(data) < 2 {
		return 0, errs.ErrShortRead
	}

	constructed := data[0]&0x20 != 0

	length, indefinite, lenConsumed, err := readLength(data[1:])
	if err != nil {
		return 0, err
	}

	headerLen := 1 + lenConsumed

	if indefinite {
		if !constructed {
			return 0, errs.ErrMalformedHeader
		}

		inner, serr := skipToEOC(data[headerLen:])
		if serr != nil {
			return 0, serr
		}

		return headerLen + inner, nil
	}

	if headerLen+length > len(data) {
		return 0, errs.ErrShortRead
	}

	return headerLen + length, nil
}

// maybeCopy returns data as-is in borrow mode, or a private copy carved out
// of a in copy mode.
func maybeCopy(data []byte, a *arena.Arena, copyMode bool) []byte {
	if !copyMode || a == nil {
		return data
	}

	return a.CopyBytes(data)
}

func isChoiceMiss(err error) bool {
	return errs.Kind(err) == errs.KindChoiceMiss
}

// trace reports a diagnostic event if dec has a Hook wired, tolerating the
// zero Decoder value (no Hook set) the way a no-op default would.
func (dec *Decoder) trace(level trace.Level, msg string, args ...any) {
	if dec.hook == nil {
		return
	}

	dec.hook.Trace(level, msg, args...)
}
