package desc

import "github.com/arloliu/asn1codec/errs"

// Type is the constructed kind a Descriptor describes.
type Type uint8

const (
	TypeSequence Type = iota
	TypeChoice
	TypeSet
)

func (t Type) String() string {
	switch t {
	case TypeSequence:
		return "sequence"
	case TypeChoice:
		return "choice"
	case TypeSet:
		return "set"
	default:
		return "unknown"
	}
}

// Descriptor describes one structured ASN.1 type. Descriptors are built
// once via a Builder and are immutable and safe for concurrent use
// thereafter; both the BER and PER codecs consume the same Descriptor for a
// given Go type.
type Descriptor struct {
	Name string
	Type Type

	Fields []Field

	// IsSeqOf marks a descriptor as a homogeneous repeated container with
	// exactly one field, whose Mode is SeqOf.
	IsSeqOf bool

	// Extended marks a PER extension point (the "..." marker) on this
	// descriptor.
	Extended bool

	// ChoiceTable maps a single BER tag octet to the 0-based index of the
	// matching alternative in Fields, or -1 if unset. Only populated for
	// TypeChoice.
	ChoiceTable [256]int16

	// ChoiceIntInfo describes the PER root index range [0, len(Fields)-1]
	// for a CHOICE descriptor.
	ChoiceIntInfo IntInfo

	// OptFields lists the indices into Fields of OPTIONAL-mode fields, in
	// registration order.
	OptFields []int
}

func newDescriptor(name string, typ Type) *Descriptor {
	d := &Descriptor{Name: name, Type: typ}
	for i := range d.ChoiceTable {
		d.ChoiceTable[i] = -1
	}

	return d
}

// registerField appends f to the descriptor, enforcing the SEQ_OF
// adjacency invariant: a SeqOf-mode field must be the sole field of its
// owning descriptor.
func (d *Descriptor) registerField(f Field) error {
	if f.Mode == SeqOf {
		if len(d.Fields) > 0 {
			return errs.ErrIllegalAdjacency
		}
	} else if len(d.Fields) > 0 && d.Fields[len(d.Fields)-1].Mode == SeqOf {
		return errs.ErrIllegalAdjacency
	}

	if f.Mode == Optional {
		d.OptFields = append(d.OptFields, len(d.Fields))
	}

	d.Fields = append(d.Fields, f)

	return nil
}

// finalize runs the registration-time derivations that need the complete
// field list: the CHOICE dispatch table and its root index info. SET is a
// declared-but-unimplemented shape (spec.md §7 lists "SET encoding" under
// Unimplemented): BER's canonical tag-ascending reordering (X.690 §8.12)
// has no implementation here, so a SET descriptor is rejected at build
// time rather than silently encoding/decoding in registration order like a
// SEQUENCE.
func (d *Descriptor) finalize() error {
	if d.Type == TypeSet {
		return errs.ErrUnimplemented
	}

	if d.Type != TypeChoice {
		return nil
	}

	if len(d.Fields) < 2 {
		return errs.ErrChoiceTooFewAlts
	}

	if err := d.buildChoiceTable(); err != nil {
		return err
	}

	d.ChoiceIntInfo = newIntInfo(0, int64(len(d.Fields)-1))

	return nil
}

// buildChoiceTable zeroes (to -1) and repopulates the 256-entry dispatch
// table. Nested UNTAGGED_CHOICE alternatives are descended into and their
// sub-alternatives registered under the outer index, per §4.1.
func (d *Descriptor) buildChoiceTable() error {
	for i := range d.ChoiceTable {
		d.ChoiceTable[i] = -1
	}

	for i, f := range d.Fields {
		if err := d.registerAlternative(f, i); err != nil {
			return err
		}
	}

	return nil
}

func (d *Descriptor) registerAlternative(f Field, outerIndex int) error {
	if f.Kind == KindUntaggedChoice && f.Sub != nil {
		for _, sub := range f.Sub.Fields {
			if err := d.registerAlternative(sub, outerIndex); err != nil {
				return err
			}
		}

		return nil
	}

	tagByte := f.Tag.Octet()
	if d.ChoiceTable[tagByte] != -1 {
		return errs.ErrDuplicateTag
	}

	d.ChoiceTable[tagByte] = int16(outerIndex) //nolint:gosec // outerIndex bounded by field count, never > 255 in practice

	return nil
}

// AlternativeIndex looks up the 0-based alternative index for a single-byte
// BER tag, returning -1 if no alternative matches.
func (d *Descriptor) AlternativeIndex(tagOctet byte) int {
	return int(d.ChoiceTable[tagOctet])
}
