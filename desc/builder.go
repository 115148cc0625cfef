package desc

import (
	"fmt"

	"github.com/arloliu/asn1codec/internal/options"
)

// FieldOption configures a Field at registration time, in the same
// functional-options shape used throughout this module's configuration
// surfaces.
type FieldOption = options.Option[*Field]

// Builder accumulates fields into a Descriptor. Builder methods are
// chainable; the first error encountered is latched and returned by Build,
// so callers can write a whole descriptor without checking every step.
type Builder struct {
	desc *Descriptor
	err  error
}

// NewSequenceBuilder starts a SEQUENCE descriptor.
func NewSequenceBuilder(name string) *Builder {
	return &Builder{desc: newDescriptor(name, TypeSequence)}
}

// NewSetBuilder starts a SET descriptor. SET is a declared-but-
// unimplemented shape (see Descriptor.finalize): Build always fails with
// errs.ErrUnimplemented, since neither ber nor per implements BER's
// canonical tag-ascending field reordering a real SET encoding needs.
func NewSetBuilder(name string) *Builder {
	return &Builder{desc: newDescriptor(name, TypeSet)}
}

// NewChoiceBuilder starts a CHOICE descriptor.
func NewChoiceBuilder(name string) *Builder {
	return &Builder{desc: newDescriptor(name, TypeChoice)}
}

// NewSequenceOfBuilder starts a SEQUENCE OF descriptor with a single
// SeqOf-mode element field.
func NewSequenceOfBuilder(name string, elemTag Tag, elemKind FieldKind, opts ...FieldOption) *Builder {
	b := &Builder{desc: newDescriptor(name, TypeSequence)}
	b.desc.IsSeqOf = true

	return b.Field("element", elemTag, elemKind, SeqOf, opts...)
}

// Extended marks the descriptor as carrying a PER extension point.
func (b *Builder) Extended() *Builder {
	if b.err == nil {
		b.desc.Extended = true
	}

	return b
}

// Field registers a field with the given name, tag, kind, and mode, applying
// opts in order. Registration errors (illegal adjacency, a bound option
// applied to the wrong field kind, an invalid range) are latched and
// returned by Build.
func (b *Builder) Field(name string, tag Tag, kind FieldKind, mode Mode, opts ...FieldOption) *Builder {
	if b.err != nil {
		return b
	}

	f := Field{Name: name, Tag: tag, Kind: kind, Mode: mode}

	if err := options.Apply(&f, opts...); err != nil {
		b.err = fmt.Errorf("asn1codec: field %q: %w", name, err)

		return b
	}

	if err := b.desc.registerField(f); err != nil {
		b.err = fmt.Errorf("asn1codec: field %q: %w", name, err)
	}

	return b
}

// Build finalizes and returns the descriptor, or the first error latched by
// a prior Field/Extended call.
func (b *Builder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := b.desc.finalize(); err != nil {
		return nil, fmt.Errorf("asn1codec: descriptor %q: %w", b.desc.Name, err)
	}

	return b.desc, nil
}
