package ber

import (
	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Marshal encodes v against d using a fresh Encoder. Callers doing many
// encodes in a hot loop should construct an Encoder once and reuse it
// instead, to reuse its SizeStack's backing array.
func Marshal(d *desc.Descriptor, v value.Value) ([]byte, error) {
	return NewEncoder().Marshal(d, v)
}

// Size reports the encoded byte count of v against d without allocating
// the output, returning the populated SizeStack for a paired Marshal call
// to reuse.
func Size(d *desc.Descriptor, v value.Value) (int, *SizeStack, error) {
	return NewEncoder().Size(d, v)
}

// Unmarshal decodes one value of d's shape from the front of data using a
// fresh Decoder. See Decoder.Unmarshal for the copyMode/Arena contract.
func Unmarshal(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, []byte, error) {
	return NewDecoder().Unmarshal(d, data, a, copyMode)
}

// UnmarshalWithHook behaves like Unmarshal but reports decode decisions
// (tag matches, chosen CHOICE branches) to hook as they happen.
func UnmarshalWithHook(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool, hook trace.Hook) (value.Value, []byte, error) {
	dec := NewDecoder()
	dec.SetHook(hook)

	return dec.Unmarshal(d, data, a, copyMode)
}

// MarshalWithHook behaves like Marshal but reports encode decisions
// (chosen CHOICE branches) to hook as they happen.
func MarshalWithHook(d *desc.Descriptor, v value.Value, hook trace.Hook) ([]byte, error) {
	enc := NewEncoder()
	enc.SetHook(hook)

	return enc.Marshal(d, v)
}
