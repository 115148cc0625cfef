package per

import (
	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Marshal encodes v against d using Aligned PER.
func Marshal(d *desc.Descriptor, v value.Value) ([]byte, error) {
	return NewEncoder().Marshal(d, v)
}

// Unmarshal decodes data against d using Aligned PER.
func Unmarshal(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, []byte, error) {
	return NewDecoder().Unmarshal(d, data, a, copyMode)
}

// MarshalWithHook behaves like Marshal but reports encode decisions
// (chosen CHOICE root indices) to hook as they happen.
func MarshalWithHook(d *desc.Descriptor, v value.Value, hook trace.Hook) ([]byte, error) {
	enc := NewEncoder()
	enc.SetHook(hook)

	return enc.Marshal(d, v)
}

// UnmarshalWithHook behaves like Unmarshal but reports decode decisions
// (chosen CHOICE root indices) to hook as they happen.
func UnmarshalWithHook(d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool, hook trace.Hook) (value.Value, []byte, error) {
	dec := NewDecoder()
	dec.SetHook(hook)

	return dec.Unmarshal(d, data, a, copyMode)
}
