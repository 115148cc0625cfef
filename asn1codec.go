// Package asn1codec implements a descriptor-driven ASN.1 codec engine for
// both the Basic Encoding Rules (BER, ITU-T X.690) and Aligned Packed
// Encoding Rules (Aligned PER, ITU-T X.691).
//
// A single desc.Descriptor, built once via desc.NewSequenceBuilder,
// desc.NewChoiceBuilder, or desc.NewSequenceOfBuilder, drives both wire
// formats against the same value.Value tree: BER self-describes each field
// with a tag-length-value record, while Aligned PER packs the same shape
// tagless and bit-aligned, relying entirely on the descriptor's
// constraints to know where each field starts and ends.
//
// # Basic Usage
//
//	reg := desc.NewRegistry()
//
//	point, _ := desc.NewSequenceBuilder("point").
//	    Field("x", desc.Context(0), desc.KindInt32, desc.Mandatory, desc.IntRange(-1000, 1000)).
//	    Field("y", desc.Context(1), desc.KindInt32, desc.Mandatory, desc.IntRange(-1000, 1000)).
//	    Build()
//	_ = reg.Register("point", point)
//
//	v := value.NewSequence([]value.Value{value.NewInt(12), value.NewInt(-7)})
//
//	berBytes, _ := asn1codec.Marshal(asn1codec.BER, point, v)
//	perBytes, _ := asn1codec.Marshal(asn1codec.PER, point, v)
//
//	decoded, _, _ := asn1codec.Unmarshal(asn1codec.PER, point, perBytes, nil, false)
//
// # Package Structure
//
// This package is a thin dispatcher over ber and per, which implement the
// actual wire formats, and desc, which describes the shapes both encode.
// Callers needing per-call diagnostics (which CHOICE alternative a given
// byte stream picked, which BER tag matched) should reach for
// MarshalWithHook/UnmarshalWithHook, or build a ber.Encoder/per.Decoder
// directly for finer control.
package asn1codec

import (
	"fmt"

	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/ber"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/per"
	"github.com/arloliu/asn1codec/trace"
	"github.com/arloliu/asn1codec/value"
)

// Encoding selects which ASN.1 wire format Marshal/Unmarshal targets.
type Encoding uint8

const (
	// BER is the self-describing tag-length-value wire format (X.690).
	BER Encoding = iota
	// PER is the tagless, bit-packed Aligned PER wire format (X.691).
	PER
)

func (e Encoding) String() string {
	switch e {
	case BER:
		return "BER"
	case PER:
		return "PER"
	default:
		return "unknown"
	}
}

// Marshal encodes v against d using enc, constructing a fresh Encoder for
// the call. Callers doing many encodes of the same shape in a hot loop
// should build a ber.Encoder or per.Encoder directly and reuse it.
func Marshal(enc Encoding, d *desc.Descriptor, v value.Value) ([]byte, error) {
	switch enc {
	case BER:
		return ber.Marshal(d, v)
	case PER:
		return per.Marshal(d, v)
	default:
		return nil, fmt.Errorf("asn1codec: unknown encoding %v", enc)
	}
}

// Unmarshal decodes data against d using enc. See ber.Decoder.Unmarshal and
// per.Decoder.Unmarshal for the copyMode/Arena contract shared by both
// formats: when copyMode is true and a is non-nil, decoded byte/bit-string
// content is duplicated into a rather than aliasing data.
func Unmarshal(enc Encoding, d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool) (value.Value, []byte, error) {
	switch enc {
	case BER:
		return ber.Unmarshal(d, data, a, copyMode)
	case PER:
		return per.Unmarshal(d, data, a, copyMode)
	default:
		return value.Value{}, nil, fmt.Errorf("asn1codec: unknown encoding %v", enc)
	}
}

// MarshalWithHook behaves like Marshal but reports encode decisions (a
// chosen CHOICE alternative/root index) to hook as they happen.
func MarshalWithHook(enc Encoding, d *desc.Descriptor, v value.Value, hook trace.Hook) ([]byte, error) {
	switch enc {
	case BER:
		return ber.MarshalWithHook(d, v, hook)
	case PER:
		return per.MarshalWithHook(d, v, hook)
	default:
		return nil, fmt.Errorf("asn1codec: unknown encoding %v", enc)
	}
}

// UnmarshalWithHook behaves like Unmarshal but reports decode decisions
// (a matched BER tag, a chosen CHOICE alternative/root index) to hook as
// they happen.
func UnmarshalWithHook(enc Encoding, d *desc.Descriptor, data []byte, a *arena.Arena, copyMode bool, hook trace.Hook) (value.Value, []byte, error) {
	switch enc {
	case BER:
		return ber.UnmarshalWithHook(d, data, a, copyMode, hook)
	case PER:
		return per.UnmarshalWithHook(d, data, a, copyMode, hook)
	default:
		return value.Value{}, nil, fmt.Errorf("asn1codec: unknown encoding %v", enc)
	}
}
