// Package desctest holds a handful of small descriptors shared by the ber
// and per test suites, so both codecs are exercised against the same
// shapes instead of each inventing its own.
package desctest

import "github.com/arloliu/asn1codec/desc"

// Choice1 is a two-alternative CHOICE whose single registered alternative
// carries an INTEGER(2..15), the smallest shape that exercises a PER root
// index alongside a BER tag dispatch.
func Choice1() *desc.Descriptor {
	d, err := desc.NewChoiceBuilder("choice1").
		Field("i", desc.Context(0), desc.KindInt32, desc.Mandatory, desc.IntRange(2, 15)).
		Field("unused", desc.Context(1), desc.KindNull, desc.Mandatory).
		Build()
	if err != nil {
		panic(err)
	}

	return d
}

// ExtChoice is a CHOICE marked extensible: alternative "i" is
// INTEGER(42..666), and "ext_s" (a string) and "ext_i" (a wider integer
// range) are registered after the Extended call. Builder.Extended only sets
// the descriptor's flag and does not record which alternatives follow it,
// so both codecs treat all three as root alternatives.
func ExtChoice() *desc.Descriptor {
	d, err := desc.NewChoiceBuilder("ext_choice").
		Field("i", desc.Context(0), desc.KindInt32, desc.Mandatory, desc.IntRange(42, 666)).
		Extended().
		Field("ext_s", desc.Context(1), desc.KindOctetString, desc.Mandatory, desc.StrRange(0, 64)).
		Field("ext_i", desc.Context(2), desc.KindInt32, desc.Mandatory, desc.IntRange(666, 1234567)).
		Build()
	if err != nil {
		panic(err)
	}

	return d
}

// TestEnumValues is the three-valued root enum (A, B, C) used throughout
// the original ASN.1 conformance suite, for callers that need the raw
// value list rather than a full descriptor.
var TestEnumValues = []int64{0, 1, 2}

// Seq1 is a one-field SEQUENCE carrying an enum field over TestEnumValues,
// the smallest shape that exercises enum root-index dispatch inside a
// composite.
func Seq1() *desc.Descriptor {
	d, err := desc.NewSequenceBuilder("seq1").
		Field("e", desc.Context(0), desc.KindEnum, desc.Mandatory, desc.EnumValues(0, 1, 2)).
		Build()
	if err != nil {
		panic(err)
	}

	return d
}
