package ber_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/asn1codec/arena"
	"github.com/arloliu/asn1codec/ber"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
	"github.com/arloliu/asn1codec/value"
)

// tagOctet reconstructs a desc.Tag whose Octet() reproduces o exactly,
// letting these tests pin down the precise wire bytes the worked examples
// specify without caring which class/constructed combination produced them.
func tagOctet(o byte) desc.Tag {
	return desc.Tag{
		Class:       desc.TagClass((o >> 6) & 0x3),
		Number:      uint32(o & 0x1F),
		Constructed: o&0x20 != 0,
	}
}

// TestMarshal_S1_MinimalSignedIntegerRoundTrip is scenario S1.
func TestMarshal_S1_MinimalSignedIntegerRoundTrip(t *testing.T) {
	d, err := desc.NewSequenceBuilder("s1").
		Field("a", tagOctet(0xAB), desc.KindInt8, desc.Mandatory).
		Field("b", tagOctet(0xCD), desc.KindUint32, desc.Mandatory).
		Build()
	require.NoError(t, err)

	v := value.NewSequence([]value.Value{
		value.NewInt(-1),
		value.NewUint(0x87654321),
	})

	out, err := ber.Marshal(d, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0x01, 0xFF, 0xCD, 0x05, 0x00, 0x87, 0x65, 0x43, 0x21}, out)

	decoded, rest, err := ber.Unmarshal(d, out, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, int64(-1), decoded.Fields[0].Int)
	assert.Equal(t, uint64(0x87654321), decoded.Fields[1].Uint)
}

// TestMarshal_S2_EnumeratedAndBoolean is scenario S2.
func TestMarshal_S2_EnumeratedAndBoolean(t *testing.T) {
	d, err := desc.NewSequenceBuilder("s2").
		Field("b", tagOctet(0xBB), desc.KindBool, desc.Mandatory).
		Field("e", tagOctet(0x0F), desc.KindEnum, desc.Mandatory, desc.EnumValues(0, 1, 2)).
		Build()
	require.NoError(t, err)

	v := value.NewSequence([]value.Value{
		value.NewBool(true),
		value.NewInt(2),
	})

	out, err := ber.Marshal(d, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBB, 0x01, 0x01, 0x0F, 0x01, 0x02}, out)

	decoded, rest, err := ber.Unmarshal(d, out, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, decoded.Fields[0].Bool)
	assert.Equal(t, int64(2), decoded.Fields[1].Int)
}

// TestMarshal_S3_OptionalAbsent is scenario S3.
func TestMarshal_S3_OptionalAbsent(t *testing.T) {
	d, err := desc.NewSequenceBuilder("s3").
		Field("p", tagOctet(0x00), desc.KindOctetString, desc.Optional).
		Field("s", tagOctet(0xAB), desc.KindOctetString, desc.Mandatory).
		Build()
	require.NoError(t, err)

	v := value.NewSequence([]value.Value{
		value.Absent(),
		value.NewBytes([]byte("string")),
	})

	out, err := ber.Marshal(d, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0x06, 0x73, 0x74, 0x72, 0x69, 0x6E, 0x67}, out)

	decoded, rest, err := ber.Unmarshal(d, out, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, decoded.Fields[0].IsAbsent())
	assert.Equal(t, []byte("string"), decoded.Fields[1].Bytes)
}

// TestMarshal_S6_SeqOfChoice is scenario S6 (BER encoding of the PER
// SEQUENCE OF CHOICE example, given for readability in spec.md §8).
func TestMarshal_S6_SeqOfChoice(t *testing.T) {
	alt, err := desc.NewChoiceBuilder("alt").
		Field("c1", tagOctet(0x23), desc.KindInt16, desc.Mandatory).
		Field("c2", tagOctet(0x34), desc.KindInt16, desc.Mandatory).
		Field("c3", tagOctet(0x45), desc.KindInt16, desc.Mandatory).
		Build()
	require.NoError(t, err)

	list, err := desc.NewSequenceOfBuilder("list", desc.Tag{}, desc.KindChoice, desc.Sub(alt)).Build()
	require.NoError(t, err)

	v := value.NewSeqOf([]value.Value{
		value.NewChoice(1, value.NewInt(0x123)),
		value.NewChoice(0, value.NewInt(0x456)),
		value.NewChoice(2, value.NewInt(0x789)),
	})

	out, err := ber.Marshal(list, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x34, 0x02, 0x01, 0x23,
		0x23, 0x02, 0x04, 0x56,
		0x45, 0x02, 0x07, 0x89,
	}, out)

	decoded, rest, err := ber.Unmarshal(list, out, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, decoded.Elems, 3)
	assert.Equal(t, 1, decoded.Elems[0].ChoiceIndex)
	assert.Equal(t, int64(0x123), decoded.Elems[0].Choice.Int)
	assert.Equal(t, 0, decoded.Elems[1].ChoiceIndex)
	assert.Equal(t, int64(0x456), decoded.Elems[1].Choice.Int)
	assert.Equal(t, 2, decoded.Elems[2].ChoiceIndex)
	assert.Equal(t, int64(0x789), decoded.Elems[2].Choice.Int)
}

// TestSize_MatchesMarshaledLength checks the Size precomputation pass
// agrees with the byte count Marshal actually produces, for the S1
// descriptor.
func TestSize_MatchesMarshaledLength(t *testing.T) {
	d, err := desc.NewSequenceBuilder("sized").
		Field("a", tagOctet(0xAB), desc.KindInt8, desc.Mandatory).
		Field("b", tagOctet(0xCD), desc.KindUint32, desc.Mandatory).
		Build()
	require.NoError(t, err)

	v := value.NewSequence([]value.Value{value.NewInt(-1), value.NewUint(0x87654321)})

	n, stack, err := ber.Size(d, v)
	require.NoError(t, err)
	assert.Equal(t, 0, stack.Len()) // no composite fields in this descriptor to reserve a slot for

	out, err := ber.Marshal(d, v)
	require.NoError(t, err)
	assert.Len(t, out, n)
}

// TestUnmarshal_ConstraintViolation_UnknownEnum checks that an enum value
// outside the registered set is rejected on decode.
func TestUnmarshal_ConstraintViolation_UnknownEnum(t *testing.T) {
	d, err := desc.NewSequenceBuilder("enum-only").
		Field("e", tagOctet(0x0F), desc.KindEnum, desc.Mandatory, desc.EnumValues(0, 1, 2)).
		Build()
	require.NoError(t, err)

	wire := []byte{0x0F, 0x01, 0x09} // value 9, never registered

	_, _, err = ber.Unmarshal(d, wire, nil, false)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnknownEnum, errs.Kind(err))
}

// TestUnmarshal_UnknownTagTolerance_Skip checks that a SKIP field scans
// past an arbitrary TLV between two registered fields.
func TestUnmarshal_UnknownTagTolerance_Skip(t *testing.T) {
	d, err := desc.NewSequenceBuilder("with-skip").
		Field("a", tagOctet(0xAB), desc.KindInt8, desc.Mandatory).
		Field("unknown", desc.Tag{}, desc.KindSkip, desc.Mandatory).
		Field("b", tagOctet(0xCD), desc.KindInt8, desc.Mandatory).
		Build()
	require.NoError(t, err)

	wire := []byte{
		0xAB, 0x01, 0x2A, // a = 42
		0x9F, 0x02, 0xDE, 0xAD, // unrecognized field, any tag/shape
		0xCD, 0x01, 0x07, // b = 7
	}

	decoded, rest, err := ber.Unmarshal(d, wire, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, int64(42), decoded.Fields[0].Int)
	assert.True(t, decoded.Fields[1].IsAbsent())
	assert.Equal(t, int64(7), decoded.Fields[2].Int)
}

// TestUnmarshal_ArenaCopyMode checks that decoding with copyMode true
// returns byte slices that remain valid after the source buffer is
// overwritten.
func TestUnmarshal_ArenaCopyMode(t *testing.T) {
	d, err := desc.NewSequenceBuilder("copying").
		Field("s", tagOctet(0xAB), desc.KindOctetString, desc.Mandatory).
		Build()
	require.NoError(t, err)

	wire := []byte{0xAB, 0x03, 'f', 'o', 'o'}
	a := arena.New(0)

	decoded, _, err := ber.Unmarshal(d, wire, a, true)
	require.NoError(t, err)

	for i := range wire {
		wire[i] = 0xFF
	}

	assert.Equal(t, []byte("foo"), decoded.Fields[0].Bytes)
}

// TestUnmarshal_NestedSequence checks a SEQUENCE-kind field's constructed
// tag wrapper and recursive decode.
func TestUnmarshal_NestedSequence(t *testing.T) {
	inner, err := desc.NewSequenceBuilder("inner").
		Field("x", tagOctet(0x02), desc.KindInt8, desc.Mandatory).
		Build()
	require.NoError(t, err)

	outer, err := desc.NewSequenceBuilder("outer").
		Field("n", tagOctet(0x30), desc.KindSequence, desc.Mandatory, desc.Sub(inner)).
		Build()
	require.NoError(t, err)

	v := value.NewSequence([]value.Value{
		value.NewSequence([]value.Value{value.NewInt(9)}),
	})

	out, err := ber.Marshal(outer, v)
	require.NoError(t, err)

	decoded, rest, err := ber.Unmarshal(outer, out, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, int64(9), decoded.Fields[0].Fields[0].Int)
}

// TestUnmarshal_MandatoryTagMismatch checks that a mismatched tag on a
// MANDATORY field fails rather than silently skipping.
func TestUnmarshal_MandatoryTagMismatch(t *testing.T) {
	d, err := desc.NewSequenceBuilder("mandatory").
		Field("a", tagOctet(0xAB), desc.KindInt8, desc.Mandatory).
		Build()
	require.NoError(t, err)

	_, _, err = ber.Unmarshal(d, []byte{0xCD, 0x01, 0x00}, nil, false)
	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedHeader, errs.Kind(err))
}
