package ber_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/asn1codec/ber"
	"github.com/arloliu/asn1codec/internal/desctest"
	"github.com/arloliu/asn1codec/value"
)

// TestRoundTrip_Choice1 round-trips every value in the root range of the
// shared choice1 fixture through BER's tag dispatch table.
func TestRoundTrip_Choice1(t *testing.T) {
	d := desctest.Choice1()

	for i := int64(2); i <= 15; i++ {
		v := value.NewChoice(0, value.NewInt(i))

		out, err := ber.Marshal(d, v)
		require.NoError(t, err)

		decoded, rest, err := ber.Unmarshal(d, out, nil, false)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, 0, decoded.ChoiceIndex)
		assert.Equal(t, i, decoded.Choice.Int)
	}
}

// TestRoundTrip_ExtChoice exercises the root alternative and both
// extension alternatives of the shared ext_choice fixture.
func TestRoundTrip_ExtChoice(t *testing.T) {
	d := desctest.ExtChoice()

	cases := []struct {
		name  string
		value value.Value
		idx   int
	}{
		{"root int", value.NewChoice(0, value.NewInt(192)), 0},
		{"ext string", value.NewChoice(1, value.NewBytes([]byte("test"))), 1},
		{"ext int", value.NewChoice(2, value.NewInt(667)), 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := ber.Marshal(d, c.value)
			require.NoError(t, err)

			decoded, rest, err := ber.Unmarshal(d, out, nil, false)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, c.idx, decoded.ChoiceIndex)
		})
	}
}

// TestRoundTrip_Seq1Enum round-trips every root value of the shared seq1
// fixture's enum field.
func TestRoundTrip_Seq1Enum(t *testing.T) {
	d := desctest.Seq1()

	for _, want := range desctest.TestEnumValues {
		v := value.NewSequence([]value.Value{value.NewInt(want)})

		out, err := ber.Marshal(d, v)
		require.NoError(t, err)

		decoded, rest, err := ber.Unmarshal(d, out, nil, false)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, want, decoded.Fields[0].Int)
	}
}
