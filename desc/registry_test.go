package desc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSequenceBuilder("Person").
		Field("age", Universal(2), KindInt32, Mandatory, IntRange(0, 150)).
		Build()
	require.NoError(t, err)

	require.NoError(t, reg.Register("Person", d))

	got, ok := reg.Lookup("Person")
	require.True(t, ok)
	assert.Same(t, d, got)

	_, ok = reg.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSequenceBuilder("Person").
		Field("age", Universal(2), KindInt32, Mandatory, IntRange(0, 150)).
		Build()
	require.NoError(t, err)

	require.NoError(t, reg.Register("Person", d))
	err = reg.Register("Person", d)
	assert.Error(t, err)
}

func TestRegistry_MustLookup_Panics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() {
		reg.MustLookup("Missing")
	})
}

func TestRegistry_MustLookup_Found(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSequenceBuilder("Person").
		Field("age", Universal(2), KindInt32, Mandatory, IntRange(0, 150)).
		Build()
	require.NoError(t, err)
	require.NoError(t, reg.Register("Person", d))

	assert.NotPanics(t, func() {
		got := reg.MustLookup("Person")
		assert.Same(t, d, got)
	})
}
