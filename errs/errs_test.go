package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arloliu/asn1codec/errs"
	"github.com/stretchr/testify/require"
)

func TestKindResolvesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("decoding field %q: %w", "a", errs.ErrShortRead)

	require.True(t, errors.Is(wrapped, errs.ErrShortRead))
	require.Equal(t, errs.KindShortRead, errs.Kind(wrapped))
}

func TestKindUnknownForForeignError(t *testing.T) {
	require.Equal(t, errs.KindUnknown, errs.Kind(errors.New("not ours")))
}

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "short-read", errs.KindShortRead.String())
	require.Equal(t, "unknown", errs.ErrorKind(255).String())
}

func TestWithFieldAttachesFieldName(t *testing.T) {
	err := errs.WithField(errs.ErrShortRead, "timestamp")

	require.Equal(t, "timestamp", errs.Field(err))
	require.Equal(t, errs.KindShortRead, errs.Kind(err))
	require.True(t, errors.Is(err, errs.ErrShortRead))
}

func TestWithFieldKeepsInnermostField(t *testing.T) {
	err := errs.WithField(errs.ErrConstraintViolation, "leaf")
	err = errs.WithField(err, "outer")

	require.Equal(t, "leaf", errs.Field(err))
}

func TestFieldEmptyForUnattributedError(t *testing.T) {
	require.Equal(t, "", errs.Field(errs.ErrShortRead))
	require.Equal(t, "", errs.Field(errors.New("not ours")))
}

func TestWithFieldNilError(t *testing.T) {
	require.NoError(t, errs.WithField(nil, "x"))
}
