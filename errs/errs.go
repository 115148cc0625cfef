// Package errs defines the sentinel error taxonomy shared by the descriptor
// registry and both wire codecs.
//
// Every codec failure wraps one of the sentinels below via fmt.Errorf's %w
// verb, so callers can branch on the taxonomy with errors.Is instead of
// string matching. Registration failures (building a bad descriptor) use a
// disjoint set of sentinels since they happen once at program startup and
// never touch wire data.
package errs

import "errors"

// ErrorKind classifies a wire-level codec failure.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindMalformedHeader
	KindShortRead
	KindConstraintViolation
	KindUnknownEnum
	KindChoiceMiss
	KindExtensionUnsupported
	KindFragmentationUnsupported
	KindUnimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedHeader:
		return "malformed-header"
	case KindShortRead:
		return "short-read"
	case KindConstraintViolation:
		return "constraint-violation"
	case KindUnknownEnum:
		return "unknown-enum"
	case KindChoiceMiss:
		return "choice-miss"
	case KindExtensionUnsupported:
		return "extension-unsupported"
	case KindFragmentationUnsupported:
		return "fragmentation-unsupported"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Wire-level codec sentinels, one per taxonomy entry in §7.
var (
	ErrMalformedHeader          = newSentinel(KindMalformedHeader, "malformed header")
	ErrShortRead                = newSentinel(KindShortRead, "short read")
	ErrConstraintViolation      = newSentinel(KindConstraintViolation, "constraint violation")
	ErrUnknownEnum              = newSentinel(KindUnknownEnum, "unknown enum value")
	ErrChoiceMiss               = newSentinel(KindChoiceMiss, "no matching choice alternative")
	ErrExtensionUnsupported     = newSentinel(KindExtensionUnsupported, "extension-present bit set, not supported on decode")
	ErrFragmentationUnsupported = newSentinel(KindFragmentationUnsupported, "PER fragmentation not supported")
	ErrUnimplemented            = newSentinel(KindUnimplemented, "unimplemented codec path")
)

// Registration-time sentinels. These never appear from an encode/decode
// call; they are returned from descriptor builders at startup.
var (
	ErrDuplicateTag       = errors.New("asn1codec: duplicate tag in choice dispatch table")
	ErrIllegalAdjacency   = errors.New("asn1codec: SEQ_OF field cannot share a level with another field")
	ErrDuplicateEnumValue = errors.New("asn1codec: duplicate enumerated value")
	ErrInvalidBounds      = errors.New("asn1codec: invalid constraint bounds")
	ErrTooManyEnumValues  = errors.New("asn1codec: enumerated type has more than 256 values")
	ErrChoiceTooFewAlts   = errors.New("asn1codec: CHOICE descriptor needs at least two alternatives")
	ErrWrongFieldKind     = errors.New("asn1codec: constraint option applied to a field of the wrong kind")
)

// codecError pairs a sentinel with the ErrorKind it belongs to so that
// wrapped instances (via fmt.Errorf("...: %w", errs.ErrShortRead)) still
// resolve to the right Kind through errors.As.
type codecError struct {
	kind ErrorKind
	msg  string
}

func newSentinel(kind ErrorKind, msg string) *codecError {
	return &codecError{kind: kind, msg: msg}
}

func (e *codecError) Error() string { return e.msg }

// Kind extracts the ErrorKind from err if it (or something it wraps) is one
// of the sentinels declared in this package. Returns KindUnknown otherwise.
func Kind(err error) ErrorKind {
	var ce *codecError
	if errors.As(err, &ce) {
		return ce.kind
	}

	return KindUnknown
}

// fieldError attaches the name of the field being decoded (or encoded) at
// the point a wire-level error occurred, so callers can act on it without
// parsing the error string.
type fieldError struct {
	field string
	err   error
}

// WithField wraps err with the name of the field active when it occurred.
// If err already carries a field (from a more deeply nested WithField
// call), it is returned unchanged — the innermost, most specific field
// wins rather than being overwritten by each enclosing composite.
func WithField(err error, field string) error {
	if err == nil {
		return nil
	}

	if Field(err) != "" {
		return err
	}

	return &fieldError{field: field, err: err}
}

func (e *fieldError) Error() string { return "field \"" + e.field + "\": " + e.err.Error() }

func (e *fieldError) Unwrap() error { return e.err }

// Field extracts the field name attached by WithField from err if it (or
// something it wraps) carries one. Returns "" otherwise.
func Field(err error) string {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.field
	}

	return ""
}
