package per

import (
	"math"

	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
)

// writeInteger writes v against info per spec.md §4.4.2's three-step
// algorithm: an extensibility bit when info is extensible, then either a
// fully-constrained bit-field, an octet-length-prefixed constrained form
// for wide ranges, or a fully unconstrained two's-complement form when info
// is nil or unbounded below.
func writeInteger(w *bitio.Writer, info *desc.IntInfo, v int64) error {
	if info != nil && info.Extended {
		if v >= info.Min && v <= info.Max {
			w.PushBit(0)

			return writeIntegerRootForm(w, info, v)
		}

		w.PushBit(1)

		if v < info.ExtMin || v > info.ExtMax {
			return errs.ErrConstraintViolation
		}

		return writeUnconstrainedSigned(w, v)
	}

	return writeIntegerRootForm(w, info, v)
}

func writeIntegerRootForm(w *bitio.Writer, info *desc.IntInfo, v int64) error {
	if info == nil || !info.Constrained {
		return writeUnconstrainedSigned(w, v)
	}

	if v < info.Min || v > info.Max {
		return errs.ErrConstraintViolation
	}

	d := uint64(v - info.Min)

	if info.MaxBitLen <= 16 {
		writeConstrainedValue(w, info.MaxBitLen, info.DMax == 255, d)

		return nil
	}

	content := minimalUnsignedBytes(d)
	writeConstrainedValue(w, info.MaxOctetLenBitLen, false, uint64(len(content)-1))
	w.Align()
	w.PushBytes(content)

	return nil
}

// writeUnconstrainedSigned writes the fully unconstrained two's-complement
// form: an unconstrained length determinant followed by that many aligned
// signed big-endian bytes.
func writeUnconstrainedSigned(w *bitio.Writer, v int64) error {
	content := minimalSignedBytes(v)
	if err := writeUnconstrainedLength(w, int64(len(content))); err != nil {
		return err
	}

	w.Align()
	w.PushBytes(content)

	return nil
}

// writeUnconstrainedUnsigned mirrors writeUnconstrainedSigned for the
// Uint64-without-IntInfo case, where a signed two's-complement form would
// overflow int64 for values above math.MaxInt64.
func writeUnconstrainedUnsigned(w *bitio.Writer, v uint64) error {
	content := minimalUnsignedBytes(v)
	if err := writeUnconstrainedLength(w, int64(len(content))); err != nil {
		return err
	}

	w.Align()
	w.PushBytes(content)

	return nil
}

func readInteger(r *bitio.Reader, info *desc.IntInfo) (int64, error) {
	if info != nil && info.Extended {
		bit, err := r.GetBit()
		if err != nil {
			return 0, err
		}

		if bit == 1 {
			v, err := readUnconstrainedSigned(r)
			if err != nil {
				return 0, err
			}
			if v < info.ExtMin || v > info.ExtMax {
				return 0, errs.ErrConstraintViolation
			}

			return v, nil
		}

		return readIntegerRootForm(r, info)
	}

	return readIntegerRootForm(r, info)
}

func readIntegerRootForm(r *bitio.Reader, info *desc.IntInfo) (int64, error) {
	if info == nil || !info.Constrained {
		return readUnconstrainedSigned(r)
	}

	var d uint64
	var err error

	if info.MaxBitLen <= 16 {
		d, err = readConstrainedValue(r, info.MaxBitLen, info.DMax == 255)
		if err != nil {
			return 0, err
		}
	} else {
		olen, oerr := readConstrainedValue(r, info.MaxOctetLenBitLen, false)
		if oerr != nil {
			return 0, oerr
		}

		r.Align()

		content, berr := r.GetBytes(int(olen) + 1)
		if berr != nil {
			return 0, berr
		}

		u, uerr := decodeUnconstrainedUnsigned(content)
		if uerr != nil {
			return 0, uerr
		}

		d = u
	}

	if d > math.MaxInt64 {
		return 0, errs.ErrConstraintViolation
	}

	v := info.Min + int64(d)
	if v < info.Min || v > info.Max {
		return 0, errs.ErrConstraintViolation
	}

	return v, nil
}

func readUnconstrainedSigned(r *bitio.Reader) (int64, error) {
	length, err := readUnconstrainedLength(r)
	if err != nil {
		return 0, err
	}

	r.Align()

	content, err := r.GetBytes(int(length))
	if err != nil {
		return 0, err
	}

	return decodeSignedBytes(content)
}

func readUnconstrainedUnsigned(r *bitio.Reader) (uint64, error) {
	length, err := readUnconstrainedLength(r)
	if err != nil {
		return 0, err
	}

	r.Align()

	content, err := r.GetBytes(int(length))
	if err != nil {
		return 0, err
	}

	return decodeUnconstrainedUnsigned(content)
}
