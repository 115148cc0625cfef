package per

import (
	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
)

// writeConstrainedValue writes d (already shifted so 0 is its minimum) as a
// constrained whole number of blen bits, per spec.md §4.4.1's three
// sub-cases, shared by length determinants, constrained integers, and an
// integer's own octet-length subfield:
//   - blen == 8 and the field's own d_max is 255: align, then 8 bits.
//   - blen <= 8: no alignment, a bit-field of that width.
//   - otherwise (blen <= 16): align, then 16 bits.
func writeConstrainedValue(w *bitio.Writer, blen int, dMaxIs255 bool, d uint64) {
	switch {
	case blen == 8 && dMaxIs255:
		w.Align()
		w.PushBits(d, 8)
	case blen <= 8:
		w.PushBits(d, blen)
	default:
		w.Align()
		w.PushBits(d, 16)
	}
}

func readConstrainedValue(r *bitio.Reader, blen int, dMaxIs255 bool) (uint64, error) {
	switch {
	case blen == 8 && dMaxIs255:
		r.Align()
		return r.GetBits(8)
	case blen <= 8:
		return r.GetBits(blen)
	default:
		r.Align()
		return r.GetBits(16)
	}
}

// writeUnconstrainedLength writes length using the semi-constrained/
// unconstrained small form of spec.md §4.4.1: byte-aligned, 1 byte if
// length <= 127, else 2 bytes with the high bits "10" and 14 low bits
// carrying length. Lengths at or beyond fragmentationThreshold are
// rejected rather than fragmented.
func writeUnconstrainedLength(w *bitio.Writer, length int64) error {
	if length < 0 {
		return errs.ErrConstraintViolation
	}
	if length >= fragmentationThreshold {
		return errs.ErrFragmentationUnsupported
	}

	w.Align()

	if length <= lengthShortFormMax {
		w.PushBits(uint64(length), 8)
	} else {
		w.PushBits(0x8000|uint64(length), 16)
	}

	return nil
}

func readUnconstrainedLength(r *bitio.Reader) (int64, error) {
	r.Align()

	hi, err := r.GetBit()
	if err != nil {
		return 0, err
	}

	if hi == 0 {
		low, err := r.GetBits(7)
		if err != nil {
			return 0, err
		}

		return int64(low), nil
	}

	second, err := r.GetBit()
	if err != nil {
		return 0, err
	}
	if second != 0 {
		return 0, errs.ErrFragmentationUnsupported
	}

	low, err := r.GetBits(14)
	if err != nil {
		return 0, err
	}

	return int64(low), nil
}

// writeLengthDeterminant writes length against info (nil meaning fully
// unconstrained), honoring info's extension-present bit when set per
// spec.md §4.4.1's closing paragraph.
func writeLengthDeterminant(w *bitio.Writer, info *desc.IntInfo, length int64) error {
	if info != nil && info.Extended {
		if length >= info.Min && length <= info.Max {
			w.PushBit(0)

			return writeLengthRootForm(w, info, length)
		}

		w.PushBit(1)

		if length < info.ExtMin || length > info.ExtMax {
			return errs.ErrConstraintViolation
		}

		return writeUnconstrainedLength(w, length)
	}

	return writeLengthRootForm(w, info, length)
}

func writeLengthRootForm(w *bitio.Writer, info *desc.IntInfo, length int64) error {
	if info != nil && info.Constrained && info.DMax < wideConstrainedThreshold {
		if length < info.Min || length > info.Max {
			return errs.ErrConstraintViolation
		}

		writeConstrainedValue(w, info.MaxBitLen, info.DMax == 255, uint64(length-info.Min))

		return nil
	}

	return writeUnconstrainedLength(w, length)
}

func readLengthDeterminant(r *bitio.Reader, info *desc.IntInfo) (int64, error) {
	if info != nil && info.Extended {
		bit, err := r.GetBit()
		if err != nil {
			return 0, err
		}

		if bit == 1 {
			length, err := readUnconstrainedLength(r)
			if err != nil {
				return 0, err
			}
			if length < info.ExtMin || length > info.ExtMax {
				return 0, errs.ErrConstraintViolation
			}

			return length, nil
		}

		return readLengthRootForm(r, info)
	}

	return readLengthRootForm(r, info)
}

func readLengthRootForm(r *bitio.Reader, info *desc.IntInfo) (int64, error) {
	if info != nil && info.Constrained && info.DMax < wideConstrainedThreshold {
		d, err := readConstrainedValue(r, info.MaxBitLen, info.DMax == 255)
		if err != nil {
			return 0, err
		}

		length := info.Min + int64(d)
		if length < info.Min || length > info.Max {
			return 0, errs.ErrConstraintViolation
		}

		return length, nil
	}

	return readUnconstrainedLength(r)
}
