package per

import (
	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
	"github.com/arloliu/asn1codec/errs"
)

// writeEnum writes v's root-list index against info per spec.md §4.4.3.
// Unlike a constrained integer, the blen-bit root index is never aligned,
// regardless of blen.
func writeEnum(w *bitio.Writer, info *desc.EnumInfo, v int64) error {
	idx := info.IndexOf(v)

	if idx == -1 {
		if !info.Extended {
			return errs.ErrUnknownEnum
		}

		w.PushBit(1)

		return writeNSNNWN(w, v)
	}

	if info.Extended {
		w.PushBit(0)
	}

	w.PushBits(uint64(idx), info.RootBitLen())

	return nil
}

func readEnum(r *bitio.Reader, info *desc.EnumInfo) (int64, error) {
	if info.Extended {
		bit, err := r.GetBit()
		if err != nil {
			return 0, err
		}

		if bit == 1 {
			return readNSNNWN(r)
		}
	}

	idx, err := r.GetBits(info.RootBitLen())
	if err != nil {
		return 0, err
	}

	if int(idx) >= len(info.Values) {
		return 0, errs.ErrUnknownEnum
	}

	return info.Values[idx], nil
}

// writeNSNNWN writes v as a Normally Small Non-Negative Whole Number: a
// leading 0 bit plus an inline 6-bit value when v <= 63, else a leading 1
// bit plus the unconstrained number form.
func writeNSNNWN(w *bitio.Writer, v int64) error {
	if v < 0 {
		return errs.ErrConstraintViolation
	}

	if v <= nsnnwnSmallMax {
		w.PushBit(0)
		w.PushBits(uint64(v), 6)

		return nil
	}

	w.PushBit(1)

	return writeUnconstrainedUnsigned(w, uint64(v))
}

func readNSNNWN(r *bitio.Reader) (int64, error) {
	bit, err := r.GetBit()
	if err != nil {
		return 0, err
	}

	if bit == 0 {
		small, err := r.GetBits(6)
		if err != nil {
			return 0, err
		}

		return int64(small), nil
	}

	v, err := readUnconstrainedUnsigned(r)
	if err != nil {
		return 0, err
	}

	return int64(v), nil
}
