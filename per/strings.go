package per

import (
	"github.com/arloliu/asn1codec/bitio"
	"github.com/arloliu/asn1codec/desc"
)

// tightPackOctetString reports whether info constrains an octet string to
// an exact, short length eligible for spec.md §4.4.4's tight-packing
// special case: min == max <= 2.
func tightPackOctetString(info *desc.StrInfo) bool {
	return info != nil && info.Min == info.Max && info.Max <= 2
}

// writeOctetString writes data's length determinant followed by its bytes,
// tightly packed (no alignment) when info pins the length to 1 or 2 bytes,
// aligned otherwise.
func writeOctetString(w *bitio.Writer, info *desc.StrInfo, data []byte) error {
	if err := writeLengthDeterminant(w, info, int64(len(data))); err != nil {
		return err
	}

	if tightPackOctetString(info) {
		for _, b := range data {
			w.PushBits(uint64(b), 8)
		}

		return nil
	}

	w.Align()
	w.PushBytes(data)

	return nil
}

func readOctetString(r *bitio.Reader, info *desc.StrInfo) ([]byte, error) {
	length, err := readLengthDeterminant(r, info)
	if err != nil {
		return nil, err
	}

	if tightPackOctetString(info) {
		out := make([]byte, length)
		for i := range out {
			b, err := r.GetBits(8)
			if err != nil {
				return nil, err
			}
			out[i] = byte(b)
		}

		return out, nil
	}

	r.Align()

	return r.GetBytes(int(length))
}

// writeBitString writes bitLen (the field's length determinant) followed
// by the bitLen significant bits of bits, with no alignment before nor
// after — PushBitStream drains the sub-reader bit for bit, so the content
// lands exactly where the length determinant left off.
func writeBitString(w *bitio.Writer, info *desc.StrInfo, bits []byte, bitLen int) error {
	if err := writeLengthDeterminant(w, info, int64(bitLen)); err != nil {
		return err
	}

	content, err := bitio.NewReader(bits).Sub(bitLen)
	if err != nil {
		return err
	}

	return w.PushBitStream(content)
}

func readBitString(r *bitio.Reader, info *desc.StrInfo) ([]byte, int, error) {
	bitLen, err := readLengthDeterminant(r, info)
	if err != nil {
		return nil, 0, err
	}

	sub, err := r.Sub(int(bitLen))
	if err != nil {
		return nil, 0, err
	}

	out, err := drainBits(sub, int(bitLen))
	if err != nil {
		return nil, 0, err
	}

	return out, int(bitLen), nil
}

// drainBits reads n bits from r and returns them packed MSB-first into
// bytes, zero-padding the final byte's unused low bits.
func drainBits(r *bitio.Reader, n int) ([]byte, error) {
	out := make([]byte, (n+7)/8)

	remaining := n
	i := 0
	for remaining > 0 {
		take := remaining
		if take > 8 {
			take = 8
		}

		v, err := r.GetBits(take)
		if err != nil {
			return nil, err
		}

		out[i] = byte(v << uint(8-take))
		i++
		remaining -= take
	}

	return out, nil
}
