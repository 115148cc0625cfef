package ber

import "github.com/arloliu/asn1codec/errs"

// lengthHeaderSize returns the number of bytes the BER length header for a
// content of n bytes occupies: 1 byte for n < 128 (short form), else
// 1 + the minimal number of bytes that hold n (long form, high bit set on
// the first byte, whose low bits give the byte count that follows).
func lengthHeaderSize(n int) int {
	if n < 128 {
		return 1
	}

	return 1 + byteCount(n)
}

// byteCount returns the minimal number of big-endian bytes needed to hold n.
func byteCount(n int) int {
	c := 0
	for v := n; v > 0; v >>= 8 {
		c++
	}

	return c
}

// writeLength appends n's BER length header to buf.
func writeLength(buf []byte, n int) []byte {
	if n < 128 {
		return append(buf, byte(n))
	}

	nb := byteCount(n)
	buf = append(buf, 0x80|byte(nb))

	for i := nb - 1; i >= 0; i-- {
		buf = append(buf, byte(n>>(8*i)))
	}

	return buf
}

// readLength parses a BER length header at the start of data, returning the
// decoded length, whether it was the indefinite-length form (0x80), and the
// number of header bytes consumed.
func readLength(data []byte) (length int, indefinite bool, consumed int, err error) {
	if len(data) == 0 {
		return 0, false, 0, errs.ErrShortRead
	}

	first := data[0]
	if first&0x80 == 0 {
		return int(first), false, 1, nil
	}

	nb := int(first & 0x7F)
	if nb == 0 {
		return 0, true, 1, nil
	}
	if nb > 4 {
		return 0, false, 0, errs.ErrMalformedHeader
	}
	if len(data) < 1+nb {
		return 0, false, 0, errs.ErrShortRead
	}

	n := 0
	for i := 0; i < nb; i++ {
		n = n<<8 | int(data[1+i])
	}

	return n, false, 1 + nb, nil
}

// skipToEOC advances past a value of unknown, possibly indefinite-length
// structure starting right after a tag+length header already consumed up to
// the indefinite marker, returning the number of bytes consumed, including
// the terminating EOC. Used both by SKIP fields and by
// indefinite-length constructed values on decode.
func skipToEOC(data []byte) (consumed int, err error) {
	pos := 0

	for {
		if pos+2 <= len(data) && data[pos] == 0x00 && data[pos+1] == 0x00 {
			return pos + 2, nil
		}
		if pos >= len(data) {
			return 0, errs.ErrShortRead
		}

		// Skip one TLV (or nested indefinite-length TLV) at pos.
		if pos+1 >= len(data) {
			return 0, errs.ErrShortRead
		}

		tagByte := data[pos]
		constructed := tagByte&0x20 != 0
		contentLen, indef, lenConsumed, lerr := readLength(data[pos+1:])
		if lerr != nil {
			return 0, lerr
		}

		headerLen := 1 + lenConsumed
		if indef {
			if !constructed {
				return 0, errs.ErrMalformedHeader
			}

			inner, serr := skipToEOC(data[pos+headerLen:])
			if serr != nil {
				return 0, serr
			}

			pos += headerLen + inner

			continue
		}

		if pos+headerLen+contentLen > len(data) {
			return 0, errs.ErrShortRead
		}

		pos += headerLen + contentLen
	}
}
