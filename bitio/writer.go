// Package bitio provides byte- and bit-granular big-endian I/O shared by the
// BER and PER codecs.
//
// Writer accumulates bits MSB-first in a 64-bit shift register and flushes
// whole words to a pooled byte buffer, mirroring the accumulator used by the
// Gorilla bit-packing encoder: new bits enter at the low end and existing
// bits shift left, so once the register fills it already holds its 64 bits
// in wire order.
package bitio

import (
	"encoding/binary"

	"github.com/arloliu/asn1codec/internal/pool"
)

// Writer produces a big-endian, MSB-first bit stream.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	bitBuf   uint64 // shift register accumulating pending bits, MSB-first
	bitCount int     // number of valid bits currently held in bitBuf
	buf      *pool.ByteBuffer
	marks    []int // stack of BitLen() snapshots pushed by PushMark
}

// NewWriter returns a Writer backed by a buffer obtained from the shared
// message pool. Call Release when the writer is no longer needed to return
// the buffer to the pool.
func NewWriter() *Writer {
	return &Writer{buf: pool.GetMsgBuffer()}
}

// PushBit appends a single bit, using only its low bit.
func (w *Writer) PushBit(b uint64) {
	w.PushBits(b, 1)
}

// PushBits appends the low n bits of value, MSB-first. n must be in [0,64].
func (w *Writer) PushBits(value uint64, n int) {
	if n == 0 {
		return
	}
	if n < 0 || n > 64 {
		panic("bitio: PushBits: n must be in [0,64]")
	}

	if n < 64 {
		value &= (uint64(1) << uint(n)) - 1
	}

	available := 64 - w.bitCount
	if n <= available {
		w.bitBuf = (w.bitBuf << uint(n)) | value
		w.bitCount += n
		if w.bitCount == 64 {
			w.flush()
		}

		return
	}

	highBits := n - available
	w.bitBuf = (w.bitBuf << uint(available)) | (value >> uint(highBits))
	w.bitCount = 64
	w.flush()

	w.bitBuf = value & ((uint64(1) << uint(highBits)) - 1)
	w.bitCount = highBits
}

// AddZeroBits pads n zero bits onto the stream.
func (w *Writer) AddZeroBits(n int) {
	for n > 0 {
		chunk := n
		if chunk > 64 {
			chunk = 64
		}
		w.PushBits(0, chunk)
		n -= chunk
	}
}

// Align pads with zero bits up to the next byte boundary and flushes the
// accumulator, so PushByte/PushBytes are valid immediately afterward.
func (w *Writer) Align() {
	pad := (8 - w.bitCount%8) % 8
	if pad > 0 {
		w.PushBits(0, pad)
	}
	if w.bitCount > 0 {
		w.flush()
	}
}

// PushByte appends a single byte directly to the underlying buffer. The
// writer must be byte-aligned (call Align first); PushByte panics otherwise,
// same as the other byte-granular writes below.
func (w *Writer) PushByte(b byte) {
	w.requireAligned("PushByte")
	w.buf.MustWriteByte(b)
}

// PushBytes appends data directly to the underlying buffer. The writer must
// be byte-aligned.
func (w *Writer) PushBytes(data []byte) {
	w.requireAligned("PushBytes")
	w.buf.MustWrite(data)
}

// PushBitStream appends every remaining bit of r onto the stream, in
// arbitrary (not necessarily byte-aligned) chunks.
func (w *Writer) PushBitStream(r *Reader) error {
	for r.LenBits() > 0 {
		n := r.LenBits()
		if n > 64 {
			n = 64
		}
		v, err := r.GetBits(n)
		if err != nil {
			return err
		}
		w.PushBits(v, n)
	}

	return nil
}

// PushMark records the current bit offset on an internal stack, for callers
// that want to report how many bits a sub-encode step consumed.
func (w *Writer) PushMark() {
	w.marks = append(w.marks, w.BitLen())
}

// PopMark pops the most recently pushed mark, returning the bit offset it
// recorded. ok is false if the mark stack is empty.
func (w *Writer) PopMark() (offset int, ok bool) {
	if len(w.marks) == 0 {
		return 0, false
	}

	top := len(w.marks) - 1
	offset = w.marks[top]
	w.marks = w.marks[:top]

	return offset, true
}

// ResetMark discards the entire mark stack.
func (w *Writer) ResetMark() {
	w.marks = w.marks[:0]
}

// BitLen returns the total number of bits written so far, including any
// bits still pending in the accumulator.
func (w *Writer) BitLen() int {
	return w.buf.Len()*8 + w.bitCount
}

// Bytes finalizes the stream (byte-aligning any pending bits, zero-padded)
// and returns the encoded bytes. The returned slice is valid until the next
// call to Reset or Release.
func (w *Writer) Bytes() []byte {
	w.Align()
	return w.buf.Bytes()
}

// Reset clears the writer back to an empty stream, retaining the
// underlying buffer's capacity for reuse.
func (w *Writer) Reset() {
	w.bitBuf = 0
	w.bitCount = 0
	w.marks = w.marks[:0]
	w.buf.Reset()
}

// Release returns the underlying buffer to the pool. The writer must not be
// used after calling Release.
func (w *Writer) Release() {
	if w.buf == nil {
		return
	}
	pool.PutMsgBuffer(w.buf)
	w.buf = nil
}

func (w *Writer) requireAligned(op string) {
	if w.bitCount != 0 {
		panic("bitio: " + op + " called while not byte-aligned")
	}
}

// flush writes the bitCount valid bits held in bitBuf out as whole bytes.
// Callers must only invoke flush when bitCount is a multiple of 8 (after
// Align's padding) or equal to 64 (the natural full-register case), so the
// zero-padding used to left-align the remaining bits never discards data
// that wasn't meant to be flushed yet.
func (w *Writer) flush() {
	if w.bitCount == 0 {
		return
	}

	numBytes := (w.bitCount + 7) / 8
	aligned := w.bitBuf << uint(64-w.bitCount)

	w.buf.Grow(numBytes)
	start := w.buf.Len()
	w.buf.ExtendOrGrow(numBytes)
	bs := w.buf.Slice(start, start+numBytes)

	if numBytes == 8 {
		binary.BigEndian.PutUint64(bs, aligned)
	} else {
		for i := range numBytes {
			shift := 56 - i*8
			bs[i] = byte(aligned >> uint(shift))
		}
	}

	w.bitBuf = 0
	w.bitCount = 0
}
