// Package per implements the Aligned Packed Encoding Rules (X.691): a
// tagless, bit-packed wire format driven by the same desc.Descriptor and
// value.Value tree the ber package consumes. Where BER is self-describing
// (every value carries its own tag and length), PER leans entirely on the
// registered shape and constraints to know what comes next.
package per

// lengthShortFormMax is the largest length value (inclusive) the
// semi-constrained/unconstrained length determinant's 1-byte form can
// carry; above it, the 2-byte "10" + 14-bit form is used.
const lengthShortFormMax = 127

// fragmentationThreshold is the length at which a semi-constrained or
// unconstrained length determinant would require PER fragmentation — a
// wire feature this codec deliberately does not implement (spec's
// "Non-goals" carries forward: fragmented messages fail to encode/decode
// rather than silently truncating).
const fragmentationThreshold = 1 << 14

// wideConstrainedThreshold is the d_max ceiling below which an integer's
// or length determinant's root range is encoded directly as a
// constrained whole number (a bit-field or aligned 1-2 octets); at or
// above it, integers fall back to the octet-length-prefixed form.
const wideConstrainedThreshold = 1 << 16

// nsnnwnSmallMax is the largest value NSNNWN's inline 6-bit form can
// carry; above it, NSNNWN falls back to the unconstrained length+octets
// form.
const nsnnwnSmallMax = 63
