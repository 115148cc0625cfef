package payload

import "github.com/klauspost/compress/s2"

// S2 compresses opaque payload bytes with S2, trading compression ratio for
// speed. Suited to payloads on a hot decode path.
type S2 struct{}

var _ Codec = (*S2)(nil)

// NewS2 creates an S2 codec.
func NewS2() S2 {
	return S2{}
}

// Compress compresses data using S2.
func (c S2) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2-compressed data.
func (c S2) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
