//go:build cgo

package payload

import "github.com/valyala/gozstd"

// Compress compresses data using cgo-backed Zstandard.
func (c Zstd) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses Zstd-compressed data using the cgo binding.
func (c Zstd) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
