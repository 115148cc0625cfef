package payload

// Zstd compresses opaque payload bytes with Zstandard. It favors
// compression ratio over speed, suited to payloads that are written once
// and decoded rarely (archived messages, cold-stored records).
type Zstd struct{}

var _ Codec = (*Zstd)(nil)

// NewZstd creates a Zstd codec with default settings.
func NewZstd() Zstd {
	return Zstd{}
}
