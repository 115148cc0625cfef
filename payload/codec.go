// Package payload provides optional compression codecs for OPAQUE field
// content. A Codec, when attached to a KindOpaque desc.Field via
// desc.Compressed, wraps the raw content bytes on encode and reverses the
// wrapping on decode. It never touches TLV or PER framing — only the
// payload bytes addressed by that framing.
package payload

import "fmt"

// Compressor compresses a field's raw payload bytes before they are written
// as an OCTET STRING / opaque blob.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's transform when an opaque payload is
// read back off the wire.
type Decompressor interface {
	// Decompress decompresses data and returns the original payload.
	//
	// Decompress validates the data format and returns an error if data is
	// corrupted or was produced by an incompatible codec.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor. A desc.Field's PayloadCodec
// must satisfy both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Type identifies a built-in codec for CreateCodec/GetCodec.
type Type uint8

const (
	TypeNone Type = iota
	TypeZstd
	TypeS2
	TypeLZ4
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZstd:
		return "zstd"
	case TypeS2:
		return "s2"
	case TypeLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// CreateCodec is a factory function returning a Codec for the given Type.
func CreateCodec(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOp(), nil
	case TypeZstd:
		return NewZstd(), nil
	case TypeS2:
		return NewS2(), nil
	case TypeLZ4:
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("asn1codec: invalid payload codec type: %s", t)
	}
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOp(),
	TypeZstd: NewZstd(),
	TypeS2:   NewS2(),
	TypeLZ4:  NewLZ4(),
}

// GetCodec retrieves a shared built-in Codec instance for t.
func GetCodec(t Type) (Codec, error) {
	if c, ok := builtinCodecs[t]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("asn1codec: unsupported payload codec type: %s", t)
}
