// SPDX-License-Identifier: MIT

package snapshot

import (
	"fmt"
	"strings"
)

// Codec identifies the compression applied to a snapshot payload.
type Codec uint8

const (
	// None stores the payload as is.
	None Codec = iota
	// Zstd compresses with Zstandard at the default level.
	Zstd
	// S2 compresses with S2, the Snappy-compatible block format.
	S2
	// LZ4 compresses with LZ4 block compression.
	LZ4
)

// DefaultCodec is used by the CLI when no codec is given.
const DefaultCodec = Zstd

// String returns the lower-case codec name.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Codec(%d)", uint8(c))
	}
}

// ParseCodec maps a case-insensitive codec name to its Codec.
func ParseCodec(name string) (Codec, error) {
	for _, c := range []Codec{None, Zstd, S2, LZ4} {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}

	return None, fmt.Errorf("%s: %w: %q", opParseCodec, ErrUnknownCodec, name)
}

// compressor compresses and restores a payload. Decompress receives the raw
// length from the frame header and sizes its output from it. Implementations
// are stateless values and safe for concurrent use.
type compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte, rawLen int) ([]byte, error)
}

var builtinCodecs = map[Codec]compressor{
	None: noopCodec{},
	Zstd: zstdCodec{},
	S2:   s2Codec{},
	LZ4:  lz4Codec{},
}

// getCodec returns the compressor for c.
func getCodec(c Codec) (compressor, error) {
	if codec, ok := builtinCodecs[c]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, c)
}

// noopCodec passes payloads through unchanged.
type noopCodec struct{}

func (noopCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (noopCodec) Decompress(data []byte, _ int) ([]byte, error) { return data, nil }
