// SPDX-License-Identifier: MIT

package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// maxPayload bounds the raw payload size accepted by Decode.
const maxPayload = 128 << 20

// zstd encoders and decoders are reused; EncodeAll and DecodeAll are
// stateless, so a pooled value serves any payload.
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.SpeedDefault),
				zstd.WithEncoderCRC(false),
			)
			if err != nil {
				panic(fmt.Sprintf("snapshot: zstd encoder: %v", err))
			}
			return enc
		},
	}
	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderMaxMemory(maxPayload),
			)
			if err != nil {
				panic(fmt.Sprintf("snapshot: zstd decoder: %v", err))
			}
			return dec
		},
	}
)

type zstdCodec struct{}

func (zstdCodec) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (zstdCodec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return out, nil
}

type s2Codec struct{}

func (s2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (s2Codec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := s2.Decode(make([]byte, rawLen), data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}

	return out, nil
}

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

type lz4Codec struct{}

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	lc := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n == 0 {
		// Incompressible input; stored as a literal-only block.
		return lz4Literal(data), nil
	}

	return dst[:n], nil
}

// Decompress restores a block into a buffer of the size recorded in the
// frame header. A block that does not fit is corrupt.
func (lz4Codec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}

	return buf[:n], nil
}

// lz4Literal encodes data as a single LZ4 sequence of literals, the block
// form CompressBlock declines to produce for incompressible input.
func lz4Literal(data []byte) []byte {
	n := len(data)
	out := make([]byte, 0, n+n/255+2)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for ; rest >= 255; rest -= 255 {
			out = append(out, 255)
		}
		out = append(out, byte(rest))
	}

	return append(out, data...)
}
