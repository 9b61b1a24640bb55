// SPDX-License-Identifier: MIT

package snapshot

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/unfold/unfold"
)

const (
	// Magic opens every snapshot frame.
	Magic = "UNFS"
	// Version is the frame format written by Encode.
	Version uint16 = 1

	headerSize = 24
)

// Marshal returns the frame of s with its payload compressed by c.
//
// Errors:
//   - ErrNilSnapshot, ErrUnknownCodec, or the codec's compression error.
func Marshal(s *unfold.Snapshot, c Codec) ([]byte, error) {
	if s == nil {
		return nil, snapshotErrorf(opEncode, ErrNilSnapshot)
	}
	codec, err := getCodec(c)
	if err != nil {
		return nil, snapshotErrorf(opEncode, err)
	}
	raw := appendPayload(make([]byte, 0, 256), s)
	stored, err := codec.Compress(raw)
	if err != nil {
		return nil, snapshotErrorf(opEncode, err)
	}

	out := make([]byte, 0, headerSize+len(stored))
	out = append(out, Magic...)
	out = order.AppendUint16(out, Version)
	out = append(out, byte(c), 0)
	out = order.AppendUint32(out, uint32(len(raw)))
	out = order.AppendUint64(out, xxhash.Sum64(raw))
	out = order.AppendUint32(out, uint32(len(stored)))

	return append(out, stored...), nil
}

// Encode writes the frame of s to w.
func Encode(w io.Writer, s *unfold.Snapshot, c Codec) error {
	frame, err := Marshal(s, c)
	if err != nil {
		return err
	}
	if _, err = w.Write(frame); err != nil {
		return snapshotErrorf(opEncode, err)
	}

	return nil
}

// header is the fixed part of a frame.
type header struct {
	codec  Codec
	rawLen int
	sum    uint64
	stored int
}

// parseHeader validates the fixed frame fields.
func parseHeader(b []byte) (header, error) {
	var h header
	if string(b[:4]) != Magic {
		return h, ErrBadMagic
	}
	if v := order.Uint16(b[4:6]); v != Version {
		return h, ErrVersion
	}
	h.codec = Codec(b[6])
	if _, err := getCodec(h.codec); err != nil {
		return h, err
	}
	h.rawLen = int(order.Uint32(b[8:12]))
	h.sum = order.Uint64(b[12:20])
	h.stored = int(order.Uint32(b[20:24]))
	if h.rawLen > maxPayload || h.stored > maxPayload {
		return h, ErrTruncated
	}

	return h, nil
}

// Unmarshal decodes one frame. Bytes after the frame are ignored.
//
// Errors:
//   - ErrTruncated, ErrBadMagic, ErrVersion, ErrUnknownCodec, ErrChecksum,
//     or the codec's decompression error.
func Unmarshal(b []byte) (*unfold.Snapshot, error) {
	if len(b) < headerSize {
		return nil, snapshotErrorf(opDecode, ErrTruncated)
	}
	h, err := parseHeader(b[:headerSize])
	if err != nil {
		return nil, snapshotErrorf(opDecode, err)
	}
	if len(b)-headerSize < h.stored {
		return nil, snapshotErrorf(opDecode, ErrTruncated)
	}

	return decodeBody(h, b[headerSize:headerSize+h.stored])
}

// Decode reads one frame from r.
func Decode(r io.Reader) (*unfold.Snapshot, error) {
	var hb [headerSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return nil, snapshotErrorf(opDecode, readErr(err))
	}
	h, err := parseHeader(hb[:])
	if err != nil {
		return nil, snapshotErrorf(opDecode, err)
	}
	stored := make([]byte, h.stored)
	if _, err = io.ReadFull(r, stored); err != nil {
		return nil, snapshotErrorf(opDecode, readErr(err))
	}

	return decodeBody(h, stored)
}

func decodeBody(h header, stored []byte) (*unfold.Snapshot, error) {
	codec, _ := getCodec(h.codec)
	raw, err := codec.Decompress(stored, h.rawLen)
	if err != nil {
		return nil, snapshotErrorf(opDecode, err)
	}
	if len(raw) != h.rawLen {
		return nil, snapshotErrorf(opDecode, ErrTruncated)
	}
	if xxhash.Sum64(raw) != h.sum {
		return nil, snapshotErrorf(opDecode, ErrChecksum)
	}
	s, err := readPayload(raw)
	if err != nil {
		return nil, snapshotErrorf(opDecode, err)
	}

	return s, nil
}

// readErr maps short reads to ErrTruncated.
func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}

	return err
}

// Save writes the frame of s to the file at path, replacing it.
func Save(path string, s *unfold.Snapshot, c Codec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return snapshotErrorf(opSave, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = snapshotErrorf(opSave, cerr)
		}
	}()

	return Encode(f, s, c)
}

// Load reads one frame from the file at path.
func Load(path string) (*unfold.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, snapshotErrorf(opLoad, err)
	}
	defer f.Close()

	return Decode(bufio.NewReader(f))
}
