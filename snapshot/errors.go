// SPDX-License-Identifier: MIT

package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic indicates that the input does not start with a snapshot frame.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrVersion indicates a frame written by an unsupported format version.
	ErrVersion = errors.New("snapshot: unsupported version")

	// ErrChecksum indicates that the decoded payload does not match its checksum.
	ErrChecksum = errors.New("snapshot: checksum mismatch")

	// ErrUnknownCodec indicates a codec byte or name with no registered codec.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrTruncated indicates a frame or payload that ends early or declares
	// more data than it carries, or a payload with trailing bytes.
	ErrTruncated = errors.New("snapshot: truncated data")

	// ErrNilSnapshot indicates a nil snapshot passed to Encode.
	ErrNilSnapshot = errors.New("snapshot: nil snapshot")
)

// Operation tags for error wrapping.
const (
	opEncode     = "Encode"
	opDecode     = "Decode"
	opSave       = "Save"
	opLoad       = "Load"
	opParseCodec = "ParseCodec"
)

// snapshotErrorf wraps err with an operation tag, keeping errors.Is working.
func snapshotErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
