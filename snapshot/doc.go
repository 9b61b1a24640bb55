// SPDX-License-Identifier: MIT

// Package snapshot persists unfold.Snapshot values in a compact binary frame.
//
// Frame layout (little-endian):
//
//	offset size field
//	0      4    magic "UNFS"
//	4      2    format version
//	6      1    codec (None, Zstd, S2, LZ4)
//	7      1    reserved, zero
//	8      4    raw payload length
//	12     8    xxhash64 of the raw payload
//	20     4    stored payload length
//	24     n    stored payload (raw payload compressed by the codec)
//
// The raw payload holds the snapshot fields in declaration order: strings and
// float slices are length-prefixed, absent slices carry a zero presence byte.
//
// Decode verifies the magic, the version, the codec and finally the checksum
// of the decompressed payload, so a corrupted file is reported instead of
// being restored into an engine.
package snapshot
