// SPDX-License-Identifier: MIT

package snapshot

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/unfold/unfold"
)

// byteOrder reads fixed-width values and appends them without temporaries.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// order is the byte order of every frame and payload field.
var order byteOrder = binary.LittleEndian

// appendPayload serialises s into dst in field declaration order.
func appendPayload(dst []byte, s *unfold.Snapshot) []byte {
	dst = appendString(dst, s.Name)
	dst = appendString(dst, s.Title)

	dst = order.AppendUint32(dst, uint32(int32(s.Kind)))
	dst = order.AppendUint64(dst, math.Float64bits(s.RegParm))
	dst = order.AppendUint64(dst, uint64(int64(s.NToys)))
	dst = order.AppendUint64(dst, uint64(int64(s.Verbose)))
	dst = append(dst, byte(s.ToyPolicy))

	dst = appendBool(dst, s.Overflow)
	dst = order.AppendUint32(dst, uint32(s.NMeasured))
	dst = order.AppendUint32(dst, uint32(s.NTruth))

	dst = appendFloats(dst, s.Measured)
	dst = appendFloats(dst, s.MeasuredErrors)
	dst = appendFloats(dst, s.MeasuredCov)

	dst = appendBool(dst, s.Unfolded)
	dst = appendBool(dst, s.Failed)
	dst = appendFloats(dst, s.Reco)
	dst = appendFloats(dst, s.Variances)
	dst = appendFloats(dst, s.Cov)
	dst = appendFloats(dst, s.ToyCov)

	return order.AppendUint64(dst, math.Float64bits(s.LL))
}

func appendString(dst []byte, v string) []byte {
	dst = order.AppendUint32(dst, uint32(len(v)))
	return append(dst, v...)
}

func appendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}

	return append(dst, 0)
}

// appendFloats writes a presence byte, then the length and the values.
func appendFloats(dst []byte, v []float64) []byte {
	if v == nil {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	dst = order.AppendUint32(dst, uint32(len(v)))
	for _, x := range v {
		dst = order.AppendUint64(dst, math.Float64bits(x))
	}

	return dst
}

// payloadReader walks a payload; the first short read sets err and every
// later read returns zero values.
type payloadReader struct {
	buf []byte
	off int
	err error
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

func (r *payloadReader) readByte() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}

	return 0
}

func (r *payloadReader) readBool() bool { return r.readByte() != 0 }

func (r *payloadReader) readUint32() uint32 {
	if b := r.take(4); b != nil {
		return order.Uint32(b)
	}

	return 0
}

func (r *payloadReader) readUint64() uint64 {
	if b := r.take(8); b != nil {
		return order.Uint64(b)
	}

	return 0
}

func (r *payloadReader) readFloat64() float64 { return math.Float64frombits(r.readUint64()) }

func (r *payloadReader) readString() string {
	return string(r.take(int(r.readUint32())))
}

func (r *payloadReader) readFloats() []float64 {
	if !r.readBool() {
		return nil
	}
	n := int(r.readUint32())
	// Reject lengths the remaining payload cannot hold before allocating.
	if r.err == nil && (len(r.buf)-r.off)/8 < n {
		r.err = ErrTruncated
	}
	if r.err != nil {
		return nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = r.readFloat64()
	}

	return v
}

// readPayload is the inverse of appendPayload. Trailing bytes are an error.
func readPayload(buf []byte) (*unfold.Snapshot, error) {
	r := &payloadReader{buf: buf}
	s := &unfold.Snapshot{}

	s.Name = r.readString()
	s.Title = r.readString()

	s.Kind = unfold.Kind(int32(r.readUint32()))
	s.RegParm = r.readFloat64()
	s.NToys = int(int64(r.readUint64()))
	s.Verbose = int(int64(r.readUint64()))
	s.ToyPolicy = unfold.ToyPolicy(r.readByte())

	s.Overflow = r.readBool()
	s.NMeasured = int(r.readUint32())
	s.NTruth = int(r.readUint32())

	s.Measured = r.readFloats()
	s.MeasuredErrors = r.readFloats()
	s.MeasuredCov = r.readFloats()

	s.Unfolded = r.readBool()
	s.Failed = r.readBool()
	s.Reco = r.readFloats()
	s.Variances = r.readFloats()
	s.Cov = r.readFloats()
	s.ToyCov = r.readFloats()

	s.LL = r.readFloat64()

	if r.err != nil {
		return nil, r.err
	}
	if r.off != len(r.buf) {
		return nil, ErrTruncated
	}

	return s, nil
}
