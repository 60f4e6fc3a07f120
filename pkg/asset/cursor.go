package asset

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

// Reader is a bounds-checked cursor over a borrowed byte slice. The offset
// never leaves [0, len(buf)]: a failing read returns an error and leaves
// the offset where it was.
//
// Every value returned by a Reader is copied out of the buffer, so decoded
// data does not alias the input. Array reads of zero elements return nil.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

func (r *Reader) truncated(need uint64) error {
	return &DecodeError{
		Index:  -1,
		Offset: r.off,
		Err:    ErrTruncated,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, r.Len()),
	}
}

// span returns count*elemSize, checking both the multiplication and the
// remaining length before anything is allocated.
func (r *Reader) span(count, elemSize uint64) (int, error) {
	hi, n := bits.Mul64(count, elemSize)
	if hi != 0 || n > math.MaxInt {
		return 0, &DecodeError{
			Index:  -1,
			Offset: r.off,
			Err:    ErrLengthOverflow,
			Detail: fmt.Sprintf("%d elements of %d bytes", count, elemSize),
		}
	}
	if n > uint64(r.Len()) {
		return 0, r.truncated(n)
	}
	return int(n), nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n > r.Len() {
		return nil, r.truncated(uint64(n))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// F32 reads a little-endian IEEE-754 float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// Bytes reads count elements of elemSize bytes as one owned copy.
func (r *Reader) Bytes(count, elemSize uint64) ([]byte, error) {
	n, err := r.span(count, elemSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, _ := r.take(n)
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Float32s reads count little-endian float32 values.
func (r *Reader) Float32s(count uint64) ([]float32, error) {
	n, err := r.span(count, 4)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, _ := r.take(n)
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// Uint32s reads count little-endian uint32 values.
func (r *Reader) Uint32s(count uint64) ([]uint32, error) {
	n, err := r.span(count, 4)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, _ := r.take(n)
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// Name reads a fixed-width, NUL-padded name field. A name that fills the
// whole field has no terminator.
func (r *Reader) Name(width int) (string, error) {
	b, err := r.take(width)
	if err != nil {
		return "", err
	}
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), nil
		}
	}
	return string(b), nil
}

// Vec4 reads four float32 values.
func (r *Reader) Vec4() ([4]float32, error) {
	var v [4]float32
	b, err := r.take(16)
	if err != nil {
		return v, err
	}
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Writer appends little-endian values to a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity preallocated for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) U16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *Writer) U32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *Writer) U64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *Writer) I32(v int32)  { w.U32(uint32(v)) }
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// Float32s appends each value in order.
func (w *Writer) Float32s(vs []float32) {
	for _, v := range vs {
		w.F32(v)
	}
}

// Uint32s appends each value in order.
func (w *Writer) Uint32s(vs []uint32) {
	for _, v := range vs {
		w.U32(v)
	}
}

// Vec4 appends four float32 values.
func (w *Writer) Vec4(v [4]float32) {
	for _, f := range v {
		w.F32(f)
	}
}

// Name appends s into a fixed-width NUL-padded field, truncating names
// that do not fit.
func (w *Writer) Name(s string, width int) {
	field := make([]byte, width)
	copy(field, s)
	w.buf = append(w.buf, field...)
}
