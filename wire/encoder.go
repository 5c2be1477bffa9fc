package wire

import (
	"errors"
)

// ErrBufferLimit is returned when the output buffer may not grow past the
// encoder's configured byte limit. Encoding is all-or-nothing: the caller
// must discard the partially built buffer, it is not meaningful wire data.
var ErrBufferLimit = errors.New("wire: output buffer limit exceeded")

// Encoder accumulates protobuf-style wire bytes. One encode call owns the
// buffer exclusively for the call's duration; nothing here is safe for
// concurrent use.
type Encoder struct {
	buf   []byte
	limit int // 0 means unbounded
}

// NewEncoder creates a new wire format encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0)}
}

// NewEncoderLimit creates an encoder whose buffer may not grow beyond limit
// bytes. Exceeding the limit fails the encode with ErrBufferLimit.
func NewEncoderLimit(limit int) *Encoder {
	return &Encoder{buf: make([]byte, 0), limit: limit}
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset clears the encoder buffer, retaining its capacity.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) appendByte(b byte) error {
	if e.limit > 0 && len(e.buf)+1 > e.limit {
		return ErrBufferLimit
	}
	e.buf = append(e.buf, b)
	return nil
}

func (e *Encoder) appendBytes(p []byte) error {
	if e.limit > 0 && len(e.buf)+len(p) > e.limit {
		return ErrBufferLimit
	}
	e.buf = append(e.buf, p...)
	return nil
}

// insert splices p into the buffer at off, shifting everything from off
// onward to the right. Costs O(len(buf)-off) data movement.
func (e *Encoder) insert(off int, p []byte) error {
	if e.limit > 0 && len(e.buf)+len(p) > e.limit {
		return ErrBufferLimit
	}
	e.buf = append(e.buf, p...)
	copy(e.buf[off+len(p):], e.buf[off:])
	copy(e.buf[off:], p)
	return nil
}
