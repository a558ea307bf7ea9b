package gguf

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// cursor walks a fully buffered file. It only ever moves forward; every
// failure records the offset at which it occurred.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) errf(format string, args ...any) error {
	return &DecodeError{Offset: c.off, Reason: fmt.Sprintf(format, args...)}
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, c.errf("need %d bytes, %d remain", n, c.remaining())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readI8() (int8, error) {
	v, err := c.readU8()
	return int8(v), err
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readI16() (int16, error) {
	v, err := c.readU16()
	return int16(v), err
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32() (int32, error) {
	v, err := c.readU32()
	return int32(v), err
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readI64() (int64, error) {
	v, err := c.readU64()
	return int64(v), err
}

func (c *cursor) readF32() (float32, error) {
	u, err := c.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *cursor) readF64() (float64, error) {
	u, err := c.readU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (c *cursor) readBool() (bool, error) {
	v, err := c.readU8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// readString reads a u64 length prefix and that many bytes of UTF-8.
func (c *cursor) readString() (string, error) {
	n, err := c.readU64()
	if err != nil {
		return "", err
	}
	if n > uint64(c.remaining()) {
		return "", c.errf("string length %d exceeds %d remaining bytes", n, c.remaining())
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{Offset: c.off - len(b), Reason: "string is not valid UTF-8"}
	}
	return string(b), nil
}
