package w3g

import (
	"encoding/binary"
	"math"
)

// Cursor is a sequential reader over a byte buffer. Positions reported in
// errors are absolute, i.e. relative to the buffer the root cursor was
// created over, also for cursors obtained with Sub.
type Cursor struct {
	data []byte
	pos  int
	base int
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the absolute read position.
func (c *Cursor) Pos() int { return c.base + c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Len returns the total size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

func (c *Cursor) need(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return newOutOfBoundsError(c.Pos(), n, c.Remaining())
	}
	return nil
}

// ReadBytes returns the next n bytes. The slice aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	return c.data[c.pos], nil
}

func (c *Cursor) Uint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

func (c *Cursor) Float32() (float32, error) {
	v, err := c.Uint32()
	return math.Float32frombits(v), err
}

// CString reads a null-terminated string and advances past the terminator.
// A missing terminator is an out of bounds read.
func (c *Cursor) CString() (string, error) {
	start := c.pos
	for i := start; i < len(c.data); i++ {
		if c.data[i] == 0 {
			c.pos = i + 1
			return string(c.data[start:i]), nil
		}
	}
	return "", newOutOfBoundsError(c.Pos(), len(c.data)-start+1, c.Remaining())
}

// Sub returns a cursor over the next n bytes and advances c past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{data: b, base: c.Pos() - n}, nil
}
