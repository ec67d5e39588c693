package w3g

import (
	"errors"
	"testing"
)

func TestCursorPrimitives(t *testing.T) {
	c := NewCursor([]byte{
		0xFE,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xFF, 0xFF,
		0x00, 0x00, 0x80, 0x3F,
		'g', 'g', 0x00,
		0xAA,
	})

	if v, _ := c.Int8(); v != -2 {
		t.Errorf("Int8 = %d, want -2", v)
	}
	if v, _ := c.Uint16(); v != 0x1234 {
		t.Errorf("Uint16 = 0x%X", v)
	}
	if v, _ := c.Uint32(); v != 0x12345678 {
		t.Errorf("Uint32 = 0x%X", v)
	}
	if v, _ := c.Int16(); v != -1 {
		t.Errorf("Int16 = %d, want -1", v)
	}
	if v, _ := c.Float32(); v != 1.0 {
		t.Errorf("Float32 = %v, want 1", v)
	}
	if s, err := c.CString(); err != nil || s != "gg" {
		t.Errorf("CString = %q, %v", s, err)
	}
	if b, _ := c.Peek(); b != 0xAA {
		t.Errorf("Peek = 0x%X", b)
	}
	if c.Pos() != 16 || c.Remaining() != 1 {
		t.Errorf("pos %d remaining %d", c.Pos(), c.Remaining())
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	if err := c.Skip(2); err != nil {
		t.Fatal(err)
	}

	_, err := c.Uint32()
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if oob.Offset != 2 || oob.Want != 4 || oob.Have != 1 {
		t.Errorf("unexpected error fields: %+v", oob)
	}
	if c.Pos() != 2 {
		t.Errorf("failed read moved cursor to %d", c.Pos())
	}
}

func TestCursorUnterminatedString(t *testing.T) {
	c := NewCursor([]byte("abc"))
	_, err := c.CString()
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
}

func TestCursorSubReportsAbsoluteOffsets(t *testing.T) {
	c := NewCursor([]byte{0, 0, 0, 1, 2})
	_ = c.Skip(3)
	sub, err := c.Sub(2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Remaining() != 0 {
		t.Errorf("parent not advanced, %d remaining", c.Remaining())
	}
	if sub.Pos() != 3 {
		t.Errorf("sub starts at %d, want 3", sub.Pos())
	}
	_, _ = sub.Uint16()
	_, err = sub.Uint8()
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) || oob.Offset != 5 {
		t.Errorf("expected overrun at 5, got %v", err)
	}
}
