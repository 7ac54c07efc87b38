package svn

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// cursor is a sequential, forward-only reader over the in-memory stream.
// Every read is bounded against the remaining buffer so a truncated file
// fails fast instead of over-reading. No backward seeking exists.
type cursor struct {
	buf []byte
	off int
}

func newCursor(data []byte) *cursor {
	return &cursor{buf: data}
}

// bytes consumes and returns the next n raw bytes.
func (c *cursor) bytes(n int) ([]byte, error) {
	if left := len(c.buf) - c.off; left < n {
		return nil, &TruncationError{Offset: c.off, Need: n, Left: left}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// remaining reports how many bytes are left to read.
func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

// skip discards n bytes. Negative counts are treated as zero.
func (c *cursor) skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := c.bytes(n)
	return err
}

func (c *cursor) uint8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) int16() (int16, error) {
	v, err := c.uint16()
	return int16(v), err
}

func (c *cursor) int32() (int32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// utf16String decodes n little-endian 16-bit code units as text, dropping
// trailing NUL padding.
func (c *cursor) utf16String(n int) (string, error) {
	b, err := c.bytes(2 * n)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return strings.TrimRight(string(utf16.Decode(units)), "\x00"), nil
}
