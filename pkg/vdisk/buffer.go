package vdisk

import (
	"fmt"
	"io"
)

// Buffer is an in-memory volume. Writing or seeking past the end grows it
// with zeroes, which is how `Format` sizes a fresh disk.
type Buffer struct {
	data   []byte
	cursor int64
}

func NewBuffer(data []byte) *Buffer { return &Buffer{data: data} }

func (b *Buffer) Write(p []byte) (int, error) {
	b.grow(b.cursor + int64(len(p)))
	n := copy(b.data[b.cursor:], p)
	b.cursor += int64(n)
	return n, nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.cursor >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.cursor:])
	b.cursor += int64(n)
	return n, nil
}

// Seek moves the cursor. A position before the start of the buffer is an
// error and leaves the cursor where it was.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = b.cursor
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return b.cursor, fmt.Errorf("seeking buffer: invalid whence `%d`", whence)
	}
	if base+offset < 0 {
		return b.cursor, fmt.Errorf(
			"seeking buffer to `%d`: %w",
			base+offset,
			OutOfBoundsErr,
		)
	}
	b.cursor = base + offset
	b.grow(b.cursor)
	return b.cursor, nil
}

// grow zero-extends the buffer to at least `size` bytes.
func (b *Buffer) grow(size int64) {
	if remainder := size - int64(len(b.data)); remainder > 0 {
		b.data = append(b.data, make([]byte, remainder)...)
	}
}

func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Len() int { return len(b.data) }
