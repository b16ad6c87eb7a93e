package vdisk

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBuffer_SeekBeyondLenGrows(t *testing.T) {
	b := NewBuffer(nil)
	b.Seek(512, io.SeekStart)
	if wanted, found := 512, b.Len(); wanted != found {
		t.Fatalf("Len(): wanted `%d`; found `%d`", wanted, found)
	}
}

func TestBuffer_OverwritePrefix(t *testing.T) {
	// Given a big buffer
	b := NewBuffer([]byte("hello world"))

	// When some initial data is overwritten
	b.Write([]byte("bye  "))

	// Then the data in the buffer should contain the overwritten prefix plus
	// the remaining suffix
	wanted := []byte("bye   world")
	if found := b.Bytes(); !bytes.Equal(found, wanted) {
		t.Fatalf("Write(): wanted `%s`; found `%s`", wanted, found)
	}
}

func TestBuffer_ReadEOF(t *testing.T) {
	b := NewBuffer([]byte{1})
	var p [4]byte
	n, err := b.Read(p[:])
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != 1 {
		t.Fatalf("Read(): wanted `1` byte read; found `%d`", n)
	}

	// Reading a second time should return io.EOF
	n, err = b.Read(p[:])
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Read() (2nd time): wanted err `io.EOF`; found `%v`", err)
	}
	if n != 0 {
		t.Fatalf("Read() (2nd time): wanted `0` bytes read; found `%d`", n)
	}
}

func TestReadAt_ShortVolume(t *testing.T) {
	volume := NewBuffer([]byte{1, 2})
	p := make([]byte, 4)
	if err := ReadAt(volume, 0, p); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadAt(): wanted `io.ErrUnexpectedEOF`; found `%v`", err)
	}
}

func TestWriteAtReadAt(t *testing.T) {
	volume := NewBuffer(make([]byte, 16))
	wanted := []byte{1, 2, 3, 4}
	if err := WriteAt(volume, 8, wanted); err != nil {
		t.Fatalf("WriteAt(): unexpected err: %v", err)
	}
	found := make([]byte, 4)
	if err := ReadAt(volume, 8, found); err != nil {
		t.Fatalf("ReadAt(): unexpected err: %v", err)
	}
	if !bytes.Equal(wanted, found) {
		t.Fatalf("ReadAt(): wanted `%#x`; found `%#x`", wanted, found)
	}
	if volume.Len() != 16 {
		t.Fatalf("Len(): wanted `16`; found `%d`", volume.Len())
	}
}

func TestBuffer_SeekBeforeStart(t *testing.T) {
	b := NewBuffer([]byte("abcd"))
	if _, err := b.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek(): unexpected err: %v", err)
	}
	if _, err := b.Seek(-3, io.SeekCurrent); !errors.Is(err, OutOfBoundsErr) {
		t.Fatalf("Seek(): wanted `OutOfBoundsErr`; found `%v`", err)
	}

	// the cursor is unchanged, so the next read starts at `c`
	var p [1]byte
	if _, err := b.Read(p[:]); err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if p[0] != 'c' {
		t.Fatalf("Read(): wanted `c`; found `%c`", p[0])
	}
}

func TestBuffer_WriteAtEndGrows(t *testing.T) {
	b := NewBuffer([]byte("ab"))
	if _, err := b.Seek(0, io.SeekEnd); err != nil {
		t.Fatalf("Seek(): unexpected err: %v", err)
	}
	b.Write([]byte("cd"))
	if wanted, found := []byte("abcd"), b.Bytes(); !bytes.Equal(wanted, found) {
		t.Fatalf("Write(): wanted `%s`; found `%s`", wanted, found)
	}
}
