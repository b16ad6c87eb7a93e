package vdisk

import (
	"testing"
	"time"
)

const testCapacity = DataOffset + 256

// tickingClock returns a clock that moves forward one second per call so
// that every timestamp it produces is distinct.
func tickingClock() func() time.Time {
	t := time.Date(2022, time.February, 13, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestDisk(t *testing.T, capacity Byte) (*Disk, *Buffer) {
	t.Helper()
	volume := NewBuffer(nil)
	disk, err := Format(volume, &FormatParams{
		Capacity:     capacity,
		RootPassword: "bonjour",
		Clock:        tickingClock(),
	})
	if err != nil {
		t.Fatalf("Format(): unexpected err: %v", err)
	}
	return disk, volume
}

func mustWrite(t *testing.T, disk *Disk, name string, data string) *Inode {
	t.Helper()
	if err := WriteFile(
		disk,
		name,
		&FileBuffer{Data: []byte(data)},
		RootSession(),
	); err != nil {
		t.Fatalf("WriteFile(`%s`): unexpected err: %v", name, err)
	}
	index, found := FindInode(disk, name)
	if !found {
		t.Fatalf("FindInode(`%s`): wanted found after write", name)
	}
	return &disk.Inodes[index]
}
