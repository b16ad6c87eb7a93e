// Package vdisk implements a small multi-user file store inside a single
// volume: a superblock, a fixed inode table, a fixed user table and an
// append-only data region addressed in 4-byte blocks.
//
// A Disk is not safe for concurrent use.
package vdisk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Disk struct {
	Volume     io.ReadWriteSeeker
	Superblock Superblock
	Inodes     [InodeTableSize]Inode
	Users      [UserTableSize]User

	// Clock stamps inode times. Nil means `time.Now`.
	Clock func() time.Time

	closed bool
}

type FormatParams struct {
	// Capacity is the size of the volume in bytes, metadata included.
	// Zero means `DefaultCapacity`.
	Capacity     Byte
	RootPassword string

	// VolumeID defaults to a random UUID.
	VolumeID uuid.UUID
	Clock    func() time.Time
}

// Format initializes an empty disk on `volume`: a fresh superblock, the root
// account in user slot 0 and a volume extended to the requested capacity.
// The metadata is flushed before returning.
func Format(volume io.ReadWriteSeeker, params *FormatParams) (*Disk, error) {
	if params == nil {
		params = &FormatParams{}
	}
	capacity := params.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < DataOffset+BlockSize {
		return nil, fmt.Errorf(
			"formatting disk: capacity `%d` leaves no room past the "+
				"metadata region (`%d` bytes): %w",
			capacity,
			DataOffset,
			OutOfBoundsErr,
		)
	}

	volumeID := params.VolumeID
	if volumeID == uuid.Nil {
		volumeID = uuid.New()
	}

	disk := &Disk{
		Volume:     volume,
		Superblock: NewSuperblock(capacity, volumeID),
		Clock:      params.Clock,
	}
	if _, err := CreateUser(
		disk,
		RootLogin,
		params.RootPassword,
	); err != nil {
		return nil, fmt.Errorf("formatting disk: %w", err)
	}

	// writing the last byte sizes the volume for both files and buffers
	if err := WriteAt(volume, capacity-1, []byte{0}); err != nil {
		return nil, fmt.Errorf("formatting disk: sizing volume: %w", err)
	}
	if err := disk.Flush(); err != nil {
		return nil, fmt.Errorf("formatting disk: %w", err)
	}
	return disk, nil
}

// Load reads a disk previously written by `Flush`. The free cursor is
// recomputed from the live inodes.
func Load(volume io.ReadWriteSeeker) (*Disk, error) {
	var p [DataOffset]byte
	if err := ReadAt(volume, 0, p[:]); err != nil {
		return nil, fmt.Errorf("loading disk: reading metadata: %w", err)
	}
	disk := &Disk{Volume: volume}
	if err := DecodeMetadata(disk, &p); err != nil {
		return nil, fmt.Errorf("loading disk: %w", err)
	}
	RecomputeCursor(disk)
	return disk, nil
}

// Open loads the disk file inside the host directory `location`, creating
// and formatting it when it is missing or empty. The returned disk owns the
// file; call `Close` to persist and release it.
func Open(location string, params *FormatParams) (*Disk, error) {
	if params == nil {
		params = &FormatParams{}
	}
	if err := os.MkdirAll(location, 0755); err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", location, err)
	}
	path := filepath.Join(location, DiskFileName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", location, err)
	}

	disk, err := func() (*Disk, error) {
		info, err := file.Stat()
		if err != nil {
			return nil, err
		}
		if info.Size() == 0 {
			return Format(file, params)
		}
		disk, err := Load(file)
		if err != nil {
			return nil, err
		}
		if params.Clock != nil {
			disk.Clock = params.Clock
		}
		return disk, nil
	}()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening disk `%s`: %w", location, err)
	}
	return disk, nil
}

// Flush writes the superblock, the inode table and the user table to the
// start of the volume.
func (disk *Disk) Flush() error {
	var p [DataOffset]byte
	EncodeMetadata(disk, &p)
	if err := WriteAt(disk.Volume, 0, p[:]); err != nil {
		return fmt.Errorf("flushing disk: %w", err)
	}
	return nil
}

// Close flushes the disk and closes the volume if it is closable. Calling it
// again does nothing.
func (disk *Disk) Close() error {
	if disk.closed {
		return nil
	}
	disk.closed = true

	flushErr := disk.Flush()
	if closer, ok := disk.Volume.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			if flushErr != nil {
				return fmt.Errorf(
					"closing disk: %w (volume close also failed: %v)",
					flushErr,
					err,
				)
			}
			return fmt.Errorf("closing disk: closing volume: %w", err)
		}
	}
	if flushErr != nil {
		return fmt.Errorf("closing disk: %w", flushErr)
	}
	return nil
}

func (disk *Disk) now() time.Time {
	if disk.Clock != nil {
		return disk.Clock()
	}
	return time.Now()
}
