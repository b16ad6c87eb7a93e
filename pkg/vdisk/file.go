package vdisk

import "fmt"

// FileBuffer holds the full contents of a file in memory.
type FileBuffer struct {
	Data []byte
}

func (f *FileBuffer) Size() Byte { return Byte(len(f.Data)) }

// WriteFile creates `name` or replaces its contents.
//
// Content that fits in the file's current size is rewritten in place and the
// recorded size is left as it was, so a shorter write still reads back at the
// old length. Content that does not fit moves the file to a fresh span at the
// free cursor, keeping its creation time; the old span is abandoned.
func WriteFile(
	disk *Disk,
	name string,
	file *FileBuffer,
	session Session,
) error {
	if err := validateName(name, FilenameMaxSize); err != nil {
		return fmt.Errorf("writing file `%s`: %w", name, err)
	}
	now := timestamp(disk.now())

	index, found := FindInode(disk, name)
	if found && file.Size() <= disk.Inodes[index].Size {
		inode := &disk.Inodes[index]
		if err := writeBlocks(disk, inode.FirstByte, file.Data); err != nil {
			return fmt.Errorf("rewriting file `%s`: %w", name, err)
		}
		inode.MTime = now
		return nil
	}

	ctime := now
	if found {
		// check before retiring so that a failed grow leaves the file intact
		if !disk.Superblock.Fits(file.Size()) {
			return fmt.Errorf(
				"growing file `%s` to `%d` bytes: no room past `%d`: %w",
				name,
				file.Size(),
				disk.Superblock.FreeCursor,
				OutOfBoundsErr,
			)
		}
		ctime = disk.Inodes[index].CTime
		if err := RetireInode(disk, index); err != nil {
			return fmt.Errorf("growing file `%s`: %w", name, err)
		}
	}

	index, err := CreateInode(disk, &InodeParams{
		Name:  name,
		Size:  file.Size(),
		Owner: session.UserID,
		CTime: ctime,
		MTime: now,
	})
	if err != nil {
		return fmt.Errorf("writing file `%s`: %w", name, err)
	}
	if err := writeBlocks(
		disk,
		disk.Inodes[index].FirstByte,
		file.Data,
	); err != nil {
		return fmt.Errorf("writing file `%s`: %w", name, err)
	}
	return nil
}

// ReadFile returns the contents of `name`, exactly `Size` bytes long.
func ReadFile(disk *Disk, name string) (*FileBuffer, error) {
	index, found := FindInode(disk, name)
	if !found {
		return nil, fmt.Errorf("reading file `%s`: %w", name, NotFoundErr)
	}
	inode := &disk.Inodes[index]
	data, err := readBlocks(disk, inode.FirstByte, inode.Size)
	if err != nil {
		return nil, fmt.Errorf("reading file `%s`: %w", name, err)
	}
	return &FileBuffer{Data: data}, nil
}

// DeleteFile drops `name` from the inode table. Its blocks stay allocated.
func DeleteFile(disk *Disk, name string) error {
	index, found := FindInode(disk, name)
	if !found {
		return fmt.Errorf("deleting file `%s`: %w", name, NotFoundErr)
	}
	if err := RetireInode(disk, index); err != nil {
		return fmt.Errorf("deleting file `%s`: %w", name, err)
	}
	return nil
}

// writeBlocks copies `data` block by block starting at `offset`. The last
// block is zero-padded.
func writeBlocks(disk *Disk, offset Byte, data []byte) error {
	var block BlockData
	for i := Byte(0); i < Byte(len(data)); i += BlockSize {
		block = BlockData{}
		copy(block[:], data[i:minByte(i+BlockSize, Byte(len(data)))])
		if err := WriteBlock(disk, &block, offset+i); err != nil {
			return err
		}
	}
	return nil
}

// readBlocks reads whole blocks starting at `offset` but only returns the
// first `size` bytes.
func readBlocks(disk *Disk, offset Byte, size Byte) ([]byte, error) {
	out := make([]byte, size)
	var block BlockData
	for i := Byte(0); i < size; i += BlockSize {
		if err := ReadBlock(disk, offset+i, &block); err != nil {
			return nil, err
		}
		copy(out[i:], block[:])
	}
	return out, nil
}
