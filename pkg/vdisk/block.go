package vdisk

import "fmt"

// BlockData is the unit of transfer between memory and the volume.
type BlockData [BlockSize]byte

// WriteBlock stores exactly one block at `offset`.
func WriteBlock(disk *Disk, block *BlockData, offset Byte) error {
	if err := checkBlockBounds(disk, offset); err != nil {
		return fmt.Errorf("writing block: %w", err)
	}
	if err := WriteAt(disk.Volume, offset, block[:]); err != nil {
		return fmt.Errorf("writing block at `%d`: %w", offset, err)
	}
	return nil
}

// ReadBlock loads exactly one block from `offset` into `block`.
func ReadBlock(disk *Disk, offset Byte, block *BlockData) error {
	if err := checkBlockBounds(disk, offset); err != nil {
		return fmt.Errorf("reading block: %w", err)
	}
	if err := ReadAt(disk.Volume, offset, block[:]); err != nil {
		return fmt.Errorf("reading block at `%d`: %w", offset, err)
	}
	return nil
}

func checkBlockBounds(disk *Disk, offset Byte) error {
	if offset < 0 || offset+BlockSize > disk.Superblock.Capacity {
		return fmt.Errorf(
			"offset `%d` outside capacity `%d`: %w",
			offset,
			disk.Superblock.Capacity,
			OutOfBoundsErr,
		)
	}
	return nil
}
