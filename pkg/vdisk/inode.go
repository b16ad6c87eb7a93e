package vdisk

import (
	"fmt"
	"time"
)

type Inode struct {
	Name      string `json:"name"`
	Size      Byte   `json:"size"`
	FirstByte Byte   `json:"firstByte"`
	CTime     string `json:"ctime"`
	MTime     string `json:"mtime"`
	Owner     UserID `json:"owner"`
}

// End returns the first byte past the blocks reserved for the inode.
func (inode *Inode) End() Byte { return inode.FirstByte + Span(inode.Size) }

type InodeParams struct {
	Name  string
	Size  Byte
	Owner UserID
	CTime string
	MTime string
}

// FindInode returns the table index of the live inode named `name`.
func FindInode(disk *Disk, name string) (int, bool) {
	for i := 0; i < disk.Superblock.FileCount; i++ {
		if disk.Inodes[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// CreateInode installs a new inode in the first free slot and reserves its
// blocks at the free cursor.
func CreateInode(disk *Disk, params *InodeParams) (int, error) {
	if err := validateName(params.Name, FilenameMaxSize); err != nil {
		return 0, fmt.Errorf("creating inode `%s`: %w", params.Name, err)
	}
	if disk.Superblock.FileCount >= InodeTableSize {
		return 0, fmt.Errorf(
			"creating inode `%s`: inode table holds `%d` files: %w",
			params.Name,
			InodeTableSize,
			CapacityExceededErr,
		)
	}
	if !disk.Superblock.Fits(params.Size) {
		return 0, fmt.Errorf(
			"creating inode `%s`: `%d` bytes at `%d` exceed capacity `%d`: %w",
			params.Name,
			params.Size,
			disk.Superblock.FreeCursor,
			disk.Superblock.Capacity,
			OutOfBoundsErr,
		)
	}

	index := disk.Superblock.FileCount
	disk.Inodes[index] = Inode{
		Name:      params.Name,
		Size:      params.Size,
		FirstByte: disk.Superblock.FreeCursor,
		CTime:     params.CTime,
		MTime:     params.MTime,
		Owner:     params.Owner,
	}
	disk.Superblock.AdvanceCursor(Blocks(params.Size))
	disk.Superblock.FileCount++
	return index, nil
}

// RetireInode removes the inode at `index` and shifts the following inodes
// down so that `[0, FileCount)` stays gapless. Its blocks are not reclaimed.
// Indices held across this call must be looked up again by name.
func RetireInode(disk *Disk, index int) error {
	count := disk.Superblock.FileCount
	if index < 0 || index >= count {
		return fmt.Errorf(
			"retiring inode `%d` of `%d`: %w",
			index,
			count,
			OutOfBoundsErr,
		)
	}
	copy(disk.Inodes[index:count], disk.Inodes[index+1:count])
	disk.Inodes[count-1] = Inode{}
	disk.Superblock.FileCount--
	return nil
}

// Files returns a copy of the live inodes in table order.
func Files(disk *Disk) []Inode {
	out := make([]Inode, disk.Superblock.FileCount)
	copy(out, disk.Inodes[:disk.Superblock.FileCount])
	return out
}

func validateName(name string, max Byte) error {
	if name == "" {
		return InvalidNameErr
	}
	if Byte(len(name)) > max {
		return fmt.Errorf(
			"`%d` bytes exceeds `%d`: %w",
			len(name),
			max,
			NameTooLongErr,
		)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return InvalidNameErr
		}
	}
	return nil
}

// timestamp renders `t` in the fixed-width layout stored in inodes.
func timestamp(t time.Time) string { return t.Format(time.ANSIC) }
