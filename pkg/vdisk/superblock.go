package vdisk

import "github.com/google/uuid"

// Superblock holds the global counters of a disk and its allocation cursor.
// `FreeCursor` only moves forward while a disk is open: deleted or
// outgrown spans are never handed out again.
type Superblock struct {
	Capacity   Byte      `json:"capacity"`
	FileCount  int       `json:"fileCount"`
	UserCount  int       `json:"userCount"`
	BlocksUsed Block     `json:"blocksUsed"`
	FreeCursor Byte      `json:"freeCursor"`
	VolumeID   uuid.UUID `json:"volumeID"`
}

func NewSuperblock(capacity Byte, volumeID uuid.UUID) Superblock {
	return Superblock{
		Capacity:   capacity,
		FreeCursor: DataOffset,
		VolumeID:   volumeID,
	}
}

// AdvanceCursor reserves `blocks` blocks at the free cursor.
func (superblock *Superblock) AdvanceCursor(blocks Block) {
	superblock.FreeCursor += Byte(blocks) * BlockSize
	superblock.BlocksUsed += blocks
}

// Fits reports whether a span of `size` bytes starting at the free cursor
// lies inside the volume.
func (superblock *Superblock) Fits(size Byte) bool {
	return superblock.FreeCursor+Span(size) <= superblock.Capacity
}

// RecomputeCursor points the free cursor just past the furthest live span,
// or at `DataOffset` when the disk holds no files.
func RecomputeCursor(disk *Disk) {
	cursor := DataOffset
	for _, inode := range disk.Inodes[:disk.Superblock.FileCount] {
		cursor = maxByte(cursor, inode.End())
	}
	disk.Superblock.FreeCursor = cursor
}
