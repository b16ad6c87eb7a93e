package vdisk

// Byte is a byte count or a byte offset into the volume.
type Byte int64

// Block is a count of blocks.
type Block uint64

const (
	Size64 Byte = 8

	BlockSize Byte = 4

	InodeTableSize = 10
	UserTableSize  = 5

	FilenameMaxSize Byte = 32
	LoginMaxSize    Byte = 32
	PasswdMaxSize   Byte = 64
	TimestampSize   Byte = 26

	DefaultCapacity Byte = 64 * 1024

	SuperblockMagic uint64 = 0x7363726174636830 // ascii "scratch0"
	VolumeIDSize    Byte   = 16

	// SuperblockSize covers six 64-bit fields, the volume id and the
	// checksum.
	SuperblockSize Byte = 6*Size64 + VolumeIDSize + Size64

	InodeSize Byte = FilenameMaxSize + // name
		Size64 + // size
		Size64 + // first byte
		TimestampSize + // ctime
		TimestampSize + // mtime
		Size64 // owner

	UserSize Byte = LoginMaxSize + PasswdMaxSize + Size64

	InodeTableOffset Byte = SuperblockSize
	UserTableOffset  Byte = InodeTableOffset + InodeTableSize*InodeSize

	// DataOffset is the first byte past the fixed tables. It is where the
	// free cursor of a freshly formatted disk points.
	DataOffset Byte = UserTableOffset + UserTableSize*UserSize

	// DiskFileName is the name of the volume file inside a disk location.
	DiskFileName = "d0"
)

// Blocks returns the number of blocks needed to hold `size` bytes.
func Blocks(size Byte) Block {
	if size <= 0 {
		return 0
	}
	blocks := size / BlockSize
	if size%BlockSize != 0 {
		blocks++
	}
	return Block(blocks)
}

// Span returns the number of bytes reserved by `Blocks(size)` blocks.
func Span(size Byte) Byte { return Byte(Blocks(size)) * BlockSize }

func init() {
	for _, size := range [...]Byte{SuperblockSize, InodeSize, UserSize} {
		if size%BlockSize != 0 {
			panic("vdisk: table layout is not block-aligned")
		}
	}
}
