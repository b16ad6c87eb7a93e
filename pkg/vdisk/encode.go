package vdisk

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

const (
	superblockFieldMagic Byte = iota
	superblockFieldCapacity
	superblockFieldFileCount
	superblockFieldUserCount
	superblockFieldBlocksUsed
	superblockFieldFreeCursor

	superblockVolumeIDOffset Byte = 6 * Size64
	superblockChecksumOffset Byte = superblockVolumeIDOffset + VolumeIDSize
)

type inodeField int

const (
	inodeFieldName inodeField = iota
	inodeFieldSize
	inodeFieldFirstByte
	inodeFieldCTime
	inodeFieldMTime
	inodeFieldOwner
	inodeFieldEOF
)

type userField int

const (
	userFieldLogin userField = iota
	userFieldPasswd
	userFieldID
	userFieldEOF
)

var (
	inodeFieldSizes = [inodeFieldEOF]Byte{
		inodeFieldName:      FilenameMaxSize,
		inodeFieldSize:      Size64,
		inodeFieldFirstByte: Size64,
		inodeFieldCTime:     TimestampSize,
		inodeFieldMTime:     TimestampSize,
		inodeFieldOwner:     Size64,
	}
	userFieldSizes = [userFieldEOF]Byte{
		userFieldLogin:  LoginMaxSize,
		userFieldPasswd: PasswdMaxSize,
		userFieldID:     Size64,
	}

	inodeFieldOffsets = [inodeFieldEOF]Byte{} // generated in init
	userFieldOffsets  = [userFieldEOF]Byte{}  // generated in init
)

func init() {
	var lastOffset Byte
	for field := inodeField(0); field < inodeFieldEOF; field++ {
		inodeFieldOffsets[field] = lastOffset
		lastOffset += inodeFieldSizes[field]
	}
	if lastOffset != InodeSize {
		panic("vdisk: inode fields do not add up to InodeSize")
	}

	lastOffset = 0
	for field := userField(0); field < userFieldEOF; field++ {
		userFieldOffsets[field] = lastOffset
		lastOffset += userFieldSizes[field]
	}
	if lastOffset != UserSize {
		panic("vdisk: user fields do not add up to UserSize")
	}
}

// EncodeSuperblock writes every superblock field except the checksum, which
// covers the whole metadata region and is set by `EncodeMetadata`.
func EncodeSuperblock(superblock *Superblock, p *[SuperblockSize]byte) {
	putU64(p[superblockFieldMagic*Size64:], SuperblockMagic)
	putByte(p[superblockFieldCapacity*Size64:], superblock.Capacity)
	putU64(p[superblockFieldFileCount*Size64:], uint64(superblock.FileCount))
	putU64(p[superblockFieldUserCount*Size64:], uint64(superblock.UserCount))
	putU64(p[superblockFieldBlocksUsed*Size64:], uint64(superblock.BlocksUsed))
	putByte(p[superblockFieldFreeCursor*Size64:], superblock.FreeCursor)
	copy(p[superblockVolumeIDOffset:superblockChecksumOffset], superblock.VolumeID[:])
}

func EncodeInode(inode *Inode, buf *[InodeSize]byte) {
	p := buf[:]
	encodeInodeString(p, inodeFieldName, inode.Name)
	putByte(p[inodeFieldOffsets[inodeFieldSize]:], inode.Size)
	putByte(p[inodeFieldOffsets[inodeFieldFirstByte]:], inode.FirstByte)
	encodeInodeString(p, inodeFieldCTime, inode.CTime)
	encodeInodeString(p, inodeFieldMTime, inode.MTime)
	putU64(p[inodeFieldOffsets[inodeFieldOwner]:], uint64(inode.Owner))
}

func EncodeUser(user *User, buf *[UserSize]byte) {
	p := buf[:]
	encodeUserString(p, userFieldLogin, user.Login)
	encodeUserString(p, userFieldPasswd, user.Passwd)
	putU64(p[userFieldOffsets[userFieldID]:], uint64(user.ID))
}

// EncodeMetadata serializes the superblock, the inode table and the user
// table into the layout that occupies `[0, DataOffset)` on the volume. Unused
// table slots are encoded as zeroes.
func EncodeMetadata(disk *Disk, p *[DataOffset]byte) {
	*p = [DataOffset]byte{}

	var superblock [SuperblockSize]byte
	EncodeSuperblock(&disk.Superblock, &superblock)
	copy(p[:SuperblockSize], superblock[:])

	var inode [InodeSize]byte
	for i := 0; i < disk.Superblock.FileCount; i++ {
		EncodeInode(&disk.Inodes[i], &inode)
		copy(p[inodeOffset(i):], inode[:])
	}

	var user [UserSize]byte
	for i := 0; i < disk.Superblock.UserCount; i++ {
		EncodeUser(&disk.Users[i], &user)
		copy(p[userOffset(i):], user[:])
	}

	putU64(p[superblockChecksumOffset:], checksum(p))
}

// checksum hashes the metadata region with the checksum slot treated as zero.
func checksum(p *[DataOffset]byte) uint64 {
	digest := xxhash.New()
	digest.Write(p[:superblockChecksumOffset])
	digest.Write(make([]byte, Size64))
	digest.Write(p[superblockChecksumOffset+Size64:])
	return digest.Sum64()
}

func inodeOffset(i int) Byte { return InodeTableOffset + Byte(i)*InodeSize }

func userOffset(i int) Byte { return UserTableOffset + Byte(i)*UserSize }

func encodeInodeString(p []byte, field inodeField, s string) {
	putString(p[inodeFieldOffsets[field]:], inodeFieldSizes[field], s)
}

func encodeUserString(p []byte, field userField, s string) {
	putString(p[userFieldOffsets[field]:], userFieldSizes[field], s)
}

// putString writes `s` into a NUL-padded field of `size` bytes. Callers
// validate lengths before anything reaches the encoder.
func putString(p []byte, size Byte, s string) {
	field := p[:size]
	n := copy(field, s)
	for i := range field[n:] {
		field[n+i] = 0
	}
}

func putByte(p []byte, u Byte) {
	putU64(p, uint64(u))
}

func putU64(p []byte, u uint64) {
	binary.BigEndian.PutUint64(p, u)
}
