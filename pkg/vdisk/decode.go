package vdisk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

func DecodeSuperblock(superblock *Superblock, p *[SuperblockSize]byte) error {
	if magic := getU64(
		p[superblockFieldMagic*Size64:],
	); magic != SuperblockMagic {
		return fmt.Errorf(
			"decoding superblock: decoded magic `%#x`: %w",
			magic,
			BadMagicErr,
		)
	}
	*superblock = Superblock{
		Capacity:   getByte(p[superblockFieldCapacity*Size64:]),
		FileCount:  int(getU64(p[superblockFieldFileCount*Size64:])),
		UserCount:  int(getU64(p[superblockFieldUserCount*Size64:])),
		BlocksUsed: Block(getU64(p[superblockFieldBlocksUsed*Size64:])),
		FreeCursor: getByte(p[superblockFieldFreeCursor*Size64:]),
	}
	copy(
		superblock.VolumeID[:],
		p[superblockVolumeIDOffset:superblockChecksumOffset],
	)
	return nil
}

func DecodeInode(inode *Inode, buf *[InodeSize]byte) {
	p := buf[:]
	*inode = Inode{
		Name:      decodeInodeString(p, inodeFieldName),
		Size:      getByte(p[inodeFieldOffsets[inodeFieldSize]:]),
		FirstByte: getByte(p[inodeFieldOffsets[inodeFieldFirstByte]:]),
		CTime:     decodeInodeString(p, inodeFieldCTime),
		MTime:     decodeInodeString(p, inodeFieldMTime),
		Owner:     UserID(getU64(p[inodeFieldOffsets[inodeFieldOwner]:])),
	}
}

func DecodeUser(user *User, buf *[UserSize]byte) {
	p := buf[:]
	*user = User{
		Login:  decodeUserString(p, userFieldLogin),
		Passwd: decodeUserString(p, userFieldPasswd),
		ID:     UserID(getU64(p[userFieldOffsets[userFieldID]:])),
	}
}

// DecodeMetadata is the inverse of `EncodeMetadata`. It rejects a region
// whose checksum does not match or whose counters break the table bounds.
func DecodeMetadata(disk *Disk, p *[DataOffset]byte) error {
	var superblock [SuperblockSize]byte
	copy(superblock[:], p[:SuperblockSize])
	if err := DecodeSuperblock(&disk.Superblock, &superblock); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	if stored, computed := getU64(
		p[superblockChecksumOffset:],
	), checksum(p); stored != computed {
		return fmt.Errorf(
			"decoding metadata: stored checksum `%#x`; computed `%#x`: %w",
			stored,
			computed,
			ChecksumMismatchErr,
		)
	}

	if err := validateSuperblock(&disk.Superblock); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	var inode [InodeSize]byte
	for i := 0; i < disk.Superblock.FileCount; i++ {
		copy(inode[:], p[inodeOffset(i):])
		DecodeInode(&disk.Inodes[i], &inode)
		if err := validateInode(&disk.Superblock, &disk.Inodes[i]); err != nil {
			return fmt.Errorf("decoding metadata: inode `%d`: %w", i, err)
		}
	}

	var user [UserSize]byte
	for i := 0; i < disk.Superblock.UserCount; i++ {
		copy(user[:], p[userOffset(i):])
		DecodeUser(&disk.Users[i], &user)
		if disk.Users[i].ID != UserID(i) {
			return fmt.Errorf(
				"decoding metadata: user slot `%d` holds id `%d`: %w",
				i,
				disk.Users[i].ID,
				CorruptedErr,
			)
		}
	}
	return nil
}

func validateSuperblock(superblock *Superblock) error {
	if superblock.FileCount < 0 || superblock.FileCount > InodeTableSize {
		return fmt.Errorf(
			"file count `%d` exceeds `%d`: %w",
			superblock.FileCount,
			InodeTableSize,
			CorruptedErr,
		)
	}
	if superblock.UserCount < 1 || superblock.UserCount > UserTableSize {
		return fmt.Errorf(
			"user count `%d` outside `[1, %d]`: %w",
			superblock.UserCount,
			UserTableSize,
			CorruptedErr,
		)
	}
	if superblock.Capacity < DataOffset {
		return fmt.Errorf(
			"capacity `%d` smaller than the metadata region: %w",
			superblock.Capacity,
			CorruptedErr,
		)
	}
	return nil
}

func validateInode(superblock *Superblock, inode *Inode) error {
	// compare sizes against the room left so that `End` cannot overflow
	if inode.Name == "" ||
		inode.Size < 0 ||
		inode.FirstByte < DataOffset ||
		inode.FirstByte > superblock.Capacity ||
		inode.Size > superblock.Capacity-inode.FirstByte ||
		inode.End() > superblock.Capacity {
		return fmt.Errorf(
			"`%s` of `%d` bytes at `%d` in a volume of `%d` bytes: %w",
			inode.Name,
			inode.Size,
			inode.FirstByte,
			superblock.Capacity,
			CorruptedErr,
		)
	}
	return nil
}

func decodeInodeString(p []byte, field inodeField) string {
	return getString(p[inodeFieldOffsets[field]:], inodeFieldSizes[field])
}

func decodeUserString(p []byte, field userField) string {
	return getString(p[userFieldOffsets[field]:], userFieldSizes[field])
}

func getString(p []byte, size Byte) string {
	field := p[:size]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

func getByte(p []byte) Byte {
	return Byte(getU64(p))
}

func getU64(p []byte) uint64 {
	return binary.BigEndian.Uint64(p)
}
