package vdisk

type constErr string

func (err constErr) Error() string { return string(err) }

const (
	NotFoundErr         constErr = "file not found"
	UserNotFoundErr     constErr = "user not found"
	UserExistsErr       constErr = "user already exists"
	CredentialsErr      constErr = "invalid login or password"
	CapacityExceededErr constErr = "capacity exceeded"
	OutOfBoundsErr      constErr = "out of bounds"
	NameTooLongErr      constErr = "name too long"
	InvalidNameErr      constErr = "invalid name"
	BadMagicErr         constErr = "bad magic"
	ChecksumMismatchErr constErr = "metadata checksum mismatch"
	CorruptedErr        constErr = "disk metadata corrupted"
)
