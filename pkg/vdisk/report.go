package vdisk

// Report is a snapshot of a disk's metadata, shaped for JSON output.
type Report struct {
	Superblock Superblock `json:"superblock"`
	Files      []Inode    `json:"files"`
	Users      []User     `json:"users"`
}

func NewReport(disk *Disk) Report {
	return Report{
		Superblock: disk.Superblock,
		Files:      Files(disk),
		Users:      Users(disk),
	}
}
