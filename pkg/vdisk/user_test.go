package vdisk

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat_ProvisionsRoot(t *testing.T) {
	disk, _ := newTestDisk(t, testCapacity)
	if disk.Superblock.UserCount != 1 {
		t.Fatalf("UserCount: wanted `1`; found `%d`", disk.Superblock.UserCount)
	}
	root, err := FindUser(disk, RootLogin)
	if err != nil {
		t.Fatalf("FindUser(): unexpected err: %v", err)
	}
	if root.ID != RootUID {
		t.Fatalf("root.ID: wanted `%d`; found `%d`", RootUID, root.ID)
	}
}

func TestCreateUser_TableFull(t *testing.T) {
	disk, _ := newTestDisk(t, testCapacity)
	for i := 1; i < UserTableSize; i++ {
		id, err := CreateUser(disk, fmt.Sprintf("michel%d", i), "bonjour")
		if err != nil {
			t.Fatalf("CreateUser(): unexpected err: %v", err)
		}
		if id != UserID(i) {
			t.Fatalf("CreateUser(): wanted id `%d`; found `%d`", i, id)
		}
	}

	_, err := CreateUser(disk, "overflow", "bonjour")
	if !errors.Is(err, CapacityExceededErr) {
		t.Fatalf("CreateUser(): wanted `CapacityExceededErr`; found `%v`", err)
	}
	if disk.Superblock.UserCount != UserTableSize {
		t.Fatalf(
			"UserCount: wanted `%d`; found `%d`",
			UserTableSize,
			disk.Superblock.UserCount,
		)
	}
}

func TestCreateUser_Exists(t *testing.T) {
	disk, _ := newTestDisk(t, testCapacity)
	if _, err := CreateUser(disk, RootLogin, "x"); !errors.Is(err, UserExistsErr) {
		t.Fatalf("CreateUser(): wanted `UserExistsErr`; found `%v`", err)
	}
}

func TestFindUser_NotFound(t *testing.T) {
	disk, _ := newTestDisk(t, testCapacity)
	if _, err := FindUser(disk, "nobody"); !errors.Is(err, UserNotFoundErr) {
		t.Fatalf("FindUser(): wanted `UserNotFoundErr`; found `%v`", err)
	}
}

func TestLogin(t *testing.T) {
	disk, _ := newTestDisk(t, testCapacity)
	id, err := CreateUser(disk, "michel", "secret")
	if err != nil {
		t.Fatalf("CreateUser(): unexpected err: %v", err)
	}

	session, err := Login(disk, "michel", "secret")
	if err != nil {
		t.Fatalf("Login(): unexpected err: %v", err)
	}
	if session.UserID != id {
		t.Fatalf("Login(): wanted user `%d`; found `%d`", id, session.UserID)
	}

	for _, creds := range [][2]string{
		{"michel", "wrong"},
		{"nobody", "secret"},
	} {
		if _, err := Login(
			disk,
			creds[0],
			creds[1],
		); !errors.Is(err, CredentialsErr) {
			t.Fatalf(
				"Login(`%s`): wanted `CredentialsErr`; found `%v`",
				creds[0],
				err,
			)
		}
	}
}

func TestCreateUser_PasswordWithNUL(t *testing.T) {
	// Given a password with an embedded NUL, which the user table cannot
	// store faithfully
	disk, volume := newTestDisk(t, testCapacity)

	// When the account is created, then it is rejected
	if _, err := CreateUser(disk, "michel", "se\x00cret"); !errors.Is(err, InvalidNameErr) {
		t.Fatalf("CreateUser(): wanted `InvalidNameErr`; found `%v`", err)
	}

	// And a plain password still logs in after a reload
	if _, err := CreateUser(disk, "michel", "secret"); err != nil {
		t.Fatalf("CreateUser(): unexpected err: %v", err)
	}
	if err := disk.Flush(); err != nil {
		t.Fatalf("Flush(): unexpected err: %v", err)
	}
	loaded, err := Load(volume)
	if err != nil {
		t.Fatalf("Load(): unexpected err: %v", err)
	}
	if _, err := Login(loaded, "michel", "secret"); err != nil {
		t.Fatalf("Login(): unexpected err: %v", err)
	}
}
