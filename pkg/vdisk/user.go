package vdisk

import (
	"fmt"
	"strings"
)

type UserID uint64

const (
	RootUID   UserID = 0
	RootLogin        = "root"
)

// User is an account in the user table. Passwords are kept exactly as they
// were supplied.
type User struct {
	ID     UserID `json:"id"`
	Login  string `json:"login"`
	Passwd string `json:"-"`
}

// Session identifies the user on whose behalf files are created.
type Session struct {
	UserID UserID
}

// RootSession acts as the root account.
func RootSession() Session { return Session{UserID: RootUID} }

// CreateUser appends an account to the user table and returns its id, which
// is also its table index.
func CreateUser(disk *Disk, login, passwd string) (UserID, error) {
	if err := validateName(login, LoginMaxSize); err != nil {
		return 0, fmt.Errorf("creating user `%s`: %w", login, err)
	}
	if Byte(len(passwd)) > PasswdMaxSize {
		return 0, fmt.Errorf(
			"creating user `%s`: password of `%d` bytes exceeds `%d`: %w",
			login,
			len(passwd),
			PasswdMaxSize,
			NameTooLongErr,
		)
	}
	if strings.IndexByte(passwd, 0) >= 0 {
		return 0, fmt.Errorf(
			"creating user `%s`: password contains a NUL byte: %w",
			login,
			InvalidNameErr,
		)
	}
	if disk.Superblock.UserCount >= UserTableSize {
		return 0, fmt.Errorf(
			"creating user `%s`: user table holds `%d` users: %w",
			login,
			UserTableSize,
			CapacityExceededErr,
		)
	}
	if _, err := FindUser(disk, login); err == nil {
		return 0, fmt.Errorf("creating user `%s`: %w", login, UserExistsErr)
	}

	id := UserID(disk.Superblock.UserCount)
	disk.Users[id] = User{ID: id, Login: login, Passwd: passwd}
	disk.Superblock.UserCount++
	return id, nil
}

func FindUser(disk *Disk, login string) (*User, error) {
	for i := 0; i < disk.Superblock.UserCount; i++ {
		if disk.Users[i].Login == login {
			return &disk.Users[i], nil
		}
	}
	return nil, fmt.Errorf("finding user `%s`: %w", login, UserNotFoundErr)
}

// Login resolves a session for `login`. Unknown logins and wrong passwords
// fail the same way.
func Login(disk *Disk, login, passwd string) (Session, error) {
	user, err := FindUser(disk, login)
	if err != nil || user.Passwd != passwd {
		return Session{}, fmt.Errorf("logging in `%s`: %w", login, CredentialsErr)
	}
	return Session{UserID: user.ID}, nil
}

// Users returns a copy of the live accounts in table order.
func Users(disk *Disk) []User {
	out := make([]User, disk.Superblock.UserCount)
	copy(out, disk.Users[:disk.Superblock.UserCount])
	return out
}
