// Package host moves whole files between a virtual disk and the host file
// system.
package host

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/errs"

	"github.com/weberc2/scratchfs/pkg/vdisk"
)

// HostIOErr classifies failures of the host file system. The underlying
// cause is kept.
var HostIOErr = errs.Class("host io")

const ShortWriteErr constErr = "short write"

type constErr string

func (err constErr) Error() string { return string(err) }

type Bridge struct {
	Disk   *vdisk.Disk
	Host   FileSystem
	Logger logrus.FieldLogger
}

func NewBridge(disk *vdisk.Disk, host FileSystem) *Bridge {
	return &Bridge{Disk: disk, Host: host, Logger: logrus.StandardLogger()}
}

// Import copies the host file at `path` onto the disk under the same name.
func (bridge *Bridge) Import(path string, session vdisk.Session) (err error) {
	file, err := bridge.Host.Open(path)
	if err != nil {
		return HostIOErr.Wrap(fmt.Errorf("importing `%s`: %w", path, err))
	}
	defer bridge.close(path, file, &err)

	data, err := io.ReadAll(file)
	if err != nil {
		return HostIOErr.Wrap(fmt.Errorf("importing `%s`: %w", path, err))
	}
	if err := vdisk.WriteFile(
		bridge.Disk,
		path,
		&vdisk.FileBuffer{Data: data},
		session,
	); err != nil {
		return fmt.Errorf("importing `%s`: %w", path, err)
	}

	bridge.logger().
		WithField("file", path).
		WithField("size", len(data)).
		WithField("owner", session.UserID).
		Debugf("imported file")
	return nil
}

// Export writes the disk file `name` to the host file of the same name.
func (bridge *Bridge) Export(name string) (err error) {
	file, err := vdisk.ReadFile(bridge.Disk, name)
	if err != nil {
		return fmt.Errorf("exporting `%s`: %w", name, err)
	}

	w, err := bridge.Host.Create(name)
	if err != nil {
		return HostIOErr.Wrap(fmt.Errorf("exporting `%s`: %w", name, err))
	}
	defer bridge.close(name, w, &err)

	n, err := w.Write(file.Data)
	if n != len(file.Data) {
		short := fmt.Errorf(
			"exporting `%s`: wrote `%d` of `%d` bytes: %w",
			name,
			n,
			len(file.Data),
			ShortWriteErr,
		)
		if err != nil {
			return HostIOErr.Wrap(fmt.Errorf("%w (%v)", short, err))
		}
		return short
	}
	if err != nil {
		return HostIOErr.Wrap(fmt.Errorf("exporting `%s`: %w", name, err))
	}

	bridge.logger().
		WithField("file", name).
		WithField("size", n).
		Debugf("exported file")
	return nil
}

// close releases a host handle. A close failure becomes the result only when
// nothing failed before it; otherwise it is logged.
func (bridge *Bridge) close(name string, c io.Closer, err *error) {
	closeErr := c.Close()
	if closeErr == nil {
		return
	}
	if *err == nil {
		*err = HostIOErr.Wrap(fmt.Errorf("closing `%s`: %w", name, closeErr))
		return
	}
	bridge.logger().Errorf("closing file `%s`: %v", name, closeErr)
}

func (bridge *Bridge) logger() logrus.FieldLogger {
	if bridge.Logger == nil {
		return logrus.StandardLogger()
	}
	return bridge.Logger
}
