package host

import (
	"io"
	"os"
	"path/filepath"
)

// FileSystem is the host side of the bridge.
type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
}

// Dir is a FileSystem rooted at a host directory.
type Dir string

func (dir Dir) Open(name string) (io.ReadCloser, error) {
	return os.Open(dir.path(name))
}

func (dir Dir) Create(name string) (io.WriteCloser, error) {
	return os.Create(dir.path(name))
}

func (dir Dir) path(name string) string {
	return filepath.Join(string(dir), filepath.FromSlash(name))
}
