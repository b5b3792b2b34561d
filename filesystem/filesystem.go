package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrIsDirectory  = errors.New("filesystem: path is a directory")
)

// Filesystem is the read-only asset storage routes are served from.
type Filesystem interface {
	ReadFile(path string) ([]byte, error)

	FileExists(path string) (bool, error)
	IsDirectory(path string) (bool, error)
}

type localFileSystem struct {
	root string
}

// NewLocalFileSystem resolves every path against root. An empty root means
// the working directory.
func NewLocalFileSystem(root string) Filesystem {
	return &localFileSystem{root: root}
}

func (filesystem *localFileSystem) resolve(path string) string {
	if filesystem.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filesystem.root, path)
}

func (filesystem *localFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(filesystem.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (filesystem *localFileSystem) IsDirectory(path string) (bool, error) {
	info, err := os.Stat(filesystem.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (filesystem *localFileSystem) ReadFile(path string) ([]byte, error) {
	isDir, err := filesystem.IsDirectory(path)
	if err != nil {
		return nil, err
	}
	if isDir {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(filesystem.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return content, nil
}
