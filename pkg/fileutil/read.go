package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// MaxFileSize is the maximum file size we'll read (32MB).
// Client state files such as ~/.claude.json grow with project history,
// so the limit is generous while still bounding memory.
const MaxFileSize = 32 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
// A missing file is reported with an error satisfying os.IsNotExist via errors.Is.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast if size is already too large
	info, err := f.Stat()
	if err == nil {
		if info.Size() > MaxFileSize {
			return nil, ErrFileTooLarge
		}
	}

	r := io.LimitReader(f, MaxFileSize+1)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// ReadIfExists reads path with ReadFileWithLimit. A missing file yields
// (nil, false, nil).
func ReadIfExists(path string) ([]byte, bool, error) {
	data, err := ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
