// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// DefaultFilePerm is requested for files that did not exist before a write.
// Transactions let the process umask narrow it.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// The temp file is fsynced before the rename so an interrupted write leaves either
// the old content or the new, never a truncation.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpName, err := writeTemp(path, data, perm, true)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// writeTemp writes data to a synced temp file next to path and returns its name.
// With exact set the file gets perm as given; otherwise perm is filtered by
// the process umask at creation. The temp file is removed on every failure path.
func writeTemp(path string, data []byte, perm os.FileMode, exact bool) (string, error) {
	// Same directory so the rename stays on one filesystem
	tmp, err := createTemp(filepath.Dir(path), perm)
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	fail := func(err error, msg string) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", errors.Wrap(err, msg)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "syncing temp file")
	}
	if exact {
		if err := tmp.Chmod(perm); err != nil {
			return fail(err, "setting file permissions")
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errors.Wrap(err, "closing temp file")
	}

	return tmpName, nil
}

// createTemp is os.CreateTemp with a caller-chosen mode, which the kernel
// filters through the umask.
func createTemp(dir string, perm os.FileMode) (*os.File, error) {
	for range 10000 {
		name := filepath.Join(dir, ".mcpi-atomic-"+strconv.FormatUint(rand.Uint64(), 36)+".tmp")
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if os.IsExist(err) {
			continue
		}
		return f, err
	}
	return nil, errors.Newf("no unused temp file name in %s", dir)
}

// MarshalJSON encodes v with 2-space indentation and a trailing newline.
// HTML characters are written as-is, since URLs in args commonly carry '&'.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return buf.Bytes(), nil
}

// AtomicWriteJSONWithPerm writes v as indented JSON to path atomically with specified permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// The file is created with 0644 permissions.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, DefaultFilePerm)
}

// FileMode returns the permission bits of an existing file, or fallback if it
// does not exist.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
