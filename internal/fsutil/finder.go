// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundError is returned by FindUp when none of the names exist in start
// or any of its parents.
type NotFoundError struct {
	Start string
	Names []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no recipe file (%s) found in %s or any parent directory", strings.Join(e.Names, ", "), e.Start)
}

// Is lets errors.Is(err, fs.ErrNotExist) match a NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// FindUp looks for the first of names in start, then in each parent
// directory up to the file system root. Names are tried in order within a
// directory; only regular files match. The returned path is absolute.
func FindUp(start string, names []string) (string, error) {
	if len(names) == 0 {
		panic("names must not be empty")
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err == nil && info.Mode().IsRegular() {
				return path, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{Start: start, Names: names}
		}
		dir = parent
	}
}
