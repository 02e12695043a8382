//go:build windows
// +build windows

package junction

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// fullPath resolves a possibly-relative path against the working
// directory via GetFullPathNameW, growing the buffer when the first
// guess is too small. This is purely lexical: the path does not have
// to exist yet.
func fullPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("cannot resolve an empty path")
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", errors.Wrapf(err, "converting %s to UTF-16", path)
	}

	n := uint32(windows.MAX_PATH)
	for {
		buf := make([]uint16, n)
		n, err = windows.GetFullPathName(p, uint32(len(buf)), &buf[0], nil)
		if err != nil {
			return "", errors.Wrapf(err, "resolving full path of %s", path)
		}
		if n <= uint32(len(buf)) {
			return windows.UTF16ToString(buf[:n]), nil
		}
		// n is the required buffer size, try again with it.
	}
}
