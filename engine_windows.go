//go:build windows
// +build windows

package junction

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// openReparsePoint opens a directory handle suitable for reparse point
// control requests. FILE_FLAG_OPEN_REPARSE_POINT makes CreateFile
// operate on the reparse point itself instead of following it, and
// FILE_FLAG_BACKUP_SEMANTICS is what allows opening a directory at
// all. The caller owns the handle.
func openReparsePoint(path string, access uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, errors.Wrapf(err, "converting %s to UTF-16", path)
	}

	h, err := windows.CreateFile(
		p,
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_OPEN_REPARSE_POINT|windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		if err == windows.ERROR_FILE_NOT_FOUND || err == windows.ERROR_PATH_NOT_FOUND {
			return windows.InvalidHandle, notFound(path, err)
		}
		return windows.InvalidHandle, errors.Wrapf(err, "opening %s", path)
	}
	return h, nil
}

// queryReparse reads the raw reparse buffer behind h and decodes it.
// A plain file or directory comes back as ErrNotAJunction.
func queryReparse(h windows.Handle, path string) (*reparseInfo, error) {
	out := make([]byte, maxReparseDataBufferSize)
	var ret uint32
	err := windows.DeviceIoControl(
		h, windows.FSCTL_GET_REPARSE_POINT,
		nil, 0,
		&out[0], uint32(len(out)),
		&ret, nil,
	)
	if err == windows.ERROR_NOT_A_REPARSE_POINT {
		return nil, errors.WithMessage(ErrNotAJunction, path)
	}
	if err != nil {
		return nil, &DriverError{Op: "get reparse point", Path: path, Status: err}
	}
	if ret > uint32(len(out)) {
		ret = uint32(len(out))
	}
	return decodeReparse(out[:ret])
}

func create(path, target string) error {
	targetAbs, err := fullPath(target)
	if err != nil {
		return err
	}
	fi, err := os.Stat(targetAbs)
	if err != nil {
		return notFound(target, err)
	}
	if !fi.IsDir() {
		return errors.Errorf("junction target %s is not a directory", targetAbs)
	}

	substitute, err := ntNormalize(targetAbs)
	if err != nil {
		return err
	}
	// The print name is cosmetic; we always mirror the target's
	// display form rather than supporting a diverging one.
	buf, err := encodeMountPoint(substitute, targetAbs)
	if err != nil {
		return err
	}

	pathAbs, err := fullPath(path)
	if err != nil {
		return err
	}
	if err := prepareLocation(pathAbs); err != nil {
		return err
	}

	h, err := openReparsePoint(pathAbs, windows.GENERIC_READ|windows.GENERIC_WRITE)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	var ret uint32
	err = windows.DeviceIoControl(
		h, windows.FSCTL_SET_REPARSE_POINT,
		&buf[0], uint32(len(buf)),
		nil, 0,
		&ret, nil,
	)
	if err != nil {
		// The (still ordinary) directory stays behind for the
		// caller to retry or clean up; see Create.
		return &DriverError{Op: "set reparse point", Path: pathAbs, Status: err}
	}
	return nil
}

// prepareLocation makes sure pathAbs is an empty directory we may turn
// into a junction, creating it if it doesn't exist yet. Anything else
// in the way is ErrAlreadyExists.
func prepareLocation(pathAbs string) error {
	fi, err := os.Lstat(pathAbs)
	if os.IsNotExist(err) {
		if err := os.Mkdir(pathAbs, 0o755); err != nil {
			return errors.Wrapf(err, "creating junction directory %s", pathAbs)
		}
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "inspecting %s", pathAbs)
	}

	if attrs, ok := fi.Sys().(*syscall.Win32FileAttributeData); ok {
		if attrs.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0 {
			return errors.WithMessagef(ErrAlreadyExists, "%s is already a reparse point", pathAbs)
		}
	}
	if !fi.IsDir() {
		return errors.WithMessagef(ErrAlreadyExists, "%s is a file", pathAbs)
	}
	entries, err := os.ReadDir(pathAbs)
	if err != nil {
		return errors.Wrapf(err, "listing %s", pathAbs)
	}
	if len(entries) > 0 {
		return errors.WithMessagef(ErrAlreadyExists, "%s is not an empty directory", pathAbs)
	}
	return nil
}

func getTarget(path string) (string, error) {
	pathAbs, err := fullPath(path)
	if err != nil {
		return "", err
	}

	// Read access only: querying must never be able to modify the
	// junction by accident.
	h, err := openReparsePoint(pathAbs, windows.GENERIC_READ)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	info, err := queryReparse(h, pathAbs)
	if err != nil {
		return "", err
	}
	if info.Tag != TagMountPoint {
		return "", errors.WithMessagef(ErrNotAJunction, "%s carries foreign reparse tag %#08x", pathAbs, info.Tag)
	}
	return ntStrip(info.SubstituteName), nil
}

func remove(path string) error {
	pathAbs, err := fullPath(path)
	if err != nil {
		return err
	}

	h, err := openReparsePoint(pathAbs, windows.GENERIC_READ|windows.GENERIC_WRITE)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	// Deleting must not silently succeed on something that isn't a
	// junction, so look before leaping.
	info, err := queryReparse(h, pathAbs)
	if err != nil {
		return err
	}
	if info.Tag != TagMountPoint {
		return errors.WithMessagef(ErrNotAJunction, "%s carries foreign reparse tag %#08x", pathAbs, info.Tag)
	}

	buf := encodeRemoval(TagMountPoint)
	var ret uint32
	err = windows.DeviceIoControl(
		h, windows.FSCTL_DELETE_REPARSE_POINT,
		&buf[0], uint32(len(buf)),
		nil, 0,
		&ret, nil,
	)
	if err != nil {
		return &DriverError{Op: "delete reparse point", Path: pathAbs, Status: err}
	}
	return nil
}

func isJunction(path string) (bool, error) {
	_, err := getTarget(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotAJunction):
		return false, nil
	default:
		return false, err
	}
}
