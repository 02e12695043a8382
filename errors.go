package junction

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. Callers should match them
// with errors.Is, since most are returned wrapped with extra context.
var (
	// ErrUnsupported is returned by every operation on non-Windows
	// platforms. Junctions only exist on NTFS.
	ErrUnsupported = errors.New("junctions are only supported on Windows")

	// ErrNotFound means a path could not be resolved to any
	// filesystem entry.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotAJunction means the path exists but carries no reparse
	// point, or a reparse point of a foreign (non mount-point) kind.
	ErrNotAJunction = errors.New("not a junction")

	// ErrAlreadyExists means Create found something in the way: an
	// existing junction, a file, or a non-empty directory.
	ErrAlreadyExists = errors.New("junction location already exists")

	// ErrPathTooLong means a path's UTF-16 encoding cannot fit the
	// 16-bit length fields of a reparse buffer.
	ErrPathTooLong = errors.New("path too long for a reparse buffer")

	// ErrBufferOverflow means the encoded reparse buffer would exceed
	// the 16 KiB the filesystem accepts.
	ErrBufferOverflow = errors.New("reparse buffer exceeds maximum size")

	// ErrMalformedBuffer means the filesystem returned a reparse
	// buffer whose declared layout is inconsistent with its size.
	ErrMalformedBuffer = errors.New("malformed reparse buffer")
)

// DriverError carries a status the filesystem driver returned and we
// don't have a better name for. The raw status is preserved for
// diagnostics and can be retrieved with errors.Unwrap.
type DriverError struct {
	// Op names the device-control request that was rejected.
	Op string
	// Path is the junction path the request was issued against.
	Path string
	// Status is the raw error from DeviceIoControl.
	Status error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Status)
}

func (e *DriverError) Unwrap() error {
	return e.Status
}

// notFound tags an underlying lookup failure so callers can match
// ErrNotFound while still seeing the original system error.
func notFound(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrNotFound, path, cause)
}
