// Package junction creates, inspects and removes NTFS junction points
// from user-mode code.
//
// Junctions (mount point reparse points) transparently redirect
// directory access to another absolute location on a local volume.
// They predate real symbolic links, don't require special privileges
// to create, and are still the most compatible way to graft one
// directory tree onto another on Windows.
//
// The package talks to the filesystem driver directly through the
// set/get/delete reparse point device-control requests; it holds no
// state of its own. Every operation opens a single directory handle
// for its duration and releases it before returning.
package junction

// Create turns path into a junction pointing at target.
//
// target must be an existing directory; it may be relative, in which
// case it is resolved against the working directory first. If path
// does not exist it is created; if it exists it must be an empty
// ordinary directory, anything else fails with ErrAlreadyExists
// (including a junction already in place, even one with the same
// target).
//
// If attaching the reparse point fails, the directory at path is left
// in place, empty and ordinary, for the caller to retry or remove. No
// rollback is attempted.
func Create(path, target string) error {
	return create(path, target)
}

// GetTarget returns the target a junction redirects to, as a plain
// absolute path. It fails with ErrNotAJunction if path exists but is
// not a junction (including other kinds of reparse points), and with
// ErrNotFound if it doesn't exist.
func GetTarget(path string) (string, error) {
	return getTarget(path)
}

// Delete detaches the reparse point from path, leaving behind the
// plain empty directory. Removing that directory is the caller's
// business. Deleting something that is not currently a junction fails
// with ErrNotAJunction rather than silently succeeding.
func Delete(path string) error {
	return remove(path)
}

// IsJunction reports whether path is a junction. A path that exists
// but isn't one reports false; a path that cannot be resolved at all
// is an error, not false.
func IsJunction(path string) (bool, error) {
	return isJunction(path)
}
