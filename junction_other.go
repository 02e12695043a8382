//go:build !windows
// +build !windows

package junction

func create(path, target string) error {
	return ErrUnsupported
}

func getTarget(path string) (string, error) {
	return "", ErrUnsupported
}

func remove(path string) error {
	return ErrUnsupported
}

func isJunction(path string) (bool, error) {
	return false, ErrUnsupported
}
