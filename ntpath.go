package junction

import (
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// Substitute names live in the NT object namespace, not the Win32 one.
// The \??\ prefix is what tells the filesystem driver to take the rest
// of the path verbatim, without re-applying Win32 path rules.
const (
	ntPrefix    = `\??\`
	ntUNCPrefix = ntPrefix + `UNC\`
)

// ntNormalize converts an absolute Win32 path to the NT-namespace form
// stored in a mount point's substitute name. The input must already be
// absolute (drive-rooted like C:\x, or UNC like \\server\share\x);
// resolving relative paths against the working directory happens
// before this, in the platform layer. Trailing separators are dropped
// except at a drive root, and any leftover . or .. segment is refused
// rather than resolved.
func ntNormalize(path string) (string, error) {
	if path == "" {
		return "", errors.New("cannot normalize an empty path")
	}

	p := strings.ReplaceAll(path, "/", `\`)

	// Accept the Win32 verbatim forms too, they carry the same
	// meaning we're about to express.
	if strings.HasPrefix(p, `\\?\UNC\`) {
		p = `\\` + p[len(`\\?\UNC\`):]
	} else if strings.HasPrefix(p, `\\?\`) {
		p = p[len(`\\?\`):]
	}

	var root, rest string
	switch {
	case hasDriveRoot(p):
		root, rest = p[:3], p[3:]
	case strings.HasPrefix(p, `\\`):
		root, rest = `\\`, p[2:]
	default:
		return "", errors.Errorf("not an absolute path: %s", path)
	}

	segments := strings.Split(rest, `\`)
	kept := segments[:0]
	for i, seg := range segments {
		switch seg {
		case "":
			// A trailing separator is tolerated, doubled
			// separators are not.
			if i != len(segments)-1 {
				return "", errors.Errorf("empty path segment in %s", path)
			}
		case ".", "..":
			return "", errors.Errorf("relative segment %q in %s", seg, path)
		default:
			kept = append(kept, seg)
		}
	}

	var nt string
	if root == `\\` {
		if len(kept) < 2 {
			return "", errors.Errorf("UNC path %s names no share", path)
		}
		nt = ntUNCPrefix + strings.Join(kept, `\`)
	} else {
		nt = ntPrefix + root[:2]
		if len(kept) > 0 {
			nt += `\` + strings.Join(kept, `\`)
		} else {
			nt += `\` // volume root, keep the separator
		}
	}

	if len(utf16.Encode([]rune(nt)))*2 > 0xffff {
		return "", errors.WithMessage(ErrPathTooLong, path)
	}
	return nt, nil
}

// ntStrip is the inverse of ntNormalize: it turns a substitute name
// back into a displayable Win32 path. Unrecognized prefixes are left
// alone.
func ntStrip(s string) string {
	if strings.HasPrefix(s, ntUNCPrefix) {
		return `\\` + s[len(ntUNCPrefix):]
	}
	if strings.HasPrefix(s, ntPrefix) {
		return s[len(ntPrefix):]
	}
	return s
}

func hasDriveRoot(p string) bool {
	if len(p) < 3 || p[1] != ':' || p[2] != '\\' {
		return false
	}
	c := p[0]
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}
