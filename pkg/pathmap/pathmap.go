// Package pathmap derives the local filesystem path an asset is stored at
// from its remote URL. The mapping is pure: no filesystem access, and the
// same URL path always yields the same local path.
package pathmap

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Mapper maps remote URLs onto paths under a fixed root directory.
type Mapper struct {
	Root string
}

// New creates a Mapper rooted at the given directory.
func New(root string) *Mapper {
	return &Mapper{Root: root}
}

// Map returns the local path for the given URL. The URL's path component is
// taken as-is from the wire form: anything from the first query delimiter
// onward is dropped, the remainder is percent-decoded, exactly one leading
// slash is stripped, and the result is joined under Root. A URL with an empty
// path maps to Root itself; callers treat writing there as an error.
func (m *Mapper) Map(u *url.URL) string {
	raw := u.EscapedPath()
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[:i]
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		// Undecodable escapes are kept literally, matching a lenient decoder.
		decoded = raw
	}

	decoded = strings.TrimPrefix(decoded, "/")
	if decoded == "" {
		return filepath.Clean(m.Root)
	}
	return filepath.Join(m.Root, filepath.FromSlash(decoded))
}
