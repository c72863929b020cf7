// Package fs stores extracted pages and their assets on the local file
// system.
package fs

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
)

// PageDir converts a page URL to the relative directory its files are
// written to. URL path segments become directories; the site root is
// "index". A query string adds a "query_<hash>" directory so that pages
// differing only in their query do not overwrite each other.
//
// Example: https://example.com/docs/api/?v=2 → docs/api/query_1a2b3c4d
func PageDir(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "invalid page URL %q", rawURL)
	}

	p := strings.Trim(path.Clean("/"+u.Path), "/")
	if p == "" {
		p = "index"
	}

	if u.RawQuery != "" {
		p += "/query_" + fmt.Sprintf("%016x", xxhash.Sum64String(u.RawQuery))[:8]
	}
	return p, nil
}
