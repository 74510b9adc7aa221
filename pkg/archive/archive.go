// Package archive packs application directories into zip archives, unpacks them,
// and lists archive members without extracting them.
//
// Two backends exist: a native one built on klauspost/compress/zip, and one that
// shells out to the zip/unzip binaries for hosts that prefer the system tools.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Backend names accepted by Open
const (
	BackendNative  = "native"
	BackendCommand = "command"
)

// PackExclusions are the globs never written into a packed archive
var PackExclusions = []string{".", "..", "*~", "#*#", "*.log", ".git/*"}

// Lister lists the member names of an archive, one per line
type Lister interface {
	ListEntries(ctx context.Context, archivePath string) (string, error)
}

// Service is the full archive collaborator used by packaging and detection
type Service interface {
	Lister
	Pack(ctx context.Context, srcDir, destArchive string) error
	Unpack(ctx context.Context, archivePath, destDir string) error
}

// Open returns the backend registered under name
func Open(name string, timeout time.Duration) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendNative:
		return NewZip(), nil
	case BackendCommand:
		return NewCommand(timeout), nil
	default:
		return nil, fmt.Errorf("unknown archive backend: %s", name)
	}
}

// Excluded reports whether rel (slash separated, relative to the packed root)
// matches one of the pack exclusion globs. Globs are tried against the full
// path and the base name, and a trailing "/*" covers the whole subtree.
func Excluded(rel string) bool {
	rel = strings.TrimPrefix(rel, "./")
	base := path.Base(strings.TrimSuffix(rel, "/"))

	for _, pattern := range PackExclusions {
		if matchGlob(pattern, rel) || matchGlob(pattern, base) {
			return true
		}
		if strings.HasSuffix(pattern, "/*") {
			if matchGlob(pattern+"*", rel) || matchGlob(pattern, rel+"/") {
				return true
			}
		}
	}
	return false
}

func matchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
