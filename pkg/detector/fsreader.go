package detector

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Snapshot is the file listing shared by every checker during one detection.
// It is taken once and never modified afterwards.
type Snapshot struct {
	Root  string
	Files []string

	fsys fs.FS
}

// NewSnapshot lists every regular file below root
func NewSnapshot(root string) (*Snapshot, error) {
	return newSnapshot(root, os.DirFS(root))
}

func newSnapshot(root string, fsys fs.FS) (*Snapshot, error) {
	s := &Snapshot{Root: root, fsys: fsys}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			s.Files = append(s.Files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Listing joins the snapshot into one newline separated blob
func (s *Snapshot) Listing() string {
	return strings.Join(s.Files, "\n")
}

// Path resolves rel against the snapshot root on the host filesystem
func (s *Snapshot) Path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// Has reports whether rel exists and is not a directory. Absence is not an error.
func (s *Snapshot) Has(rel string) (bool, error) {
	fi, err := fs.Stat(s.fsys, rel)
	if err != nil {
		if isAbsent(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

// ReadPrefix returns at most n leading bytes of rel
func (s *Snapshot) ReadPrefix(rel string, n int64) ([]byte, error) {
	f, err := s.fsys.Open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, n))
}

// ReadDir lists the entries of a directory inside the snapshot root
func (s *Snapshot) ReadDir(rel string) ([]fs.DirEntry, error) {
	return fs.ReadDir(s.fsys, rel)
}

// ContainsExt checks if the snapshot holds a file with the given extension, ignoring case
func (s *Snapshot) ContainsExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range s.Files {
		if strings.HasSuffix(strings.ToLower(f), ext) {
			return true
		}
	}
	return false
}

// isAbsent treats a missing path, or a path running through a regular file, as absence
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
