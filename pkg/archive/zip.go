package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Zip is the in-process archive backend
type Zip struct{}

// NewZip creates the native zip backend
func NewZip() *Zip {
	return &Zip{}
}

// ListEntries reads the central directory of archivePath; members are never inflated
func (z *Zip) ListEntries(ctx context.Context, archivePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return strings.Join(names, "\n"), nil
}

// Pack writes srcDir into destArchive, skipping PackExclusions. Symlinks are
// stored as links rather than followed.
func (z *Zip) Pack(ctx context.Context, srcDir, destArchive string) (err error) {
	out, err := os.Create(destArchive)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", cerr)
		}
		if err != nil {
			os.Remove(destArchive)
		}
	}()

	absDest, err := filepath.Abs(destArchive)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %w", err)
	}

	w := zip.NewWriter(out)

	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if abs == absDest {
			return nil
		}

		if Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = rel

		switch {
		case d.IsDir():
			header.Name += "/"
			_, err = w.CreateHeader(header)
			return err
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			fw, err := w.CreateHeader(header)
			if err != nil {
				return err
			}
			_, err = io.WriteString(fw, target)
			return err
		case !info.Mode().IsRegular():
			return nil
		}

		header.Method = zip.Deflate
		fw, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyFile(fw, p)
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to pack %s: %w", srcDir, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Unpack extracts archivePath into destDir. Entries that would land outside
// destDir are rejected, including writes routed through symlinks the archive
// created earlier.
func (z *Zip) Unpack(ctx context.Context, archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	abs, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("failed to resolve destination: %w", err)
	}

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		if mode&os.ModeSymlink != 0 {
			if err := extractSymlink(f, root, target); err != nil {
				return err
			}
			continue
		}

		if _, err := resolveInside(root, target); err != nil {
			return fmt.Errorf("archive entry %s: %w", f.Name, err)
		}
		if mode.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}
	return nil
}

var errEscape = errors.New("path escapes destination")

func within(root, p string) bool {
	return p == root || strings.HasPrefix(p, root+string(os.PathSeparator))
}

func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, target) {
		return "", fmt.Errorf("archive entry %s: %w", name, errEscape)
	}
	return target, nil
}

// resolveInside follows symlinks along the longest existing prefix of p and
// fails unless the real location is still under root. Missing trailing
// components are plain names and are appended as they are.
func resolveInside(root, p string) (string, error) {
	existing := p
	var rest []string
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	base, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(append([]string{base}, rest...)...)
	if !within(root, resolved) {
		return "", errEscape
	}
	return resolved, nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func extractSymlink(f *zip.File, root, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	link, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	dest := string(link)
	if filepath.IsAbs(dest) {
		return fmt.Errorf("archive symlink %s: %w", f.Name, errEscape)
	}

	// the link is judged from where its parent really is, not where the entry name says
	parent, err := resolveInside(root, filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("archive symlink %s: %w", f.Name, err)
	}
	if _, err := resolveInside(root, filepath.Join(parent, filepath.FromSlash(dest))); err != nil {
		return fmt.Errorf("archive symlink %s: %w", f.Name, err)
	}

	if err := os.MkdirAll(parent, 0755); err != nil {
		return err
	}
	return os.Symlink(dest, filepath.Join(parent, filepath.Base(target)))
}

func copyFile(w io.Writer, p string) error {
	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.Copy(w, in)
	return err
}
