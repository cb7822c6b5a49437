package tar

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrExtract covers corrupt archives and entries that would land outside
// the destination directory.
var ErrExtract = errors.New("extract failed")

// Untar unpacks a gzip-compressed tarball into dst. Every entry must live
// under prefix (the registry packs crates as "{name}-{version}/..."); the
// prefix is stripped from the written paths. An entry outside the prefix is
// rejected before anything is written, so a hostile archive cannot escape
// dst.
func Untar(src io.Reader, dst, prefix string) error {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtract, err)
	}
	tr := tar.NewReader(zr)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break // End of archive
		}
		if err != nil {
			return fmt.Errorf("%w: reading entry: %v", ErrExtract, err)
		}

		rel, err := stripPrefix(header.Name, prefix)
		if err != nil {
			return err
		}
		if rel == "" {
			// The prefix directory itself.
			continue
		}

		target, err := sanitizeArchivePath(dst, rel)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.ModePerm); err != nil {
				return fmt.Errorf("%w: %v", ErrExtract, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
				return fmt.Errorf("%w: %v", ErrExtract, err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrExtract, err)
			}
			// copy in chunks for security reasons
			// G110: Potential DoS vulnerability via decompression bomb
			for {
				if _, err := io.CopyN(f, tr, 1024); err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					f.Close()
					return fmt.Errorf("%w: writing %s: %v", ErrExtract, target, err)
				}
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("%w: closing %s: %v", ErrExtract, target, err)
			}
		}
	}
	return nil
}

// stripPrefix returns the entry path relative to prefix, rejecting entries
// that do not sit under it. Registry tarballs always carry the prefix, so a
// stray path means a malformed or malicious archive.
func stripPrefix(name, prefix string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if clean == prefix {
		return "", nil
	}
	if !strings.HasPrefix(clean, prefix+"/") {
		return "", fmt.Errorf("%w: entry %q is outside expected prefix %q", ErrExtract, name, prefix)
	}
	return strings.TrimPrefix(clean, prefix+"/"), nil
}

// From https://github.com/securego/gosec/issues/324
func sanitizeArchivePath(d, t string) (string, error) {
	v := filepath.Join(d, filepath.FromSlash(t))
	if strings.HasPrefix(v, filepath.Clean(d)+string(os.PathSeparator)) {
		return v, nil
	}
	return "", fmt.Errorf("%w: content filepath is tainted: %s", ErrExtract, t)
}
