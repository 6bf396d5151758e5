package uploader

import (
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

// FromPaths collects files from disk. Directories are walked recursively,
// in lexical order, skipping hidden entries. Files are opened lazily when
// the batch is sent.
func FromPaths(paths []string) ([]backend.File, error) {
	var files []backend.File
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, diskFile(root, info.Size()))
			continue
		}

		var found []backend.File
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			found = append(found, diskFile(path, fi.Size()))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func diskFile(path string, size int64) backend.File {
	return backend.File{
		Name: filepath.Base(path),
		Size: size,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FromMultipart wraps uploaded form files.
func FromMultipart(headers []*multipart.FileHeader) []backend.File {
	files := make([]backend.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, backend.File{
			Name: filepath.Base(fh.Filename),
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}
