package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"tsa/internal/domain"
)

// ErrMaterialize is returned when a discovered file cannot be copied into the staging tree
var ErrMaterialize = errors.New("failed to materialize file")

// PathRelationError is returned when a file is not located under the root it is made relative to
type PathRelationError struct {
	Path string
	Root string
}

func (e *PathRelationError) Error() string {
	return fmt.Sprintf("path %s is not under %s", e.Path, e.Root)
}

// Collector discovers source files and copies them into a staging tree
type Collector struct {
	extension string
}

// NewCollector creates a new Collector for files with the given extension
func NewCollector(extension string) *Collector {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Collector{extension: extension}
}

// Find returns every regular file, or symlink to one, below root with the collector's extension.
// Discovery is best-effort: entries that cannot be read are skipped.
func (c *Collector) Find(root string) []string {
	var files []string

	_ = filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry, drop it and keep walking
			return nil
		}

		if filepath.Ext(path) == c.extension && isRegular(path, d) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)
	return files
}

// isRegular reports whether d is a regular file or a symlink resolving to one
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Relative returns path relative to root, or a PathRelationError if it is not under root
func Relative(path, root string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", &PathRelationError{Path: path, Root: root}
	}
	return rel, nil
}

// Plan finds files below from and computes where each one is staged:
// to/<path relative to stripPrefix>. Nothing is copied.
func (c *Collector) Plan(from, to, stripPrefix string) ([]domain.TestFile, error) {
	var planned []domain.TestFile
	for _, file := range c.Find(from) {
		rel, err := Relative(file, stripPrefix)
		if err != nil {
			return nil, err
		}
		planned = append(planned, domain.NewTestFile(filepath.Join(to, rel), rel))
	}
	return planned, nil
}

// Materialize copies every planned file from stripPrefix/<identity> to its staged path.
// Copies run on up to parallelism goroutines; the first failure aborts the batch.
func (c *Collector) Materialize(ctx context.Context, files []domain.TestFile, stripPrefix string, parallelism int) error {
	if parallelism <= 0 {
		parallelism = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return CopyFile(filepath.Join(stripPrefix, filepath.FromSlash(file.Identity)), file.Path)
		})
	}

	return g.Wait()
}

// Collect plans and materializes every file below from
func (c *Collector) Collect(ctx context.Context, from, to, stripPrefix string, parallelism int) ([]domain.TestFile, error) {
	files, err := c.Plan(from, to, stripPrefix)
	if err != nil {
		return nil, err
	}
	if err := c.Materialize(ctx, files, stripPrefix, parallelism); err != nil {
		return nil, err
	}
	return files, nil
}

// CopyFile copies src to dest byte for byte, creating dest's parent directories
func CopyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %v", ErrMaterialize, dest, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrMaterialize, src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrMaterialize, dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: copy %s: %v", ErrMaterialize, src, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrMaterialize, dest, err)
	}

	return nil
}
