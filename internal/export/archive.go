// Reads Notion export archives: ZIP files or unpacked directories.

package export

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one file inside an export.
type Entry struct {
	// Path is the normalized (slash-separated) path inside the export.
	Path string
	Size int64
}

// Archive provides uniform access to an export's files regardless of
// whether it is a ZIP file or an unpacked directory.
type Archive interface {
	// Entries lists every file in the export, sorted by path.
	Entries() []Entry
	// ReadFile returns the contents of one entry.
	ReadFile(path string) ([]byte, error)
	// Open streams one entry.
	Open(path string) (io.ReadCloser, error)
	Close() error
}

// Open opens path as a ZIP export or a directory export.
func Open(path string) (Archive, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	if fi.IsDir() {
		return openDir(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return openZip(path)
	}
	return nil, fmt.Errorf("unsupported export %q: expected a .zip file or a directory", path)
}

type zipArchive struct {
	rc      *zip.ReadCloser
	entries []Entry
	files   map[string]*zip.File
}

func openZip(path string) (*zipArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip export: %w", err)
	}
	a := &zipArchive{rc: rc, files: make(map[string]*zip.File)}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.ToSlash(f.Name)
		a.files[name] = f
		a.entries = append(a.entries, Entry{Path: name, Size: int64(f.UncompressedSize64)})
	}
	sort.Slice(a.entries, func(i, j int) bool { return a.entries[i].Path < a.entries[j].Path })
	return a, nil
}

func (a *zipArchive) Entries() []Entry {
	return a.entries
}

func (a *zipArchive) Open(path string) (io.ReadCloser, error) {
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("no such entry %q", path)
	}
	return f.Open()
}

func (a *zipArchive) ReadFile(path string) ([]byte, error) {
	r, err := a.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func (a *zipArchive) Close() error {
	return a.rc.Close()
}

type dirArchive struct {
	root    string
	entries []Entry
}

func openDir(root string) (*dirArchive, error) {
	a := &dirArchive{root: root}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		a.entries = append(a.entries, Entry{Path: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk export directory: %w", err)
	}
	sort.Slice(a.entries, func(i, j int) bool { return a.entries[i].Path < a.entries[j].Path })
	return a, nil
}

func (a *dirArchive) Entries() []Entry {
	return a.entries
}

func (a *dirArchive) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(a.root, filepath.FromSlash(path)))
}

func (a *dirArchive) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(a.root, filepath.FromSlash(path)))
}

func (a *dirArchive) Close() error {
	return nil
}
