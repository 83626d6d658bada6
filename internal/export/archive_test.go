// Tests for export archive access.

package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeZipFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %q: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
	return path
}

func writeDirFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %q: %v", name, err)
		}
	}
	return root
}

func TestOpen(t *testing.T) {
	files := map[string]string{
		"Export/Page abc.html":  "<html></html>",
		"Export/Files/note.txt": "hello",
	}

	for _, tt := range []struct {
		name string
		path func(t *testing.T) string
	}{
		{"Zip", func(t *testing.T) string { return writeZipFixture(t, files) }},
		{"Dir", func(t *testing.T) string { return writeDirFixture(t, files) }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Open(tt.path(t))
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer func() { _ = a.Close() }()

			entries := a.Entries()
			if len(entries) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(entries))
			}
			// Entries sort by path.
			if entries[0].Path != "Export/Files/note.txt" || entries[1].Path != "Export/Page abc.html" {
				t.Errorf("unexpected entry order: %v", entries)
			}
			if entries[0].Size != int64(len("hello")) {
				t.Errorf("expected size %d, got %d", len("hello"), entries[0].Size)
			}

			data, err := a.ReadFile("Export/Files/note.txt")
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if string(data) != "hello" {
				t.Errorf("expected %q, got %q", "hello", data)
			}

			if _, err := a.ReadFile("Export/nope.txt"); err == nil {
				t.Error("expected error for missing entry")
			}
		})
	}
}

func TestOpenUnsupported(t *testing.T) {
	p := filepath.Join(t.TempDir(), "export.tar")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Open(p); err == nil {
		t.Fatal("expected error for unsupported archive type")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}
}
