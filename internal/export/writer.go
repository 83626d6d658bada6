// Writes converted pages and attribute views to the output workspace.

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/siyuan-tools/notion2siyuan/internal/av"
)

// Writer persists conversion output: one Markdown file per page, one JSON
// document per attribute view, and attachment files under assets/.
type Writer struct {
	OutputDir string

	mu    sync.Mutex
	names map[string]bool
}

// NewWriter creates a writer for the given output directory.
func NewWriter(outputDir string) *Writer {
	return &Writer{
		OutputDir: outputDir,
		names:     make(map[string]bool),
	}
}

// EnsureWorkspace creates the output directory layout.
func (w *Writer) EnsureWorkspace() error {
	for _, dir := range []string{
		w.OutputDir,
		filepath.Join(w.OutputDir, "assets"),
		filepath.Join(w.OutputDir, "storage", "av"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// WriteDocument writes a page's Markdown with YAML front matter. Pages with
// colliding titles get the block ID appended to the filename.
func (w *Writer) WriteDocument(blockID, title string, attrs map[string]string, content string) error {
	front := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		front[k] = v
	}
	front["title"] = title

	fm, err := yaml.Marshal(front)
	if err != nil {
		return fmt.Errorf("failed to marshal front matter: %w", err)
	}
	md := fmt.Sprintf("---\n%s---\n\n%s", fm, content)

	name := unsafeFileChars.ReplaceAllString(title, "-")
	if name == "" {
		name = blockID
	}
	w.mu.Lock()
	if w.names[name] {
		name = name + "-" + blockID
	}
	w.names[name] = true
	w.mu.Unlock()

	path := filepath.Join(w.OutputDir, name+".md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteAttributeView persists one attribute view as storage/av/<id>.json.
func (w *Writer) WriteAttributeView(v *av.AttributeView) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attribute view: %w", err)
	}
	path := filepath.Join(w.OutputDir, "storage", "av", v.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write attribute view: %w", err)
	}
	return nil
}

// WriteAsset copies an attachment into the workspace under its Markdown
// path ("assets/<name>").
func (w *Writer) WriteAsset(mdPath string, r io.Reader) error {
	path := filepath.Join(w.OutputDir, filepath.FromSlash(mdPath))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close asset: %w", err)
	}
	return nil
}
