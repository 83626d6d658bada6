// Tests for the output workspace writer.

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siyuan-tools/notion2siyuan/internal/av"
)

func TestWriter(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out)
	if err := w.EnsureWorkspace(); err != nil {
		t.Fatalf("EnsureWorkspace failed: %v", err)
	}

	t.Run("WriteDocument", func(t *testing.T) {
		attrs := map[string]string{"tags": "go"}
		if err := w.WriteDocument("20230101120000-doc0001", "My Page", attrs, "body text\n"); err != nil {
			t.Fatalf("WriteDocument failed: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(out, "My Page.md"))
		if err != nil {
			t.Fatalf("document not written: %v", err)
		}
		content := string(data)
		if !strings.HasPrefix(content, "---\n") {
			t.Errorf("missing front matter: %q", content)
		}
		if !strings.Contains(content, "tags: go") || !strings.Contains(content, "title: My Page") {
			t.Errorf("front matter incomplete: %q", content)
		}
		if !strings.HasSuffix(content, "body text\n") {
			t.Errorf("body missing: %q", content)
		}
	})

	t.Run("CollidingTitles", func(t *testing.T) {
		if err := w.WriteDocument("20230101120001-doc0002", "My Page", nil, "second\n"); err != nil {
			t.Fatalf("WriteDocument failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "My Page-20230101120001-doc0002.md")); err != nil {
			t.Errorf("colliding document not disambiguated: %v", err)
		}
	})

	t.Run("UnsafeTitle", func(t *testing.T) {
		if err := w.WriteDocument("20230101120002-doc0003", `a/b:c?`, nil, "x\n"); err != nil {
			t.Fatalf("WriteDocument failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "a-b-c-.md")); err != nil {
			t.Errorf("unsafe title not sanitized: %v", err)
		}
	})

	t.Run("WriteAttributeView", func(t *testing.T) {
		v := &av.AttributeView{ID: "20230101120000-avavava", Name: "Tasks"}
		if err := w.WriteAttributeView(v); err != nil {
			t.Fatalf("WriteAttributeView failed: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(out, "storage", "av", v.ID+".json"))
		if err != nil {
			t.Fatalf("attribute view not written: %v", err)
		}
		if !strings.Contains(string(data), `"Tasks"`) {
			t.Errorf("unexpected json: %s", data)
		}
	})

	t.Run("WriteAsset", func(t *testing.T) {
		if err := w.WriteAsset("assets/pic.png", strings.NewReader("png bytes")); err != nil {
			t.Fatalf("WriteAsset failed: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(out, "assets", "pic.png"))
		if err != nil {
			t.Fatalf("asset not written: %v", err)
		}
		if string(data) != "png bytes" {
			t.Errorf("asset content: %q", data)
		}
	})
}
