// Tests for anchor classification and rewriting.

package convert

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseBody(t *testing.T, body string) (*goquery.Document, *goquery.Selection) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div class=\"body\">" + body + "</div>"))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc, doc.Find("div.body")
}

func TestDecodeHref(t *testing.T) {
	tests := []struct {
		in, base, want string
	}{
		{"My%20Page%20abcdef.html", "", "My Page abcdef.html"},
		{"My%20Page%20abcdef.html", "Export", "Export/My Page abcdef.html"},
		{"Page%20dir/pic.png", "Export", "Export/Page dir/pic.png"},
		{"../assets/pic.png", "Export", "assets/pic.png"},
		{"../../deep/file.pdf", "", "deep/file.pdf"},
		{"./local.html", "", "local.html"},
		{"plain.html", "", "plain.html"},
		{"https://example.com/x", "Export", "https://example.com/x"},
	}
	for _, tt := range tests {
		if got := decodeHref(tt.in, tt.base); got != tt.want {
			t.Errorf("decodeHref(%q, %q): expected %q, got %q", tt.in, tt.base, tt.want, got)
		}
	}
}

func TestStripPageID(t *testing.T) {
	got := stripPageID("My Page 0123456789abcdef0123456789abcdef.html")
	if got != "My Page" {
		t.Errorf("expected %q, got %q", "My Page", got)
	}
	if got := stripPageID("No ID Here.html"); got != "No ID Here" {
		t.Errorf("expected %q, got %q", "No ID Here", got)
	}
}

func TestResolveLinks(t *testing.T) {
	const pageID = "0123456789abcdef0123456789abcdef"

	t.Run("RelationResolved", func(t *testing.T) {
		ctx := NewContext(Options{})
		ctx.AddPage(pageID, &FileInfo{BlockID: "20230101120000-abc1234", Title: "Target"})

		_, body := parseBody(t, `<p><a href="Target%20`+pageID+`.html">Target</a></p>`)
		resolveLinks(body, "", ctx)

		text := body.Text()
		if !strings.Contains(text, "((20230101120000-abc1234 'Target'))") {
			t.Errorf("expected block ref, got %q", text)
		}
	})

	t.Run("RelationDegraded", func(t *testing.T) {
		ctx := NewContext(Options{})
		_, body := parseBody(t, `<p><a href="Lost%20Page%20`+pageID+`.html">Lost</a></p>`)
		resolveLinks(body, "", ctx)

		if text := body.Text(); !strings.Contains(text, "[[Lost Page]]") {
			t.Errorf("expected name reference, got %q", text)
		}
		if ctx.Warnings() != 1 {
			t.Errorf("expected 1 warning, got %d", ctx.Warnings())
		}
	})

	t.Run("AttachmentRewritten", func(t *testing.T) {
		ctx := NewContext(Options{})
		ctx.AddAttachment("Files/report.pdf", &AttachmentInfo{
			Path:   "Files/report.pdf",
			Name:   "report.pdf",
			MdPath: "assets/report.pdf",
		})
		_, body := parseBody(t, `<p><a href="Files/report.pdf">original</a></p>`)
		resolveLinks(body, "", ctx)

		a := body.Find("a")
		if href := a.AttrOr("href", ""); href != "assets/report.pdf" {
			t.Errorf("expected rewritten href, got %q", href)
		}
		if a.Text() != "report.pdf" {
			t.Errorf("expected attachment name as text, got %q", a.Text())
		}
	})

	t.Run("ImageBecomesImg", func(t *testing.T) {
		ctx := NewContext(Options{})
		ctx.AddAttachment("Files/pic.png", &AttachmentInfo{
			Path:   "Files/pic.png",
			Name:   "pic.png",
			MdPath: "assets/pic.png",
		})
		_, body := parseBody(t, `<p><a href="Files/pic.png">pic</a></p>`)
		resolveLinks(body, "", ctx)

		img := body.Find("img")
		if img.Length() != 1 {
			t.Fatalf("expected 1 img element, got %d", img.Length())
		}
		if src := img.AttrOr("src", ""); src != "assets/pic.png" {
			t.Errorf("expected img src %q, got %q", "assets/pic.png", src)
		}
	})

	t.Run("ImgSrcRewritten", func(t *testing.T) {
		ctx := NewContext(Options{})
		ctx.AddAttachment("Export/Page dir/photo.jpg", &AttachmentInfo{
			Path:   "Export/Page dir/photo.jpg",
			Name:   "photo.jpg",
			MdPath: "assets/photo.jpg",
		})
		_, body := parseBody(t, `<figure class="image"><img src="Page%20dir/photo.jpg"/></figure>`)
		resolveLinks(body, "Export", ctx)

		img := body.Find("img")
		if src := img.AttrOr("src", ""); src != "assets/photo.jpg" {
			t.Errorf("expected rewritten src, got %q", src)
		}
		if alt := img.AttrOr("alt", ""); alt != "photo.jpg" {
			t.Errorf("expected alt from name, got %q", alt)
		}
	})

	t.Run("ExternalUntouched", func(t *testing.T) {
		ctx := NewContext(Options{})
		_, body := parseBody(t, `<p><a href="https://example.com">site</a></p>`)
		resolveLinks(body, "", ctx)

		if href := body.Find("a").AttrOr("href", ""); href != "https://example.com" {
			t.Errorf("external href changed: %q", href)
		}
		if ctx.Warnings() != 0 {
			t.Errorf("expected no warnings, got %d", ctx.Warnings())
		}
	})

	t.Run("MissingAttachmentWarns", func(t *testing.T) {
		ctx := NewContext(Options{})
		_, body := parseBody(t, `<p><a href="Files/gone.pdf">gone</a></p>`)
		resolveLinks(body, "", ctx)

		if href := body.Find("a").AttrOr("href", ""); href != "Files/gone.pdf" {
			t.Errorf("missing attachment href changed: %q", href)
		}
		if ctx.Warnings() != 1 {
			t.Errorf("expected 1 warning, got %d", ctx.Warnings())
		}
	})
}

func TestFlattenAnchors(t *testing.T) {
	_, body := parseBody(t, `<td><a href="https://example.com">Example</a></td>`)
	flattenAnchors(body)
	if body.Find("a").Length() != 0 {
		t.Fatal("expected anchors removed")
	}
	if text := strings.TrimSpace(body.Text()); text != "https://example.com" {
		t.Errorf("expected href as text, got %q", text)
	}
}
