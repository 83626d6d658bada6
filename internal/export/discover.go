// Discovery pass: classifies export entries and seeds the resolver context.

package export

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"regexp"
	"strings"

	"github.com/siyuan-tools/notion2siyuan/internal/convert"
)

// pageFileRe matches exported page filenames: "Title <32-hex-id>.html".
var pageFileRe = regexp.MustCompile(`^(.*?)\s*([0-9a-fA-F]{32})\.html$`)

// PageEntry is one convertible page found in the export.
type PageEntry struct {
	// Path is the entry path inside the export.
	Path string
	// NotionID is the page's export ID, lowercased. Empty when the filename
	// carries none; such pages convert but cannot be relation targets.
	NotionID string
	// Title is the page title parsed from the filename.
	Title string
	// BlockID is the SiYuan document ID, minted by the importer's pre-pass.
	BlockID string
}

// Discover walks the archive once, classifying every entry as a page or an
// attachment, and populates the resolver context before any page converts.
func Discover(a Archive, opts convert.Options) (*convert.Context, []PageEntry) {
	ctx := convert.NewContext(opts)
	var pages []PageEntry
	used := make(map[string]bool)

	for _, e := range a.Entries() {
		base := path.Base(e.Path)
		if m := pageFileRe.FindStringSubmatch(base); m != nil {
			title := strings.TrimSpace(m[1])
			if title == "" {
				title = "Untitled"
			}
			id := strings.ToLower(m[2])
			pages = append(pages, PageEntry{Path: e.Path, NotionID: id, Title: title})
			ctx.AddPage(id, &convert.FileInfo{Title: title})
			continue
		}
		if strings.EqualFold(path.Ext(base), ".html") {
			pages = append(pages, PageEntry{Path: e.Path, Title: strings.TrimSuffix(base, path.Ext(base))})
			continue
		}
		name := sanitizeAssetName(base)
		if used[name] {
			// Same filename from another directory: disambiguate with a
			// short hash of the export path.
			sum := sha256.Sum256([]byte(e.Path))
			name = hex.EncodeToString(sum[:4]) + "-" + name
		}
		used[name] = true
		ctx.AddAttachment(e.Path, &convert.AttachmentInfo{
			Path:   e.Path,
			Name:   base,
			MdPath: "assets/" + name,
		})
	}
	return ctx, pages
}

var unsafeAssetChars = regexp.MustCompile(`[\s()\[\]#%]+`)

// sanitizeAssetName makes a filename safe to appear verbatim inside a
// Markdown link destination.
func sanitizeAssetName(name string) string {
	return unsafeAssetChars.ReplaceAllString(name, "-")
}
