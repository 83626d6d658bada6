// Classifies anchors and rewrites them into SiYuan reference syntax.

package convert

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkKind discriminates what an anchor points at.
type linkKind int

const (
	linkRelation linkKind = iota
	linkAttachment
	linkImage
)

// notionLink is a classified anchor pending rewrite. It lives only until the
// anchor is rewritten.
type notionLink struct {
	kind       linkKind
	sel        *goquery.Selection
	pageID     string          // relation target
	attachment *AttachmentInfo // attachment/image target
	path       string          // decoded href
}

// pageFileRe recognizes links to exported pages: the filename ends in the
// 32-hex Notion page ID plus the export's page extension.
var pageFileRe = regexp.MustCompile(`([0-9a-fA-F]{32})\.html$`)

var pageIDSuffixRe = regexp.MustCompile(`\s+[0-9a-fA-F]{32}$`)

// imageExts are the raster types rewritten as inline images.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// decodeHref percent-decodes an href and resolves it against the directory
// of the page that carries it, yielding the normalized path discovery
// recorded for the same file. External targets pass through untouched.
func decodeHref(href, base string) string {
	decoded, err := url.PathUnescape(href)
	if err != nil {
		decoded = href
	}
	if isExternal(decoded) {
		return decoded
	}
	joined := path.Clean(path.Join(base, decoded))
	for strings.HasPrefix(joined, "../") {
		joined = joined[3:]
	}
	return joined
}

// isExternal reports whether a decoded href targets something outside the
// export archive.
func isExternal(decoded string) bool {
	return strings.Contains(decoded, "://") ||
		strings.HasPrefix(decoded, "mailto:") ||
		strings.HasPrefix(decoded, "#")
}

// classifyAnchor decides what an anchor points at. Returns nil for plain
// external links and fragment links, which the generic converter handles.
func classifyAnchor(s *goquery.Selection, base string, ctx *Context) *notionLink {
	href, ok := s.Attr("href")
	if !ok || href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	decoded := decodeHref(href, base)
	if isExternal(decoded) {
		return nil
	}
	if m := pageFileRe.FindStringSubmatch(decoded); m != nil {
		return &notionLink{kind: linkRelation, sel: s, pageID: strings.ToLower(m[1]), path: decoded}
	}
	if info, found := ctx.Attachment(decoded); found {
		kind := linkAttachment
		if imageExts[strings.ToLower(path.Ext(decoded))] {
			kind = linkImage
		}
		return &notionLink{kind: kind, sel: s, attachment: info, path: decoded}
	}
	return nil
}

// resolveLinks classifies and rewrites every anchor under scope.
// Unresolvable targets degrade with a warning; nothing here aborts the page.
func resolveLinks(scope *goquery.Selection, base string, ctx *Context) {
	// Bare images first; anchors wrapping an image are replaced wholesale
	// below and must not be scanned twice.
	scope.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" {
			return
		}
		decoded := decodeHref(src, base)
		if isExternal(decoded) {
			return
		}
		info, ok := ctx.Attachment(decoded)
		if !ok {
			ctx.Warn("image not found in export, leaving link as is", "path", decoded)
			return
		}
		s.SetAttr("src", info.MdPath)
		s.SetAttr("alt", info.Name)
	})
	scope.Find("a").Each(func(_ int, s *goquery.Selection) {
		link := classifyAnchor(s, base, ctx)
		if link == nil {
			if href := s.AttrOr("href", ""); href != "" && !strings.HasPrefix(href, "#") {
				if decoded := decodeHref(href, base); !isExternal(decoded) {
					ctx.Warn("attachment not found in export, leaving link as is", "path", decoded)
				}
			}
			return
		}
		rewriteLink(link, ctx)
	})
}

// rewriteLink replaces an anchor with the target application's syntax.
func rewriteLink(l *notionLink, ctx *Context) {
	switch l.kind {
	case linkRelation:
		if info, ok := ctx.Page(l.pageID); ok && info.BlockID != "" {
			l.sel.ReplaceWithHtml(html.EscapeString(fmt.Sprintf("((%s '%s'))", info.BlockID, info.Title)))
			return
		}
		name := stripPageID(path.Base(l.path))
		ctx.Warn("relation target has no block ID, using name reference", "page", name)
		l.sel.ReplaceWithHtml(html.EscapeString("[[" + name + "]]"))
	case linkAttachment:
		l.sel.SetAttr("href", l.attachment.MdPath)
		l.sel.SetText(l.attachment.Name)
	case linkImage:
		l.sel.ReplaceWithHtml(fmt.Sprintf("<img src=%q alt=%q/>", l.attachment.MdPath, l.attachment.Name))
	}
}

// stripPageID removes the embedded 32-hex export ID from a page filename.
func stripPageID(name string) string {
	name = strings.TrimSuffix(name, ".html")
	name = pageIDSuffixRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// flattenAnchors replaces remaining anchors with plain URL text. Front-matter
// values must be YAML-safe text, not HTML.
func flattenAnchors(scope *goquery.Selection) {
	scope.Find("a").Each(func(_ int, s *goquery.Selection) {
		text := s.AttrOr("href", "")
		if text == "" {
			text = strings.TrimSpace(s.Text())
		}
		s.ReplaceWithHtml(html.EscapeString(text))
	})
}
