// Orchestrates the conversion of one exported page.

package convert

import (
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/siyuan-tools/notion2siyuan/internal/av"
)

// MarkdownInfo is the terminal artifact of one page conversion.
type MarkdownInfo struct {
	// Content is the page rendered as SiYuan-flavored Markdown.
	Content string
	// Attrs are the page properties as front-matter attributes.
	Attrs map[string]string
	// AttributeViews are the databases reconstructed from the page.
	AttributeViews []*av.AttributeView
}

// ErrNoPageBody means the export HTML carries no page body. The page cannot
// be converted at all.
var ErrNoPageBody = errors.New("page body not found")

// Converter converts exported Notion pages against a shared batch context.
type Converter struct {
	ctx *Context
}

// NewConverter creates a converter bound to the batch's resolver context.
func NewConverter(ctx *Context) *Converter {
	return &Converter{ctx: ctx}
}

// Context returns the batch resolver context.
func (c *Converter) Context() *Context {
	return c.ctx
}

// Convert runs the full conversion sequence for one page's HTML. base is the
// page's directory inside the export; relative hrefs resolve against it.
// Database extraction runs before link resolution so anchors inside tables
// are still intact; repair passes run after both; text fixups and
// placeholder expansion run after Markdown rendering.
func (c *Converter) Convert(pageHTML, title, base string) (*MarkdownInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	body := doc.Find("div.page-body").First()
	if body.Length() == 0 {
		return nil, ErrNoPageBody
	}
	description := strings.TrimSpace(doc.Find("p.page-description").First().Text())

	cleanInvalidMarkup(doc)
	wrapHeadings(body)

	avs := extractDatabases(body, title, base, c.ctx)
	resolveLinks(body, base, c.ctx)

	attrs := make(map[string]string)
	if props := doc.Find("table.properties").First(); props.Length() > 0 {
		resolveLinks(props, base, c.ctx)
		flattenAnchors(props)
		if attrs, err = convertProperties(props); err != nil {
			return nil, err
		}
	}

	repairDOM(body)
	lowercaseCodeLang(body)

	rendered, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}
	rendered = splitInlineBreaks(rendered)

	content, err := htmltomarkdown.ConvertString(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	content = normalizeLineBreaks(content, c.ctx.Options.SingleLineBreaks)
	content = escapeHashtags(content)
	content = fixEscapes(content)
	if description != "" {
		content = description + "\n\n" + content
	}
	content = expandPlaceholders(content, avs)

	return &MarkdownInfo{Content: content, Attrs: attrs, AttributeViews: avs}, nil
}
