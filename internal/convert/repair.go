// Repairs Notion export markup quirks ahead of Markdown rendering.

package convert

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// repairDOM runs the ordered repair passes over the page body. Every pass is
// a no-op when its target pattern is absent, so the sequence is safe on any
// export. Heading wrapping runs earlier, before database extraction.
func repairDOM(body *goquery.Selection) {
	collapseNestedEmphasis(body)
	rewriteBookmarks(body)
	rewriteCallouts(body)
	stripFakeLinks(body)
	stripDateMarkers(body)
	rewriteEquations(body)
	unwrapStructural(body)
	convertSummaries(body)
	mergeAdjacentLists(body)
	replaceCheckboxes(body)
	rewriteTOCLinks(body)
	formatPlainTables(body)
}

// cleanInvalidMarkup drops elements that never carry page content and the
// HTML comments Notion sprinkles through exports.
func cleanInvalidMarkup(doc *goquery.Document) {
	doc.Find("style, script").Remove()
	removeComments(doc.Selection)
}

// removeComments deletes all comment nodes under the selection.
func removeComments(s *goquery.Selection) {
	for _, root := range s.Nodes {
		var walk func(n *xhtml.Node)
		walk = func(n *xhtml.Node) {
			for c := n.FirstChild; c != nil; {
				next := c.NextSibling
				if c.Type == xhtml.CommentNode {
					n.RemoveChild(c)
				} else {
					walk(c)
				}
				c = next
			}
		}
		walk(root)
	}
}

// wrapHeadings isolates each heading in a container so its text run cannot
// concatenate with following content during Markdown rendering.
func wrapHeadings(body *goquery.Selection) {
	body.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		s.WrapHtml("<div></div>")
	})
}

// collapseNestedEmphasis splices same-tag nested emphasis up into its parent
// until no nesting remains. Nested markers render as literal asterisks
// otherwise.
func collapseNestedEmphasis(body *goquery.Selection) {
	for _, tag := range []string{"em", "strong"} {
		for {
			nested := body.Find(tag + " " + tag)
			if nested.Length() == 0 {
				break
			}
			nested.Each(func(_ int, s *goquery.Selection) {
				s.ReplaceWithSelection(s.Contents())
			})
		}
	}
}

// rewriteBookmarks turns bookmark and embed figures into quote blocks with a
// label, title, one-sentence description, and a raw link line.
func rewriteBookmarks(body *goquery.Selection) {
	body.Find("a.bookmark.source").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		title := strings.TrimSpace(s.Find(".bookmark-title").First().Text())
		desc := firstSentence(strings.TrimSpace(s.Find(".bookmark-description").First().Text()))
		target := s
		if fig := s.Closest("figure"); fig.Length() > 0 {
			target = fig
		}
		target.ReplaceWithHtml(quoteBlock("Bookmark", title, desc, href))
	})
	body.Find("figure div.source").Each(func(_ int, s *goquery.Selection) {
		a := s.Find("a").First()
		if a.Length() == 0 || a.HasClass("bookmark") {
			return
		}
		href := a.AttrOr("href", "")
		target := s.Closest("figure")
		if target.Length() == 0 {
			target = s
		}
		target.ReplaceWithHtml(quoteBlock("Embed", strings.TrimSpace(a.Text()), "", href))
	})
}

// quoteBlock renders the fixed bookmark/embed quote format.
func quoteBlock(label, title, desc, href string) string {
	var sb strings.Builder
	sb.WriteString("<blockquote><p><strong>")
	sb.WriteString(label)
	sb.WriteString("</strong> ")
	sb.WriteString(html.EscapeString(title))
	if desc != "" {
		sb.WriteString("<br/>")
		sb.WriteString(html.EscapeString(desc))
	}
	sb.WriteString("</p><p><a href=\"")
	sb.WriteString(html.EscapeString(href))
	sb.WriteString("\">")
	sb.WriteString(html.EscapeString(href))
	sb.WriteString("</a></p></blockquote>")
	return sb.String()
}

// firstSentence truncates a bookmark description to its first sentence.
func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		s = s[:i+1]
	}
	const maxLen = 200
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// rewriteCallouts turns callout figures into quote blocks prefixed with an
// importance marker.
func rewriteCallouts(body *goquery.Selection) {
	body.Find("figure.callout").Each(func(_ int, s *goquery.Selection) {
		content, err := s.Children().Last().Html()
		if err != nil {
			content = html.EscapeString(s.Text())
		}
		s.ReplaceWithHtml("<blockquote><p><strong>Important</strong></p><p>" + content + "</p></blockquote>")
	})
}

// stripFakeLinks replaces anchor-styled non-anchor elements with their text.
func stripFakeLinks(body *goquery.Selection) {
	body.Find(".link").Not("a").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(html.EscapeString(s.Text()))
	})
}

// stripDateMarkers removes the "@" prefix Notion renders before dates.
func stripDateMarkers(body *goquery.Selection) {
	body.Find("time, span.date").Each(func(_ int, s *goquery.Selection) {
		s.SetText(strings.TrimPrefix(strings.TrimSpace(s.Text()), "@"))
	})
}

// rewriteEquations strips KaTeX render markup down to the TeX annotation and
// forces single-line formulas into block (align) form.
func rewriteEquations(body *goquery.Selection) {
	body.Find("figure.equation").Each(func(_ int, s *goquery.Selection) {
		tex := strings.TrimSpace(s.Find("annotation").First().Text())
		if tex == "" {
			s.Remove()
			return
		}
		if !strings.Contains(tex, `\begin{`) {
			tex = `\begin{align}` + tex + `\end{align}`
		}
		s.ReplaceWithHtml("<p>$$\n" + html.EscapeString(tex) + "\n$$</p>")
	})
}

// unwrapStructural replaces indentation containers and disclosure wrappers
// with their children; only the children carry content.
func unwrapStructural(body *goquery.Selection) {
	for {
		wrappers := body.Find("div.indented, details")
		if wrappers.Length() == 0 {
			break
		}
		wrappers.Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithSelection(s.Contents())
		})
	}
}

// summaryHeadings maps the inline font sizes Notion emits on toggle headings
// to heading tags.
var summaryHeadings = []struct {
	size string
	tag  string
}{
	{"1.875em", "h1"},
	{"1.5em", "h2"},
	{"1.25em", "h3"},
}

// convertSummaries rewrites disclosure summaries into headings or list items.
// A plain toggle leaves behind an empty parent list item; its children are
// hoisted up to remove it.
func convertSummaries(body *goquery.Selection) {
	body.Find("summary").Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil {
			inner = html.EscapeString(s.Text())
		}
		style := s.AttrOr("style", "")
		for _, h := range summaryHeadings {
			if strings.Contains(style, h.size) {
				s.ReplaceWithHtml("<" + h.tag + ">" + inner + "</" + h.tag + ">")
				return
			}
		}
		li := s.Parent().Filter("li")
		s.ReplaceWithHtml("<li>" + inner + "</li>")
		if li.Length() > 0 {
			li.ReplaceWithSelection(li.Contents())
		}
	})
}

// mergeAdjacentLists merges consecutive sibling lists of the same tag and
// class into one contiguous list. Notion emits one list wrapper per item.
func mergeAdjacentLists(body *goquery.Selection) {
	body.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		if s.Parent().Length() == 0 {
			// Already merged into a preceding list.
			return
		}
		tag := goquery.NodeName(s)
		class := s.AttrOr("class", "")
		for {
			next := s.Next()
			if next.Length() == 0 || goquery.NodeName(next) != tag || next.AttrOr("class", "") != class {
				break
			}
			s.AppendSelection(next.Children())
			next.Remove()
		}
	})
}

// replaceCheckboxes turns to-do checkbox markers into literal text tokens.
// Checkboxes inside tables are display cosmetics handled by the table pass.
func replaceCheckboxes(body *goquery.Selection) {
	body.Find(".checkbox").Each(func(_ int, s *goquery.Selection) {
		if s.Closest("table").Length() > 0 {
			return
		}
		if s.HasClass("checkbox-on") {
			s.ReplaceWithHtml("[x] ")
		} else {
			s.ReplaceWithHtml("[ ] ")
		}
	})
}

// rewriteTOCLinks points table-of-contents fragments at the literal heading
// text instead of Notion's internal anchor ids.
func rewriteTOCLinks(body *goquery.Selection) {
	body.Find("nav.table_of_contents a").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("href", "#"+strings.TrimSpace(s.Text()))
	})
}

// formatPlainTables normalizes display cosmetics inside ordinary tables:
// user mentions become names, checkboxes an X, multi-select spans a joined
// list, and invalid-looking link targets plain text.
func formatPlainTables(body *goquery.Selection) {
	body.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		tbl.Find("span.user").Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithHtml(html.EscapeString(strings.TrimPrefix(strings.TrimSpace(s.Text()), "@")))
		})
		tbl.Find(".checkbox").Each(func(_ int, s *goquery.Selection) {
			if s.HasClass("checkbox-on") {
				s.ReplaceWithHtml("X")
			} else {
				s.Remove()
			}
		})
		tbl.Find("td").Each(func(_ int, td *goquery.Selection) {
			values := td.Find("span.selected-value")
			if values.Length() == 0 {
				return
			}
			var parts []string
			values.Each(func(_ int, v *goquery.Selection) {
				if t := strings.TrimSpace(v.Text()); t != "" {
					parts = append(parts, t)
				}
			})
			td.SetText(strings.Join(parts, ", "))
		})
		tbl.Find("a").Each(func(_ int, a *goquery.Selection) {
			href := a.AttrOr("href", "")
			if strings.Contains(href, "://") || strings.HasPrefix(href, "assets/") || strings.HasPrefix(href, "#") {
				return
			}
			a.ReplaceWithHtml(html.EscapeString(strings.TrimSpace(a.Text())))
		})
	})
}

// lowercaseCodeLang lowercases code language classes so fence info strings
// match highlighter names.
func lowercaseCodeLang(body *goquery.Selection) {
	body.Find("code[class]").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("class", strings.ToLower(s.AttrOr("class", "")))
	})
}
