// Parses the page-property metadata table into front-matter attributes.

package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// propertyKind is the semantic kind a property subtype extracts as.
type propertyKind int

const (
	kindCheckbox propertyKind = iota
	kindDate
	kindList
	kindNumber
	kindText
)

// subtypeKinds maps the CSS-encoded property subtype to its extraction kind.
var subtypeKinds = map[string]propertyKind{
	"checkbox":         kindCheckbox,
	"date":             kindDate,
	"created_time":     kindDate,
	"last_edited_time": kindDate,
	"multi_select":     kindList,
	"relation":         kindList,
	"person":           kindList,
	"file":             kindList,
	"number":           kindNumber,
	"text":             kindText,
	"title":            kindText,
	"select":           kindText,
	"status":           kindText,
	"url":              kindText,
	"email":            kindText,
	"phone_number":     kindText,
	"formula":          kindText,
}

var propertySubtypeRe = regexp.MustCompile(`property-row-([a-z_]+)`)

// parsePropertyRow extracts one (title, content) pair from a property row.
// ok is false when the property resolves to empty and must be omitted from
// the output. An error means the row is unclassifiable, which aborts the page.
func parsePropertyRow(row *goquery.Selection) (title, content string, ok bool, err error) {
	m := propertySubtypeRe.FindStringSubmatch(row.AttrOr("class", ""))
	if m == nil {
		return "", "", false, errors.New("property row has no subtype class")
	}
	subtype := m[1]
	kind, found := subtypeKinds[subtype]
	if !found {
		return "", "", false, fmt.Errorf("unmapped property subtype %q", subtype)
	}

	title = strings.TrimSpace(row.Find("th").First().Text())
	cell := row.Find("td").First()

	switch kind {
	case kindCheckbox:
		content = "false"
		if cell.Find(".checkbox-on").Length() > 0 {
			content = "true"
		}
	case kindNumber:
		content = strings.TrimSpace(cell.Text())
		if _, perr := strconv.ParseFloat(content, 64); perr != nil {
			// Non-numeric content is dropped, not an error. Malformed exports
			// produce these routinely.
			return title, "", false, nil
		}
	case kindDate:
		content = strings.TrimPrefix(strings.TrimSpace(cell.Find("time").First().Text()), "@")
	case kindList:
		var parts []string
		cell.Children().Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) == 0 {
			// Anchors flattened to plain text earlier leave bare text nodes.
			if t := strings.TrimSpace(cell.Text()); t != "" {
				parts = append(parts, t)
			}
		}
		content = strings.Join(parts, "\n")
	case kindText:
		content = strings.TrimSpace(cell.Text())
	}

	if content == "" {
		return title, "", false, nil
	}
	return title, content, true, nil
}

// convertProperties turns the page-property table into front-matter attrs.
// Empty properties are omitted; the Notion "Tags" property becomes "tags".
func convertProperties(props *goquery.Selection) (map[string]string, error) {
	attrs := make(map[string]string)
	var err error
	props.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.AttrOr("class", ""), "property-row") {
			return true
		}
		title, content, ok, perr := parsePropertyRow(row)
		if perr != nil {
			err = perr
			return false
		}
		if !ok {
			return true
		}
		if title == "Tags" {
			title = "tags"
		}
		attrs[title] = content
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse page properties: %w", err)
	}
	return attrs, nil
}
