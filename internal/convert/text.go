// Text-level fixups applied around the HTML-to-Markdown rendering step.

package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siyuan-tools/notion2siyuan/internal/av"
)

var brRe = regexp.MustCompile(`<br\s*/?>`)

// inlineBreakRes match emphasis spans that contain hard line breaks. The
// Markdown renderer mangles those, so each span is split into one span per
// line before rendering. Operating on the serialized markup is deliberate:
// the break nodes only exist reliably after serialization.
var inlineBreakRes = map[string]*regexp.Regexp{
	"em":     regexp.MustCompile(`(?s)<em>([^<]*(?:<br\s*/?>[^<]*)+)</em>`),
	"strong": regexp.MustCompile(`(?s)<strong>([^<]*(?:<br\s*/?>[^<]*)+)</strong>`),
}

// splitInlineBreaks splits emphasis spans containing line breaks into
// multiple adjacent same-tag spans, one per line.
func splitInlineBreaks(s string) string {
	for tag, re := range inlineBreakRes {
		s = re.ReplaceAllStringFunc(s, func(m string) string {
			sub := re.FindStringSubmatch(m)
			var parts []string
			for _, line := range brRe.Split(sub[1], -1) {
				if strings.TrimSpace(line) == "" {
					continue
				}
				parts = append(parts, "<"+tag+">"+line+"</"+tag+">")
			}
			return strings.Join(parts, "<br/>")
		})
	}
	return s
}

var (
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
	paraSepRe   = regexp.MustCompile(`\n\n+`)
)

// normalizeLineBreaks trims excess blank lines; with singleLineBreaks set,
// paragraph spacing collapses to single newlines to match SiYuan's
// single-line-break editor setting.
func normalizeLineBreaks(s string, singleLineBreaks bool) string {
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	if singleLineBreaks {
		s = paraSepRe.ReplaceAllString(s, "\n")
	}
	return strings.TrimSpace(s) + "\n"
}

var hashtagRe = regexp.MustCompile(`#([^\s#])`)

// escapeHashtags escapes inline hashtags so SiYuan does not parse stray
// "#word" text as tags. Heading markers at line starts are left alone.
func escapeHashtags(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") && strings.HasPrefix(strings.TrimLeft(line, "#"), " ") {
			continue
		}
		lines[i] = hashtagRe.ReplaceAllString(line, `\#$1`)
	}
	return strings.Join(lines, "\n")
}

// escapeFixer undoes the renderer's backslash escaping of the bracket
// sequences this package emits itself: name references, checkbox tokens, and
// database placeholder tokens.
var escapeFixer = strings.NewReplacer(
	`\[\[`, "[[",
	`\]\]`, "]]",
	`\[\]`, "[]",
	`\[:av:`, "[:av:",
	`\[x\]`, "[x]",
	`\[x]`, "[x]",
	`\[ \]`, "[ ]",
	`\[ ]`, "[ ]",
)

// fixEscapes repairs over-escaped syntax the Markdown renderer produced.
func fixEscapes(s string) string {
	return escapeFixer.Replace(s)
}

// expandPlaceholders replaces each database placeholder token with the
// target application's embed-block markup. Runs last; the embed markup would
// not survive Markdown rendering.
func expandPlaceholders(content string, avs []*av.AttributeView) string {
	for _, a := range avs {
		token := "[:av:" + a.ID + ":]"
		embed := fmt.Sprintf("<div data-type=%q data-av-id=%q data-av-type=%q></div>",
			"NodeAttributeView", a.ID, "table")
		content = strings.ReplaceAll(content, token, embed)
	}
	return content
}
