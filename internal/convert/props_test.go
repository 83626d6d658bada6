// Tests for page-property parsing.

package convert

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func propsTable(t *testing.T, rows string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table class=\"properties\"><tbody>" + rows + "</tbody></table>"))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc.Find("table.properties")
}

func TestConvertProperties(t *testing.T) {
	t.Run("Kinds", func(t *testing.T) {
		tests := []struct {
			name string
			row  string
			want map[string]string
		}{
			{
				name: "text",
				row:  `<tr class="property-row property-row-text"><th>Notes</th><td>  hello  </td></tr>`,
				want: map[string]string{"Notes": "hello"},
			},
			{
				name: "checkbox checked",
				row:  `<tr class="property-row property-row-checkbox"><th>Done</th><td><div class="checkbox checkbox-on"></div></td></tr>`,
				want: map[string]string{"Done": "true"},
			},
			{
				name: "checkbox unchecked",
				row:  `<tr class="property-row property-row-checkbox"><th>Done</th><td><div class="checkbox checkbox-off"></div></td></tr>`,
				want: map[string]string{"Done": "false"},
			},
			{
				name: "date strips marker",
				row:  `<tr class="property-row property-row-date"><th>Due</th><td><time>@January 2, 2023</time></td></tr>`,
				want: map[string]string{"Due": "January 2, 2023"},
			},
			{
				name: "number valid",
				row:  `<tr class="property-row property-row-number"><th>Price</th><td>42.5</td></tr>`,
				want: map[string]string{"Price": "42.5"},
			},
			{
				name: "number invalid dropped",
				row:  `<tr class="property-row property-row-number"><th>Price</th><td>not a number</td></tr>`,
				want: map[string]string{},
			},
			{
				name: "multi select joins lines",
				row:  `<tr class="property-row property-row-multi_select"><th>Labels</th><td><span>a</span><span>b</span></td></tr>`,
				want: map[string]string{"Labels": "a\nb"},
			},
			{
				name: "empty omitted",
				row:  `<tr class="property-row property-row-text"><th>Notes</th><td>   </td></tr>`,
				want: map[string]string{},
			},
			{
				name: "tags renamed",
				row:  `<tr class="property-row property-row-multi_select"><th>Tags</th><td><span>x</span></td></tr>`,
				want: map[string]string{"tags": "x"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				attrs, err := convertProperties(propsTable(t, tt.row))
				if err != nil {
					t.Fatalf("convertProperties failed: %v", err)
				}
				if len(attrs) != len(tt.want) {
					t.Fatalf("expected %d attrs, got %d: %v", len(tt.want), len(attrs), attrs)
				}
				for k, v := range tt.want {
					if attrs[k] != v {
						t.Errorf("attr %q: expected %q, got %q", k, v, attrs[k])
					}
				}
			})
		}
	})

	t.Run("UnknownSubtypeFails", func(t *testing.T) {
		row := `<tr class="property-row property-row-rollup"><th>X</th><td>y</td></tr>`
		if _, err := convertProperties(propsTable(t, row)); err == nil {
			t.Fatal("expected error for unmapped subtype")
		}
	})

	t.Run("MissingSubtypeClassFails", func(t *testing.T) {
		row := `<tr class="property-row"><th>X</th><td>y</td></tr>`
		if _, err := convertProperties(propsTable(t, row)); err == nil {
			t.Fatal("expected error for row without subtype class")
		}
	})

	t.Run("NonPropertyRowsSkipped", func(t *testing.T) {
		rows := `<tr><th>Header</th></tr>` +
			`<tr class="property-row property-row-text"><th>A</th><td>b</td></tr>`
		attrs, err := convertProperties(propsTable(t, rows))
		if err != nil {
			t.Fatalf("convertProperties failed: %v", err)
		}
		if len(attrs) != 1 || attrs["A"] != "b" {
			t.Errorf("unexpected attrs: %v", attrs)
		}
	})
}
