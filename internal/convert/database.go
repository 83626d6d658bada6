// Rebuilds Notion collection tables as SiYuan attribute views.

package convert

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/siyuan-tools/notion2siyuan/internal/av"
	"github.com/siyuan-tools/notion2siyuan/internal/nid"
)

// columnType is the semantic type encoded in a header cell's icon class.
type columnType int

const (
	colText columnType = iota
	colTitle
	colDate
	colSelect
	colMultiSelect
	colCheckbox
	colFile
	colNumber
)

// headerIconRe matches the sprite class on a column header's icon,
// e.g. "typesMultipleSelect".
var headerIconRe = regexp.MustCompile(`types([A-Za-z]+)`)

// columnTypes maps the icon class suffix to a semantic column type.
var columnTypes = map[string]columnType{
	"Title":          colTitle,
	"Date":           colDate,
	"CreatedTime":    colDate,
	"LastEditedTime": colDate,
	"Select":         colSelect,
	"Status":         colSelect,
	"MultipleSelect": colMultiSelect,
	"Checkbox":       colCheckbox,
	"File":           colFile,
	"Number":         colNumber,
	"Text":           colText,
}

// column is one parsed table column.
type column struct {
	name string
	typ  columnType
}

// tableRow is one parsed data row with its resolved identity.
type tableRow struct {
	// id is the row's block ID: the block of an already-converted page, or a
	// freshly minted ID for a detached row.
	id          string
	hasRelBlock bool
	cells       []*goquery.Selection
}

// extractDatabases locates every collection table under the body, rebuilds
// each as an attribute view, and replaces the table with an inert placeholder
// token that survives Markdown rendering. Must run before link resolution so
// anchors inside tables are still intact.
func extractDatabases(body *goquery.Selection, pageTitle, base string, ctx *Context) []*av.AttributeView {
	var avs []*av.AttributeView
	body.Find("table.collection-content").Each(func(_ int, tbl *goquery.Selection) {
		name := pageTitle
		title := tbl.PrevFiltered(".collection-title")
		if t := strings.TrimSpace(title.Text()); t != "" {
			name = t
		}
		view := buildAttributeView(tbl, name, base, ctx)
		avs = append(avs, view)
		title.Remove()
		tbl.ReplaceWithHtml("<p>[:av:" + view.ID + ":]</p>")
	})
	return avs
}

// buildAttributeView reconstructs one collection table as a fully specified
// attribute view: typed keys, typed cell values, and a default table view
// listing every row.
func buildAttributeView(tbl *goquery.Selection, name, base string, ctx *Context) *av.AttributeView {
	cols := parseColumns(tbl)
	titleIdx := 0
	for i, c := range cols {
		if c.typ == colTitle {
			titleIdx = i
			break
		}
	}
	rows := parseRows(tbl, titleIdx, base, ctx)

	result := &av.AttributeView{
		ID:   nid.New(),
		Name: name,
	}

	rowIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		rowIDs = append(rowIDs, r.id)
	}

	viewCols := make([]*av.ViewColumn, 0, len(cols))
	for i, col := range cols {
		key := &av.Key{ID: nid.New(), Name: col.name, Type: keyType(col.typ)}
		if i == titleIdx {
			key.Type = av.KeyTypeBlock
		}
		kv := &av.KeyValues{Key: key}
		for _, row := range rows {
			if i >= len(row.cells) {
				continue
			}
			if v := cellValue(row, row.cells[i], col.typ, key, i == titleIdx, base, ctx); v != nil {
				kv.Values = append(kv.Values, v)
			}
		}
		result.KeyValues = append(result.KeyValues, kv)
		viewCols = append(viewCols, &av.ViewColumn{ID: key.ID})
	}

	view := &av.View{
		ID:   nid.New(),
		Name: "Table",
		Type: "table",
		Table: &av.ViewTable{
			ID:       nid.New(),
			Columns:  viewCols,
			RowIDs:   rowIDs,
			Filters:  []*av.ViewFilter{},
			Sorts:    []*av.ViewSort{},
			PageSize: av.DefaultPageSize,
		},
	}
	result.ViewID = view.ID
	result.Views = []*av.View{view}
	return result
}

// keyType maps a semantic column type to the attribute-view value kind.
func keyType(t columnType) av.KeyType {
	switch t {
	case colTitle:
		return av.KeyTypeBlock
	case colDate:
		return av.KeyTypeDate
	case colSelect:
		return av.KeyTypeSelect
	case colMultiSelect:
		return av.KeyTypeMSelect
	case colCheckbox:
		return av.KeyTypeCheckbox
	case colFile:
		return av.KeyTypeMAsset
	case colNumber:
		return av.KeyTypeNumber
	default:
		return av.KeyTypeText
	}
}

// parseColumns reads the header row. The icon class on each header cell
// encodes the column's semantic type.
func parseColumns(tbl *goquery.Selection) []column {
	var cols []column
	tbl.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		col := column{name: strings.TrimSpace(th.Text()), typ: colText}
		if h, err := th.Html(); err == nil {
			if m := headerIconRe.FindStringSubmatch(h); m != nil {
				if t, ok := columnTypes[m[1]]; ok {
					col.typ = t
				}
			}
		}
		cols = append(cols, col)
	})
	return cols
}

// parseRows reads the data rows and resolves each row's identity through the
// title column: rows whose source page already has a block reuse it, the
// rest become detached rows with freshly minted IDs.
func parseRows(tbl *goquery.Selection, titleIdx int, base string, ctx *Context) []tableRow {
	var rows []tableRow
	tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row := tableRow{}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row.cells = append(row.cells, td)
		})
		if len(row.cells) == 0 {
			return
		}
		if titleIdx < len(row.cells) {
			if href, ok := row.cells[titleIdx].Find("a").First().Attr("href"); ok {
				if m := pageFileRe.FindStringSubmatch(decodeHref(href, base)); m != nil {
					if info, found := ctx.Page(strings.ToLower(m[1])); found && info.BlockID != "" {
						row.id = info.BlockID
						row.hasRelBlock = true
					}
				}
			}
		}
		if row.id == "" {
			row.id = nid.New()
		}
		rows = append(rows, row)
	})
	return rows
}

// dateRangeSep splits Notion's rendered date ranges.
const dateRangeSep = "→"

// notionTimeLayouts are the display formats Notion renders dates with.
var notionTimeLayouts = []string{
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"2006/01/02 15:04",
	"2006/01/02",
}

// parseNotionTime parses one rendered timestamp into epoch milliseconds.
func parseNotionTime(s string) (int64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	for _, layout := range notionTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// cellValue parses one cell into a typed attribute-view value. A nil return
// means the cell is empty and omitted; title cells are always included so
// every row keeps its identity.
func cellValue(row tableRow, td *goquery.Selection, typ columnType, key *av.Key, isTitle bool, base string, ctx *Context) *av.Value {
	val := &av.Value{
		ID:      nid.New(),
		KeyID:   key.ID,
		BlockID: row.id,
		Type:    key.Type,
	}

	if isTitle {
		val.IsDetached = !row.hasRelBlock
		val.Block = &av.ValueBlock{ID: row.id, Content: strings.TrimSpace(td.Text())}
		return val
	}

	switch typ {
	case colNumber:
		// Unparsable numeric cells are dropped.
		n, err := strconv.ParseFloat(strings.TrimSpace(td.Text()), 64)
		if err != nil {
			return nil
		}
		val.Number = &av.ValueNumber{Content: n, IsNotEmpty: true}
	case colDate:
		parts := strings.SplitN(td.Text(), dateRangeSep, 2)
		start, ok := parseNotionTime(parts[0])
		if !ok {
			return nil
		}
		date := &av.ValueDate{Content: start, IsNotEmpty: true}
		if len(parts) == 2 {
			if end, ok2 := parseNotionTime(parts[1]); ok2 {
				date.Content2 = end
				date.HasEndDate = true
			}
		}
		val.Date = date
	case colSelect, colMultiSelect:
		var opts []*av.SelectOption
		td.Find("span.selected-value").Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			if t == "" {
				return
			}
			opts = append(opts, &av.SelectOption{Name: t, Color: optionFor(key, t)})
		})
		if len(opts) == 0 {
			return nil
		}
		if typ == colSelect {
			opts = opts[:1]
		}
		val.MSelect = opts
	case colCheckbox:
		// Only checked rows carry a value.
		if td.Find(".checkbox-on").Length() == 0 {
			return nil
		}
		val.Checkbox = &av.ValueCheckbox{Checked: true}
	case colFile:
		var assets []*av.ValueAsset
		td.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || href == "" {
				return
			}
			decoded := decodeHref(href, base)
			asset := &av.ValueAsset{Type: av.AssetTypeFile, Name: decoded, Content: decoded}
			if imageExts[strings.ToLower(path.Ext(decoded))] {
				asset.Type = av.AssetTypeImage
			}
			if info, found := ctx.Attachment(decoded); found {
				asset.Name = info.Name
				asset.Content = info.MdPath
			} else {
				ctx.Warn("file cell references unknown attachment, keeping raw path", "path", decoded)
			}
			assets = append(assets, asset)
		})
		if len(assets) == 0 {
			return nil
		}
		val.MAsset = assets
	default:
		t := strings.TrimSpace(td.Text())
		if t == "" {
			return nil
		}
		val.Text = &av.ValueText{Content: t}
	}
	return val
}

// optionFor registers a distinct option value on the key, assigning palette
// colors in first-seen order, and returns the option's color.
func optionFor(key *av.Key, name string) string {
	for _, opt := range key.Options {
		if opt.Name == name {
			return opt.Color
		}
	}
	color := av.OptionColor(len(key.Options))
	key.Options = append(key.Options, &av.SelectOption{Name: name, Color: color})
	return color
}
