package av

// AttributeView is SiYuan's structured-table record: typed columns
// (key definitions), per-key value lists, and saved views. One is produced
// for every Notion database reconstructed from an export.
type AttributeView struct {
	Spec      int          `json:"spec"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	KeyValues []*KeyValues `json:"keyValues"`
	ViewID    string       `json:"viewID"`
	Views     []*View      `json:"views"`
}

// KeyValues pairs one key definition with the ordered values of its column.
type KeyValues struct {
	Key    *Key     `json:"key"`
	Values []*Value `json:"values,omitempty"`
}

// KeyType defines the value kind stored under a key.
type KeyType string

const (
	// KeyTypeBlock is the primary column; each value anchors a row to a block.
	KeyTypeBlock KeyType = "block"
	// KeyTypeText stores plain text values.
	KeyTypeText KeyType = "text"
	// KeyTypeNumber stores numeric values.
	KeyTypeNumber KeyType = "number"
	// KeyTypeDate stores a timestamp range with an optional end.
	KeyTypeDate KeyType = "date"
	// KeyTypeSelect stores a single choice from predefined options.
	KeyTypeSelect KeyType = "select"
	// KeyTypeMSelect stores multiple choices from predefined options.
	KeyTypeMSelect KeyType = "mSelect"
	// KeyTypeCheckbox stores boolean values.
	KeyTypeCheckbox KeyType = "checkbox"
	// KeyTypeMAsset stores lists of file and image references.
	KeyTypeMAsset KeyType = "mAsset"
)

// Key represents a column definition with its configuration.
type Key struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    KeyType         `json:"type"`
	Options []*SelectOption `json:"options,omitempty"`
}

// SelectOption represents an allowed value for select/mSelect keys.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Value is one typed cell, tagged by Type and linked to its row's block.
// Exactly one of the payload fields matching Type is set.
type Value struct {
	ID      string  `json:"id"`
	KeyID   string  `json:"keyID"`
	BlockID string  `json:"blockID"`
	Type    KeyType `json:"type"`
	// IsDetached marks a row whose identity was minted fresh because no
	// converted page backs it yet.
	IsDetached bool `json:"isDetached,omitempty"`

	Block    *ValueBlock     `json:"block,omitempty"`
	Text     *ValueText      `json:"text,omitempty"`
	Number   *ValueNumber    `json:"number,omitempty"`
	Date     *ValueDate      `json:"date,omitempty"`
	MSelect  []*SelectOption `json:"mSelect,omitempty"`
	Checkbox *ValueCheckbox  `json:"checkbox,omitempty"`
	MAsset   []*ValueAsset   `json:"mAsset,omitempty"`
}

// ValueBlock is the payload of a primary-column cell.
type ValueBlock struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Created int64  `json:"created,omitempty"`
	Updated int64  `json:"updated,omitempty"`
}

// ValueText is the payload of a text cell.
type ValueText struct {
	Content string `json:"content"`
}

// ValueNumber is the payload of a number cell.
type ValueNumber struct {
	Content    float64 `json:"content"`
	IsNotEmpty bool    `json:"isNotEmpty"`
}

// ValueDate is the payload of a date cell. Timestamps are epoch milliseconds.
type ValueDate struct {
	Content    int64 `json:"content"`
	IsNotEmpty bool  `json:"isNotEmpty"`
	Content2   int64 `json:"content2,omitempty"`
	HasEndDate bool  `json:"hasEndDate"`
}

// ValueCheckbox is the payload of a checkbox cell.
type ValueCheckbox struct {
	Checked bool `json:"checked"`
}

// AssetType discriminates asset payloads by how they render.
type AssetType string

const (
	// AssetTypeFile renders as a plain link.
	AssetTypeFile AssetType = "file"
	// AssetTypeImage renders inline.
	AssetTypeImage AssetType = "image"
)

// ValueAsset is one entry of an mAsset cell.
type ValueAsset struct {
	Type    AssetType `json:"type"`
	Name    string    `json:"name"`
	Content string    `json:"content"`
}

// View represents a saved table view configuration.
type View struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Table *ViewTable `json:"table,omitempty"`
}

// ViewTable is the table layout of a view: visible columns, row order, and
// data shaping. Imports produce no filters or sorts.
type ViewTable struct {
	Spec     int           `json:"spec"`
	ID       string        `json:"id"`
	Columns  []*ViewColumn `json:"columns"`
	RowIDs   []string      `json:"rowIds"`
	Filters  []*ViewFilter `json:"filters"`
	Sorts    []*ViewSort   `json:"sorts"`
	PageSize int           `json:"pageSize"`
}

// ViewColumn references a key shown in a table view.
type ViewColumn struct {
	ID string `json:"id"`
}

// ViewFilter defines a condition for filtering rows.
type ViewFilter struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

// ViewSort defines a sort criterion.
type ViewSort struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// DefaultPageSize is the row page size of imported table views.
const DefaultPageSize = 50

// optionColors cycles through SiYuan's select-option palette.
// Distinct options are assigned colors in first-seen order.
var optionColors = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14"}

// OptionColor returns the palette color for the i-th distinct option.
func OptionColor(i int) string {
	return optionColors[i%len(optionColors)]
}
