package entity

// DocumentElement is one parsed node of a document body. Kind is one of
// "paragraph", "table", "sectionBreak" or "tableOfContents".
type DocumentElement struct {
	Kind       string `json:"kind"`
	StartIndex int64  `json:"startIndex"`
	EndIndex   int64  `json:"endIndex"`

	Text       string `json:"text,omitempty"`
	NamedStyle string `json:"namedStyle,omitempty"`

	Table *TableInfo `json:"table,omitempty"`
}

// TableInfo describes a table's geometry. Cells is populated in detailed
// parses only.
type TableInfo struct {
	Rows    int64         `json:"rows"`
	Columns int64         `json:"columns"`
	Cells   [][]*CellInfo `json:"cells,omitempty"`
}

// CellInfo addresses one table cell. InsertionIndex is the position at which
// new content must be inserted to land inside the cell; it is derived from
// the cell's content, never returned by the service.
type CellInfo struct {
	Row            int    `json:"row"`
	Column         int    `json:"column"`
	StartIndex     int64  `json:"startIndex"`
	EndIndex       int64  `json:"endIndex"`
	InsertionIndex int64  `json:"insertionIndex"`
	Text           string `json:"text"`
}

type TabSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// DocumentStructure is the full parse result for one document tree.
type DocumentStructure struct {
	DocumentID  string `json:"documentId"`
	Title       string `json:"title"`
	TotalLength int64  `json:"totalLength"`

	Elements  []*DocumentElement `json:"elements"`
	Truncated bool               `json:"truncated,omitempty"`

	HeaderIDs     []string      `json:"headerIds,omitempty"`
	FooterIDs     []string      `json:"footerIds,omitempty"`
	FootnoteCount int           `json:"footnoteCount,omitempty"`
	Tabs          []*TabSummary `json:"tabs,omitempty"`
}

// DocumentComplexity is the lightweight summary variant: counts only, no
// per-element breakdown.
type DocumentComplexity struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`

	Elements      int   `json:"elements"`
	Paragraphs    int   `json:"paragraphs"`
	Tables        int   `json:"tables"`
	TableCells    int   `json:"tableCells"`
	SectionBreaks int   `json:"sectionBreaks"`
	TextLength    int64 `json:"textLength"`
	Tabs          int   `json:"tabs"`
	MaxTableDepth int   `json:"maxTableDepth"`
}
