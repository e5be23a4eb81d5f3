package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/docs/v1"
)

func textParagraph(text string, start, end int64) *docs.StructuralElement {
	return &docs.StructuralElement{
		StartIndex: start,
		EndIndex:   end,
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{{
				StartIndex: start,
				EndIndex:   end,
				TextRun:    &docs.TextRun{Content: text},
			}},
		},
	}
}

func styledParagraph(text string, start, end int64, namedStyle string) *docs.StructuralElement {
	el := textParagraph(text, start, end)
	el.Paragraph.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: namedStyle}
	return el
}

func tableCell(start, end int64, content ...*docs.StructuralElement) *docs.TableCell {
	return &docs.TableCell{
		StartIndex: start,
		EndIndex:   end,
		Content:    content,
	}
}

// twoByTwoTable builds a 2x2 table anchored at start with the given cell
// texts, row-major. Cell ranges are laid out 5 units apart.
func twoByTwoTable(start int64, texts [4]string) *docs.StructuralElement {
	cellAt := func(i int, text string) *docs.TableCell {
		cellStart := start + 2 + int64(i)*5
		return tableCell(cellStart, cellStart+4, textParagraph(text+"\n", cellStart+1, cellStart+4))
	}

	return &docs.StructuralElement{
		StartIndex: start,
		EndIndex:   start + 22,
		Table: &docs.Table{
			Rows:    2,
			Columns: 2,
			TableRows: []*docs.TableRow{
				{TableCells: []*docs.TableCell{cellAt(0, texts[0]), cellAt(1, texts[1])}},
				{TableCells: []*docs.TableCell{cellAt(2, texts[2]), cellAt(3, texts[3])}},
			},
		},
	}
}

// chainedTables nests depth tables each inside the single cell of the one
// above and returns the outermost element.
func chainedTables(depth int) *docs.StructuralElement {
	element := textParagraph("innermost\n", 0, 10)
	for i := 0; i < depth; i++ {
		element = &docs.StructuralElement{
			Table: &docs.Table{
				Rows:    1,
				Columns: 1,
				TableRows: []*docs.TableRow{
					{TableCells: []*docs.TableCell{{Content: []*docs.StructuralElement{element}}}},
				},
			},
		}
	}
	return element
}

func TestParseDocumentNil(t *testing.T) {
	structure := parseDocument(nil)
	assert.Empty(t, structure.Elements)
	assert.Empty(t, structure.DocumentID)
}

func TestParseDocumentBody(t *testing.T) {
	doc := &docs.Document{
		DocumentId: "doc1",
		Title:      "Report",
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{StartIndex: 0, EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
				styledParagraph("Heading\n", 1, 9, "HEADING_1"),
				textParagraph("Body text\n", 9, 19),
				nil,
				{StartIndex: 19, EndIndex: 20},
			},
		},
		Headers: map[string]docs.Header{
			"h2": {},
			"h1": {},
		},
		Footers: map[string]docs.Footer{
			"f1": {},
		},
		Footnotes: map[string]docs.Footnote{
			"fn1": {},
			"fn2": {},
		},
	}

	structure := parseDocument(doc)

	assert.Equal(t, "doc1", structure.DocumentID)
	assert.Equal(t, "Report", structure.Title)
	assert.Equal(t, int64(20), structure.TotalLength)
	assert.False(t, structure.Truncated)

	assert.Len(t, structure.Elements, 4)
	assert.Equal(t, "sectionBreak", structure.Elements[0].Kind)
	assert.Equal(t, "paragraph", structure.Elements[1].Kind)
	assert.Equal(t, "Heading\n", structure.Elements[1].Text)
	assert.Equal(t, "HEADING_1", structure.Elements[1].NamedStyle)
	assert.Equal(t, int64(1), structure.Elements[1].StartIndex)
	assert.Equal(t, int64(9), structure.Elements[1].EndIndex)
	assert.Equal(t, "unknown", structure.Elements[3].Kind)

	assert.Equal(t, []string{"h1", "h2"}, structure.HeaderIDs)
	assert.Equal(t, []string{"f1"}, structure.FooterIDs)
	assert.Equal(t, 2, structure.FootnoteCount)
}

func TestParseDocumentTableCells(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				twoByTwoTable(10, [4]string{"Name", "Qty", "Apples", "12"}),
			},
		},
	}

	structure := parseDocument(doc)
	assert.Len(t, structure.Elements, 1)

	element := structure.Elements[0]
	assert.Equal(t, ElementKindTable, element.Kind)
	assert.Equal(t, int64(2), element.Table.Rows)
	assert.Equal(t, int64(2), element.Table.Columns)
	assert.Len(t, element.Table.Cells, 2)

	first := element.Table.Cells[0][0]
	assert.Equal(t, 0, first.Row)
	assert.Equal(t, 0, first.Column)
	assert.Equal(t, int64(12), first.StartIndex)
	assert.Equal(t, int64(16), first.EndIndex)
	assert.Equal(t, int64(13), first.InsertionIndex)
	assert.Equal(t, "Name\n", first.Text)

	last := element.Table.Cells[1][1]
	assert.Equal(t, 1, last.Row)
	assert.Equal(t, 1, last.Column)
	assert.Equal(t, "12\n", last.Text)
}

func TestCellInsertionPointEmptyCell(t *testing.T) {
	cell := &docs.TableCell{StartIndex: 40}
	assert.Equal(t, int64(41), cellInsertionPoint(cell))
}

func TestParseDocumentNestedTableWithinBudget(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{Content: []*docs.StructuralElement{chainedTables(2)}},
	}

	structure := parseDocument(doc)
	assert.False(t, structure.Truncated)
	assert.Contains(t, structure.Elements[0].Table.Cells[0][0].Text, "innermost")
}

func TestParseDocumentNestedTableBeyondBudgetTruncates(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{Content: []*docs.StructuralElement{chainedTables(maxTableNesting + 1)}},
	}

	structure := parseDocument(doc)
	assert.True(t, structure.Truncated)
	assert.NotContains(t, structure.Elements[0].Table.Cells[0][0].Text, "innermost")
}

func TestCollectTabs(t *testing.T) {
	tabs := []*docs.Tab{
		{
			TabProperties: &docs.TabProperties{TabId: "t1", Title: "Overview"},
			ChildTabs: []*docs.Tab{
				{TabProperties: &docs.TabProperties{TabId: "t2", Title: "Details"}},
				{TabProperties: &docs.TabProperties{TabId: "t3"}},
			},
		},
		{TabProperties: &docs.TabProperties{TabId: "t4", Title: "Appendix"}},
	}

	summaries := collectTabs(tabs)
	assert.Len(t, summaries, 4)

	assert.Equal(t, "t1", summaries[0].ID)
	assert.Equal(t, 0, summaries[0].Level)
	assert.Equal(t, "Details", summaries[1].Title)
	assert.Equal(t, 1, summaries[1].Level)
	assert.Equal(t, "Untitled Tab", summaries[2].Title)
	assert.Equal(t, "Appendix", summaries[3].Title)
	assert.Equal(t, 0, summaries[3].Level)
}

func TestMeasureComplexity(t *testing.T) {
	inner := &docs.StructuralElement{
		Table: &docs.Table{
			Rows:    1,
			Columns: 1,
			TableRows: []*docs.TableRow{
				{TableCells: []*docs.TableCell{{Content: []*docs.StructuralElement{
					textParagraph("nested\n", 0, 7),
				}}}},
			},
		},
	}
	outer := &docs.StructuralElement{
		Table: &docs.Table{
			Rows:    1,
			Columns: 2,
			TableRows: []*docs.TableRow{
				{TableCells: []*docs.TableCell{
					{Content: []*docs.StructuralElement{inner}},
					{Content: []*docs.StructuralElement{textParagraph("plain\n", 0, 6)}},
				}},
			},
		},
	}

	doc := &docs.Document{
		DocumentId: "doc1",
		Title:      "Report",
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{StartIndex: 0, EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
				textParagraph("intro\n", 1, 7),
				outer,
			},
		},
		Tabs: []*docs.Tab{{TabProperties: &docs.TabProperties{TabId: "t1", Title: "Notes"}}},
	}
	doc.Body.Content[2].EndIndex = 30

	c := measureComplexity(doc)

	assert.Equal(t, "doc1", c.DocumentID)
	assert.Equal(t, 3, c.Elements)
	assert.Equal(t, int64(30), c.TextLength)
	assert.Equal(t, 1, c.SectionBreaks)
	// intro plus both cell paragraphs.
	assert.Equal(t, 3, c.Paragraphs)
	assert.Equal(t, 2, c.Tables)
	assert.Equal(t, 3, c.TableCells)
	assert.Equal(t, 2, c.MaxTableDepth)
	assert.Equal(t, 1, c.Tabs)
}

func TestMeasureComplexityWithoutBody(t *testing.T) {
	c := measureComplexity(&docs.Document{
		Tabs: []*docs.Tab{{}, {}},
	})
	assert.Equal(t, 0, c.Elements)
	assert.Equal(t, 2, c.Tabs)
}

func TestPreviewText(t *testing.T) {
	assert.Equal(t, "short", previewText("short\n", 10))
	assert.Equal(t, "exact", previewText("exact", 5))
	assert.Equal(t, "abcde...", previewText("abcdefgh", 5))
}

func TestParseStructureNonDetailedCutsPayload(t *testing.T) {
	long := strings.Repeat("x", 150)
	backend := &fakeBackend{
		doc: &docs.Document{
			DocumentId: "doc1",
			Body: &docs.Body{
				Content: []*docs.StructuralElement{
					textParagraph(long+"\n", 1, int64(len(long))+2),
					twoByTwoTable(200, [4]string{"a", "b", "c", "d"}),
				},
			},
		},
	}
	s, _ := newTestDocsService(backend)

	structure, err := s.ParseStructure("doc1", false)
	assert.NoError(t, err)
	assert.Len(t, structure.Elements[0].Text, 103)
	assert.True(t, strings.HasSuffix(structure.Elements[0].Text, "..."))
	assert.Nil(t, structure.Elements[1].Table.Cells)

	detailed, err := s.ParseStructure("doc1", true)
	assert.NoError(t, err)
	assert.Equal(t, long+"\n", detailed.Elements[0].Text)
	assert.NotNil(t, detailed.Elements[1].Table.Cells)
}

func TestTableDetails(t *testing.T) {
	backend := &fakeBackend{
		doc: &docs.Document{
			DocumentId: "doc1",
			Body: &docs.Body{
				Content: []*docs.StructuralElement{
					twoByTwoTable(10, [4]string{"Name", "Qty", "Apples", "12"}),
				},
			},
		},
	}
	s, _ := newTestDocsService(backend)

	debug, err := s.TableDetails("doc1", 0)
	assert.NoError(t, err)

	assert.Equal(t, "doc1", debug.DocumentID)
	assert.Equal(t, 0, debug.TableIndex)
	assert.Equal(t, int64(10), debug.StartIndex)
	assert.Equal(t, int64(2), debug.Rows)
	assert.Len(t, debug.Cells, 4)
	assert.Equal(t, "Name", debug.Cells[0].Text)
	assert.Equal(t, int64(13), debug.Cells[0].InsertionIndex)
}
