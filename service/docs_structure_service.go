package service

import (
	"fmt"
	"strings"

	"github.com/scribahq/scriba/entity"
	"golang.org/x/exp/slices"
	"google.golang.org/api/docs/v1"
)

const (
	elementKindParagraph       = "paragraph"
	elementKindSectionBreak    = "sectionBreak"
	elementKindTableOfContents = "tableOfContents"
	elementKindUnknown         = "unknown"
)

// maxTableNesting bounds how many levels of table-in-cell the parser walks.
// Deeper branches are dropped and the parse is marked truncated instead of
// failing, so a pathological document still yields a usable result.
const maxTableNesting = 5

type TableDebug struct {
	DocumentID string             `json:"documentId"`
	TableIndex int                `json:"tableIndex"`
	StartIndex int64              `json:"startIndex"`
	EndIndex   int64              `json:"endIndex"`
	Rows       int64              `json:"rows"`
	Columns    int64              `json:"columns"`
	Cells      []*entity.CellInfo `json:"cells"`
}

// ParseStructure reads and parses the document tree. In non-detailed mode
// paragraph texts are cut down to previews and per-cell table data is
// omitted, which keeps the payload small for large documents.
func (s *DocsService) ParseStructure(documentID string, detailed bool) (*entity.DocumentStructure, error) {
	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	structure := parseDocument(doc)
	if !detailed {
		for _, element := range structure.Elements {
			element.Text = previewText(element.Text, 100)
			if element.Table != nil {
				element.Table.Cells = nil
			}
		}
	}
	return structure, nil
}

// Complexity returns the lightweight counts-only summary.
func (s *DocsService) Complexity(documentID string) (*entity.DocumentComplexity, error) {
	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return measureComplexity(doc), nil
}

// TableDetails returns the debug view of one table: its geometry plus every
// cell's content range, insertion index and a text preview.
func (s *DocsService) TableDetails(documentID string, tableIndex int) (*TableDebug, error) {
	table, err := s.tableByIndex(documentID, tableIndex)
	if err != nil {
		return nil, err
	}

	debug := &TableDebug{
		DocumentID: documentID,
		TableIndex: tableIndex,
		StartIndex: table.StartIndex,
		EndIndex:   table.EndIndex,
		Rows:       table.Table.Rows,
		Columns:    table.Table.Columns,
	}
	for _, row := range table.Table.Cells {
		for _, cell := range row {
			preview := *cell
			preview.Text = previewText(preview.Text, 50)
			debug.Cells = append(debug.Cells, &preview)
		}
	}
	return debug, nil
}

// parseDocument flattens a document tree into typed elements with computed
// ranges. Missing or sparse fields parse to empty values, never to an error.
func parseDocument(doc *docs.Document) *entity.DocumentStructure {
	structure := &entity.DocumentStructure{}
	if doc == nil {
		return structure
	}

	structure.DocumentID = doc.DocumentId
	structure.Title = doc.Title

	if doc.Body != nil {
		structure.Elements, structure.Truncated = parseBodyElements(doc.Body.Content)
		structure.TotalLength = contentEndIndex(doc.Body.Content)
	}

	for id := range doc.Headers {
		structure.HeaderIDs = append(structure.HeaderIDs, id)
	}
	slices.Sort(structure.HeaderIDs)
	for id := range doc.Footers {
		structure.FooterIDs = append(structure.FooterIDs, id)
	}
	slices.Sort(structure.FooterIDs)
	structure.FootnoteCount = len(doc.Footnotes)

	structure.Tabs = collectTabs(doc.Tabs)
	return structure
}

func parseBodyElements(content []*docs.StructuralElement) ([]*entity.DocumentElement, bool) {
	var elements []*entity.DocumentElement
	truncated := false

	for _, el := range content {
		if el == nil {
			continue
		}
		element := &entity.DocumentElement{
			StartIndex: el.StartIndex,
			EndIndex:   el.EndIndex,
		}

		switch {
		case el.Paragraph != nil:
			element.Kind = elementKindParagraph
			element.Text = paragraphText(el.Paragraph)
			if el.Paragraph.ParagraphStyle != nil {
				element.NamedStyle = el.Paragraph.ParagraphStyle.NamedStyleType
			}

		case el.Table != nil:
			element.Kind = ElementKindTable
			table, tableTruncated := parseTableElement(el.Table, maxTableNesting)
			element.Table = table
			truncated = truncated || tableTruncated

		case el.SectionBreak != nil:
			element.Kind = elementKindSectionBreak

		case el.TableOfContents != nil:
			element.Kind = elementKindTableOfContents

		default:
			element.Kind = elementKindUnknown
		}

		elements = append(elements, element)
	}
	return elements, truncated
}

// parseTableElement walks rows then cells. Cell text is the concatenation of
// everything nested under the cell, nested tables included, down to the
// nesting bound.
func parseTableElement(table *docs.Table, depthLeft int) (*entity.TableInfo, bool) {
	info := &entity.TableInfo{
		Rows:    table.Rows,
		Columns: table.Columns,
	}
	if info.Rows == 0 {
		info.Rows = int64(len(table.TableRows))
	}

	truncated := false
	for r, row := range table.TableRows {
		if row == nil {
			continue
		}
		cells := make([]*entity.CellInfo, 0, len(row.TableCells))
		for c, cell := range row.TableCells {
			if cell == nil {
				continue
			}
			text, cellTruncated := nestedText(cell.Content, depthLeft-1)
			truncated = truncated || cellTruncated
			cells = append(cells, &entity.CellInfo{
				Row:            r,
				Column:         c,
				StartIndex:     cell.StartIndex,
				EndIndex:       cell.EndIndex,
				InsertionIndex: cellInsertionPoint(cell),
				Text:           text,
			})
		}
		info.Cells = append(info.Cells, cells)
	}
	return info, truncated
}

// cellInsertionPoint is where an insert lands inside the cell: the start of
// the cell's first paragraph, before its trailing newline.
func cellInsertionPoint(cell *docs.TableCell) int64 {
	if len(cell.Content) > 0 && cell.Content[0] != nil {
		return cell.Content[0].StartIndex
	}
	return cell.StartIndex + 1
}

// nestedText concatenates all text runs under the given content in document
// order. Nested tables are walked with an explicit work stack instead of
// call-stack recursion; depthLeft is the remaining table-nesting budget.
func nestedText(content []*docs.StructuralElement, depthLeft int) (string, bool) {
	type frame struct {
		element   *docs.StructuralElement
		depthLeft int
	}

	stack := make([]frame, 0, len(content))
	for i := len(content) - 1; i >= 0; i-- {
		stack = append(stack, frame{content[i], depthLeft})
	}

	var b strings.Builder
	truncated := false

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.element == nil {
			continue
		}

		switch {
		case f.element.Paragraph != nil:
			b.WriteString(paragraphText(f.element.Paragraph))

		case f.element.Table != nil:
			if f.depthLeft <= 0 {
				truncated = true
				continue
			}
			// Push cell contents in reverse so they pop in document order,
			// ahead of whatever followed the table.
			rows := f.element.Table.TableRows
			for r := len(rows) - 1; r >= 0; r-- {
				if rows[r] == nil {
					continue
				}
				cells := rows[r].TableCells
				for c := len(cells) - 1; c >= 0; c-- {
					if cells[c] == nil {
						continue
					}
					inner := cells[c].Content
					for i := len(inner) - 1; i >= 0; i-- {
						stack = append(stack, frame{inner[i], f.depthLeft - 1})
					}
				}
			}
		}
	}
	return b.String(), truncated
}

// paragraphText reconstructs a paragraph by concatenating its text runs.
// Runs without textual payload (images, footnote refs) contribute nothing.
func paragraphText(p *docs.Paragraph) string {
	var b strings.Builder
	for _, pe := range p.Elements {
		if pe == nil || pe.TextRun == nil {
			continue
		}
		b.WriteString(pe.TextRun.Content)
	}
	return b.String()
}

func contentEndIndex(content []*docs.StructuralElement) int64 {
	for i := len(content) - 1; i >= 0; i-- {
		if content[i] != nil {
			return content[i].EndIndex
		}
	}
	return 0
}

// collectTabs flattens the tab tree depth-first, recording each tab's
// nesting level. Tabs do not share index space, so only identity and
// hierarchy are captured here.
func collectTabs(tabs []*docs.Tab) []*entity.TabSummary {
	type frame struct {
		tab   *docs.Tab
		level int
	}

	stack := make([]frame, 0, len(tabs))
	for i := len(tabs) - 1; i >= 0; i-- {
		stack = append(stack, frame{tabs[i], 0})
	}

	var summaries []*entity.TabSummary
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.tab == nil {
			continue
		}

		summary := &entity.TabSummary{Level: f.level}
		if f.tab.TabProperties != nil {
			summary.ID = f.tab.TabProperties.TabId
			summary.Title = f.tab.TabProperties.Title
		}
		if summary.Title == "" {
			summary.Title = "Untitled Tab"
		}
		summaries = append(summaries, summary)

		for i := len(f.tab.ChildTabs) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.tab.ChildTabs[i], f.level + 1})
		}
	}
	return summaries
}

// measureComplexity produces counts without building the full structure.
// Nested tables count too, down to the same nesting bound as the parser.
func measureComplexity(doc *docs.Document) *entity.DocumentComplexity {
	c := &entity.DocumentComplexity{}
	if doc == nil {
		return c
	}
	c.DocumentID = doc.DocumentId
	c.Title = doc.Title

	if doc.Body == nil {
		c.Tabs = len(collectTabs(doc.Tabs))
		return c
	}

	c.Elements = len(doc.Body.Content)
	c.TextLength = contentEndIndex(doc.Body.Content)

	type frame struct {
		element *docs.StructuralElement
		depth   int
	}
	var stack []frame
	for _, el := range doc.Body.Content {
		stack = append(stack, frame{el, 1})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.element == nil {
			continue
		}

		switch {
		case f.element.Paragraph != nil:
			c.Paragraphs++

		case f.element.SectionBreak != nil:
			c.SectionBreaks++

		case f.element.Table != nil:
			c.Tables++
			if f.depth > c.MaxTableDepth {
				c.MaxTableDepth = f.depth
			}
			for _, row := range f.element.Table.TableRows {
				if row == nil {
					continue
				}
				for _, cell := range row.TableCells {
					if cell == nil {
						continue
					}
					c.TableCells++
					if f.depth >= maxTableNesting {
						continue
					}
					for _, inner := range cell.Content {
						stack = append(stack, frame{inner, f.depth + 1})
					}
				}
			}
		}
	}

	c.Tabs = len(collectTabs(doc.Tabs))
	return c
}

// previewText trims the trailing newline and cuts the text down to at most
// max runes, marking the cut with an ellipsis.
func previewText(s string, max int) string {
	s = strings.TrimRight(s, "\n")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
