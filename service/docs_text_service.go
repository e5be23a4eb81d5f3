package service

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/docs/v1"
)

const tabHeaderFormat = "\n--- TAB: %s ---\n"

type DocumentText struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Link       string `json:"link"`
}

// ExtractText returns the document's visible text. The main body comes
// first, then every tab as a labeled block; nested tabs keep their place in
// the hierarchy with a deeper-indented label. includeTabs false cuts the
// result to the main body.
func (s *DocsService) ExtractText(documentID string, includeTabs bool) (*DocumentText, error) {
	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return &DocumentText{
		DocumentID: documentID,
		Title:      doc.Title,
		Text:       documentPlainText(doc, includeTabs),
		Link:       documentLink(documentID),
	}, nil
}

func (s *DocsService) ExtractMany(documentIDs []string) ([]*DocumentText, error) {
	errwg := new(errgroup.Group)
	texts := make([]*DocumentText, len(documentIDs))
	for i := range documentIDs {
		errwg.Go(func() error {
			text, err := s.ExtractText(documentIDs[i], true)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	err := errwg.Wait()

	return texts, err
}

func documentPlainText(doc *docs.Document, includeTabs bool) string {
	var b strings.Builder

	if doc.Body != nil {
		b.WriteString(visibleText(doc.Body.Content, maxTableNesting))
	}

	if !includeTabs {
		return b.String()
	}

	type frame struct {
		tab   *docs.Tab
		level int
	}
	stack := make([]frame, 0, len(doc.Tabs))
	for i := len(doc.Tabs) - 1; i >= 0; i-- {
		stack = append(stack, frame{doc.Tabs[i], 0})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.tab == nil {
			continue
		}

		if f.tab.DocumentTab != nil {
			title := "Untitled Tab"
			if f.tab.TabProperties != nil && f.tab.TabProperties.Title != "" {
				title = f.tab.TabProperties.Title
			}
			if f.level > 0 {
				title = strings.Repeat("    ", f.level) + title
			}

			b.WriteString(fmt.Sprintf(tabHeaderFormat, title))
			if f.tab.DocumentTab.Body != nil {
				b.WriteString(visibleText(f.tab.DocumentTab.Body.Content, maxTableNesting))
			}
		}

		for i := len(f.tab.ChildTabs) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.tab.ChildTabs[i], f.level + 1})
		}
	}

	return b.String()
}

// visibleText renders paragraphs and table cells, dropping blank lines and
// empty cells. depthLeft bounds table-in-cell nesting; a cell's own text is
// assembled in full before the blank check, so partially nested content
// never produces a stray label.
func visibleText(content []*docs.StructuralElement, depthLeft int) string {
	if depthLeft < 0 {
		return ""
	}

	var b strings.Builder
	for _, el := range content {
		if el == nil {
			continue
		}
		switch {
		case el.Paragraph != nil:
			line := paragraphText(el.Paragraph)
			if strings.TrimSpace(line) != "" {
				b.WriteString(line)
			}

		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				if row == nil {
					continue
				}
				for _, cell := range row.TableCells {
					if cell == nil {
						continue
					}
					cellText := visibleText(cell.Content, depthLeft-1)
					if strings.TrimSpace(cellText) != "" {
						b.WriteString(cellText)
					}
				}
			}
		}
	}
	return b.String()
}
