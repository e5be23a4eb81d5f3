package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBulletPresetForListType(t *testing.T) {
	tests := []struct {
		listType string
		expected string
	}{
		{listType: "UNORDERED", expected: bulletPresetUnordered},
		{listType: "BULLET", expected: bulletPresetUnordered},
		{listType: "bullet", expected: bulletPresetUnordered},
		{listType: "ORDERED", expected: bulletPresetNumbered},
		{listType: "numbered", expected: bulletPresetNumbered},
	}

	for _, tt := range tests {
		t.Run(tt.listType, func(t *testing.T) {
			preset, err := bulletPresetForListType(tt.listType)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, preset)
		})
	}

	_, err := bulletPresetForListType("checklist")
	assert.Error(t, err)
}

func TestNamedStyleTypeForLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{label: "heading_1", expected: "HEADING_1"},
		{label: "HEADING_6", expected: "HEADING_6"},
		{label: "title", expected: "TITLE"},
		{label: "normal_text", expected: "NORMAL_TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			styleType, err := namedStyleTypeForLabel(tt.label)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, styleType)
		})
	}

	_, err := namedStyleTypeForLabel("heading_7")
	assert.Error(t, err)
}

func TestCompileListInsertRangeCoversTrailingNewline(t *testing.T) {
	text := "Buy milk"
	requests, err := compileListInsert(text, 20, "UNORDERED")
	assert.NoError(t, err)
	assert.Len(t, requests, 2)

	insert := requests[0].InsertText
	assert.Equal(t, text+"\n", insert.Text)
	assert.Equal(t, int64(20), insert.Location.Index)

	bullets := requests[1].CreateParagraphBullets
	assert.Equal(t, bulletPresetUnordered, bullets.BulletPreset)
	assert.Equal(t, int64(20), bullets.Range.StartIndex)
	assert.Equal(t, 20+utf16Len(text)+1, bullets.Range.EndIndex)
}

func TestInsertElementText(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:  ElementKindText,
		Index: 0,
		Text:  "Hello",
	})
	assert.NoError(t, err)

	assert.Equal(t, ElementKindText, result.Kind)
	assert.Equal(t, int64(1), result.Index)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, int64(1), backend.batches[0][0].InsertText.Location.Index)
}

func TestInsertElementTextWithStyle(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:  ElementKindText,
		Index: 10,
		Text:  "Hello",
		Style: &TextStyleParams{Bold: boolPtr(true)},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Requests)

	update := backend.batches[0][1].UpdateTextStyle
	assert.NotNil(t, update)
	assert.Equal(t, int64(10), update.Range.StartIndex)
	assert.Equal(t, int64(15), update.Range.EndIndex)
}

func TestInsertElementTextWithNamedStyle(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:       ElementKindText,
		Index:      10,
		Text:       "Quarterly report",
		NamedStyle: "heading_1",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Requests)
	assert.Equal(t, "heading_1 text (16 units)", result.Summary)

	update := backend.batches[0][1].UpdateParagraphStyle
	assert.NotNil(t, update)
	assert.Equal(t, "HEADING_1", update.ParagraphStyle.NamedStyleType)
	assert.Equal(t, "namedStyleType", update.Fields)
	assert.Equal(t, int64(10), update.Range.StartIndex)
	assert.Equal(t, int64(26), update.Range.EndIndex)
}

func TestInsertElementTextStyleAndNamedStyleOrder(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:       ElementKindText,
		Index:      10,
		Text:       "Hello",
		Style:      &TextStyleParams{Bold: boolPtr(true)},
		NamedStyle: "TITLE",
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Requests)
	assert.NotNil(t, backend.batches[0][1].UpdateTextStyle)
	assert.NotNil(t, backend.batches[0][2].UpdateParagraphStyle)
}

func TestInsertElementTextUnknownNamedStyle(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	_, err := s.InsertElement("doc1", InsertElementParams{
		Kind:       ElementKindText,
		Index:      10,
		Text:       "x",
		NamedStyle: "heading_9",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "heading_9")
	assert.Empty(t, backend.batches)
}

func TestInsertElementTextRequiresText(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.InsertElement("doc1", InsertElementParams{Kind: ElementKindText, Index: 1})
	assert.Error(t, err)
}

func TestInsertElementListDefaultsText(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	_, err := s.InsertElement("doc1", InsertElementParams{
		Kind:     ElementKindList,
		Index:    5,
		ListType: "ORDERED",
	})
	assert.NoError(t, err)
	assert.Equal(t, "List item\n", backend.batches[0][0].InsertText.Text)
	assert.Equal(t, bulletPresetNumbered, backend.batches[0][1].CreateParagraphBullets.BulletPreset)
}

func TestInsertElementPageBreak(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{Kind: ElementKindPageBreak, Index: 30})
	assert.NoError(t, err)
	assert.Equal(t, "page break", result.Summary)
	assert.Equal(t, int64(30), backend.batches[0][0].InsertPageBreak.Location.Index)
}

func TestInsertElementSectionBreak(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{Kind: ElementKindSectionBreak, Index: 25})
	assert.NoError(t, err)
	assert.Equal(t, "section break", result.Summary)

	sectionBreak := backend.batches[0][0].InsertSectionBreak
	assert.Equal(t, int64(25), sectionBreak.Location.Index)
	assert.Equal(t, sectionBreakNextPage, sectionBreak.SectionType)
}

func TestInsertElementImageFromURL(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:        ElementKindImage,
		Index:       4,
		ImageSource: "https://example.com/chart.png",
	})
	assert.NoError(t, err)
	assert.Equal(t, "image from URL", result.Summary)

	image := backend.batches[0][0].InsertInlineImage
	assert.Equal(t, "https://example.com/chart.png", image.Uri)
	assert.Nil(t, image.ObjectSize)
}

func TestInsertElementImageFromDriveFile(t *testing.T) {
	backend := &fakeBackend{}
	resolver := &fakeImageResolver{uri: "https://drive.google.com/uc?id=file1"}
	s := NewDocsService(backend, nil, resolver)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:        ElementKindImage,
		Index:       4,
		ImageSource: "file1",
		Width:       float64Ptr(200),
		Height:      float64Ptr(100),
	})
	assert.NoError(t, err)
	assert.Equal(t, "image from Drive file file1 (200x100 pt)", result.Summary)

	image := backend.batches[0][0].InsertInlineImage
	assert.Equal(t, "https://drive.google.com/uc?id=file1", image.Uri)
	assert.Equal(t, 200.0, image.ObjectSize.Width.Magnitude)
	assert.Equal(t, 100.0, image.ObjectSize.Height.Magnitude)
}

func TestInsertElementImageWithoutResolver(t *testing.T) {
	s := NewDocsService(&fakeBackend{}, nil, nil)

	_, err := s.InsertElement("doc1", InsertElementParams{
		Kind:        ElementKindImage,
		Index:       4,
		ImageSource: "file1",
	})
	assert.Error(t, err)
}

func TestInsertElementImageResolverFailure(t *testing.T) {
	resolver := &fakeImageResolver{err: errors.New("not an image")}
	s := NewDocsService(&fakeBackend{}, nil, resolver)

	_, err := s.InsertElement("doc1", InsertElementParams{
		Kind:        ElementKindImage,
		Index:       4,
		ImageSource: "file1",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file1")
}

func TestInsertElementEmptyTable(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:    ElementKindTable,
		Index:   12,
		Rows:    2,
		Columns: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, "table (2x3)", result.Summary)

	table := backend.batches[0][0].InsertTable
	assert.Equal(t, int64(2), table.Rows)
	assert.Equal(t, int64(3), table.Columns)
}

func TestInsertElementTableWithDataDelegates(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	result, err := s.InsertElement("doc1", InsertElementParams{
		Kind:    ElementKindTable,
		Index:   12,
		Rows:    1,
		Columns: 2,
		Data:    [][]string{{"a", "b"}},
	})
	assert.NoError(t, err)
	assert.Equal(t, ElementKindTable, result.Kind)

	// One batch creates the table, a second fills the cells.
	assert.Len(t, backend.batches, 2)
}

func TestInsertElementUnsupportedKind(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.InsertElement("doc1", InsertElementParams{Kind: "chart", Index: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chart")
}

func TestInsertElementNegativeIndex(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.InsertElement("doc1", InsertElementParams{Kind: ElementKindText, Index: -1, Text: "x"})
	assert.Error(t, err)
}

func TestInsertElementsSequential(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	results, err := s.InsertElements("doc1", []InsertElementParams{
		{Kind: ElementKindText, Index: 1, Text: "one"},
		{Kind: ElementKindPageBreak, Index: 4},
	})
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, backend.batches, 2)
}

func TestInsertElementsFailureNamesItem(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	results, err := s.InsertElements("doc1", []InsertElementParams{
		{Kind: ElementKindText, Index: 1, Text: "one"},
		{Kind: "chart", Index: 4},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
	assert.Len(t, results, 1)
}

func TestInsertElementsEmpty(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.InsertElements("doc1", nil)
	assert.Error(t, err)
}
