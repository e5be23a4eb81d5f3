package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/docs/v1"
)

func int64Ptr(v int64) *int64 { return &v }

func stringPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func float64Ptr(v float64) *float64 { return &v }

func TestCompileTextEditReplacement(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(5),
		EndIndex:   int64Ptr(10),
		Text:       stringPtr("hi"),
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 2)
	assert.NotNil(t, plan.requests[0].DeleteContentRange)
	assert.Equal(t, int64(5), plan.requests[0].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(10), plan.requests[0].DeleteContentRange.Range.EndIndex)
	assert.NotNil(t, plan.requests[1].InsertText)
	assert.Equal(t, "hi", plan.requests[1].InsertText.Text)
	assert.Equal(t, int64(5), plan.requests[1].InsertText.Location.Index)

	assert.Equal(t, int64(5), plan.start)
	assert.Equal(t, int64(7), plan.end)
}

func TestCompileTextEditReplacementFromZero(t *testing.T) {
	// Position 0 cannot be deleted, so the insert goes first at 1 and the
	// delete range shifts forward by the inserted length.
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(0),
		EndIndex:   int64Ptr(10),
		Text:       stringPtr("hi"),
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 2)
	assert.NotNil(t, plan.requests[0].InsertText)
	assert.Equal(t, "hi", plan.requests[0].InsertText.Text)
	assert.Equal(t, int64(1), plan.requests[0].InsertText.Location.Index)
	assert.NotNil(t, plan.requests[1].DeleteContentRange)
	assert.Equal(t, int64(3), plan.requests[1].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(12), plan.requests[1].DeleteContentRange.Range.EndIndex)

	assert.Equal(t, int64(1), plan.start)
	assert.Equal(t, int64(3), plan.end)
}

func TestCompileTextEditDeletionFromZero(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(0),
		EndIndex:   int64Ptr(10),
		Text:       stringPtr(""),
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 1)
	assert.NotNil(t, plan.requests[0].DeleteContentRange)
	assert.Equal(t, int64(1), plan.requests[0].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(10), plan.requests[0].DeleteContentRange.Range.EndIndex)
}

func TestCompileTextEditReplacementCountsUtf16Units(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(0),
		EndIndex:   int64Ptr(4),
		Text:       stringPtr("🎸"),
	})
	assert.NoError(t, err)

	assert.Equal(t, int64(3), plan.requests[1].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(6), plan.requests[1].DeleteContentRange.Range.EndIndex)
	assert.Equal(t, int64(3), plan.end)
}

func TestCompileTextEditInsertion(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(7),
		Text:       stringPtr("abc"),
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 1)
	assert.Equal(t, int64(7), plan.requests[0].InsertText.Location.Index)
	assert.Equal(t, int64(7), plan.start)
	assert.Equal(t, int64(10), plan.end)
}

func TestCompileTextEditInsertionAtZeroLandsAtOne(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(0),
		Text:       stringPtr("abc"),
	})
	assert.NoError(t, err)

	assert.Equal(t, int64(1), plan.requests[0].InsertText.Location.Index)
	assert.Equal(t, int64(1), plan.start)
	assert.Equal(t, int64(4), plan.end)
}

func TestCompileTextEditStyleOnly(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(5),
		EndIndex:   int64Ptr(9),
		Style:      &TextStyleParams{Bold: boolPtr(true)},
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 1)
	update := plan.requests[0].UpdateTextStyle
	assert.NotNil(t, update)
	assert.Equal(t, "bold", update.Fields)
	assert.True(t, update.TextStyle.Bold)
	assert.Equal(t, int64(5), update.Range.StartIndex)
	assert.Equal(t, int64(9), update.Range.EndIndex)
}

func TestCompileTextEditReplacementWithStyleCoversLandingRange(t *testing.T) {
	plan, err := compileTextEdit(ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(0),
		EndIndex:   int64Ptr(10),
		Text:       stringPtr("hi"),
		Style:      &TextStyleParams{Bold: boolPtr(true)},
	})
	assert.NoError(t, err)

	assert.Len(t, plan.requests, 3)
	update := plan.requests[2].UpdateTextStyle
	assert.NotNil(t, update)
	assert.Equal(t, int64(1), update.Range.StartIndex)
	assert.Equal(t, int64(3), update.Range.EndIndex)
}

func TestCompileTextEditValidation(t *testing.T) {
	tests := []struct {
		name   string
		params ModifyTextParams
	}{
		{
			name:   "missing startIndex",
			params: ModifyTextParams{Operation: TextOperationEdit, Text: stringPtr("x")},
		},
		{
			name:   "negative startIndex",
			params: ModifyTextParams{Operation: TextOperationEdit, StartIndex: int64Ptr(-1), Text: stringPtr("x")},
		},
		{
			name:   "no text and no style",
			params: ModifyTextParams{Operation: TextOperationEdit, StartIndex: int64Ptr(1)},
		},
		{
			name:   "empty insertion",
			params: ModifyTextParams{Operation: TextOperationEdit, StartIndex: int64Ptr(1), Text: stringPtr("")},
		},
		{
			name: "style without endIndex",
			params: ModifyTextParams{
				Operation:  TextOperationEdit,
				StartIndex: int64Ptr(1),
				Style:      &TextStyleParams{Bold: boolPtr(true)},
			},
		},
		{
			name: "style with inverted range",
			params: ModifyTextParams{
				Operation:  TextOperationEdit,
				StartIndex: int64Ptr(5),
				EndIndex:   int64Ptr(5),
				Style:      &TextStyleParams{Bold: boolPtr(true)},
			},
		},
		{
			name: "non-positive font size",
			params: ModifyTextParams{
				Operation:  TextOperationEdit,
				StartIndex: int64Ptr(1),
				EndIndex:   int64Ptr(5),
				Style:      &TextStyleParams{FontSize: float64Ptr(0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileTextEdit(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestNewTextStyleFromParamsMasksOnlySetFields(t *testing.T) {
	style, fields := newTextStyleFromParams(&TextStyleParams{
		Bold:     boolPtr(false),
		Italic:   boolPtr(true),
		FontSize: float64Ptr(14),
	})

	assert.Equal(t, "bold,italic,fontSize", fields)
	assert.False(t, style.Bold)
	assert.Contains(t, style.ForceSendFields, "Bold")
	assert.True(t, style.Italic)
	assert.Equal(t, 14.0, style.FontSize.Magnitude)
	assert.Equal(t, unitPoints, style.FontSize.Unit)
	assert.Nil(t, style.WeightedFontFamily)
}

func TestNewTextStyleFromParamsLinkAndColor(t *testing.T) {
	style, fields := newTextStyleFromParams(&TextStyleParams{
		ForegroundColor: &RgbParams{Red: 1, Green: 0.5, Blue: 0},
		LinkURL:         "https://example.com",
	})

	assert.Equal(t, "foregroundColor,link", fields)
	assert.Equal(t, 1.0, style.ForegroundColor.Color.RgbColor.Red)
	assert.Equal(t, 0.5, style.ForegroundColor.Color.RgbColor.Green)
	assert.Equal(t, "https://example.com", style.Link.Url)
}

func TestModifyTextEdit(t *testing.T) {
	backend := &fakeBackend{
		responses: []*docs.BatchUpdateDocumentResponse{
			{Replies: []*docs.Response{{}, {}}},
		},
	}
	s, operationLog := newTestDocsService(backend)

	result, err := s.ModifyText("doc1", ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(5),
		EndIndex:   int64Ptr(10),
		Text:       stringPtr("hi"),
	})
	assert.NoError(t, err)

	assert.Equal(t, "doc1", result.DocumentID)
	assert.Equal(t, TextOperationEdit, result.Operation)
	assert.Equal(t, 2, result.Requests)
	assert.Equal(t, 2, result.Replies)
	assert.Equal(t, int64(5), result.AppliedStart)
	assert.Equal(t, int64(7), result.AppliedEnd)
	assert.Equal(t, "https://docs.google.com/document/d/doc1/edit", result.Link)

	assert.Len(t, backend.batches, 1)
	assert.Len(t, operationLog.operations, 1)
	assert.Equal(t, TextOperationEdit, operationLog.operations[0].Kind)
}

func TestModifyTextEditRejectsBeforeSubmission(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	_, err := s.ModifyText("doc1", ModifyTextParams{
		Operation:  TextOperationEdit,
		StartIndex: int64Ptr(1),
	})
	assert.Error(t, err)
	assert.Empty(t, backend.batches)
}

func TestModifyTextFormat(t *testing.T) {
	backend := &fakeBackend{}
	s, operationLog := newTestDocsService(backend)

	result, err := s.ModifyText("doc1", ModifyTextParams{
		Operation:  TextOperationFormat,
		StartIndex: int64Ptr(5),
		EndIndex:   int64Ptr(9),
		Style:      &TextStyleParams{Italic: boolPtr(true)},
	})
	assert.NoError(t, err)

	assert.Equal(t, TextOperationFormat, result.Operation)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, int64(5), result.AppliedStart)
	assert.Equal(t, int64(9), result.AppliedEnd)

	update := backend.batches[0][0].UpdateTextStyle
	assert.NotNil(t, update)
	assert.Equal(t, "italic", update.Fields)

	assert.Equal(t, TextOperationFormat, operationLog.operations[0].Kind)
}

func TestModifyTextFormatRequiresStyle(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	_, err := s.ModifyText("doc1", ModifyTextParams{
		Operation:  TextOperationFormat,
		StartIndex: int64Ptr(5),
		EndIndex:   int64Ptr(9),
	})
	assert.Error(t, err)
	assert.Empty(t, backend.batches)
}

func TestModifyTextAppend(t *testing.T) {
	backend := &fakeBackend{}
	s, operationLog := newTestDocsService(backend)

	result, err := s.ModifyText("doc1", ModifyTextParams{
		Operation: TextOperationAppend,
		Text:      stringPtr("PS: see appendix.\n"),
	})
	assert.NoError(t, err)

	assert.Equal(t, TextOperationAppend, result.Operation)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, "appended 18 units at end of body", result.Summary)

	insert := backend.batches[0][0].InsertText
	assert.NotNil(t, insert)
	assert.Equal(t, "PS: see appendix.\n", insert.Text)
	assert.Nil(t, insert.Location)
	assert.NotNil(t, insert.EndOfSegmentLocation)
	assert.Equal(t, "", insert.EndOfSegmentLocation.SegmentId)

	assert.Len(t, operationLog.operations, 1)
	assert.Equal(t, TextOperationAppend, operationLog.operations[0].Kind)
}

func TestModifyTextAppendRequiresText(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestDocsService(backend)

	_, err := s.ModifyText("doc1", ModifyTextParams{Operation: TextOperationAppend})
	assert.Error(t, err)
	assert.Empty(t, backend.batches)
}

func TestModifyTextFindReplace(t *testing.T) {
	backend := &fakeBackend{
		responses: []*docs.BatchUpdateDocumentResponse{
			{Replies: []*docs.Response{
				{ReplaceAllText: &docs.ReplaceAllTextResponse{OccurrencesChanged: 3}},
			}},
		},
	}
	s, _ := newTestDocsService(backend)

	result, err := s.ModifyText("doc1", ModifyTextParams{
		Operation:   TextOperationFindReplace,
		FindText:    "colour",
		ReplaceText: "color",
		MatchCase:   true,
	})
	assert.NoError(t, err)

	assert.Equal(t, int64(3), result.Occurrences)
	assert.Equal(t, `replaced 3 occurrence(s) of "colour"`, result.Summary)

	replace := backend.batches[0][0].ReplaceAllText
	assert.NotNil(t, replace)
	assert.Equal(t, "colour", replace.ContainsText.Text)
	assert.True(t, replace.ContainsText.MatchCase)
	assert.Equal(t, "color", replace.ReplaceText)
}

func TestModifyTextFindReplaceRequiresFindText(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.ModifyText("doc1", ModifyTextParams{Operation: TextOperationFindReplace})
	assert.Error(t, err)
}

func TestModifyTextUnsupportedOperation(t *testing.T) {
	s, _ := newTestDocsService(&fakeBackend{})

	_, err := s.ModifyText("doc1", ModifyTextParams{Operation: "shuffle"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shuffle")
}
