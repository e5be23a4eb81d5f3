package service

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
)

const (
	headerTypeDefault = "DEFAULT"
	unitPoints        = "PT"

	bulletPresetUnordered = "BULLET_DISC_CIRCLE_SQUARE"
	bulletPresetNumbered  = "NUMBERED_DECIMAL_ALPHA_ROMAN"

	sectionBreakNextPage = "NEXT_PAGE"
)

// =========================================================================
// Google Docs Request Builders
//
// Pure constructors, one per primitive operation kind. Each validates only
// locally-knowable constraints; none of them sees document state, so index-0
// and boundary rules are enforced by the callers that sequence them.
// =========================================================================

// newRgbColor creates a new RgbColor struct with specified force fields.
func newRgbColor(r, g, b float64) *docs.RgbColor {
	return &docs.RgbColor{Red: r, Green: g, Blue: b, ForceSendFields: []string{"blue", "green", "red"}}
}

// newOptionalColor wraps an RgbColor in an OptionalColor struct.
func newOptionalColor(rgb *docs.RgbColor) *docs.OptionalColor {
	return &docs.OptionalColor{Color: &docs.Color{RgbColor: rgb}}
}

// newLocation creates a new Location struct. Index 0 must be force-sent or
// the service treats the field as absent.
func newLocation(index int64, segmentId string) *docs.Location {
	return &docs.Location{
		Index:           index,
		SegmentId:       segmentId,
		ForceSendFields: []string{"Index"},
	}
}

// newRange creates a new Range struct.
func newRange(start, end int64, segmentId string) *docs.Range {
	return &docs.Range{
		StartIndex:      start,
		EndIndex:        end,
		SegmentId:       segmentId,
		ForceSendFields: []string{"StartIndex"},
	}
}

// newTableCellLocation addresses one cell of the table anchored at tableStart.
func newTableCellLocation(tableStart, row, column int64) *docs.TableCellLocation {
	return &docs.TableCellLocation{
		TableStartLocation: newLocation(tableStart, ""),
		RowIndex:           row,
		ColumnIndex:        column,
		ForceSendFields:    []string{"RowIndex", "ColumnIndex"},
	}
}

// newInsertTextRequest creates a new InsertText request.
func newInsertTextRequest(text string, index int64, segmentId string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: newLocation(index, segmentId),
			Text:     text,
		},
	}
}

// newInsertTextAtEndRequest appends text at the end of a segment without
// knowing its current end index.
func newInsertTextAtEndRequest(text, segmentId string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			EndOfSegmentLocation: &docs.EndOfSegmentLocation{SegmentId: segmentId},
			Text:                 text,
		},
	}
}

// newDeleteContentRangeRequest creates a new DeleteContentRange request.
func newDeleteContentRangeRequest(start, end int64, segmentId string) *docs.Request {
	return &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: newRange(start, end, segmentId),
		},
	}
}

// newUpdateTextStyleRequest creates a new UpdateTextStyle request.
func newUpdateTextStyleRequest(style *docs.TextStyle, fields string, start, end int64, segmentId string) *docs.Request {
	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Fields:    fields,
			TextStyle: style,
			Range:     newRange(start, end, segmentId),
		},
	}
}

// newUpdateParagraphStyleRequest creates a new UpdateParagraphStyle request.
func newUpdateParagraphStyleRequest(style *docs.ParagraphStyle, fields string, start, end int64, segmentId string) *docs.Request {
	return &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Fields:         fields,
			ParagraphStyle: style,
			Range:          newRange(start, end, segmentId),
		},
	}
}

// newReplaceAllTextRequest creates a new ReplaceAllText request. The service
// performs the search itself; callers only consume the occurrence count from
// the reply.
func newReplaceAllTextRequest(find, replace string, matchCase bool) *docs.Request {
	return &docs.Request{
		ReplaceAllText: &docs.ReplaceAllTextRequest{
			ContainsText: &docs.SubstringMatchCriteria{
				Text:      find,
				MatchCase: matchCase,
			},
			ReplaceText: replace,
		},
	}
}

// newInsertTableRequest creates a new InsertTable request for an empty
// rows x columns table at index.
func newInsertTableRequest(index, rows, columns int64) *docs.Request {
	return &docs.Request{
		InsertTable: &docs.InsertTableRequest{
			Location: newLocation(index, ""),
			Rows:     rows,
			Columns:  columns,
		},
	}
}

// newInsertInlineImageRequest creates a new InsertInlineImage request.
// Width/height are optional; nil keeps the image's natural size.
func newInsertInlineImageRequest(index int64, uri string, width, height *float64) *docs.Request {
	req := &docs.InsertInlineImageRequest{
		Location: newLocation(index, ""),
		Uri:      uri,
	}

	if width != nil || height != nil {
		req.ObjectSize = &docs.Size{}
		if width != nil {
			req.ObjectSize.Width = &docs.Dimension{Magnitude: *width, Unit: unitPoints}
		}
		if height != nil {
			req.ObjectSize.Height = &docs.Dimension{Magnitude: *height, Unit: unitPoints}
		}
	}

	return &docs.Request{InsertInlineImage: req}
}

// newInsertPageBreakRequest creates a new InsertPageBreak request.
func newInsertPageBreakRequest(index int64) *docs.Request {
	return &docs.Request{
		InsertPageBreak: &docs.InsertPageBreakRequest{
			Location: newLocation(index, ""),
		},
	}
}

// newCreateBulletsRequest applies a bullet preset over [start, end). The
// range must include the paragraph's trailing newline or the preset does not
// take effect.
func newCreateBulletsRequest(start, end int64, preset string) *docs.Request {
	return &docs.Request{
		CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range:        newRange(start, end, ""),
			BulletPreset: preset,
		},
	}
}

// newInsertSectionBreakRequest creates a new InsertSectionBreak request.
func newInsertSectionBreakRequest(index int64, sectionType string) *docs.Request {
	return &docs.Request{
		InsertSectionBreak: &docs.InsertSectionBreakRequest{
			Location:    newLocation(index, ""),
			SectionType: sectionType,
		},
	}
}

// newCreateHeaderRequest creates a new CreateHeader request.
func newCreateHeaderRequest(headerType string, location *docs.Location) *docs.Request {
	return &docs.Request{
		CreateHeader: &docs.CreateHeaderRequest{
			Type:                 headerType,
			SectionBreakLocation: location,
		},
	}
}

// newCreateFooterRequest creates a new CreateFooter request.
func newCreateFooterRequest(footerType string, location *docs.Location) *docs.Request {
	return &docs.Request{
		CreateFooter: &docs.CreateFooterRequest{
			Type:                 footerType,
			SectionBreakLocation: location,
		},
	}
}

// newDeleteHeaderRequest creates a new DeleteHeader request.
func newDeleteHeaderRequest(headerID string) *docs.Request {
	return &docs.Request{
		DeleteHeader: &docs.DeleteHeaderRequest{HeaderId: headerID},
	}
}

// newDeleteFooterRequest creates a new DeleteFooter request.
func newDeleteFooterRequest(footerID string) *docs.Request {
	return &docs.Request{
		DeleteFooter: &docs.DeleteFooterRequest{FooterId: footerID},
	}
}

// newUpdateDocumentStyleRequest creates a new UpdateDocumentStyle request.
func newUpdateDocumentStyleRequest(style *docs.DocumentStyle, fields string) *docs.Request {
	return &docs.Request{
		UpdateDocumentStyle: &docs.UpdateDocumentStyleRequest{
			DocumentStyle: style,
			Fields:        fields,
		},
	}
}

// newInsertTableRowRequest inserts a row below (or above) the referenced cell.
func newInsertTableRowRequest(tableStart, row int64, below bool) *docs.Request {
	return &docs.Request{
		InsertTableRow: &docs.InsertTableRowRequest{
			TableCellLocation: newTableCellLocation(tableStart, row, 0),
			InsertBelow:       below,
			ForceSendFields:   []string{"InsertBelow"},
		},
	}
}

// newInsertTableColumnRequest inserts a column right (or left) of the
// referenced cell.
func newInsertTableColumnRequest(tableStart, column int64, right bool) *docs.Request {
	return &docs.Request{
		InsertTableColumn: &docs.InsertTableColumnRequest{
			TableCellLocation: newTableCellLocation(tableStart, 0, column),
			InsertRight:       right,
			ForceSendFields:   []string{"InsertRight"},
		},
	}
}

func newDeleteTableRowRequest(tableStart, row int64) *docs.Request {
	return &docs.Request{
		DeleteTableRow: &docs.DeleteTableRowRequest{
			TableCellLocation: newTableCellLocation(tableStart, row, 0),
		},
	}
}

func newDeleteTableColumnRequest(tableStart, column int64) *docs.Request {
	return &docs.Request{
		DeleteTableColumn: &docs.DeleteTableColumnRequest{
			TableCellLocation: newTableCellLocation(tableStart, 0, column),
		},
	}
}

// newMergeTableCellsRequest merges the rowSpan x columnSpan block anchored at
// (row, column).
func newMergeTableCellsRequest(tableStart, row, column, rowSpan, columnSpan int64) *docs.Request {
	return &docs.Request{
		MergeTableCells: &docs.MergeTableCellsRequest{
			TableRange: &docs.TableRange{
				TableCellLocation: newTableCellLocation(tableStart, row, column),
				RowSpan:           rowSpan,
				ColumnSpan:        columnSpan,
			},
		},
	}
}

// bulletPresetForListType maps a caller-facing list type to the service's
// preset id.
func bulletPresetForListType(listType string) (string, error) {
	switch strings.ToUpper(listType) {
	case "UNORDERED", "BULLET":
		return bulletPresetUnordered, nil
	case "ORDERED", "NUMBERED":
		return bulletPresetNumbered, nil
	default:
		return "", fmt.Errorf("unsupported list type %q", listType)
	}
}

// namedStyleTypeForLabel maps a caller-facing paragraph style label to the
// canonical named style enum.
func namedStyleTypeForLabel(label string) (string, error) {
	switch v := strings.ToUpper(label); v {
	case "NORMAL_TEXT", "TITLE", "SUBTITLE",
		"HEADING_1", "HEADING_2", "HEADING_3", "HEADING_4", "HEADING_5", "HEADING_6":
		return v, nil
	default:
		return "", fmt.Errorf("unsupported named style %q", label)
	}
}
