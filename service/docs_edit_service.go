package service

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
)

const (
	TextOperationEdit        = "edit_text"
	TextOperationFormat      = "format_text"
	TextOperationAppend      = "append_text"
	TextOperationFindReplace = "find_replace"
)

type RgbParams struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

type TextStyleParams struct {
	Bold            *bool      `json:"bold,omitempty"`
	Italic          *bool      `json:"italic,omitempty"`
	Underline       *bool      `json:"underline,omitempty"`
	FontSize        *float64   `json:"fontSize,omitempty"`
	FontFamily      string     `json:"fontFamily,omitempty"`
	ForegroundColor *RgbParams `json:"foregroundColor,omitempty"`
	LinkURL         string     `json:"linkUrl,omitempty"`
}

func (p *TextStyleParams) isZero() bool {
	return p == nil ||
		(p.Bold == nil && p.Italic == nil && p.Underline == nil &&
			p.FontSize == nil && p.FontFamily == "" && p.ForegroundColor == nil && p.LinkURL == "")
}

type ModifyTextParams struct {
	Operation string `json:"operation"`

	StartIndex *int64  `json:"startIndex,omitempty"`
	EndIndex   *int64  `json:"endIndex,omitempty"`
	Text       *string `json:"text,omitempty"`

	Style *TextStyleParams `json:"style,omitempty"`

	FindText    string `json:"findText,omitempty"`
	ReplaceText string `json:"replaceText,omitempty"`
	MatchCase   bool   `json:"matchCase,omitempty"`
}

type ModifyTextResult struct {
	DocumentID string `json:"documentId"`
	Operation  string `json:"operation"`
	Summary    string `json:"summary"`

	Requests int `json:"requests"`
	Replies  int `json:"replies"`

	Occurrences  int64 `json:"occurrences,omitempty"`
	AppliedStart int64 `json:"appliedStart,omitempty"`
	AppliedEnd   int64 `json:"appliedEnd,omitempty"`

	Link string `json:"link"`
}

// textEditPlan is the compiled realization of one edit_text intent: the
// primitive requests in submission order plus the range the affected text
// occupies once the whole batch has applied.
type textEditPlan struct {
	requests []*docs.Request
	summary  []string

	start int64
	end   int64
}

// compileTextEdit sequences insert/delete/style primitives for an
// insert-or-replace intent. All index arithmetic is in UTF-16 code units.
//
// Position 0 holds the document's first section marker and can be neither
// deleted nor inserted at. An ordinary replacement deletes first and inserts
// at the now-shrunk start, which needs no index correction. A replacement
// whose range starts at 0 cannot do that, so it inserts the new text at 1
// and then deletes the original range shifted forward by the inserted
// length.
func compileTextEdit(p ModifyTextParams) (*textEditPlan, error) {
	if p.StartIndex == nil {
		return nil, fmt.Errorf("startIndex is required")
	}

	start := *p.StartIndex
	if start < 0 {
		return nil, fmt.Errorf("startIndex must not be negative")
	}

	hasEnd := p.EndIndex != nil
	var end int64
	if hasEnd {
		end = *p.EndIndex
	}

	hasStyle := !p.Style.isZero()
	if p.Text == nil && !hasStyle {
		return nil, fmt.Errorf("either text or style must be provided")
	}
	if hasStyle {
		if p.Style.FontSize != nil && *p.Style.FontSize <= 0 {
			return nil, fmt.Errorf("fontSize must be positive")
		}
		if !hasEnd {
			return nil, fmt.Errorf("endIndex is required when style is given")
		}
		if end <= start {
			return nil, fmt.Errorf("startIndex must be less than endIndex")
		}
	}

	plan := &textEditPlan{}

	var newLen int64
	if p.Text != nil {
		newLen = utf16Len(*p.Text)
	}

	switch {
	case p.Text != nil && hasEnd && end > start:
		// Replacement.
		if start == 0 {
			if newLen > 0 {
				plan.requests = append(plan.requests, newInsertTextRequest(*p.Text, 1, ""))
			}
			plan.requests = append(plan.requests, newDeleteContentRangeRequest(1+newLen, end+newLen, ""))
			plan.start, plan.end = 1, 1+newLen
		} else {
			plan.requests = append(plan.requests, newDeleteContentRangeRequest(start, end, ""))
			if newLen > 0 {
				plan.requests = append(plan.requests, newInsertTextRequest(*p.Text, start, ""))
			}
			plan.start, plan.end = start, start+newLen
		}
		plan.summary = append(plan.summary, fmt.Sprintf("replaced [%d, %d)", start, end))

	case p.Text != nil:
		// Insertion. Position 0 is non-insertable content space.
		index := start
		if index == 0 {
			index = 1
		}
		if newLen == 0 {
			return nil, fmt.Errorf("text must not be empty for insertion")
		}
		plan.requests = append(plan.requests, newInsertTextRequest(*p.Text, index, ""))
		plan.start, plan.end = index, index+newLen
		plan.summary = append(plan.summary, fmt.Sprintf("inserted %d units at %d", newLen, index))

	default:
		// Style only: the caller-supplied range is the target.
		plan.start, plan.end = start, end
	}

	if hasStyle {
		// Style the text's actual landing range, not the caller-supplied one.
		formatStart, formatEnd := plan.start, plan.end
		if formatStart == 0 {
			formatStart = 1
		}
		if formatEnd <= formatStart {
			formatEnd = formatStart + 1
		}

		style, fields := newTextStyleFromParams(p.Style)
		plan.requests = append(plan.requests, newUpdateTextStyleRequest(style, fields, formatStart, formatEnd, ""))
		plan.start, plan.end = formatStart, formatEnd
		plan.summary = append(plan.summary, fmt.Sprintf("styled [%d, %d): %s", formatStart, formatEnd, fields))
	}

	return plan, nil
}

// newTextStyleFromParams converts caller params into a TextStyle plus the
// update's field mask. Only fields the caller set are masked in, so an
// absent flag never clears existing styling.
func newTextStyleFromParams(p *TextStyleParams) (*docs.TextStyle, string) {
	style := &docs.TextStyle{}
	var fields []string

	if p.Bold != nil {
		style.Bold = *p.Bold
		style.ForceSendFields = append(style.ForceSendFields, "Bold")
		fields = append(fields, "bold")
	}
	if p.Italic != nil {
		style.Italic = *p.Italic
		style.ForceSendFields = append(style.ForceSendFields, "Italic")
		fields = append(fields, "italic")
	}
	if p.Underline != nil {
		style.Underline = *p.Underline
		style.ForceSendFields = append(style.ForceSendFields, "Underline")
		fields = append(fields, "underline")
	}
	if p.FontSize != nil {
		style.FontSize = &docs.Dimension{Magnitude: *p.FontSize, Unit: unitPoints}
		fields = append(fields, "fontSize")
	}
	if p.FontFamily != "" {
		style.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: p.FontFamily}
		fields = append(fields, "weightedFontFamily")
	}
	if p.ForegroundColor != nil {
		style.ForegroundColor = newOptionalColor(newRgbColor(p.ForegroundColor.Red, p.ForegroundColor.Green, p.ForegroundColor.Blue))
		fields = append(fields, "foregroundColor")
	}
	if p.LinkURL != "" {
		style.Link = &docs.Link{Url: p.LinkURL}
		fields = append(fields, "link")
	}

	return style, strings.Join(fields, ",")
}

// ModifyText realizes one human-level text intent against a document.
// Validation happens before any request is built; nothing reaches the
// network on a rejected call.
func (s *DocsService) ModifyText(documentID string, p ModifyTextParams) (*ModifyTextResult, error) {
	switch p.Operation {
	case TextOperationEdit, TextOperationFormat:
		if p.Operation == TextOperationFormat && p.Style.isZero() {
			return nil, fmt.Errorf("style is required for %s", TextOperationFormat)
		}

		plan, err := compileTextEdit(p)
		if err != nil {
			return nil, err
		}

		res, err := s.backend.BatchUpdate(documentID, plan.requests)
		if err != nil {
			return nil, fmt.Errorf("failed to edit text: %w", err)
		}
		s.audit(documentID, p.Operation, len(plan.requests), res)

		result := &ModifyTextResult{
			DocumentID:   documentID,
			Operation:    p.Operation,
			Summary:      strings.Join(plan.summary, "; "),
			Requests:     len(plan.requests),
			AppliedStart: plan.start,
			AppliedEnd:   plan.end,
			Link:         documentLink(documentID),
		}
		if res != nil {
			result.Replies = len(res.Replies)
		}
		return result, nil

	case TextOperationAppend:
		// End-of-segment insertion needs no document read: the backend
		// resolves the final index, so stale client indexes cannot corrupt it.
		if p.Text == nil || *p.Text == "" {
			return nil, fmt.Errorf("text is required for %s", TextOperationAppend)
		}

		requests := []*docs.Request{newInsertTextAtEndRequest(*p.Text, "")}
		res, err := s.backend.BatchUpdate(documentID, requests)
		if err != nil {
			return nil, fmt.Errorf("failed to append text: %w", err)
		}
		s.audit(documentID, TextOperationAppend, len(requests), res)

		result := &ModifyTextResult{
			DocumentID: documentID,
			Operation:  TextOperationAppend,
			Summary:    fmt.Sprintf("appended %d units at end of body", utf16Len(*p.Text)),
			Requests:   len(requests),
			Link:       documentLink(documentID),
		}
		if res != nil {
			result.Replies = len(res.Replies)
		}
		return result, nil

	case TextOperationFindReplace:
		if p.FindText == "" {
			return nil, fmt.Errorf("findText is required for %s", TextOperationFindReplace)
		}

		requests := []*docs.Request{newReplaceAllTextRequest(p.FindText, p.ReplaceText, p.MatchCase)}
		res, err := s.backend.BatchUpdate(documentID, requests)
		if err != nil {
			return nil, fmt.Errorf("failed to replace text: %w", err)
		}
		s.audit(documentID, TextOperationFindReplace, len(requests), res)

		result := &ModifyTextResult{
			DocumentID: documentID,
			Operation:  TextOperationFindReplace,
			Requests:   len(requests),
			Link:       documentLink(documentID),
		}
		if res != nil {
			result.Replies = len(res.Replies)
			if len(res.Replies) > 0 && res.Replies[0].ReplaceAllText != nil {
				result.Occurrences = res.Replies[0].ReplaceAllText.OccurrencesChanged
			}
		}
		result.Summary = fmt.Sprintf("replaced %d occurrence(s) of %q", result.Occurrences, p.FindText)
		return result, nil

	default:
		return nil, fmt.Errorf("unsupported text operation %q", p.Operation)
	}
}
