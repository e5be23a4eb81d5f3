package service

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
)

const (
	ElementKindText         = "text"
	ElementKindList         = "list"
	ElementKindTable        = "table"
	ElementKindPageBreak    = "page_break"
	ElementKindSectionBreak = "section_break"
	ElementKindImage        = "image"
)

// ImageResolver turns a bare Drive file ID into a URI the Docs renderer can
// fetch. URL sources bypass it entirely.
type ImageResolver interface {
	ImageURI(fileID string) (string, error)
}

type InsertElementParams struct {
	Kind  string `json:"kind"`
	Index int64  `json:"index"`

	Text       string           `json:"text,omitempty"`
	Style      *TextStyleParams `json:"style,omitempty"`
	NamedStyle string           `json:"namedStyle,omitempty"`

	ListType string `json:"listType,omitempty"`

	Rows        int64      `json:"rows,omitempty"`
	Columns     int64      `json:"columns,omitempty"`
	Data        [][]string `json:"data,omitempty"`
	BoldHeaders *bool      `json:"boldHeaders,omitempty"`

	ImageSource string   `json:"imageSource,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
}

type InsertElementResult struct {
	DocumentID string `json:"documentId"`
	Kind       string `json:"kind"`
	Index      int64  `json:"index"`
	Summary    string `json:"summary"`
	Requests   int    `json:"requests"`
	Replies    int    `json:"replies"`
	Link       string `json:"link"`
}

// compileListInsert builds the two requests a list item needs. The bullet
// range must cover the trailing newline or the preset does not attach, so
// its length is always one more than the text's.
func compileListInsert(text string, index int64, listType string) ([]*docs.Request, error) {
	preset, err := bulletPresetForListType(listType)
	if err != nil {
		return nil, err
	}
	return []*docs.Request{
		newInsertTextRequest(text+"\n", index, ""),
		newCreateBulletsRequest(index, index+utf16Len(text)+1, preset),
	}, nil
}

// InsertElement places a structural element at the given position. Indexes
// are in UTF-16 code units; index 0 is the section marker, so requests for
// it land at 1 instead. Table insertion with cell data runs through the
// multi-phase table path rather than a single request.
func (s *DocsService) InsertElement(documentID string, p InsertElementParams) (*InsertElementResult, error) {
	if p.Index < 0 {
		return nil, fmt.Errorf("index must not be negative")
	}
	index := p.Index
	if index == 0 {
		index = 1
	}

	var (
		requests []*docs.Request
		summary  string
		err      error
	)

	switch p.Kind {
	case ElementKindText:
		if p.Text == "" {
			return nil, fmt.Errorf("text is required for %s insertion", ElementKindText)
		}
		requests = append(requests, newInsertTextRequest(p.Text, index, ""))
		if !p.Style.isZero() {
			style, fields := newTextStyleFromParams(p.Style)
			requests = append(requests, newUpdateTextStyleRequest(style, fields, index, index+utf16Len(p.Text), ""))
		}
		summary = fmt.Sprintf("text (%d units)", utf16Len(p.Text))
		if p.NamedStyle != "" {
			styleType, err := namedStyleTypeForLabel(p.NamedStyle)
			if err != nil {
				return nil, err
			}
			// Paragraph styles attach per paragraph, so covering the inserted
			// range reaches every paragraph the text landed in.
			paragraphStyle := &docs.ParagraphStyle{NamedStyleType: styleType}
			requests = append(requests, newUpdateParagraphStyleRequest(paragraphStyle, "namedStyleType", index, index+utf16Len(p.Text), ""))
			summary = fmt.Sprintf("%s text (%d units)", strings.ToLower(styleType), utf16Len(p.Text))
		}

	case ElementKindList:
		text := p.Text
		if text == "" {
			text = "List item"
		}
		requests, err = compileListInsert(text, index, p.ListType)
		if err != nil {
			return nil, err
		}
		summary = fmt.Sprintf("%s list", strings.ToLower(p.ListType))

	case ElementKindPageBreak:
		requests = append(requests, newInsertPageBreakRequest(index))
		summary = "page break"

	case ElementKindSectionBreak:
		requests = append(requests, newInsertSectionBreakRequest(index, sectionBreakNextPage))
		summary = "section break"

	case ElementKindTable:
		if p.Rows < 1 || p.Columns < 1 {
			return nil, fmt.Errorf("rows and columns are required for %s insertion", ElementKindTable)
		}
		if len(p.Data) > 0 {
			tableRes, err := s.CreateTableWithData(documentID, CreateTableParams{
				Index:       &p.Index,
				Rows:        p.Rows,
				Columns:     p.Columns,
				Data:        p.Data,
				BoldHeaders: p.BoldHeaders,
			})
			if err != nil {
				return nil, err
			}
			return &InsertElementResult{
				DocumentID: documentID,
				Kind:       ElementKindTable,
				Index:      tableRes.Index,
				Summary:    tableRes.Summary,
				Requests:   tableRes.Requests,
				Replies:    tableRes.Replies,
				Link:       documentLink(documentID),
			}, nil
		}
		requests = append(requests, newInsertTableRequest(index, p.Rows, p.Columns))
		summary = fmt.Sprintf("table (%dx%d)", p.Rows, p.Columns)

	case ElementKindImage:
		if p.ImageSource == "" {
			return nil, fmt.Errorf("imageSource is required for %s insertion", ElementKindImage)
		}
		uri, description, err := s.resolveImageURI(p.ImageSource)
		if err != nil {
			return nil, err
		}
		requests = append(requests, newInsertInlineImageRequest(index, uri, p.Width, p.Height))
		summary = description
		if p.Width != nil || p.Height != nil {
			summary += fmt.Sprintf(" (%sx%s pt)", dimensionLabel(p.Width), dimensionLabel(p.Height))
		}

	default:
		return nil, fmt.Errorf("unsupported element kind %q", p.Kind)
	}

	res, err := s.backend.BatchUpdate(documentID, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", p.Kind, err)
	}
	s.audit(documentID, "insert_"+p.Kind, len(requests), res)

	result := &InsertElementResult{
		DocumentID: documentID,
		Kind:       p.Kind,
		Index:      index,
		Summary:    summary,
		Requests:   len(requests),
		Link:       documentLink(documentID),
	}
	if res != nil {
		result.Replies = len(res.Replies)
	}
	return result, nil
}

// InsertElements applies several insertions first to last. Every item is its
// own batch, so each insertion shifts the indexes of everything after it; an
// item's index addresses the document as the preceding items left it. On
// failure the error names the failing item and earlier insertions stay
// applied.
func (s *DocsService) InsertElements(documentID string, items []InsertElementParams) ([]*InsertElementResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("items are required")
	}

	results := make([]*InsertElementResult, 0, len(items))
	for i, item := range items {
		result, err := s.InsertElement(documentID, item)
		if err != nil {
			return results, fmt.Errorf("item %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// resolveImageURI decides whether the source is already fetchable. Anything
// without an http(s) scheme is treated as a Drive file ID.
func (s *DocsService) resolveImageURI(source string) (string, string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source, "image from URL", nil
	}
	if s.imageResolver == nil {
		return "", "", fmt.Errorf("image source %q is not a URL and no Drive resolver is configured", source)
	}
	uri, err := s.imageResolver.ImageURI(source)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve Drive image %s: %w", source, err)
	}
	return uri, fmt.Sprintf("image from Drive file %s", source), nil
}

func dimensionLabel(v *float64) string {
	if v == nil {
		return "auto"
	}
	return fmt.Sprintf("%g", *v)
}
