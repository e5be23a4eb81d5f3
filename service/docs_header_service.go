package service

import (
	"fmt"

	"google.golang.org/api/docs/v1"
)

const (
	SectionKindHeader = "header"
	SectionKindFooter = "footer"
)

const (
	HeaderFooterDefault   = "DEFAULT"
	HeaderFooterFirstPage = "FIRST_PAGE_ONLY"
	HeaderFooterEvenPage  = "EVEN_PAGE"
)

type WriteSectionParams struct {
	Section string `json:"section"`
	Variant string `json:"variant,omitempty"`
	Content string `json:"content"`
}

type WriteSectionResult struct {
	DocumentID string `json:"documentId"`
	Section    string `json:"section"`
	Variant    string `json:"variant"`
	SectionID  string `json:"sectionId"`
	Created    bool   `json:"created,omitempty"`
	Requests   int    `json:"requests"`
	Link       string `json:"link"`
}

// normalizeSection validates the section kind and resolves the variant,
// defaulting to DEFAULT.
func normalizeSection(section, variant string) (string, error) {
	if section != SectionKindHeader && section != SectionKindFooter {
		return "", fmt.Errorf("section must be %q or %q", SectionKindHeader, SectionKindFooter)
	}
	if variant == "" {
		variant = HeaderFooterDefault
	}
	switch variant {
	case HeaderFooterDefault, HeaderFooterFirstPage, HeaderFooterEvenPage:
		return variant, nil
	default:
		return "", fmt.Errorf("unsupported %s variant %q", section, variant)
	}
}

// WriteHeaderFooter upserts a header or footer section and writes content
// into it. The flow is get -> locate the requested variant -> create when
// absent (the reply carries the new section id) -> clear leftover text ->
// insert.
//
// Sections address their own index space via segment ids, with the same
// reserved position 0 as the body, so writes land at index 1 and clears
// start there too.
func (s *DocsService) WriteHeaderFooter(documentID string, p WriteSectionParams) (*WriteSectionResult, error) {
	variant, err := normalizeSection(p.Section, p.Variant)
	if err != nil {
		return nil, err
	}
	if p.Content == "" {
		return nil, fmt.Errorf("content is required for %s update", p.Section)
	}

	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	sectionID := locateSection(doc, p.Section, variant)
	created := false
	totalRequests := 0

	if sectionID == "" {
		createRequests := compileSectionCreate(p.Section, variant)
		res, err := s.backend.BatchUpdate(documentID, createRequests)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", p.Section, err)
		}
		sectionID = createdSectionID(res, p.Section)
		if sectionID == "" {
			return nil, fmt.Errorf("service returned no id for the created %s", p.Section)
		}
		created = true
		totalRequests += len(createRequests)
	}

	var requests []*docs.Request
	if !created {
		if end := sectionContentEnd(doc, p.Section, sectionID); end-1 > 1 {
			requests = append(requests, newDeleteContentRangeRequest(1, end-1, sectionID))
		}
	}
	requests = append(requests, newInsertTextRequest(p.Content, 1, sectionID))

	res, err := s.backend.BatchUpdate(documentID, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", p.Section, err)
	}
	totalRequests += len(requests)
	s.audit(documentID, "write_"+p.Section, totalRequests, res)

	return &WriteSectionResult{
		DocumentID: documentID,
		Section:    p.Section,
		Variant:    variant,
		SectionID:  sectionID,
		Created:    created,
		Requests:   totalRequests,
		Link:       documentLink(documentID),
	}, nil
}

type RemoveSectionParams struct {
	Section string `json:"section"`
	Variant string `json:"variant,omitempty"`
}

type RemoveSectionResult struct {
	DocumentID string `json:"documentId"`
	Section    string `json:"section"`
	Variant    string `json:"variant"`
	SectionID  string `json:"sectionId"`
	Requests   int    `json:"requests"`
	Link       string `json:"link"`
}

// RemoveHeaderFooter deletes a header or footer section outright. A missing
// section is an error rather than a no-op, so callers learn the document
// never had one.
func (s *DocsService) RemoveHeaderFooter(documentID string, p RemoveSectionParams) (*RemoveSectionResult, error) {
	variant, err := normalizeSection(p.Section, p.Variant)
	if err != nil {
		return nil, err
	}

	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	sectionID := locateSection(doc, p.Section, variant)
	if sectionID == "" {
		return nil, fmt.Errorf("document %s has no %s %s", documentID, variant, p.Section)
	}

	var requests []*docs.Request
	if p.Section == SectionKindHeader {
		requests = append(requests, newDeleteHeaderRequest(sectionID))
	} else {
		requests = append(requests, newDeleteFooterRequest(sectionID))
	}

	res, err := s.backend.BatchUpdate(documentID, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", p.Section, err)
	}
	s.audit(documentID, "remove_"+p.Section, len(requests), res)

	return &RemoveSectionResult{
		DocumentID: documentID,
		Section:    p.Section,
		Variant:    variant,
		SectionID:  sectionID,
		Requests:   len(requests),
		Link:       documentLink(documentID),
	}, nil
}

// compileSectionCreate builds the creation batch. The service only accepts
// DEFAULT as the created type; first-page and even-page variants are
// enabled through the corresponding document style flags in the same batch.
func compileSectionCreate(section, variant string) []*docs.Request {
	var requests []*docs.Request
	if section == SectionKindHeader {
		requests = append(requests, newCreateHeaderRequest(headerTypeDefault, nil))
	} else {
		requests = append(requests, newCreateFooterRequest(headerTypeDefault, nil))
	}

	switch variant {
	case HeaderFooterFirstPage:
		style := &docs.DocumentStyle{UseFirstPageHeaderFooter: true}
		style.ForceSendFields = append(style.ForceSendFields, "UseFirstPageHeaderFooter")
		requests = append(requests, newUpdateDocumentStyleRequest(style, "useFirstPageHeaderFooter"))
	case HeaderFooterEvenPage:
		style := &docs.DocumentStyle{UseEvenPageHeaderFooter: true}
		style.ForceSendFields = append(style.ForceSendFields, "UseEvenPageHeaderFooter")
		requests = append(requests, newUpdateDocumentStyleRequest(style, "useEvenPageHeaderFooter"))
	}
	return requests
}

func createdSectionID(res *docs.BatchUpdateDocumentResponse, section string) string {
	if res == nil || len(res.Replies) == 0 || res.Replies[0] == nil {
		return ""
	}
	if section == SectionKindHeader {
		if res.Replies[0].CreateHeader != nil {
			return res.Replies[0].CreateHeader.HeaderId
		}
		return ""
	}
	if res.Replies[0].CreateFooter != nil {
		return res.Replies[0].CreateFooter.FooterId
	}
	return ""
}

func locateSection(doc *docs.Document, section, variant string) string {
	if doc == nil || doc.DocumentStyle == nil {
		return ""
	}
	style := doc.DocumentStyle

	if section == SectionKindHeader {
		switch variant {
		case HeaderFooterFirstPage:
			return style.FirstPageHeaderId
		case HeaderFooterEvenPage:
			return style.EvenPageHeaderId
		default:
			return style.DefaultHeaderId
		}
	}
	switch variant {
	case HeaderFooterFirstPage:
		return style.FirstPageFooterId
	case HeaderFooterEvenPage:
		return style.EvenPageFooterId
	default:
		return style.DefaultFooterId
	}
}

func sectionContentEnd(doc *docs.Document, section, sectionID string) int64 {
	if section == SectionKindHeader {
		if header, ok := doc.Headers[sectionID]; ok {
			return contentEndIndex(header.Content)
		}
		return 0
	}
	if footer, ok := doc.Footers[sectionID]; ok {
		return contentEndIndex(footer.Content)
	}
	return 0
}
