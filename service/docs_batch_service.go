package service

import (
	"encoding/json"
	"fmt"

	"google.golang.org/api/docs/v1"
)

// knownBatchOperations are the wire names the raw-batch escape hatch
// accepts. Anything else is rejected before submission.
var knownBatchOperations = map[string]bool{
	"insertText":             true,
	"deleteContentRange":     true,
	"updateTextStyle":        true,
	"updateParagraphStyle":   true,
	"replaceAllText":         true,
	"insertTable":            true,
	"insertInlineImage":      true,
	"insertPageBreak":        true,
	"insertSectionBreak":     true,
	"createParagraphBullets": true,
	"deleteParagraphBullets": true,
	"createHeader":           true,
	"createFooter":           true,
	"updateDocumentStyle":    true,
	"insertTableRow":         true,
	"insertTableColumn":      true,
	"deleteTableRow":         true,
	"deleteTableColumn":      true,
	"mergeTableCells":        true,
}

type BatchResult struct {
	DocumentID string   `json:"documentId"`
	Summary    string   `json:"summary"`
	Requests   int      `json:"requests"`
	Replies    int      `json:"replies"`
	Kinds      []string `json:"kinds"`
	Link       string   `json:"link"`
}

// ExecuteBatch submits caller-built primitive operations as one batch. It
// exists for operations the compiler does not model; no index-shift
// correction happens here, the caller owns the ordering.
func (s *DocsService) ExecuteBatch(documentID string, operations []json.RawMessage) (*BatchResult, error) {
	if len(operations) == 0 {
		return nil, fmt.Errorf("operations are required for batch update")
	}

	requests := make([]*docs.Request, 0, len(operations))
	kinds := make([]string, 0, len(operations))
	for i, entry := range operations {
		kind, err := batchOperationKind(entry)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		request := &docs.Request{}
		if err := json.Unmarshal(entry, request); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, kind, err)
		}
		requests = append(requests, request)
		kinds = append(kinds, kind)
	}

	res, err := s.backend.BatchUpdate(documentID, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}
	s.audit(documentID, "batch_update", len(requests), res)

	result := &BatchResult{
		DocumentID: documentID,
		Summary:    fmt.Sprintf("executed %d operation(s)", len(requests)),
		Requests:   len(requests),
		Kinds:      kinds,
		Link:       documentLink(documentID),
	}
	if res != nil {
		result.Replies = len(res.Replies)
	}
	return result, nil
}

// batchOperationKind checks that an entry is an object naming exactly one
// known operation kind and returns that kind.
func batchOperationKind(entry json.RawMessage) (string, error) {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(entry, &keyed); err != nil {
		return "", fmt.Errorf("not a JSON object: %w", err)
	}
	if len(keyed) != 1 {
		return "", fmt.Errorf("an entry must name exactly one operation kind, got %d", len(keyed))
	}
	for kind := range keyed {
		if !knownBatchOperations[kind] {
			return "", fmt.Errorf("unknown operation kind %q", kind)
		}
		return kind, nil
	}
	return "", fmt.Errorf("empty operation entry")
}
