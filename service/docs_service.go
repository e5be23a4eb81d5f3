package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/entity"
	"google.golang.org/api/docs/v1"
)

// DocsBackend is the full handle surface DocsService needs: the edit-batch
// executor and document reader from the compiler's point of view, plus
// document creation. DocsGateway is the production implementation; tests
// substitute fakes.
type DocsBackend interface {
	BatchExecutor
	DocumentReader
	CreateDocument(title string) (*docs.Document, error)
}

// OperationLog records mutating batches for later inspection. A nil log
// disables auditing.
type OperationLog interface {
	LogOperation(operation entity.Operation) (*entity.Operation, error)
	ListRecentByDocumentID(documentID string, limit int64) ([]*entity.Operation, error)
}

type DocsService struct {
	backend       DocsBackend
	operationLog  OperationLog
	imageResolver ImageResolver
}

func NewDocsService(backend DocsBackend, operationLog OperationLog, imageResolver ImageResolver) *DocsService {
	return &DocsService{
		backend:       backend,
		operationLog:  operationLog,
		imageResolver: imageResolver,
	}
}

type CreatedDocument struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Link       string `json:"link"`
}

// CreateDocument creates an empty document and, when content is given,
// writes it at index 1 in a follow-up batch.
func (s *DocsService) CreateDocument(title, content string) (*CreatedDocument, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	doc, err := s.backend.CreateDocument(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if content != "" {
		requests := []*docs.Request{newInsertTextRequest(content, 1, "")}
		res, err := s.backend.BatchUpdate(doc.DocumentId, requests)
		if err != nil {
			return nil, fmt.Errorf("failed to write initial content to %s: %w", doc.DocumentId, err)
		}
		s.audit(doc.DocumentId, "create_document", len(requests), res)
	}

	return &CreatedDocument{
		DocumentID: doc.DocumentId,
		Title:      doc.Title,
		Link:       documentLink(doc.DocumentId),
	}, nil
}

// RecentOperations lists the latest audit records for a document, newest
// first.
func (s *DocsService) RecentOperations(documentID string, limit int64) ([]*entity.Operation, error) {
	if s.operationLog == nil {
		return nil, nil
	}
	return s.operationLog.ListRecentByDocumentID(documentID, limit)
}

func documentLink(documentID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", documentID)
}

// audit records a mutating batch. Audit failures are logged and swallowed:
// the user-facing operation already succeeded.
func (s *DocsService) audit(documentID, kind string, requests int, res *docs.BatchUpdateDocumentResponse) {
	if s.operationLog == nil {
		return
	}

	operation := entity.Operation{
		DocumentID: documentID,
		Kind:       kind,
		Requests:   requests,
		Time:       time.Now(),
	}
	if res != nil {
		operation.Replies = len(res.Replies)
	}

	if _, err := s.operationLog.LogOperation(operation); err != nil {
		log.Error().Err(err).Str("documentId", documentID).Str("kind", kind).Msg("failed to record operation")
	}
}
