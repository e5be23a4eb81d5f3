package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
)

// BatchExecutor submits one batch of edit requests against a document. The
// service applies a batch atomically and strictly in list order, each request
// seeing the index space as mutated by the requests before it.
type BatchExecutor interface {
	BatchUpdate(documentID string, requests []*docs.Request) (*docs.BatchUpdateDocumentResponse, error)
}

// DocumentReader fetches the current document tree. Indices obtained from a
// read are stale as soon as any mutating batch runs.
type DocumentReader interface {
	GetDocument(documentID string) (*docs.Document, error)
}

// DocsGateway backs both handles with the Docs API.
type DocsGateway struct {
	docsRepository *docs.Service
}

func NewDocsGateway(docsRepository *docs.Service) *DocsGateway {
	return &DocsGateway{
		docsRepository: docsRepository,
	}
}

func (g *DocsGateway) GetDocument(documentID string) (*docs.Document, error) {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var doc *docs.Document
	err := retrier.Run(func() error {
		_doc, err := g.docsRepository.Documents.Get(documentID).IncludeTabsContent(true).Do()
		if err != nil {
			if IsNotFound(err) {
				return retry.Stop(err)
			}
			return err
		}

		doc = _doc
		return nil
	})

	return doc, err
}

// BatchUpdate submits requests as one batch. Mutations are never retried
// here: a submitted batch cannot be withdrawn, and a blind retry could apply
// it twice.
func (g *DocsGateway) BatchUpdate(documentID string, requests []*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	if len(requests) == 0 {
		return nil, nil // No requests to send
	}
	return g.docsRepository.Documents.BatchUpdate(documentID,
		&docs.BatchUpdateDocumentRequest{Requests: requests}).Do()
}

func (g *DocsGateway) CreateDocument(title string) (*docs.Document, error) {
	return g.docsRepository.Documents.Create(&docs.Document{Title: title}).Do()
}

// IsNotFound reports whether err is the service's 404 for a missing document.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// isBoundaryError recognizes the rejection produced when an insertion index
// is not strictly less than the document's current end index. The service
// exposes no structured code for this case, so the message substring is the
// only available signal.
func isBoundaryError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "must be less than the end index")
}
