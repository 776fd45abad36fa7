package gcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
)

// DocsClient wraps the Docs service with document creation and text insertion.
type DocsClient struct {
	svc *docs.Service
}

func NewDocsClient(svc *docs.Service) *DocsClient {
	return &DocsClient{svc: svc}
}

// CreateDocument creates an empty document in the account's default location
// and returns its ID.
func (c *DocsClient) CreateDocument(ctx context.Context, title string) (string, error) {
	doc, err := c.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", mapDocsError(err, "document "+title, "create")
	}
	return doc.DocumentId, nil
}

// InsertText inserts text at index 1, the first body position of a Docs
// document, so the content lands at the very start before any other edit.
func (c *DocsClient) InsertText(ctx context.Context, docID, text string) error {
	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: 1},
				Text:     text,
			},
		}},
	}
	if _, err := c.svc.Documents.BatchUpdate(docID, req).Context(ctx).Do(); err != nil {
		return mapDocsError(err, "document "+docID, "insert text into")
	}
	return nil
}

func mapDocsError(err error, resource, action string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return &errs.NotFoundError{FileID: resource, Err: err}
		case 401, 403:
			return &errs.PermissionError{Resource: resource, Action: action,
				Err: fmt.Errorf("%w (check that the Docs API is enabled for the project and the document is accessible to the service account)", err)}
		}
	}
	return &errs.RemoteError{Service: "Docs", Err: fmt.Errorf("%s %s: %w", action, resource, err)}
}
