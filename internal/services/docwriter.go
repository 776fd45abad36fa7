package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
)

// DocumentWriter creates the transcript document and fills it with text.
//
// Creation is an ordered chain of attempts: a single Drive call that places
// the document directly in the target folder, then a Docs-API create in the
// default location followed by a move. Document existence is the primary
// success criterion; correct location is secondary and never fails the file.
type DocumentWriter struct {
	drive Drive
	docs  Docs
}

func NewDocumentWriter(drive Drive, docs Docs) *DocumentWriter {
	return &DocumentWriter{drive: drive, docs: docs}
}

// Write creates a document titled title inside folderID (best effort, empty
// folderID means default location) and inserts content at its start. When
// the document was created but the text insertion failed, the returned error
// reports that; the empty document is left in place.
func (w *DocumentWriter) Write(ctx context.Context, title, content, folderID string) (string, error) {
	docID, err := w.create(ctx, title, folderID)
	if err != nil {
		return "", err
	}
	if err := w.docs.InsertText(ctx, docID, content); err != nil {
		return docID, fmt.Errorf("document %s was created but inserting text failed, leaving it empty: %w", docID, err)
	}
	return docID, nil
}

func (w *DocumentWriter) create(ctx context.Context, title, folderID string) (string, error) {
	type attempt struct {
		name string
		run  func() (docID string, needsMove bool, err error)
	}

	var attempts []attempt
	if folderID != "" {
		attempts = append(attempts, attempt{"create in target folder", func() (string, bool, error) {
			id, err := w.drive.CreateDocInFolder(ctx, title, folderID)
			return id, false, err
		}})
	}
	attempts = append(attempts, attempt{"create in default location", func() (string, bool, error) {
		id, err := w.docs.CreateDocument(ctx, title)
		return id, folderID != "", err
	}})

	var failures []error
	for _, a := range attempts {
		docID, needsMove, err := a.run()
		if err != nil {
			slog.Warn("Document creation attempt failed.", "attempt", a.name, "title", title, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", a.name, err))
			continue
		}
		if needsMove {
			w.moveBestEffort(ctx, docID, folderID)
		}
		return docID, nil
	}
	return "", &errs.WriteError{Title: title, Err: errors.Join(failures...)}
}

// moveBestEffort places the freshly created document into the target folder.
// One corrective retry; a document outside its folder is logged, not failed.
func (w *DocumentWriter) moveBestEffort(ctx context.Context, docID, folderID string) {
	err := w.drive.MoveFile(ctx, docID, folderID)
	if err == nil {
		return
	}
	slog.Warn("Move into target folder failed, retrying once.", "docId", docID, "folderId", folderID, "error", err)
	if err := w.drive.MoveFile(ctx, docID, folderID); err != nil {
		slog.Warn("Corrective move failed. Document remains in the default location.",
			"docId", docID, "folderId", folderID, "error", err)
	}
}
