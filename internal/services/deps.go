package services

import (
	"context"

	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
)

// Drive is the slice of Drive operations the pipeline consumes. Satisfied by
// gcp.DriveClient; faked in tests.
type Drive interface {
	ListFolder(ctx context.Context, folderID string) ([]models.SourceFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	MoveFile(ctx context.Context, fileID, destFolderID string) error
	TagProcessed(ctx context.Context, fileID, markerKey string) error
	CreateDocInFolder(ctx context.Context, title, folderID string) (string, error)
}

// Docs is the slice of Docs operations the document writer consumes.
type Docs interface {
	CreateDocument(ctx context.Context, title string) (string, error)
	InsertText(ctx context.Context, docID, text string) error
}

// Transcriber converts audio bytes to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Summarizer condenses a transcript. Only wired when summarization is
// enabled by configuration.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Archiver stores a transcript copy for audit. Optional.
type Archiver interface {
	Archive(ctx context.Context, objectName, content string) error
}
