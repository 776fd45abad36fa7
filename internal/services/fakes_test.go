package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
)

type moveCall struct {
	fileID string
	dest   string
}

type fakeDrive struct {
	listings    map[string][]models.SourceFile
	listErr     error
	contents    map[string][]byte
	downloadErr map[string]error

	moveFailures int // fail this many MoveFile calls before succeeding
	moveCalls    int
	moved        []moveCall

	tagErr error
	tagged map[string]string

	createErr     error
	createdFolder map[string]string // docID -> folder
	docSeq        int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		listings:      map[string][]models.SourceFile{},
		contents:      map[string][]byte{},
		downloadErr:   map[string]error{},
		tagged:        map[string]string{},
		createdFolder: map[string]string{},
	}
}

func (d *fakeDrive) ListFolder(_ context.Context, folderID string) ([]models.SourceFile, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.listings[folderID], nil
}

func (d *fakeDrive) Download(_ context.Context, fileID string) ([]byte, error) {
	if err := d.downloadErr[fileID]; err != nil {
		return nil, err
	}
	data, ok := d.contents[fileID]
	if !ok {
		return nil, &errs.NotFoundError{FileID: fileID, Err: errors.New("no such file")}
	}
	return data, nil
}

func (d *fakeDrive) MoveFile(_ context.Context, fileID, dest string) error {
	d.moveCalls++
	if d.moveFailures > 0 {
		d.moveFailures--
		return &errs.PermissionError{Resource: "file " + fileID, Action: "move to " + dest, Err: errors.New("denied")}
	}
	d.moved = append(d.moved, moveCall{fileID: fileID, dest: dest})
	return nil
}

func (d *fakeDrive) TagProcessed(_ context.Context, fileID, markerKey string) error {
	if d.tagErr != nil {
		return d.tagErr
	}
	d.tagged[fileID] = markerKey
	return nil
}

func (d *fakeDrive) CreateDocInFolder(_ context.Context, title, folderID string) (string, error) {
	if d.createErr != nil {
		return "", d.createErr
	}
	d.docSeq++
	id := fmt.Sprintf("doc-%d", d.docSeq)
	d.createdFolder[id] = folderID
	return id, nil
}

type fakeDocs struct {
	createErr error
	insertErr error
	created   []string
	inserted  map[string]string
	docSeq    int
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{inserted: map[string]string{}}
}

func (d *fakeDocs) CreateDocument(_ context.Context, title string) (string, error) {
	if d.createErr != nil {
		return "", d.createErr
	}
	d.docSeq++
	id := fmt.Sprintf("default-doc-%d", d.docSeq)
	d.created = append(d.created, id)
	return id, nil
}

func (d *fakeDocs) InsertText(_ context.Context, docID, text string) error {
	if d.insertErr != nil {
		return d.insertErr
	}
	d.inserted[docID] = text
	return nil
}

type fakeTranscriber struct {
	fn func(filename string, audio []byte) (string, error)
}

func (t *fakeTranscriber) Transcribe(_ context.Context, filename string, audio []byte) (string, error) {
	if t.fn != nil {
		return t.fn(filename, audio)
	}
	return "hello from " + filename, nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (s *fakeSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return s.summary, s.err
}

type fakeArchiver struct {
	objects map[string]string
	err     error
}

func (a *fakeArchiver) Archive(_ context.Context, objectName, content string) error {
	if a.err != nil {
		return a.err
	}
	if a.objects == nil {
		a.objects = map[string]string{}
	}
	a.objects[objectName] = content
	return nil
}

func newTestPipeline(drive *fakeDrive, docs *fakeDocs, tr Transcriber, config PipelineConfig) *PipelineFunction {
	return &PipelineFunction{
		drive:       drive,
		transcriber: tr,
		writer:      NewDocumentWriter(drive, docs),
		marker:      NewCompletionMarker(drive, config.CompletionMode, config.OutputFolderID, config.MarkerKey),
		config:      config,
	}
}
