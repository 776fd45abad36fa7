package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
	"github.com/Lllllllleong/audiotranscriptflow/internal/gcp"
	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
	"github.com/Lllllllleong/audiotranscriptflow/internal/transcribe"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Per-file pipeline step labels, as they appear in report entries. The
// numbering is fixed whether or not summarization is enabled.
const (
	stepDownload   = "Step 1: Download"
	stepTranscribe = "Step 2: Transcribe"
	stepSummarize  = "Step 3: Summarize"
	stepWriteDoc   = "Step 4: Create document"
	stepMark       = "Step 5: Mark complete"
)

const noFilesMessage = "No new audio files found in the input folder."

// PipelineConfig holds all configuration for the transcription pipeline.
type PipelineConfig struct {
	InputFolderID  string
	OutputFolderID string
	CompletionMode string
	MarkerKey      string
	Summarize      bool
	ProjectID      string
	VertexAIRegion string
	ArchiveBucket  string
	Debug          bool
}

// PipelineFunction holds the dependencies for one pipeline invocation.
type PipelineFunction struct {
	drive       Drive
	transcriber Transcriber
	summarizer  Summarizer
	archiver    Archiver
	writer      *DocumentWriter
	marker      *CompletionMarker
	config      PipelineConfig
}

// loadConfig loads and validates all necessary environment variables.
func loadConfig() (*PipelineConfig, error) {
	config := &PipelineConfig{
		InputFolderID:  gcp.GetEnv("DRIVE_INPUT_FOLDER_ID", ""),
		OutputFolderID: gcp.GetEnv("DRIVE_OUTPUT_FOLDER_ID", ""),
		CompletionMode: gcp.GetEnv("COMPLETION_MODE", CompletionModeMove),
		MarkerKey:      gcp.GetEnv("PROCESSED_MARKER_KEY", "transcribed"),
		ProjectID:      gcp.GetEnv("PROJECT_ID", ""),
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		ArchiveBucket:  gcp.GetEnv("TRANSCRIPT_ARCHIVE_BUCKET", ""),
	}
	config.Summarize, _ = strconv.ParseBool(gcp.GetEnv("SUMMARIZE_TRANSCRIPT", "false"))
	config.Debug, _ = strconv.ParseBool(gcp.GetEnv("DEBUG", "false"))

	if config.InputFolderID == "" {
		return nil, &errs.ConfigurationError{Var: "DRIVE_INPUT_FOLDER_ID", Reason: "must be set"}
	}
	switch config.CompletionMode {
	case CompletionModeMove:
		if config.OutputFolderID == "" {
			return nil, &errs.ConfigurationError{Var: "DRIVE_OUTPUT_FOLDER_ID", Reason: `must be set when COMPLETION_MODE is "move"`}
		}
	case CompletionModeTag:
	default:
		return nil, &errs.ConfigurationError{Var: "COMPLETION_MODE", Reason: `must be "move" or "tag"`}
	}
	if config.Summarize && config.ProjectID == "" {
		return nil, &errs.ConfigurationError{Var: "PROJECT_ID", Reason: "must be set when SUMMARIZE_TRANSCRIPT is enabled"}
	}
	return config, nil
}

// NewPipeline creates a fully wired PipelineFunction from the environment.
func NewPipeline(ctx context.Context) (*PipelineFunction, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	handle, err := gcp.SharedHandle(ctx, os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if err != nil {
		return nil, err
	}
	driveClient := gcp.NewDriveClient(handle.Drive)
	docsClient := gcp.NewDocsClient(handle.Docs)

	transcriber, err := transcribe.NewClient(
		gcp.GetEnv("OPENAI_BASE_URL", ""),
		os.Getenv("OPENAI_API_KEY"),
		gcp.GetEnv("TRANSCRIBE_MODEL", ""),
	)
	if err != nil {
		return nil, err
	}

	var summarizer Summarizer
	if config.Summarize {
		vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex client: %w", err)
		}
		summarizer = vertexClient
	}

	var archiver Archiver
	if config.ArchiveBucket != "" {
		a, err := gcp.NewArchiver(ctx, config.ArchiveBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create transcript archiver: %w", err)
		}
		archiver = a
	}

	f := &PipelineFunction{
		drive:       driveClient,
		transcriber: transcriber,
		summarizer:  summarizer,
		archiver:    archiver,
		writer:      NewDocumentWriter(driveClient, docsClient),
		marker:      NewCompletionMarker(driveClient, config.CompletionMode, config.OutputFolderID, config.MarkerKey),
		config:      *config,
	}
	slog.Info("Transcription pipeline initialized.",
		"completionMode", config.CompletionMode,
		"summarize", config.Summarize,
		"archiveBucket", config.ArchiveBucket)
	return f, nil
}

// Process runs the whole pipeline once: discover pending audio files, then
// download, transcribe, write a document, and mark completion for each, in
// order. A file's failure is captured in its report entry and never aborts
// the run; errors before the loop (listing the input folder) abort the run.
func (f *PipelineFunction) Process(ctx context.Context) (*models.RunReport, error) {
	runID := uuid.NewString()
	logCtx := slog.With("runId", runID)

	listing, err := f.drive.ListFolder(ctx, f.config.InputFolderID)
	if err != nil {
		logCtx.Error("Failed to list input folder.", "folderId", f.config.InputFolderID, "error", err)
		return nil, fmt.Errorf("cannot read input folder %s, share it with the service account and verify the Drive API is enabled: %w",
			f.config.InputFolderID, err)
	}

	report := &models.RunReport{RunID: runID, Results: []models.FileResult{}}

	files := DiscoverAudioFiles(listing, f.config.MarkerKey)
	if len(files) == 0 {
		logCtx.Info("No pending audio files.", "folderId", f.config.InputFolderID, "listed", len(listing))
		report.Message = noFilesMessage
		if f.config.Debug {
			report.Debug = f.folderSnapshot(ctx, logCtx)
		}
		return report, nil
	}

	logCtx.Info("Starting run.", "pendingFiles", len(files))
	for _, file := range files {
		entry := f.processFile(ctx, logCtx, file)
		report.Results = append(report.Results, entry)
		if entry.Status == models.StatusSuccess {
			report.Processed++
		} else {
			report.Failed++
		}
	}
	report.Message = fmt.Sprintf("Processed %d file(s), %d failed.", report.Processed, report.Failed)
	logCtx.Info("Run complete.", "processed", report.Processed, "failed", report.Failed)
	return report, nil
}

func (f *PipelineFunction) processFile(ctx context.Context, logCtx *slog.Logger, file models.SourceFile) models.FileResult {
	fileLog := logCtx.With("fileId", file.ID, "fileName", file.Name)
	fileLog.Info("Processing file.")

	result := models.FileResult{FileName: file.Name, FileID: file.ID}
	fail := func(step string, err error) models.FileResult {
		fileLog.Error("File pipeline step failed.", "step", step, "error", err)
		result.Status = models.StatusError
		result.Step = step
		result.Error = err.Error()
		return result
	}

	audio, err := f.drive.Download(ctx, file.ID)
	if err != nil {
		return fail(stepDownload, err)
	}

	transcript, err := f.transcriber.Transcribe(ctx, file.Name, audio)
	if err != nil {
		return fail(stepTranscribe, err)
	}

	content := transcript
	if f.summarizer != nil {
		summary, err := f.summarizer.Summarize(ctx, transcript)
		if err != nil {
			return fail(stepSummarize, err)
		}
		content = "Summary\n\n" + summary + "\n\nTranscript\n\n" + transcript
	}

	if f.archiver != nil {
		// Audit copy only. Never fails the file.
		if err := f.archiver.Archive(ctx, file.ID+"/transcript.txt", transcript); err != nil {
			fileLog.Warn("Failed to archive transcript copy.", "error", err)
		}
	}

	docID, err := f.writer.Write(ctx, docTitle(file.Name), content, f.config.OutputFolderID)
	if err != nil {
		return fail(stepWriteDoc, err)
	}
	result.DocID = docID
	result.DocURL = "https://docs.google.com/document/d/" + docID + "/edit"

	if err := f.marker.MarkComplete(ctx, file.ID); err != nil {
		return fail(stepMark, err)
	}

	result.Status = models.StatusSuccess
	fileLog.Info("File processed.", "docId", docID)
	return result
}

// docTitle derives the transcript document title from the audio filename.
func docTitle(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return base + " - Transcript"
}

// folderSnapshot fetches the debug listing of both folders. Listings are
// independent, so they are fetched in parallel; the per-file loop itself
// stays sequential.
func (f *PipelineFunction) folderSnapshot(ctx context.Context, logCtx *slog.Logger) *models.FolderSnapshot {
	snap := &models.FolderSnapshot{}
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		files, err := f.drive.ListFolder(gctx, f.config.InputFolderID)
		if err != nil {
			return fmt.Errorf("input folder: %w", err)
		}
		snap.InputFolder = toSnapshotEntries(files)
		return nil
	})
	if f.config.OutputFolderID != "" {
		eg.Go(func() error {
			files, err := f.drive.ListFolder(gctx, f.config.OutputFolderID)
			if err != nil {
				return fmt.Errorf("output folder: %w", err)
			}
			snap.OutputFolder = toSnapshotEntries(files)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logCtx.Warn("Debug folder snapshot incomplete.", "error", err)
	}
	return snap
}

func toSnapshotEntries(files []models.SourceFile) []models.SnapshotEntry {
	entries := make([]models.SnapshotEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, models.SnapshotEntry{ID: f.ID, Name: f.Name, MimeType: f.MimeType})
	}
	return entries
}
