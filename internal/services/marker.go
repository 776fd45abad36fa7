package services

import (
	"context"
	"fmt"
)

const (
	CompletionModeMove = "move"
	CompletionModeTag  = "tag"
)

// CompletionMarker makes a finished file invisible to the next discovery
// pass, either by moving it to the output folder or by setting the processed
// tag, depending on configured mode.
type CompletionMarker struct {
	drive          Drive
	mode           string
	outputFolderID string
	markerKey      string
}

func NewCompletionMarker(drive Drive, mode, outputFolderID, markerKey string) *CompletionMarker {
	return &CompletionMarker{drive: drive, mode: mode, outputFolderID: outputFolderID, markerKey: markerKey}
}

func (m *CompletionMarker) MarkComplete(ctx context.Context, fileID string) error {
	switch m.mode {
	case CompletionModeTag:
		if err := m.drive.TagProcessed(ctx, fileID, m.markerKey); err != nil {
			return fmt.Errorf("marking file %s with %q tag: %w", fileID, m.markerKey, err)
		}
	default:
		if err := m.drive.MoveFile(ctx, fileID, m.outputFolderID); err != nil {
			return fmt.Errorf("moving file %s to completion folder %s: %w", fileID, m.outputFolderID, err)
		}
	}
	return nil
}
