package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const docMimeType = "application/vnd.google-apps.document"

// DriveClient wraps the Drive service with the folder and file operations
// the pipeline needs.
type DriveClient struct {
	svc *drive.Service
}

func NewDriveClient(svc *drive.Service) *DriveClient {
	return &DriveClient{svc: svc}
}

// ListFolder returns all non-trashed files directly inside folderID, newest
// first, with the metadata discovery filters on.
func (c *DriveClient) ListFolder(ctx context.Context, folderID string) ([]models.SourceFile, error) {
	var files []models.SourceFile
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)

	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, createdTime, appProperties)").
			OrderBy("createdTime desc").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, mapDriveError(err, "folder "+folderID, "list",
				"check that the folder ID is correct and the folder is shared with the service account's client_email")
		}
		for _, f := range list.Files {
			created, _ := time.Parse(time.RFC3339, f.CreatedTime)
			files = append(files, models.SourceFile{
				ID:            f.Id,
				Name:          f.Name,
				MimeType:      f.MimeType,
				CreatedTime:   created,
				AppProperties: f.AppProperties,
			})
		}
		if list.NextPageToken == "" {
			return files, nil
		}
		pageToken = list.NextPageToken
	}
}

// Download retrieves the full binary content of a file. The whole object is
// buffered in memory.
func (c *DriveClient) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			switch gerr.Code {
			case 404:
				return nil, &errs.NotFoundError{FileID: fileID, Err: err}
			case 401, 403:
				return nil, &errs.PermissionError{Resource: "file " + fileID, Action: "download", Err: err}
			}
		}
		return nil, &errs.RemoteError{Service: "Drive", Err: fmt.Errorf("download file %s: %w", fileID, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.RemoteError{Service: "Drive", Err: fmt.Errorf("read content of file %s: %w", fileID, err)}
	}
	return data, nil
}

// MoveFile reparents fileID into destFolderID, removing every previous
// parent so the file disappears from the input folder.
func (c *DriveClient) MoveFile(ctx context.Context, fileID, destFolderID string) error {
	current, err := c.svc.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return mapDriveError(err, "file "+fileID, "read parents of",
			"the service account can no longer see this file")
	}

	call := c.svc.Files.Update(fileID, nil).AddParents(destFolderID).Context(ctx)
	if len(current.Parents) > 0 {
		call = call.RemoveParents(strings.Join(current.Parents, ","))
	}
	if _, err := call.Do(); err != nil {
		return mapDriveError(err, "file "+fileID, "move to folder "+destFolderID,
			"check that the destination folder is shared with the service account with editor access")
	}
	return nil
}

// TagProcessed sets the boolean processed marker on the file's app
// properties, the completion signal in tag mode.
func (c *DriveClient) TagProcessed(ctx context.Context, fileID, markerKey string) error {
	update := &drive.File{AppProperties: map[string]string{markerKey: "true"}}
	if _, err := c.svc.Files.Update(fileID, update).Context(ctx).Do(); err != nil {
		return mapDriveError(err, "file "+fileID, "tag as processed",
			"the service account needs editor access to the file to set its properties")
	}
	return nil
}

// CreateDocInFolder creates a Google Doc directly inside folderID in a
// single call and returns its ID.
func (c *DriveClient) CreateDocInFolder(ctx context.Context, title, folderID string) (string, error) {
	f := &drive.File{
		Name:     title,
		MimeType: docMimeType,
		Parents:  []string{folderID},
	}
	created, err := c.svc.Files.Create(f).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", mapDriveError(err, "folder "+folderID, "create document in",
			"check that the folder is shared with the service account with editor access")
	}
	return created.Id, nil
}

// mapDriveError converts a Drive API failure into the pipeline taxonomy,
// keeping the resource name and remediation hint in the message.
func mapDriveError(err error, resource, action, remediation string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return &errs.NotFoundError{FileID: resource, Err: fmt.Errorf("%w (%s)", err, remediation)}
		case 401, 403:
			return &errs.PermissionError{Resource: resource, Action: action, Err: fmt.Errorf("%w (%s)", err, remediation)}
		}
	}
	return &errs.RemoteError{Service: "Drive", Err: fmt.Errorf("%s %s: %w", action, resource, err)}
}
