package models

import "time"

// SourceFile is a reference to an audio object in the input folder. It is
// owned by Drive; we only read its metadata and, at the end of the pipeline,
// move or tag it.
type SourceFile struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	MimeType      string            `json:"mimeType"`
	CreatedTime   time.Time         `json:"createdTime"`
	AppProperties map[string]string `json:"appProperties,omitempty"`
}

// FileResult is one per-file entry in the run report.
type FileResult struct {
	FileName string `json:"fileName"`
	FileID   string `json:"fileId"`
	DocID    string `json:"docId,omitempty"`
	DocURL   string `json:"docUrl,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Step     string `json:"step,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunReport aggregates one invocation. It is returned to the caller and
// never persisted.
type RunReport struct {
	RunID     string          `json:"runId"`
	Message   string          `json:"message"`
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	Results   []FileResult    `json:"results"`
	Debug     *FolderSnapshot `json:"debug,omitempty"`
}

// NoFiles reports whether the run ended before the per-file loop because
// discovery found nothing to do.
func (r *RunReport) NoFiles() bool {
	return len(r.Results) == 0 && r.Processed == 0 && r.Failed == 0
}

// FolderSnapshot is the optional debug payload attached to empty-result
// responses. It includes raw file IDs, so it is only populated when the
// debug flag is set.
type FolderSnapshot struct {
	InputFolder  []SnapshotEntry `json:"inputFolder"`
	OutputFolder []SnapshotEntry `json:"outputFolder"`
}

// SnapshotEntry is one file in a folder snapshot.
type SnapshotEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}
