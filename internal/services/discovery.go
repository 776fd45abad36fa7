package services

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
)

var audioMimeTypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/mp4":    true,
	"audio/x-m4a":  true,
	"audio/m4a":    true,
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/ogg":    true,
	"audio/flac":   true,
	"audio/x-flac": true,
	"audio/aac":    true,
	"audio/webm":   true,
	"audio/amr":    true,
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".ogg":  true,
	".oga":  true,
	".flac": true,
	".aac":  true,
	".opus": true,
	".webm": true,
	".amr":  true,
}

// DiscoverAudioFiles filters a folder listing down to the audio files still
// pending transcription, newest first.
//
// Files already carrying the processed marker are always excluded. The audio
// predicate first matches on declared content type (known set or "audio/"
// prefix); when that yields nothing, it falls back to filename extension,
// since Drive sometimes stores uploads as application/octet-stream.
func DiscoverAudioFiles(listing []models.SourceFile, markerKey string) []models.SourceFile {
	var candidates []models.SourceFile
	for _, f := range listing {
		if markerKey != "" && f.AppProperties[markerKey] == "true" {
			continue
		}
		candidates = append(candidates, f)
	}

	var matched []models.SourceFile
	for _, f := range candidates {
		if isAudioMime(f.MimeType) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		for _, f := range candidates {
			if audioExtensions[strings.ToLower(filepath.Ext(f.Name))] {
				matched = append(matched, f)
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedTime.After(matched[j].CreatedTime)
	})
	return matched
}

func isAudioMime(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return audioMimeTypes[mimeType] || strings.HasPrefix(mimeType, "audio/")
}
