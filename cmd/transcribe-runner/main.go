package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/audiotranscriptflow/internal/api"
	"github.com/Lllllllleong/audiotranscriptflow/internal/gcp"
	"github.com/Lllllllleong/audiotranscriptflow/internal/services"
	"github.com/joho/godotenv"
)

var (
	handler http.Handler
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the HTTP function. The framework routes every request here.
	functions.HTTP("TranscribeAudioFiles", transcribeAudioFiles)
}

// main starts the framework's local server; deployed functions invoke the
// registered handler directly.
func main() {
	// Local development convenience only; missing .env is not an error.
	_ = godotenv.Load()

	port := gcp.GetEnv("PORT", "8080")
	if err := funcframework.Start(port); err != nil {
		slog.Error("funcframework.Start failed", "error", err)
		os.Exit(1)
	}
}

// transcribeAudioFiles is the HTTP entry point.
func transcribeAudioFiles(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		var pipeline *services.PipelineFunction
		pipeline, initErr = services.NewPipeline(context.Background())
		if initErr != nil {
			return
		}
		debug, _ := strconv.ParseBool(gcp.GetEnv("DEBUG", "false"))
		handler = api.NewServer(pipeline, debug).Handler()
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	handler.ServeHTTP(w, r)
}
