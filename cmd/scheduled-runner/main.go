package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/audiotranscriptflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	pipelineInstance *services.PipelineFunction
	once             sync.Once
	initErr          error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function for Cloud Scheduler via Pub/Sub.
	functions.CloudEvent("RunScheduledTranscription", runScheduledTranscription)
}

// main is required by the Go Functions Framework.
func main() {}

// runScheduledTranscription runs the same pipeline as the HTTP entry point.
// The event payload carries no parameters; it is only the trigger.
func runScheduledTranscription(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		pipelineInstance, initErr = services.NewPipeline(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	slog.Info("Scheduled run triggered.", "eventId", e.ID(), "source", e.Source())
	report, err := pipelineInstance.Process(ctx)
	if err != nil {
		// Returning the error marks the function invocation as failed.
		slog.Error("Scheduled run aborted.", "error", err)
		return err
	}

	slog.Info("Scheduled run finished.",
		"runId", report.RunID,
		"processed", report.Processed,
		"failed", report.Failed,
		"message", report.Message)
	return nil
}
