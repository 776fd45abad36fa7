package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Handle bundles the authenticated Drive and Docs services built from one
// service-account credential.
type Handle struct {
	Drive *drive.Service
	Docs  *docs.Service
}

var (
	handleOnce   sync.Once
	cachedHandle *Handle
	handleErr    error
)

// newServices is swapped out in tests.
var newServices = buildServices

// SharedHandle returns the process-wide credential handle, building it on
// first use. The credential does not change during a process's life, so the
// raw blob is parsed exactly once; later calls return the cached handle.
func SharedHandle(ctx context.Context, rawJSON string) (*Handle, error) {
	handleOnce.Do(func() {
		cachedHandle, handleErr = NewHandle(ctx, rawJSON)
	})
	return cachedHandle, handleErr
}

// NewHandle validates and normalizes the service-account blob and builds
// authenticated clients from it. Most callers want SharedHandle instead.
func NewHandle(ctx context.Context, rawJSON string) (*Handle, error) {
	normalized, err := NormalizeServiceAccount(rawJSON)
	if err != nil {
		return nil, err
	}
	return newServices(ctx, normalized)
}

// NormalizeServiceAccount validates the credential blob and returns it with
// the private key's escaped newlines replaced by real ones. Blobs copied out
// of env-var UIs routinely arrive with literal `\n` sequences in the key.
func NormalizeServiceAccount(rawJSON string) ([]byte, error) {
	if strings.TrimSpace(rawJSON) == "" {
		return nil, &errs.ConfigurationError{Var: "GOOGLE_SERVICE_ACCOUNT_JSON", Reason: "must be set to a service-account JSON blob"}
	}

	var blob map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &blob); err != nil {
		return nil, &errs.ConfigurationError{Var: "GOOGLE_SERVICE_ACCOUNT_JSON", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}

	email, _ := blob["client_email"].(string)
	if email == "" {
		return nil, &errs.ConfigurationError{Var: "GOOGLE_SERVICE_ACCOUNT_JSON", Reason: "is missing client_email"}
	}
	key, _ := blob["private_key"].(string)
	if key == "" {
		return nil, &errs.ConfigurationError{Var: "GOOGLE_SERVICE_ACCOUNT_JSON", Reason: "is missing private_key"}
	}

	key = strings.ReplaceAll(key, `\n`, "\n")
	if !strings.Contains(key, "-----BEGIN") || !strings.Contains(key, "-----END") {
		return nil, &errs.CredentialFormatError{
			Reason: "private_key does not contain PEM BEGIN/END markers; re-download the service-account key file and paste its private_key field unmodified",
		}
	}
	blob["private_key"] = key

	normalized, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("re-encode service account blob: %w", err)
	}
	return normalized, nil
}

func buildServices(ctx context.Context, credentialsJSON []byte) (*Handle, error) {
	driveSvc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}

	docsSvc, err := docs.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(docs.DocumentsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs client: %w", err)
	}

	return &Handle{Drive: driveSvc, Docs: docsSvc}, nil
}
