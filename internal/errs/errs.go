// Package errs defines the error taxonomy shared across the pipeline.
//
// Configuration and credential errors are fatal at startup. Everything else
// is raised per file and caught at the file boundary by the runner, which
// classifies entries with errors.As.
package errs

import "fmt"

// ConfigurationError reports missing or malformed environment configuration.
type ConfigurationError struct {
	Var    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Var, e.Reason)
}

// CredentialFormatError reports service-account key material that cannot be
// used, e.g. a private key without PEM begin/end markers.
type CredentialFormatError struct {
	Reason string
}

func (e *CredentialFormatError) Error() string {
	return fmt.Sprintf("credential format error: %s", e.Reason)
}

// AuthError reports a remote service rejecting our credentials. Remediation
// carries actionable guidance for the operator and is surfaced verbatim in
// the run report.
type AuthError struct {
	Service     string
	Remediation string
	Err         error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected credentials: %v. %s", e.Service, e.Err, e.Remediation)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError reports a remote object that does not exist or is not
// visible to the service account.
type NotFoundError struct {
	FileID string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found: %v", e.FileID, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// PermissionError reports an access-denied response. Resource names the
// object, Action what was attempted (e.g. "download", "move to folder X").
type PermissionError struct {
	Resource string
	Action   string
	Err      error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for %s on %s: %v", e.Action, e.Resource, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// InputFormatError reports audio the transcription service refused to accept.
type InputFormatError struct {
	Filename string
	Err      error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("transcription service rejected %q as unsupported or malformed audio: %v", e.Filename, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// TranscriptionFormatError reports a transcription response whose text
// payload could not be located under any known shape.
type TranscriptionFormatError struct {
	Detail string
}

func (e *TranscriptionFormatError) Error() string {
	return fmt.Sprintf("could not extract text from transcription response: %s", e.Detail)
}

// WriteError reports that every document creation strategy failed.
type WriteError struct {
	Title string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not create document %q by any strategy: %v", e.Title, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// RemoteError wraps any other failure from a third-party client.
type RemoteError struct {
	Service string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
