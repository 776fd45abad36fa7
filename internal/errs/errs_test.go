package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrappedErrorsClassify(t *testing.T) {
	base := &PermissionError{Resource: "file f1", Action: "download", Err: errors.New("403")}
	wrapped := fmt.Errorf("step failed: %w", base)

	var perr *PermissionError
	if !errors.As(wrapped, &perr) {
		t.Fatal("PermissionError lost through wrapping")
	}
	if perr.Resource != "file f1" {
		t.Errorf("resource = %q", perr.Resource)
	}
}

func TestUnwrapChains(t *testing.T) {
	cause := errors.New("root cause")
	cases := []error{
		&AuthError{Service: "svc", Remediation: "fix it", Err: cause},
		&NotFoundError{FileID: "f1", Err: cause},
		&PermissionError{Resource: "r", Action: "a", Err: cause},
		&InputFormatError{Filename: "x.mp3", Err: cause},
		&WriteError{Title: "t", Err: cause},
		&RemoteError{Service: "svc", Err: cause},
	}
	for _, err := range cases {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
	}
}

func TestMessagesNameTheSubject(t *testing.T) {
	err := &NotFoundError{FileID: "file-123", Err: errors.New("404")}
	if !strings.Contains(err.Error(), "file-123") {
		t.Errorf("message lacks the file id: %q", err)
	}

	ferr := &InputFormatError{Filename: "voice.mp3", Err: errors.New("bad codec")}
	if !strings.Contains(ferr.Error(), "voice.mp3") {
		t.Errorf("message lacks the filename: %q", ferr)
	}

	aerr := &AuthError{Service: "transcription service", Remediation: "Rotate the key.", Err: errors.New("401")}
	if !strings.Contains(aerr.Error(), "Rotate the key.") {
		t.Errorf("message lacks remediation: %q", aerr)
	}
}
