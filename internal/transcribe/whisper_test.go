package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "sk-test-key", "whisper-1")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestNewClient_KeyValidation(t *testing.T) {
	if _, err := NewClient("", "", ""); err == nil {
		t.Error("empty key must be rejected")
	}
	var cfgErr *errs.ConfigurationError
	_, err := NewClient("", "not-a-key", "")
	if !errors.As(err, &cfgErr) {
		t.Errorf("key without sk- prefix: want ConfigurationError, got %v", err)
	}
	if _, err := NewClient("", "sk-abc", ""); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
}

func TestTranscribe_SubmitsMultipart(t *testing.T) {
	var gotModel, gotFilename, gotAuth string
	var gotAudio []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not a multipart request: %v", err)
		}
		gotModel = r.FormValue("model")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, header.Size)
		_, _ = file.Read(buf)
		gotAudio = buf
		w.Write([]byte(`{"text": "hello world"}`))
	})

	text, err := client.Transcribe(context.Background(), "voice.mp3", []byte("fake-audio"))
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
	if gotAuth != "Bearer sk-test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotFilename != "voice.mp3" || string(gotAudio) != "fake-audio" {
		t.Errorf("request fields: model=%q filename=%q audio=%q", gotModel, gotFilename, gotAudio)
	}
}

func TestTranscribe_ChoicesShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "from a chat-shaped gateway"}}]}`))
	})
	text, err := client.Transcribe(context.Background(), "a.mp3", nil)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "from a chat-shaped gateway" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_OutputShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"output": [{"content": [{"text": "from an output list"}]}]}`))
	})
	text, err := client.Transcribe(context.Background(), "a.mp3", nil)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "from an output list" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_TextShapeWinsOverChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"text": "primary", "choices": [{"message": {"content": "secondary"}}]}`))
	})
	text, err := client.Transcribe(context.Background(), "a.mp3", nil)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "primary" {
		t.Errorf("extractor priority broken: %q", text)
	}
}

func TestTranscribe_UnrecognizedShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "done"}`))
	})
	_, err := client.Transcribe(context.Background(), "a.mp3", nil)
	var ferr *errs.TranscriptionFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("want TranscriptionFormatError, got %v", err)
	}
}

func TestTranscribe_AuthRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "Incorrect API key provided"}}`, http.StatusUnauthorized)
	})
	_, err := client.Transcribe(context.Background(), "a.mp3", nil)
	var aerr *errs.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("want AuthError, got %v", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error lacks key remediation: %v", err)
	}
}

func TestTranscribe_UnsupportedAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "Invalid file format"}}`, http.StatusBadRequest)
	})
	_, err := client.Transcribe(context.Background(), "broken.mp3", nil)
	var ierr *errs.InputFormatError
	if !errors.As(err, &ierr) {
		t.Fatalf("want InputFormatError, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.mp3") {
		t.Errorf("error should embed the filename: %v", err)
	}
}

func TestTranscribe_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	_, err := client.Transcribe(context.Background(), "a.mp3", nil)
	var rerr *errs.RemoteError
	if !errors.As(err, &rerr) {
		t.Fatalf("want RemoteError, got %v", err)
	}
}
