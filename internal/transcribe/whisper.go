// Package transcribe calls an OpenAI-compatible speech-to-text endpoint.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Lllllllleong/audiotranscriptflow/internal/errs"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Client submits audio to the /audio/transcriptions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient validates the API key format and returns a client. Keys issued
// by the service always start with "sk-"; anything else is caught here
// rather than as a confusing 401 later.
func NewClient(baseURL, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, &errs.ConfigurationError{Var: "OPENAI_API_KEY", Reason: "must be set"}
	}
	if !strings.HasPrefix(apiKey, "sk-") {
		return nil, &errs.ConfigurationError{
			Var:    "OPENAI_API_KEY",
			Reason: `does not look like an API key (expected "sk-" prefix); check that the value is the key itself, not a key name`,
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "whisper-1"
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}, nil
}

// Transcribe uploads the audio bytes and returns the extracted plain text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio to multipart body: %w", err)
	}
	if err := mw.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &errs.RemoteError{Service: "transcription service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", &errs.AuthError{
				Service: "transcription service",
				Err:     apiErr,
				Remediation: "Verify OPENAI_API_KEY is a valid, active key for this account, " +
					"that it has not been revoked, and that the project it belongs to has the audio API enabled.",
			}
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
			return "", &errs.InputFormatError{Filename: filename, Err: apiErr}
		default:
			return "", &errs.RemoteError{Service: "transcription service", Err: apiErr}
		}
	}

	var decoded transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &errs.TranscriptionFormatError{Detail: fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	return extractText(&decoded)
}

// transcriptionResponse covers the response shapes seen from compatible
// servers: the native transcription shape (top-level text) and the
// chat-completion style shapes some gateways return instead.
type transcriptionResponse struct {
	Text    string `json:"text"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// extractors, in priority order. Each returns the text and whether it found
// a non-empty payload under its shape.
var extractors = []func(*transcriptionResponse) (string, bool){
	func(r *transcriptionResponse) (string, bool) {
		return r.Text, strings.TrimSpace(r.Text) != ""
	},
	func(r *transcriptionResponse) (string, bool) {
		if len(r.Choices) == 0 {
			return "", false
		}
		content := r.Choices[0].Message.Content
		return content, strings.TrimSpace(content) != ""
	},
	func(r *transcriptionResponse) (string, bool) {
		if len(r.Output) == 0 || len(r.Output[0].Content) == 0 {
			return "", false
		}
		text := r.Output[0].Content[0].Text
		return text, strings.TrimSpace(text) != ""
	},
}

func extractText(resp *transcriptionResponse) (string, error) {
	for _, extract := range extractors {
		if text, ok := extract(resp); ok {
			return strings.TrimSpace(text), nil
		}
	}
	return "", &errs.TranscriptionFormatError{Detail: "no text field, choices list, or output list carried content"}
}
