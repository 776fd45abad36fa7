package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- Summarizer Model Prompts ---
const SummarizerSystemPrompt = "You are a precise note-taking assistant. Your task is to summarize a raw audio transcript into a short, faithful summary. Never invent content that is not in the transcript."
const SummarizerUserPrompt = `Summarize the following transcript in at most five sentences.

Follow these rules:
1. Capture the main topics and any decisions or action items.
2. Keep names, dates, and numbers exactly as they appear in the transcript.
3. Write plain prose. No headings, no bullet points, no preamble.
4. If the transcript is too short or garbled to summarize, return it unchanged.

Transcript:
`

// VertexClient holds the pre-configured summarizer model.
type VertexClient struct {
	SummarizerModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a client for the optional summarization pass.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	summarizerModel := baseClient.GenerativeModel("gemini-1.5-pro")
	summarizerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarizerSystemPrompt)},
	}
	summarizerModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	return &VertexClient{
		SummarizerModel: summarizerModel,
		baseClient:      baseClient,
	}, nil
}

// Summarize runs the transcript through the summarizer model and returns the
// extracted text.
func (c *VertexClient) Summarize(ctx context.Context, transcript string) (string, error) {
	prompt := genai.Text(SummarizerUserPrompt + transcript)
	resp, err := c.SummarizerModel.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary from gemini: %w", err)
	}

	summary := extractSummary(resp)
	if summary == "" {
		return "", fmt.Errorf("gemini summary response contained no text parts")
	}
	return summary, nil
}

// extractSummary robustly parses the model's response to get the text content.
func extractSummary(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}

	contentStr := strings.TrimSpace(contentBuilder.String())
	contentStr = strings.TrimPrefix(contentStr, "```")
	contentStr = strings.TrimSuffix(contentStr, "```")
	return strings.TrimSpace(contentStr)
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
