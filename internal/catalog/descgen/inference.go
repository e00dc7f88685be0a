package descgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// InferenceProvider calls a Hugging Face Inference-style text-generation
// endpoint with an instruct-formatted prompt.
type InferenceProvider struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewInferenceProvider creates a provider against the given inference
// endpoint.
func NewInferenceProvider(apiURL, apiKey string, client *http.Client) *InferenceProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &InferenceProvider{apiURL: apiURL, apiKey: apiKey, client: client}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type inferenceResult struct {
	GeneratedText string `json:"generated_text"`
}

// artifactRe strips instruct-format tokens that some models echo back.
var artifactRe = regexp.MustCompile(`</?s>|\[/?INST\]`)

// Generate implements Provider.
func (p *InferenceProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs: buildPrompt(prompt),
		Parameters: inferenceParameters{
			MaxNewTokens:   500,
			Temperature:    0.7,
			TopP:           0.95,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	text, err := extractGeneratedText(raw)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(artifactRe.ReplaceAllString(text, ""))
	if text == "" {
		return "", fmt.Errorf("%w: empty generation", ErrMalformedResponse)
	}
	return text, nil
}

// extractGeneratedText accepts the response shapes the inference API is
// known to produce: an array of results, a single result object, or a bare
// string.
func extractGeneratedText(raw []byte) (string, error) {
	var asArray []inferenceResult
	if err := json.Unmarshal(raw, &asArray); err == nil && len(asArray) > 0 {
		return asArray[0].GeneratedText, nil
	}
	var asObject inferenceResult
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject.GeneratedText != "" {
		return asObject.GeneratedText, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString, nil
	}
	return "", fmt.Errorf("%w: unrecognized response shape", ErrMalformedResponse)
}

func buildPrompt(p Prompt) string {
	return fmt.Sprintf(`<s>[INST] You are a technical writer specializing in AI systems.
Write a detailed, professional description for an AI agent with the following properties:

Name: %s
Short Description: %s
Capabilities: %s
Categories: %s
Input Format: %s
Output Format: %s

The description should be 3-4 paragraphs, explaining what the agent does, its key capabilities, how it works, and potential use cases.
It should be informative, accurate, and professional.
Your response should ONLY contain the detailed description text, with no additional formatting or metadata. [/INST]</s>`,
		p.Name, p.Description,
		strings.Join(p.Capabilities, ", "),
		strings.Join(p.Tags, ", "),
		p.InputFormat, p.OutputFormat,
	)
}
