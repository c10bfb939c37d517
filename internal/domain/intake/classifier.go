package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// NotApplicableSentinel is emitted by the model when a document does not
// describe a mental health condition. Matching is by prefix so trailing
// model chatter does not mask it.
const NotApplicableSentinel = "The document is not related to mental health or is invalid."

const classifierPrompt = `You are a mental health medical NLP assistant.

From the following clinical note, determine if it relates to mental health.

If it does, identify the disease mentioned, determine the risk level, and provide a medical suggestion.

If it does not, return the message: "The document is not related to mental health or is invalid."

Present the output in this exact structured format only if the note is related to mental health:

Disease Name: [Name of the disease]
Risk Level: [Low / Moderate / High]
Suggestion: [Provide a short actionable medical suggestion]

Clinical Note:
"""%s"""
`

// Classifier turns clinical note text into the structured model output.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// OllamaClassifier calls a local Ollama server's generate endpoint.
type OllamaClassifier struct {
	endpoint string
	model    string
	client   *http.Client
	logger   zerolog.Logger
}

func NewOllamaClassifier(endpoint, model string, timeout time.Duration, logger zerolog.Logger) *OllamaClassifier {
	return &OllamaClassifier{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *OllamaClassifier) Classify(ctx context.Context, text string) (string, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"prompt": fmt.Sprintf(classifierPrompt, text),
		"stream": false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/api/generate", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("model", c.model).Msg("ollama request failed")
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error().Int("status", resp.StatusCode).Str("model", c.model).Msg("ollama request rejected")
		return "", fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrClassifierUnavailable, err)
	}
	return ollamaResp.Response, nil
}
