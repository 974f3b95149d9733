// File: internal/backend/ollama.go
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/config"
)

// OllamaBackend implements schemas.VisionBackend against a self-hosted
// Ollama service. Ollama assigns no server-side session, so the session
// identifier passes through unchanged.
type OllamaBackend struct {
	host       string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
	cfg        config.BackendConfig
}

// -- Ollama API request/response structures (internal to this file) --

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done            bool  `json:"done"`
	EvalCount       int   `json:"eval_count"`
	PromptEvalCount int   `json:"prompt_eval_count"`
	TotalDuration   int64 `json:"total_duration"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		ModifiedAt time.Time `json:"modified_at"`
		Details    struct {
			Family string `json:"family"`
			Format string `json:"format"`
		} `json:"details"`
	} `json:"models"`
}

// NewOllamaBackend initializes the self-hosted backend adapter.
func NewOllamaBackend(cfg config.BackendConfig, model string, logger *zap.Logger) *OllamaBackend {
	host := cfg.Ollama.Host
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaBackend{
		host:       host,
		model:      model,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		logger:     logger.Named("backend.ollama"),
	}
}

var _ schemas.VisionBackend = (*OllamaBackend)(nil)

// SendVisionRequest submits the transcript to /api/chat and decodes the
// reply into the canonical action sequence.
func (b *OllamaBackend) SendVisionRequest(ctx context.Context, history []schemas.Turn, objective, sessionID string) ([]schemas.Action, string, error) {
	payload := ollamaChatRequest{
		Model:    b.model,
		Messages: b.formatMessages(history),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: b.cfg.Temperature,
			NumPredict:  b.cfg.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := b.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		return nil, "", retryable(fmt.Errorf("failed to reach ollama service: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", retryable(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", b.handleAPIError(resp.StatusCode, respBody)
	}

	var responsePayload ollamaChatResponse
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return nil, "", &ResponseParseError{Raw: string(respBody), Err: err}
	}

	b.logger.Info("Vision generation complete (Ollama)",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", responsePayload.PromptEvalCount),
		zap.Int("completion_tokens", responsePayload.EvalCount),
	)

	actions, err := DecodeActions(responsePayload.Message.Content)
	if err != nil {
		return nil, "", err
	}
	return actions, sessionID, nil
}

// ListModels enumerates locally installed models from /api/tags. A reachable
// service with nothing installed yields an empty slice, not an error.
func (b *OllamaBackend) ListModels(ctx context.Context) ([]schemas.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, retryable(fmt.Errorf("cannot connect to ollama service at %s (is 'ollama serve' running?): %w", b.host, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryable(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, b.handleAPIError(resp.StatusCode, respBody)
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(respBody, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode model listing: %w", err)
	}

	models := make([]schemas.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, schemas.ModelInfo{
			Name:         m.Name,
			SizeBytes:    m.Size,
			LastModified: m.ModifiedAt,
			Family:       m.Details.Family,
			Format:       m.Details.Format,
		})
	}
	return models, nil
}

// Validate checks membership of the named model in the local listing.
func (b *OllamaBackend) Validate(ctx context.Context, model string) (bool, error) {
	models, err := b.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m.Name == model {
			return true, nil
		}
	}
	return false, nil
}

// formatMessages converts the canonical transcript to the Ollama message
// shape; image parts travel in the images array as bare base64.
func (b *OllamaBackend) formatMessages(history []schemas.Turn) []ollamaMessage {
	messages := make([]ollamaMessage, 0, len(history))
	for _, turn := range history {
		msg := ollamaMessage{Role: string(turn.Role)}
		for _, p := range turn.Parts {
			switch p.Kind {
			case schemas.PartText:
				msg.Content += p.Text
			case schemas.PartImage:
				msg.Images = append(msg.Images, base64.StdEncoding.EncodeToString(p.Image))
			}
		}
		messages = append(messages, msg)
	}
	return messages
}

func (b *OllamaBackend) handleAPIError(statusCode int, body []byte) error {
	b.logger.Error("Ollama API returned error status", zap.Int("status", statusCode), zap.String("response", string(body)))
	apiErr := &APIError{Family: schemas.FamilyOllama, StatusCode: statusCode, Body: string(body)}
	if apiErr.Transient() {
		return retryable(apiErr)
	}
	return apiErr
}
