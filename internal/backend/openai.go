// File: internal/backend/openai.go
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/config"
)

// OpenAIBackend implements schemas.VisionBackend against the OpenAI chat
// completions API. The adapter is stateless between calls; conversation
// state travels in the history argument.
type OpenAIBackend struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
	cfg        config.BackendConfig
}

// -- OpenAI API request/response structures (internal to this file) --

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role string `json:"role"`
	// Content is a bare string for text-only messages and a part array for
	// multimodal ones, matching the API's accepted shapes.
	Content any `json:"content"`
}

type openAIRequestPayload struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIResponsePayload struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type openAIModelList struct {
	Data []struct {
		ID      string `json:"id"`
		Created int64  `json:"created"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// NewOpenAIBackend initializes the remote-hosted backend adapter.
func NewOpenAIBackend(cfg config.BackendConfig, model, apiKey string, logger *zap.Logger) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	endpoint := cfg.OpenAI.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	return &OpenAIBackend{
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      model,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		logger:     logger.Named("backend.openai"),
	}, nil
}

var _ schemas.VisionBackend = (*OpenAIBackend)(nil)

// SendVisionRequest submits the transcript and decodes the reply into the
// canonical action sequence.
func (b *OpenAIBackend) SendVisionRequest(ctx context.Context, history []schemas.Turn, objective, sessionID string) ([]schemas.Action, string, error) {
	payload := openAIRequestPayload{
		Model:       b.model,
		Messages:    b.formatMessages(history),
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: b.cfg.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	startTime := time.Now()
	resp, err := b.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		return nil, "", retryable(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", retryable(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", b.handleAPIError(resp.StatusCode, respBody)
	}

	var responsePayload openAIResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return nil, "", &ResponseParseError{Raw: string(respBody), Err: err}
	}
	if len(responsePayload.Choices) == 0 {
		return nil, "", &ResponseParseError{Raw: string(respBody), Err: fmt.Errorf("API returned no choices")}
	}

	b.logger.Info("Vision generation complete (OpenAI)",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", responsePayload.Usage.PromptTokens),
		zap.Int("completion_tokens", responsePayload.Usage.CompletionTokens),
		zap.Int("total_tokens", responsePayload.Usage.TotalTokens),
	)

	actions, err := DecodeActions(responsePayload.Choices[0].Message.Content)
	if err != nil {
		return nil, "", err
	}

	newSessionID := sessionID
	if responsePayload.ID != "" {
		newSessionID = responsePayload.ID
	}
	return actions, newSessionID, nil
}

// ListModels enumerates the models visible to the account.
func (b *OpenAIBackend) ListModels(ctx context.Context) ([]schemas.ModelInfo, error) {
	respBody, err := b.get(ctx, "/models")
	if err != nil {
		return nil, err
	}

	var list openAIModelList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode model listing: %w", err)
	}

	models := make([]schemas.ModelInfo, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, schemas.ModelInfo{
			Name:         m.ID,
			LastModified: time.Unix(m.Created, 0),
			Family:       m.OwnedBy,
		})
	}
	return models, nil
}

// Validate performs a lightweight probe for the named model.
func (b *OpenAIBackend) Validate(ctx context.Context, model string) (bool, error) {
	_, err := b.get(ctx, "/models/"+model)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *OpenAIBackend) get(ctx context.Context, path string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, retryable(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryable(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, b.handleAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// formatMessages converts the canonical transcript into the OpenAI message
// shape, embedding image parts as base64 data URLs.
func (b *OpenAIBackend) formatMessages(history []schemas.Turn) []openAIMessage {
	messages := make([]openAIMessage, 0, len(history))
	for _, turn := range history {
		if !turn.HasImage() {
			var text string
			for _, p := range turn.Parts {
				text += p.Text
			}
			messages = append(messages, openAIMessage{Role: string(turn.Role), Content: text})
			continue
		}

		parts := make([]openAIContentPart, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			switch p.Kind {
			case schemas.PartText:
				parts = append(parts, openAIContentPart{Type: "text", Text: p.Text})
			case schemas.PartImage:
				parts = append(parts, openAIContentPart{
					Type: "image_url",
					ImageURL: &openAIImageURL{
						URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(p.Image),
					},
				})
			}
		}
		messages = append(messages, openAIMessage{Role: string(turn.Role), Content: parts})
	}
	return messages
}

func (b *OpenAIBackend) handleAPIError(statusCode int, body []byte) error {
	b.logger.Error("OpenAI API returned error status", zap.Int("status", statusCode), zap.String("response", string(body)))
	apiErr := &APIError{Family: schemas.FamilyOpenAI, StatusCode: statusCode, Body: string(body)}
	if apiErr.Transient() {
		return retryable(apiErr)
	}
	return apiErr
}
