package moondream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/vision"
)

const defaultAPIURL = "https://api.moondream.ai/v1"

// authHeader carries the API key on every Moondream cloud request.
const authHeader = "X-Moondream-Auth"

type queryRequest struct {
	ImageURL string `json:"image_url"`
	Question string `json:"question"`
	Stream   bool   `json:"stream"`
}

type queryResponse struct {
	RequestID string `json:"request_id"`
	Answer    string `json:"answer"`
}

type MoondreamModel struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewMoondreamModel(apiKey, baseURL string) *MoondreamModel {
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	return &MoondreamModel{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Encode prepares the image as an inline base64 payload. The Moondream cloud
// API takes the image as a data URI on every query.
func (m *MoondreamModel) Encode(_ context.Context, r io.Reader, mimeType string) (*vision.EncodedImage, error) {
	return vision.Encode(r, mimeType)
}

func (m *MoondreamModel) Query(ctx context.Context, img *vision.EncodedImage, prompt string) (string, error) {
	payload, err := json.Marshal(queryRequest{
		ImageURL: img.DataURI(),
		Question: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authHeader, m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrNetwork, "moondream query", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close moondream response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", domain.WrapError(domain.ErrService, "moondream query",
			fmt.Errorf("moondream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody))))
	}

	var respBody queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", domain.WrapError(domain.ErrService, "moondream query", fmt.Errorf("failed to decode response: %w", err))
	}
	slog.Debug("moondream query complete", "moondream_request_id", respBody.RequestID, "answer_bytes", len(respBody.Answer))

	return respBody.Answer, nil
}
