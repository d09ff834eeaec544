package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/vision"
)

type OllamaModel struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaModel(host, model string) *OllamaModel {
	return &OllamaModel{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (a *OllamaModel) Encode(_ context.Context, r io.Reader, mimeType string) (*vision.EncodedImage, error) {
	return vision.Encode(r, mimeType)
}

func (a *OllamaModel) Query(ctx context.Context, img *vision.EncodedImage, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  a.model,
		"prompt": prompt,
		"images": []string{img.Data},
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrNetwork, "ollama generate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", domain.WrapError(domain.ErrService, "ollama generate",
			fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", domain.WrapError(domain.ErrService, "ollama generate", fmt.Errorf("failed to decode response: %w", err))
	}

	return respBody.Response, nil
}
