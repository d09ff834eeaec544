package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/vision"
)

func encodeJPEG(t *testing.T, m *OllamaModel) *vision.EncodedImage {
	t.Helper()
	// JPEG header
	img, err := m.Encode(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xE0}), "image/jpeg")
	require.NoError(t, err)
	return img
}

func TestOllamaQuery(t *testing.T) {
	var req struct {
		Model  string   `json:"model"`
		Prompt string   `json:"prompt"`
		Images []string `json:"images"`
		Stream bool     `json:"stream"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"model":    req.Model,
			"response": "Mould spots on the crust.",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "moondream")
	answer, err := model.Query(context.Background(), encodeJPEG(t, model), "Describe the bread")

	require.NoError(t, err)
	assert.Equal(t, "Mould spots on the crust.", answer)
	assert.Equal(t, "moondream", req.Model)
	assert.Equal(t, "Describe the bread", req.Prompt)
	assert.Equal(t, []string{"/9j/4A=="}, req.Images)
	assert.False(t, req.Stream)
}

func TestOllamaQueryNetworkError(t *testing.T) {
	model := NewOllamaModel("http://localhost:99999", "moondream")

	_, err := model.Query(context.Background(), encodeJPEG(t, model), "Describe")

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrNetwork))
}

func TestOllamaQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "moondream")
	_, err := model.Query(context.Background(), encodeJPEG(t, model), "Describe")

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrService))
}
