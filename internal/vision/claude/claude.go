package claude

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/vision"
)

// maxTokens bounds one answer. The assessment JSON and the observations
// paragraph are both well under this.
const maxTokens = 1024

type ClaudeModel struct {
	client *anthropic.Client
	model  string
}

// Option customises the underlying Anthropic client.
type Option func(*[]anthropic.ClientOption)

// WithBaseURL points the client at a different Messages API root.
func WithBaseURL(url string) Option {
	return func(opts *[]anthropic.ClientOption) {
		*opts = append(*opts, anthropic.WithBaseURL(url))
	}
}

func NewClaudeModel(apiKey, model string, opts ...Option) *ClaudeModel {
	var clientOpts []anthropic.ClientOption
	for _, opt := range opts {
		opt(&clientOpts)
	}
	return &ClaudeModel{
		client: anthropic.NewClient(apiKey, clientOpts...),
		model:  model,
	}
}

func (a *ClaudeModel) Encode(_ context.Context, r io.Reader, mimeType string) (*vision.EncodedImage, error) {
	return vision.Encode(r, mimeType)
}

func (a *ClaudeModel) Query(ctx context.Context, img *vision.EncodedImage, prompt string) (string, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					img.MediaType,
					img.Data,
				)),
				anthropic.NewTextMessageContent(prompt),
			},
		}},
	})
	if err != nil {
		return "", domain.WrapError(classify(err), "claude query", err)
	}

	var sb strings.Builder
	for i := range resp.Content {
		if resp.Content[i].Type == anthropic.MessagesContentTypeText {
			sb.WriteString(resp.Content[i].GetText())
		}
	}
	return sb.String(), nil
}

// classify separates failures the API reported from failures to reach it.
func classify(err error) error {
	var apiErr *anthropic.APIError
	var reqErr *anthropic.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return domain.ErrService
	}
	return domain.ErrNetwork
}
