package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// Model is a vision-language model that can answer several prompts about one
// image. Encode is called once per image; the result is reused for every
// Query about that image.
type Model interface {
	Encode(ctx context.Context, r io.Reader, mimeType string) (*EncodedImage, error)
	Query(ctx context.Context, img *EncodedImage, prompt string) (string, error)
}

// EncodedImage is an image prepared for upload to a model API.
type EncodedImage struct {
	MediaType string
	// Data is the base64 (standard encoding) image payload.
	Data string
}

// DataURI returns the image as a data: URI.
func (e *EncodedImage) DataURI() string {
	return "data:" + e.MediaType + ";base64," + e.Data
}

// Encode reads r fully and base64-encodes it. Backends whose APIs take inline
// base64 images share this implementation.
func Encode(r io.Reader, mimeType string) (*EncodedImage, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &EncodedImage{
		MediaType: NormaliseMIME(mimeType),
		Data:      base64.StdEncoding.EncodeToString(imageData),
	}, nil
}

// NormaliseMIME maps the upload MIME type to one the model APIs accept.
// Only JPEG and PNG are uploaded; anything else is treated as JPEG.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return mimeType
	default:
		return "image/jpeg"
	}
}
