// Package extractor turns a raw face image into a fixed-length numeric
// vector by calling the external encoding service. The model behind
// the service is opaque to this system.
package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultExtractorURL = "http://localhost:8000"
	defaultTimeout      = 15 * time.Second
)

// Extractor computes a face encoding from raw image bytes.
type Extractor interface {
	// Extract returns the face encoding for the (single) face in the
	// image. Failures to produce a vector from the input image are
	// reported as *ExtractionError; anything else is infrastructure.
	Extract(ctx context.Context, imageData []byte) ([]float32, error)
}

// ExtractionError reports that no usable encoding could be produced
// from the input image. It is recoverable: the caller retries with a
// new capture.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Reason
}

// Client calls the face encoding HTTP service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new encoding service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultExtractorURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ExtractFunc adapts a function to the Extractor interface.
type ExtractFunc func(ctx context.Context, imageData []byte) ([]float32, error)

// Extract calls f.
func (f ExtractFunc) Extract(ctx context.Context, imageData []byte) ([]float32, error) {
	return f(ctx, imageData)
}

// detectMIMEType detects the MIME type from image data.
func detectMIMEType(data []byte) string {
	if len(data) < 8 {
		return "application/octet-stream"
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	return "application/octet-stream"
}

// statusError formats an unexpected HTTP status from the service.
func statusError(status int, body []byte) error {
	return fmt.Errorf("encoding service error (status %d): %s", status, string(body))
}
