package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// encodeResponse represents the response from the encoding service.
// The service reports detected faces alongside the encoding so callers
// can distinguish "no face" from "many faces".
type encodeResponse struct {
	Dim       int       `json:"dim"`
	Encoding  []float32 `json:"encoding"`
	FaceCount int       `json:"face_count"`
	Error     string    `json:"error,omitempty"`
}

// Extract posts the image to the encoding service and returns the face
// encoding. A response naming zero or multiple faces becomes an
// *ExtractionError; transport and server failures are returned as-is.
func (c *Client) Extract(ctx context.Context, imageData []byte) ([]float32, error) {
	body, err := c.postMultipartImage(ctx, "/encode", imageData)
	if err != nil {
		return nil, err
	}

	var resp encodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse encoding response: %w", err)
	}

	switch {
	case resp.Error != "":
		return nil, &ExtractionError{Reason: resp.Error}
	case resp.FaceCount == 0:
		return nil, &ExtractionError{Reason: "no face detected"}
	case resp.FaceCount > 1:
		return nil, &ExtractionError{Reason: fmt.Sprintf("%d faces detected, need exactly one", resp.FaceCount)}
	case len(resp.Encoding) == 0:
		return nil, &ExtractionError{Reason: "empty encoding returned"}
	}

	return resp.Encoding, nil
}

// postMultipartImage constructs a multipart form with the image data
// and posts it to the given endpoint. The part carries an explicit
// Content-Type based on magic byte detection.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	h.Set("Content-Type", detectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// 422 means the service inspected the image and rejected it, which
	// is a retryable capture problem rather than an infrastructure one.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, &ExtractionError{Reason: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}
