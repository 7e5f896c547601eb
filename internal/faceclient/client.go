// Package faceclient talks to the external face recognition service. All
// matching, feature extraction and confidence scoring happen on that side;
// this client only moves images and identifiers.
package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NoFaceDetected is the sentinel identifier the recognizer returns when the
// submitted frame contains no face. It is a valid outcome, not an error.
const NoFaceDetected = "No face detected"

// RecognizeResult is the recognizer's answer for one frame.
type RecognizeResult struct {
	USN        string  `json:"usn"`
	Confidence float64 `json:"confidence"`
}

// NoFace reports whether the result carries the sentinel.
func (r RecognizeResult) NoFace() bool {
	return r.USN == NoFaceDetected
}

// EnrollResult is the recognizer's answer for an enrollment request.
type EnrollResult struct {
	FaceBase64 string `json:"faceBase64"`
}

// Client calls the face recognition service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, all calls return canned results so the
// rest of the system runs without the recognizer.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // face processing can take time
		},
	}
}

// Recognize submits one captured frame plus the full enrolled gallery and
// returns the matched identifier, or the sentinel when no face was found.
func (c *Client) Recognize(ctx context.Context, image string, enrolledFaces map[string]string) (*RecognizeResult, error) {
	if c.Skip {
		for usn := range enrolledFaces {
			return &RecognizeResult{USN: usn, Confidence: 0.95}, nil
		}
		return &RecognizeResult{USN: NoFaceDetected}, nil
	}
	if image == "" {
		return nil, fmt.Errorf("image required")
	}

	body, _ := json.Marshal(map[string]any{
		"image":         image,
		"enrolledFaces": enrolledFaces,
	})
	out := &RecognizeResult{}
	if err := c.post(ctx, "/recognize", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll registers a reference image for an identifier.
func (c *Client) Enroll(ctx context.Context, usn, image string) (*EnrollResult, error) {
	if c.Skip {
		return &EnrollResult{FaceBase64: image}, nil
	}
	if usn == "" || image == "" {
		return nil, fmt.Errorf("usn and image required")
	}

	body, _ := json.Marshal(map[string]string{"usn": usn, "image": image})
	out := &EnrollResult{}
	if err := c.post(ctx, "/enroll", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks if the recognizer is available.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("face service unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
