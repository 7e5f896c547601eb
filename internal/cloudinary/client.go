// Package cloudinary uploads images through Cloudinary's unsigned upload REST
// endpoint and returns the durable secure URL.
package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client uploads images using an unsigned upload preset.
type Client struct {
	CloudName    string
	UploadPreset string
	Folder       string
	HTTP         *http.Client
}

// New creates a client.
func New(cloudName, uploadPreset, folder string) *Client {
	return &Client{
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		Folder:       folder,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResult holds the response after a successful upload.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int    `json:"bytes"`
}

// UploadBase64 uploads a base64 data URL image ("data:image/jpeg;base64,..."
// or raw base64; Cloudinary accepts both via the file param).
func (c *Client) UploadBase64(ctx context.Context, data string) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	c.writeParams(w)
	_ = w.WriteField("file", data)
	w.Close()

	return c.send(ctx, &buf, w.FormDataContentType())
}

// UploadBytes uploads raw image bytes as a multipart file.
func (c *Client) UploadBytes(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	c.writeParams(w)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: create form file failed: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("cloudinary: write file failed: %w", err)
	}
	w.Close()

	return c.send(ctx, &buf, w.FormDataContentType())
}

func (c *Client) writeParams(w *multipart.Writer) {
	_ = w.WriteField("upload_preset", c.UploadPreset)
	if c.Folder != "" {
		_ = w.WriteField("folder", c.Folder)
	}
}

func (c *Client) send(ctx context.Context, body io.Reader, contentType string) (*UploadResult, error) {
	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudinary: upload failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("cloudinary: decode response failed: %w", err)
	}
	return &result, nil
}
