// Package grok talks to the Grok web API.
package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/port"
)

// UploadRoute is the path of the Grok file upload endpoint.
const UploadRoute = "/rest/app-chat/upload-file"

const maxErrorBodyChars = 200

type uploadRequest struct {
	FileName     string `json:"fileName"`
	FileMimeType string `json:"fileMimeType"`
	Content      string `json:"content"`
}

type uploadResponse struct {
	FileMetadataID string `json:"fileMetadataId"`
	FileURI        string `json:"fileUri"`
}

type uploader struct {
	client   *http.Client
	headers  port.HeaderProvider
	endpoint string
	log      zerolog.Logger
}

// NewUploader creates a FileUploader posting to cfg.BaseURL + UploadRoute.
// A nil client uses a client with cfg.RequestTimeout.
func NewUploader(cfg config.GrokConfig, client *http.Client, headers port.HeaderProvider, log zerolog.Logger) port.FileUploader {
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &uploader{
		client:   client,
		headers:  headers,
		endpoint: cfg.BaseURL + UploadRoute,
		log:      log,
	}
}

func (u *uploader) UploadFile(ctx context.Context, img *domain.ResolvedImage, cookie string) (*domain.UploadResult, error) {
	payload, err := json.Marshal(uploadRequest{
		FileName:     img.Filename,
		FileMimeType: img.MimeType,
		Content:      img.Base64,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	for k, v := range u.headers.Headers(UploadRoute) {
		req.Header.Set(k, v)
	}
	req.Header.Set("Cookie", cookie)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Four bytes per rune is enough to cover the excerpt.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyChars*utf8.UTFMax))
		return nil, &domain.UploadError{StatusCode: resp.StatusCode, Body: truncateRunes(string(raw), maxErrorBodyChars)}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		u.log.Warn().Err(err).Int("status", resp.StatusCode).Msg("grok upload response was not valid JSON")
	}

	return &domain.UploadResult{
		FileID:  out.FileMetadataID,
		FileURI: out.FileURI,
	}, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
