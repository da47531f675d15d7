// Package rasterize renders the first page of a PDF document as a PNG image
// by delegating to an external converter service.
package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Converter renders a PDF document into a preview image.
type Converter interface {
	Convert(ctx context.Context, pdf []byte) ([]byte, error)
}

// Service calls a remote rasterizer over HTTP: the PDF goes out as the
// request body, the PNG comes back as the response body.
type Service struct {
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// New constructs a rasterizer client for the given endpoint.
func New(endpoint string, logger zerolog.Logger) (*Service, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("rasterizer endpoint must be provided")
	}

	return &Service{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger.With().Str("component", "rasterizer").Logger(),
	}, nil
}

// Convert sends the document to the converter and returns the rendered image.
func (s *Service) Convert(ctx context.Context, pdf []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("build convert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "image/png")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("convert document: unexpected status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read converted image: %w", err)
	}

	if len(image) == 0 {
		return nil, fmt.Errorf("converter returned an empty image")
	}

	s.logger.Debug().Int("image_bytes", len(image)).Msg("document rasterized")

	return image, nil
}
