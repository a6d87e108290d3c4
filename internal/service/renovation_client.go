package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"concierge/internal/config"
	"concierge/internal/model"
	"concierge/internal/utils"

	"golang.org/x/time/rate"
)

// RenovationClient talks to the image enhancement service.
// All outbound calls share one limiter.
type RenovationClient struct {
	config     *config.RenovationConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	origin     string
}

// NewRenovationClient creates a client for the service at cfg.BaseURL
func NewRenovationClient(cfg *config.RenovationConfig) (*RenovationClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid renovation base URL %q", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Duration(float64(time.Minute) / cfg.RequestsPerMinute))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RenovationClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		limiter:    rate.NewLimiter(limit, burst),
		origin:     base.Scheme + "://" + base.Host,
	}, nil
}

// Renovate asks the service for styled variants of params.ImageURL
func (c *RenovationClient) Renovate(ctx context.Context, params model.EnhancementParams) (*model.EnhancementResult, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("renovation rate limit: %w", err)
	}

	req := model.RenovateRequest{
		ImageURL: params.ImageURL,
		Style:    params.Style,
		Prompt:   params.Style,
		Mode:     params.Mode,
		Sqm:      params.Sqm,
	}
	if params.Mode == model.ModeHouse {
		req.GalleryImages = params.GalleryImages
		if n := c.config.MaxGallery; n > 0 && len(req.GalleryImages) > n {
			req.GalleryImages = req.GalleryImages[:n]
		}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/renovate", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("renovation request failed with status %d: %s", resp.StatusCode, utils.TruncateString(string(body), 200))
	}

	var result model.RenovateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.RenovatedImageURL == "" {
		return nil, fmt.Errorf("renovation response has no image")
	}

	return c.toResult(result), nil
}

// toResult resolves relative URLs and picks the main image as the initial variant
func (c *RenovationClient) toResult(resp model.RenovateResponse) *model.EnhancementResult {
	main := c.resolve(resp.RenovatedImageURL)

	variants := make([]string, 0, len(resp.RenovatedGallery))
	for _, u := range resp.RenovatedGallery {
		if u != "" {
			variants = append(variants, c.resolve(u))
		}
	}
	if len(variants) == 0 {
		variants = []string{main}
	}

	selected := slices.Index(variants, main)
	if selected < 0 {
		selected = 0
	}

	contractors := resp.Contractors
	if contractors == nil {
		contractors = []model.Contractor{}
	}

	return &model.EnhancementResult{
		Variants:         variants,
		SelectedVariant:  selected,
		EstimatedCostMin: resp.EstimatedCostMin,
		EstimatedCostMax: resp.EstimatedCostMax,
		Contractors:      contractors,
	}
}

func (c *RenovationClient) resolve(u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return c.origin + u
	}
	return u
}
