package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-rescue-network/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("nominatim client not configured")
	ErrNoResult      = errors.New("no geocoding result")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client consulta un endpoint estilo Nominatim (formato json v2).
// Implementa geocode.Resolver; se instancia desde main/router solo si
// hay GEOCODE_BASE_URL configurado.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Resolve(ctx context.Context, address string) (float64, float64, error) {
	if c == nil || c.http == nil {
		return 0, 0, ErrNotConfigured
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, 0, ErrNoResult
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	var results []searchResult
	if err := c.http.GetJSON(ctx, "/search?"+q.Encode(), &results); err != nil {
		return 0, 0, fmt.Errorf("nominatim search: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim lat: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim lon: %w", err)
	}

	return lat, lng, nil
}
