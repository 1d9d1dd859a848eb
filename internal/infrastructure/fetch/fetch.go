// Package fetch retrieves raw page bytes with a browser-like request
// profile. It carries no business logic: callers get decoded UTF-8 bytes
// or an error.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"cinewire/internal/config"
	"cinewire/internal/ports"
)

const defaultMaxBody = 5 << 20

// Client is an outbound page fetcher with decompression, a body size cap
// and charset normalization.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBody    int64
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient builds a fetcher from configuration. A nil http.Client gets a
// default one with the configured timeout.
func NewClient(cfg config.FetchConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Client{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBody:    maxBody,
	}
}

// Fetch GETs the URL and returns its body decoded to UTF-8. Compressed
// responses are inflated, bodies are capped at the configured size and
// non-200 statuses are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fetch: invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: http status %d", rawURL, resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: gzip: %w", rawURL, err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	data, err := io.ReadAll(io.LimitReader(reader, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", rawURL, err)
	}

	return decodeToUTF8(data, resp.Header.Get("Content-Type")), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,te;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// decodeToUTF8 converts legacy-encoded bodies to UTF-8. Bodies the decoder
// rejects pass through unchanged when they already are valid UTF-8.
func decodeToUTF8(data []byte, contentType string) []byte {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil || (len(decoded) == 0 && utf8.Valid(data)) {
		return data
	}
	return decoded
}
