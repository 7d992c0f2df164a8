// Package handwrite recognizes handwritten math strokes through an
// external cloud recognition service. The feature is optional: without
// stored credentials the client reports itself disabled and the rest of
// the application behaves as if the feature did not exist.
package handwrite

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultURL is the batch recognition endpoint.
const DefaultURL = "https://cloud.myscript.com/api/v4.0/iink/batch"

// Prefs keys holding the credentials.
const (
	PrefAppKey  = "handwriting.appKey"
	PrefHMACKey = "handwriting.hmacKey"
)

// KeyStore is the slice of store.Prefs this package reads.
type KeyStore interface {
	Get(key, fallback string) string
}

// Stroke is one pen trace: parallel coordinate arrays, one point per
// sample.
type Stroke struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Client talks to the recognition service.
type Client struct {
	url     string
	appKey  string
	hmacKey string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a client with explicit credentials. Empty credentials make
// a disabled client.
func New(url, appKey, hmacKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, appKey: appKey, hmacKey: hmacKey, client: httpClient, logger: logger}
}

// NewFromPrefs creates a client reading credentials from the preferences
// store.
func NewFromPrefs(prefs KeyStore, httpClient *http.Client, logger *slog.Logger) *Client {
	return New("", prefs.Get(PrefAppKey, ""), prefs.Get(PrefHMACKey, ""), httpClient, logger)
}

// Enabled reports whether both credentials are present.
func (c *Client) Enabled() bool {
	return c.appKey != "" && c.hmacKey != ""
}

type batchRequest struct {
	ContentType  string        `json:"contentType"`
	StrokeGroups []strokeGroup `json:"strokeGroups"`
}

type strokeGroup struct {
	Strokes []Stroke `json:"strokes"`
}

// Recognize sends one stroke group and returns the recognized LaTeX.
func (c *Client) Recognize(ctx context.Context, strokes []Stroke) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("handwrite: recognition not configured")
	}
	if len(strokes) == 0 {
		return "", nil
	}

	body, err := json.Marshal(batchRequest{
		ContentType:  "Math",
		StrokeGroups: []strokeGroup{{Strokes: strokes}},
	})
	if err != nil {
		return "", fmt.Errorf("handwrite: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("handwrite: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-latex")
	req.Header.Set("applicationKey", c.appKey)
	req.Header.Set("hmac", Sign(c.appKey, c.hmacKey, body))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("handwrite: service unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("handwrite: read: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.logger.Debug("handwrite: service error", "status", resp.StatusCode)
		return "", fmt.Errorf("handwrite: service status %d", resp.StatusCode)
	}
	return string(data), nil
}

// Sign computes the request signature: HMAC-SHA512 over the body, keyed
// by the concatenation of the application key and the HMAC key, hex
// encoded. This is the signature scheme the service verifies.
func Sign(appKey, hmacKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(appKey+hmacKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
