// Package postal resolves Japanese postal codes to the area they cover, for address form autofill.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"golang.org/x/time/rate"
)

// ZipcloudBaseURL -- zipcloud postal code search endpoint.
const ZipcloudBaseURL = "https://zipcloud.ibsnet.co.jp/api/search"

var (
	ErrInvalidCode     = errors.New("postal code must be 7 digits")
	ErrLookupFailed    = errors.New("postal lookup failed")
	ErrMalformedResult = errors.New("postal lookup returned a malformed response")
)

// Lookup outcome labels.
const (
	outcomeHit     = "hit"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client looks postal codes up with the zipcloud API.
type Client struct {
	client  HTTPClient
	baseURL string
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *slog.Logger
}

type zipcloudResponse struct {
	Status  int              `json:"status"`
	Message *string          `json:"message"`
	Results []zipcloudResult `json:"results"`
}

type zipcloudResult struct {
	Zipcode  string `json:"zipcode"`
	Address1 string `json:"address1"` // prefecture
	Address2 string `json:"address2"` // city, ward, town or village
	Address3 string `json:"address3"` // town area
}

// NewClient creates a zipcloud client. An empty baseURL selects ZipcloudBaseURL.
func NewClient(baseURL string, rateLimit int, m *metrics.Metrics, log *slog.Logger) *Client {
	const timeout = 5

	if rateLimit <= 0 {
		rateLimit = 5
	}

	return NewClientWithHTTP(
		&http.Client{Timeout: timeout * time.Second},
		baseURL,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		m,
		log,
	)
}

// NewClientWithHTTP allows injecting a custom HTTP client and limiter.
func NewClientWithHTTP(
	client HTTPClient,
	baseURL string,
	limiter *rate.Limiter,
	m *metrics.Metrics,
	log *slog.Logger,
) *Client {
	if baseURL == "" {
		baseURL = ZipcloudBaseURL
	}

	return &Client{
		client:  client,
		baseURL: baseURL,
		limiter: limiter,
		metrics: m,
		log:     log,
	}
}

// Lookup returns the area for code, or (nil, nil) when the code is well formed but unknown.
// Callers treat any error as "no autofill".
func (c *Client) Lookup(ctx context.Context, code string) (*models.PostalAddress, error) {
	canonical := models.CanonicalPostalCode(code)
	if canonical == "" {
		c.metrics.PostalLookups.WithLabelValues(outcomeInvalid).Inc()
		return nil, ErrInvalidCode
	}

	address, err := c.lookup(ctx, canonical)
	switch {
	case err != nil:
		c.metrics.PostalLookups.WithLabelValues(outcomeError).Inc()
		c.log.WarnContext(ctx, "Postal lookup failed", "postal_code", canonical, "error", err)
	case address == nil:
		c.metrics.PostalLookups.WithLabelValues(outcomeEmpty).Inc()
	default:
		c.metrics.PostalLookups.WithLabelValues(outcomeHit).Inc()
	}

	return address, err
}

func (c *Client) lookup(ctx context.Context, canonical string) (*models.PostalAddress, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrLookupFailed, err)
	}

	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("zipcode", canonical[:3]+canonical[4:])
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: zipcloud returned status %d", ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrLookupFailed, err)
	}

	var payload zipcloudResponse
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}

	// zipcloud reports API-level failures in the body with HTTP 200.
	if payload.Status != http.StatusOK {
		message := ""
		if payload.Message != nil {
			message = *payload.Message
		}
		return nil, fmt.Errorf("%w: zipcloud status %d: %s", ErrLookupFailed, payload.Status, message)
	}

	if len(payload.Results) == 0 {
		c.log.DebugContext(ctx, "Postal code not found", "postal_code", canonical)
		return nil, nil
	}

	first := payload.Results[0]
	if !models.IsPrefecture(first.Address1) {
		return nil, fmt.Errorf("%w: unknown prefecture %q", ErrMalformedResult, first.Address1)
	}

	return &models.PostalAddress{
		PostalCode: canonical,
		Prefecture: first.Address1,
		City:       first.Address2,
		Town:       first.Address3,
	}, nil
}
