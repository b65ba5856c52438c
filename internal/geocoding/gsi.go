package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"golang.org/x/time/rate"
)

// GSIBaseURL -- GSI (Geospatial Information Authority of Japan) address search endpoint.
const GSIBaseURL = "https://msearch.gsi.go.jp/address-search/AddressSearch"

// GSIProvider implements geocoding using the GSI address search API, which indexes Japanese
// addresses down to block level.
type GSIProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the GSI API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// GSI API response item (simplified for geocoding use-case).
type gsiFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
}

// NewGSIProvider creates a new GSI geocoding provider.
func NewGSIProvider(rateLimit int, log *slog.Logger) *GSIProvider {
	const timeout = 10

	return &GSIProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: GSIBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewGSIProviderWithClient allows injecting custom HTTP client.
func NewGSIProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *GSIProvider {
	return &GSIProvider{
		client:  client,
		baseURL: GSIBaseURL,
		log:     log,
		limiter: limiter,
	}
}

// Name returns the provider name used in results and metrics.
func (gp *GSIProvider) Name() string {
	return string(ProviderTypeGSI)
}

// Geocode looks query up in the GSI address index and returns the first match.
func (gp *GSIProvider) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	const coordsListLength = 2

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	// Rate limit
	if err := gp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrNetworkFailure, err)
	}

	gp.log.DebugContext(ctx, "Geocoding using GSI", "query", query)

	reqURL, err := url.Parse(gp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := gp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute geocoding request: %w", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		gp.log.WarnContext(ctx, "GSI API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: gsi API returned status %d", ErrNetworkFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrNetworkFailure, err)
	}

	gp.log.DebugContext(ctx, "GSI raw response", "body", string(body))

	var features []gsiFeature
	if err = json.Unmarshal(body, &features); err != nil {
		return nil, fmt.Errorf("%w: failed to decode gsi response: %w", ErrMalformedResponse, err)
	}

	if len(features) == 0 {
		return nil, ErrEmptyResult
	}

	coords := features[0].Geometry.Coordinates
	if len(coords) != coordsListLength {
		return nil, fmt.Errorf("%w: gsi returned %d coordinate values", ErrMalformedResponse, len(coords))
	}

	// GSI follows GeoJSON axis order.
	lon, lat := coords[0], coords[1]

	gp.log.DebugContext(ctx, "GSI found result", "query", query, "lat", lat, "lon", lon)

	return newResult(gp.Name(), lat, lon, features[0].Properties.Title)
}
