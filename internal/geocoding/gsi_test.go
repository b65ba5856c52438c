package geocoding_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/pinpoint/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSIProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Contains(t, req.URL.String(), "msearch.gsi.go.jp")
				assert.Equal(t, "福岡県 福岡市中央区天神 2-5-55", req.URL.Query().Get("q"))
				assert.Equal(t, "application/json", req.Header.Get("Accept"))

				body := `[{"geometry":{"coordinates":[130.399,33.5902],"type":"Point"},` +
					`"type":"Feature","properties":{"addressCode":"","title":"福岡県福岡市中央区天神二丁目"}}]`
				return jsonResponse(http.StatusOK, body), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "福岡県 福岡市中央区天神 2-5-55")

		require.NoError(t, err)
		require.NotNil(t, result)
		// GeoJSON order is [lon, lat].
		assert.InEpsilon(t, 33.5902, result.Latitude, 0.0001)
		assert.InEpsilon(t, 130.399, result.Longitude, 0.0001)
		assert.Equal(t, "福岡県福岡市中央区天神二丁目", result.Label)
		assert.Equal(t, "gsi", result.Provider)
	})

	t.Run("first feature wins", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				body := `[{"geometry":{"coordinates":[135.4959,34.7025]},"properties":{"title":"A"}},` +
					`{"geometry":{"coordinates":[139.0,36.0]},"properties":{"title":"B"}}]`
				return jsonResponse(http.StatusOK, body), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "大阪府 大阪市北区")

		require.NoError(t, err)
		assert.Equal(t, "A", result.Label)
	})

	t.Run("empty response from API", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "存在しない住所")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrEmptyResult)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusServiceUnavailable, `maintenance`), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "東京都 千代田区")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrNetworkFailure)
		assert.Contains(t, err.Error(), "gsi API returned status 503")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `<html>`), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "東京都 千代田区")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrMalformedResponse)
		assert.Contains(t, err.Error(), "failed to decode gsi response")
	})

	t.Run("short coordinate list", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `[{"geometry":{"coordinates":[139.7]},"properties":{}}]`), nil
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "東京都 千代田区")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrMalformedResponse)
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewGSIProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.Geocode(ctx, "東京都 千代田区")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrNetworkFailure)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("blank query", func(t *testing.T) {
		provider := geocoding.NewGSIProviderWithClient(nil, unlimited(), logger)
		result, err := provider.Geocode(ctx, "")

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrEmptyQuery)
	})
}

func TestNewGSIProvider(t *testing.T) {
	provider := geocoding.NewGSIProvider(5, slog.Default())

	require.NotNil(t, provider)
	assert.Equal(t, "gsi", provider.Name())
}
