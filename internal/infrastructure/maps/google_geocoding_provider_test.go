package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SnapSolve-App/internal/domain/model"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleGeocodingProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoogleGeocodingProvider("test-key", 2*time.Second).WithBaseURL(srv.URL)
}

func TestGoogleGeocodingProvider_ReverseGeocode(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "34.0689,-118.4452", r.URL.Query().Get("latlng"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "405 Hilgard Ave, Los Angeles, CA 90095, USA",
				"address_components": [
					{"long_name": "405", "short_name": "405", "types": ["street_number"]},
					{"long_name": "University of California, Los Angeles", "short_name": "UCLA", "types": ["establishment", "point_of_interest", "university"]}
				]
			}, {
				"formatted_address": "Los Angeles, CA, USA",
				"address_components": []
			}]
		}`))
	})

	result, err := provider.ReverseGeocode(context.Background(), model.Coordinate{Latitude: 34.0689, Longitude: -118.4452})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "405 Hilgard Ave, Los Angeles, CA 90095, USA", result.FormattedAddress)
	require.Len(t, result.AddressComponents, 2)
	assert.Equal(t, "University of California, Los Angeles", result.AddressComponents[1].LongName)
	assert.Contains(t, result.AddressComponents[1].Types, "university")
}

func TestGoogleGeocodingProvider_SmallCoordinateQuery(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.00001,9.5", r.URL.Query().Get("latlng"))
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := provider.ReverseGeocode(context.Background(), model.Coordinate{Latitude: 0.00001, Longitude: 9.5})
	assert.NoError(t, err)
}

func TestGoogleGeocodingProvider_ZeroResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	result, err := provider.ReverseGeocode(context.Background(), model.Coordinate{})
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestGoogleGeocodingProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "HTTP 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "REQUEST_DENIED",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
			},
		},
		{
			name: "壊れたJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": `))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, tt.handler)

			result, err := provider.ReverseGeocode(context.Background(), model.Coordinate{Latitude: 1, Longitude: 2})
			assert.Nil(t, result)

			var upstream *model.UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, "geocoding", upstream.Service)
		})
	}
}

func TestGoogleGeocodingProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	provider := NewGoogleGeocodingProvider("k", 50*time.Millisecond).WithBaseURL(srv.URL)

	_, err := provider.ReverseGeocode(context.Background(), model.Coordinate{})
	var upstream *model.UpstreamError
	assert.True(t, errors.As(err, &upstream))
}
