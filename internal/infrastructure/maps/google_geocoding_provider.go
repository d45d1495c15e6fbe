package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"SnapSolve-App/internal/domain/model"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocodingProvider はGoogle Maps Geocoding APIを使用した逆ジオコーディングの実装
type GoogleGeocodingProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocodingProvider は新しいプロバイダを生成する
func NewGoogleGeocodingProvider(apiKey string, timeout time.Duration) *GoogleGeocodingProvider {
	return &GoogleGeocodingProvider{
		apiKey:     apiKey,
		baseURL:    defaultGeocodeURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL は接続先を差し替える（テスト用）
func (g *GoogleGeocodingProvider) WithBaseURL(baseURL string) *GoogleGeocodingProvider {
	g.baseURL = baseURL
	return g
}

// ReverseGeocode は座標から住所を取得する。結果が0件なら nil, nil を返す
func (g *GoogleGeocodingProvider) ReverseGeocode(ctx context.Context, coord model.Coordinate) (*model.GeocodeResult, error) {
	// 1. APIリクエストURLを構築
	params := url.Values{}
	params.Set("latlng", coord.String())
	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Service: "geocoding", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.UpstreamError{Service: "geocoding", Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	// 3. JSONレスポンスをパース
	var apiResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &model.UpstreamError{Service: "geocoding", Message: "invalid JSON response", Err: err}
	}

	switch apiResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, &model.UpstreamError{
			Service: "geocoding",
			Message: fmt.Sprintf("status %s: %s", apiResp.Status, apiResp.ErrorMessage),
		}
	}

	if len(apiResp.Results) == 0 {
		return nil, nil
	}

	// 4. ドメインモデルに変換して返す
	first := apiResp.Results[0]
	components := make([]model.AddressComponent, 0, len(first.AddressComponents))
	for _, c := range first.AddressComponents {
		components = append(components, model.AddressComponent{
			LongName: c.LongName,
			Types:    c.Types,
		})
	}

	return &model.GeocodeResult{
		FormattedAddress:  first.FormattedAddress,
		AddressComponents: components,
	}, nil
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleGeocodeResponse struct {
	Results      []geocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}
type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []addressComponent `json:"address_components"`
}
type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}
