package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/service"
)

type callLog struct {
	calls []string
}

type fakeGeocoder struct {
	log    *callLog
	result *model.GeocodeResult
	err    error
	got    []model.Coordinate
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, coord model.Coordinate) (*model.GeocodeResult, error) {
	f.log.calls = append(f.log.calls, "geocode")
	f.got = append(f.got, coord)
	return f.result, f.err
}

type fakeVision struct {
	log      *callLog
	response string
	err      error
	prompt   string
	mimeType string
	image    []byte
}

func (f *fakeVision) Classify(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	f.log.calls = append(f.log.calls, "vision")
	f.prompt = prompt
	f.mimeType = mimeType
	f.image = image
	return f.response, f.err
}

func floatPtr(v float64) *float64 { return &v }

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newAnalyzeFixture() (*callLog, *fakeGeocoder, *fakeVision, AnalyzeUseCase) {
	calls := &callLog{}
	geocoder := &fakeGeocoder{
		log: calls,
		result: &model.GeocodeResult{
			FormattedAddress: "1 Main St, Springfield",
			AddressComponents: []model.AddressComponent{
				{LongName: "1", Types: []string{"street_number"}},
				{LongName: "Main St", Types: []string{"route"}},
			},
		},
	}
	vision := &fakeVision{
		log:      calls,
		response: "```json\n{\"description\":\"Pothole\",\"recommendation\":\"City Roads\",\"email\":\"roads@city.gov\"}\n```",
	}
	uc := NewAnalyzeUseCase(service.NewGeoEnricher(geocoder), vision, time.Second, time.Second)
	return calls, geocoder, vision, uc
}

func TestAnalyze_Success(t *testing.T) {
	calls, geocoder, vision, uc := newAnalyzeFixture()

	result, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(pngImage),
		Latitude:    floatPtr(39.78),
		Longitude:   floatPtr(-89.65),
	})

	require.NoError(t, err)
	assert.Equal(t, "Pothole", result.Description)
	assert.Equal(t, "City Roads", result.Recommendation)
	require.NotNil(t, result.Email)
	assert.Equal(t, "roads@city.gov", *result.Email)

	assert.Equal(t, []string{"geocode", "vision"}, calls.calls)
	assert.Equal(t, []model.Coordinate{{Latitude: 39.78, Longitude: -89.65}}, geocoder.got)
	assert.Contains(t, vision.prompt, "1 Main St, Springfield")
	assert.Equal(t, "image/png", vision.mimeType)
	assert.Equal(t, pngImage, vision.image)
}

func TestAnalyze_GeocodeFailureStillClassifies(t *testing.T) {
	calls, geocoder, vision, uc := newAnalyzeFixture()
	geocoder.result = nil
	geocoder.err = &model.UpstreamError{Service: "geocoding", Message: "status 500"}

	result, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(pngImage),
		Latitude:    floatPtr(1.5),
		Longitude:   floatPtr(2.5),
	})

	require.NoError(t, err)
	assert.Equal(t, "Pothole", result.Description)
	assert.Equal(t, []string{"geocode", "vision"}, calls.calls)
	assert.Contains(t, vision.prompt, "1.5,2.5")
}

func TestAnalyze_NoCoordinateSkipsGeocoding(t *testing.T) {
	calls, _, _, uc := newAnalyzeFixture()

	_, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(pngImage),
		Latitude:    floatPtr(1.5),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"vision"}, calls.calls)
}

func TestAnalyze_InvalidImage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		message string
	}{
		{"missing", "", "Missing imageBase64"},
		{"not base64", "%%%not-base64%%%", "imageBase64 must be base64 encoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, _, _, uc := newAnalyzeFixture()

			_, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{
				ImageBase64: tt.payload,
				Latitude:    floatPtr(1),
				Longitude:   floatPtr(2),
			})

			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
			assert.Empty(t, calls.calls)
		})
	}
}

func TestAnalyze_VisionFailure(t *testing.T) {
	_, _, vision, uc := newAnalyzeFixture()
	vision.err = &model.UpstreamError{Service: "vision", Message: "timed out", Err: context.DeadlineExceeded}

	_, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{ImageBase64: base64.StdEncoding.EncodeToString(pngImage)})

	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "vision", upstreamErr.Service)
}

func TestAnalyze_UnparsableResponse(t *testing.T) {
	_, _, vision, uc := newAnalyzeFixture()
	vision.response = "I think this is a pothole."

	_, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{ImageBase64: base64.StdEncoding.EncodeToString(pngImage)})

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.False(t, errors.As(err, new(*model.UpstreamError)))
}

func TestAnalyze_UnknownProblem(t *testing.T) {
	_, _, vision, uc := newAnalyzeFixture()
	vision.response = `{"description":"unknown","recommendation":"unknown"}`

	result, err := uc.Analyze(context.Background(), &model.AnalyzeRequest{ImageBase64: base64.StdEncoding.EncodeToString(pngImage)})

	require.NoError(t, err)
	assert.True(t, result.IsUnknown())
	assert.Nil(t, result.Email)
}
