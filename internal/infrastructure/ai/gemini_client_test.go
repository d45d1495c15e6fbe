package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SnapSolve-App/internal/domain/model"
)

func TestGeminiClient_Classify(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/gemini-2.0-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req GeminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "describe this", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.Contents[0].Parts[1].InlineData.Data)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"description\":\"pothole\"}"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("secret", "gemini-2.0-flash", time.Second).WithBaseURL(srv.URL)

	text, err := client.Classify(context.Background(), image, "image/jpeg", "describe this")
	require.NoError(t, err)
	assert.Equal(t, `{"description":"pothole"}`, text)
	assert.Equal(t, 1, calls)
}

func TestGeminiClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"500はリトライしない", http.StatusInternalServerError, `{"error":{"message":"internal"}}`},
		{"429", http.StatusTooManyRequests, `{"error":{"message":"quota"}}`},
		{"候補なし", http.StatusOK, `{"candidates":[]}`},
		{"テキストなし", http.StatusOK, `{"candidates":[{"content":{"parts":[{}]}}]}`},
		{"JSONでない", http.StatusOK, `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewGeminiClient("k", "m", time.Second).WithBaseURL(srv.URL)

			text, err := client.Classify(context.Background(), []byte("img"), "image/png", "p")
			assert.Empty(t, text)

			var upstream *model.UpstreamError
			require.True(t, errors.As(err, &upstream), "UpstreamErrorであるべき: %v", err)
			assert.Equal(t, "vision", upstream.Service)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestGeminiClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewGeminiClient("k", "m", 50*time.Millisecond).WithBaseURL(srv.URL)

	start := time.Now()
	_, err := client.Classify(context.Background(), []byte("img"), "image/png", "p")
	assert.Less(t, time.Since(start), time.Second)

	var upstream *model.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Contains(t, upstream.Message, "timed out")
}

func TestGeminiClient_CallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewGeminiClient("k", "m", 5*time.Second).WithBaseURL(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Classify(ctx, []byte("img"), "image/png", "p")
	var upstream *model.UpstreamError
	assert.True(t, errors.As(err, &upstream))
}
