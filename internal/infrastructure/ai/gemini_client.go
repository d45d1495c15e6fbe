package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"

	"SnapSolve-App/internal/domain/model"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiTimeout はビジョンモデル呼び出しの固定デッドライン
	DefaultGeminiTimeout = 15 * time.Second
	// 応答ボディの読み取り上限
	maxGeminiResponseBytes = 4 << 20
)

// GeminiClient はGemini APIとの通信を担当するクライアント
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGeminiClient は新しいGeminiClientインスタンスを作成
func NewGeminiClient(apiKey, modelName string, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = DefaultGeminiTimeout
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   modelName,
		baseURL: defaultGeminiBaseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL は接続先を差し替える（テスト用）
func (c *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	c.baseURL = baseURL
	return c
}

// GeminiRequest はGemini APIへのリクエスト構造体
type GeminiRequest struct {
	Contents []Content `json:"contents"`
}

// Content はリクエストの内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part はテキストまたはインライン画像
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData はbase64エンコードした画像
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GeminiResponse はGemini APIからのレスポンス構造体
type GeminiResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate は生成された候補
type Candidate struct {
	Content Content `json:"content"`
}

// Classify は画像とプロンプトを送り、モデルの生テキストを返す。リトライはしない
func (c *GeminiClient) Classify(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	req := GeminiRequest{
		Contents: []Content{
			{
				Role: "user",
				Parts: []Part{
					{Text: prompt},
					{InlineData: &InlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
	}
	return c.generateContent(ctx, req)
}

func (c *GeminiClient) generateContent(ctx context.Context, req GeminiRequest) (string, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", &model.UpstreamError{Service: "vision", Message: "vision model timed out", Err: err}
		}
		return "", &model.UpstreamError{Service: "vision", Message: "vision model request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeminiResponseBytes))
	if err != nil {
		return "", &model.UpstreamError{Service: "vision", Message: "failed to read vision model response", Err: err}
	}

	log.WithFields(log.Fields{
		"model":    c.model,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("🤖 Gemini API応答受信")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 上流のボディはログにだけ残す
		log.WithField("body", truncate(string(body), 512)).Warn("❌ Gemini APIがエラーステータスを返しました")
		return "", &model.UpstreamError{Service: "vision", Message: fmt.Sprintf("vision model returned status %d", resp.StatusCode)}
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &model.UpstreamError{Service: "vision", Message: "vision model response is not valid JSON", Err: err}
	}

	if len(geminiResp.Candidates) == 0 {
		return "", &model.UpstreamError{Service: "vision", Message: "no response text from vision model"}
	}
	for _, p := range geminiResp.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", &model.UpstreamError{Service: "vision", Message: "no response text from vision model"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
