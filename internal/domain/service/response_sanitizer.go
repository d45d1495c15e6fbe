package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"SnapSolve-App/internal/domain/model"
)

// MaxRawResponseBytes はモデル応答として受け付ける最大サイズ
const MaxRawResponseBytes = 32 * 1024

// classificationPayload は型チェックのためにポインタで受ける
type classificationPayload struct {
	Description    *string         `json:"description"`
	Recommendation *string         `json:"recommendation"`
	Email          json.RawMessage `json:"email"`
}

// ParseClassification はモデルの生テキストからコードフェンスを除去し、厳密なJSONとして解析する
func ParseClassification(raw string) (*model.ClassificationResult, error) {
	if len(raw) > MaxRawResponseBytes {
		return nil, &model.ParseError{Message: fmt.Sprintf("model response exceeds %d bytes", MaxRawResponseBytes)}
	}

	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, &model.ParseError{Message: "model response is empty"}
	}
	if !strings.HasPrefix(cleaned, "{") {
		return nil, &model.ParseError{Message: "model response is not a JSON object"}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var payload classificationPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, &model.ParseError{Message: "model response is not valid JSON", Err: err}
	}
	// 1つのオブジェクトの後ろに余計なデータがあれば契約違反
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &model.ParseError{Message: "model response has trailing data after the JSON object"}
	}

	if payload.Description == nil || strings.TrimSpace(*payload.Description) == "" {
		return nil, &model.ParseError{Message: "model response is missing \"description\""}
	}
	if payload.Recommendation == nil || strings.TrimSpace(*payload.Recommendation) == "" {
		return nil, &model.ParseError{Message: "model response is missing \"recommendation\""}
	}

	email, err := parseOptionalString(payload.Email)
	if err != nil {
		return nil, &model.ParseError{Message: "model response has a non-string \"email\"", Err: err}
	}

	return &model.ClassificationResult{
		Description:    strings.TrimSpace(*payload.Description),
		Recommendation: strings.TrimSpace(*payload.Recommendation),
		Email:          email,
	}, nil
}

// StripCodeFences は ```json と ``` の記号を全て取り除き、前後の空白を削る
func StripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func parseOptionalString(raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}
