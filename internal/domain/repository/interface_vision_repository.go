package repository

import "context"

// VisionRepository は画像とプロンプトをマルチモーダルモデルに送り、生のテキスト応答を返す
type VisionRepository interface {
	Classify(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}
