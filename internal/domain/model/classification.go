package model

// AnalyzeRequest は POST /api/analyze のリクエストボディ
type AnalyzeRequest struct {
	ImageBase64 string   `json:"imageBase64"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// ClassificationResult はビジョンモデルの応答から抽出した分類結果（生成後は変更しない）
type ClassificationResult struct {
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	Email          *string `json:"email,omitempty"`
}

// IsUnknown はモデルが問題を特定できなかったかどうか
func (r *ClassificationResult) IsUnknown() bool {
	return r.Description == UnknownProblem
}
