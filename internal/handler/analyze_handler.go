package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/usecase"
)

// AnalyzeHandler は画像解析APIのハンドラー
type AnalyzeHandler struct {
	analyzeUseCase usecase.AnalyzeUseCase
}

// NewAnalyzeHandler は新しいAnalyzeHandlerインスタンスを作成
func NewAnalyzeHandler(analyzeUseCase usecase.AnalyzeUseCase) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzeUseCase: analyzeUseCase,
	}
}

// PostAnalyze は写真から問題と担当機関を推定するエンドポイント
// POST /api/analyze
func (h *AnalyzeHandler) PostAnalyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, message := bindErrorResponse(err)
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}

	result, err := h.analyzeUseCase.Analyze(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, "error", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindErrorResponse はリクエストボディの読み込み失敗をステータスとメッセージに変換する
func bindErrorResponse(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge, "Request body too large"
	}
	return http.StatusBadRequest, "Invalid JSON body"
}
