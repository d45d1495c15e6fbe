package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/usecase"
)

// TicketHandler はチケットAPIのハンドラー
type TicketHandler struct {
	ticketUseCase usecase.TicketUseCase
}

// NewTicketHandler は新しいTicketHandlerインスタンスを作成
func NewTicketHandler(ticketUseCase usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{
		ticketUseCase: ticketUseCase,
	}
}

// CreateTicket POST /api/tickets - 認証済みユーザーのチケット作成
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req model.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, message := bindErrorResponse(err)
		c.AbortWithStatusJSON(status, gin.H{"message": message})
		return
	}

	ticket, err := h.ticketUseCase.CreateTicket(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		abortWithError(c, "message", err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListMyTickets GET /api/tickets/my - 呼び出し元のチケット一覧
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	tickets, err := h.ticketUseCase.ListMyTickets(c.Request.Context(), identityFrom(c))
	if err != nil {
		abortWithError(c, "message", err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// ListAllTickets GET /api/tickets/all - 全チケット一覧（認証なし、画像を含む）
func (h *TicketHandler) ListAllTickets(c *gin.Context) {
	tickets, err := h.ticketUseCase.ListAllTickets(c.Request.Context())
	if err != nil {
		abortWithError(c, "message", err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// ListTicketLocations GET /api/tickets/locations - 地図表示用の位置情報一覧
func (h *TicketHandler) ListTicketLocations(c *gin.Context) {
	locations, err := h.ticketUseCase.ListTicketLocations(c.Request.Context())
	if err != nil {
		abortWithError(c, "message", err)
		return
	}

	c.JSON(http.StatusOK, locations)
}
