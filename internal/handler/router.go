package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SnapSolve-App/internal/domain/repository"
)

const (
	EndPointRoot            = "/"
	EndPointHealth          = "/api/health"
	EndPointMetrics         = "/metrics"
	EndPointAnalyze         = "/api/analyze"
	EndPointTickets         = "/api/tickets"
	EndPointMyTickets       = "/api/tickets/my"
	EndPointAllTickets      = "/api/tickets/all"
	EndPointTicketLocations = "/api/tickets/locations"
)

// RouterDeps はルーターの組み立てに必要な依存関係
type RouterDeps struct {
	AnalyzeHandler *AnalyzeHandler
	TicketHandler  *TicketHandler
	Verifier       repository.IdentityRepository
	MaxBodyBytes   int64
}

// NewRouter はミドルウェアとルートを設定したginエンジンを作成する
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware())
	router.Use(CORSMiddleware())
	router.Use(BodyLimitMiddleware(deps.MaxBodyBytes))

	router.GET(EndPointRoot, func(c *gin.Context) {
		c.String(http.StatusOK, "SnapSolve backend is running!")
	})
	router.GET(EndPointHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "snapsolve",
		})
	})
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	router.POST(EndPointAnalyze, deps.AnalyzeHandler.PostAnalyze)

	// 認証なし
	router.GET(EndPointAllTickets, deps.TicketHandler.ListAllTickets)
	router.GET(EndPointTicketLocations, deps.TicketHandler.ListTicketLocations)

	// 認証が必要なエンドポイント
	authorized := router.Group("/")
	authorized.Use(AuthMiddleware(deps.Verifier))
	{
		authorized.POST(EndPointTickets, deps.TicketHandler.CreateTicket)
		authorized.GET(EndPointMyTickets, deps.TicketHandler.ListMyTickets)
	}

	return router
}
