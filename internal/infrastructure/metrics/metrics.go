package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalyzeRequestsTotal は解析リクエストを結果別に数える
	AnalyzeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snapsolve",
		Name:      "analyze_requests_total",
		Help:      "Total number of analyze requests, labeled by result.",
	}, []string{"result"})

	// GeocodeFallbackTotal はジオコーディング失敗で座標文字列に代替した回数
	GeocodeFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snapsolve",
		Name:      "geocode_fallback_total",
		Help:      "Total number of analyze requests that fell back to the raw coordinate after geocoding failed.",
	})

	VisionRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snapsolve",
		Name:      "vision_request_duration_seconds",
		Help:      "Duration of vision model calls, labeled by result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
	}, []string{"result"})

	TicketsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snapsolve",
		Name:      "tickets_created_total",
		Help:      "Total number of tickets persisted.",
	})

	// NotificationsTotal は通知メールを結果別に数える（sent / failed / skipped）
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snapsolve",
		Name:      "notifications_total",
		Help:      "Total number of authority notifications, labeled by result.",
	}, []string{"result"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snapsolve",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, labeled by method, route and status.",
	}, []string{"method", "route", "status"})
)

// Register はメトリクスをデフォルトレジストリに登録する。複数回呼んでもよい
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyzeRequestsTotal,
			GeocodeFallbackTotal,
			VisionRequestDurationSeconds,
			TicketsCreatedTotal,
			NotificationsTotal,
			HTTPRequestsTotal,
		)
	})
}
