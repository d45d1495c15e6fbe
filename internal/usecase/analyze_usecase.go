package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
	"SnapSolve-App/internal/domain/service"
	"SnapSolve-App/internal/infrastructure/imaging"
	"SnapSolve-App/internal/infrastructure/metrics"
)

type AnalyzeUseCase interface {
	// Analyze は写真と位置情報から問題と担当機関を推定する。何も保存しない
	Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.ClassificationResult, error)
}

// analyzeUseCaseImpl はAnalyzeUseCaseの実装
type analyzeUseCaseImpl struct {
	geoEnricher    *service.GeoEnricher
	vision         repository.VisionRepository
	geocodeTimeout time.Duration
	visionTimeout  time.Duration
}

// NewAnalyzeUseCase は新しいAnalyzeUseCaseインスタンスを作成
func NewAnalyzeUseCase(
	geoEnricher *service.GeoEnricher,
	vision repository.VisionRepository,
	geocodeTimeout time.Duration,
	visionTimeout time.Duration,
) AnalyzeUseCase {
	return &analyzeUseCaseImpl{
		geoEnricher:    geoEnricher,
		vision:         vision,
		geocodeTimeout: geocodeTimeout,
		visionTimeout:  visionTimeout,
	}
}

// Analyze は 画像検証 → 位置情報付与 → プロンプト生成 → ビジョンモデル → 応答検証 の順に処理する
func (u *analyzeUseCaseImpl) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.ClassificationResult, error) {
	// Step 1: 画像を検証
	image, err := imaging.DecodeBase64("imageBase64", req.ImageBase64)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Step 2: 座標を決定（リクエストに無ければEXIFのGPS情報を使う）
	coord := model.NewCoordinate(req.Latitude, req.Longitude)
	if coord == nil {
		if coord = imaging.ExtractCoordinate(image); coord != nil {
			log.WithField("coordinate", coord.String()).Info("📍 EXIFのGPS情報から座標を取得")
		}
	}

	// Step 3: 逆ジオコーディング（失敗しても続行）
	geoCtx, cancelGeo := context.WithTimeout(ctx, u.geocodeTimeout)
	location := u.geoEnricher.Enrich(geoCtx, coord)
	cancelGeo()
	if location.Degraded {
		metrics.GeocodeFallbackTotal.Inc()
	}

	// Step 4: プロンプトを生成し、ビジョンモデルに問い合わせる
	prompt := service.BuildClassificationPrompt(location)

	visionCtx, cancelVision := context.WithTimeout(ctx, u.visionTimeout)
	defer cancelVision()

	start := time.Now()
	raw, err := u.vision.Classify(visionCtx, image, imaging.DetectMimeType(image), prompt)
	if err != nil {
		metrics.VisionRequestDurationSeconds.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.AnalyzeRequestsTotal.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("画像解析に失敗: %w", err)
	}
	metrics.VisionRequestDurationSeconds.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	// Step 5: 応答を検証
	result, err := service.ParseClassification(raw)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues("parse_error").Inc()
		log.WithError(err).Warn("⚠️ ビジョンモデルの応答が不正")
		return nil, fmt.Errorf("解析結果の検証に失敗: %w", err)
	}

	if result.IsUnknown() {
		metrics.AnalyzeRequestsTotal.WithLabelValues("unknown").Inc()
	} else {
		metrics.AnalyzeRequestsTotal.WithLabelValues("ok").Inc()
	}

	log.WithFields(log.Fields{
		"recommendation": result.Recommendation,
		"has_email":      result.Email != nil,
		"geocoded":       coord != nil && !location.Degraded,
	}).Info("✅ 画像解析完了")

	return result, nil
}
