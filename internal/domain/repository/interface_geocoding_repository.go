package repository

import (
	"context"

	"SnapSolve-App/internal/domain/model"
)

// GeocodingRepository は座標から住所を引く逆ジオコーディングの責務を持つ
type GeocodingRepository interface {
	// ReverseGeocode は結果が0件の場合 nil, nil を返す
	ReverseGeocode(ctx context.Context, coord model.Coordinate) (*model.GeocodeResult, error)
}
