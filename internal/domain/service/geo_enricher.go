package service

import (
	"context"

	"github.com/apex/log"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
)

// GeoEnricher は座標を逆ジオコーディングして住所と私有地判定を付与する。
// ジオコーディングは付加情報なので、失敗してもパイプラインは止めない
type GeoEnricher struct {
	geocoder repository.GeocodingRepository
}

// NewGeoEnricher は新しいGeoEnricherを作成
func NewGeoEnricher(geocoder repository.GeocodingRepository) *GeoEnricher {
	return &GeoEnricher{geocoder: geocoder}
}

// Enrich は座標からLocationContextを作成する。座標がnilならジオコーディングをスキップする
func (e *GeoEnricher) Enrich(ctx context.Context, coord *model.Coordinate) model.LocationContext {
	if coord == nil {
		return model.LocationContext{AddressComponents: []model.AddressComponent{}}
	}

	result, err := e.geocoder.ReverseGeocode(ctx, *coord)
	if err != nil {
		log.WithError(err).WithField("coordinate", coord.String()).Warn("⚠️ 逆ジオコーディング失敗、座標文字列で代替")
		return degradedContext(*coord)
	}
	if result == nil {
		log.WithField("coordinate", coord.String()).Warn("⚠️ 逆ジオコーディング結果なし、座標文字列で代替")
		return degradedContext(*coord)
	}

	components := result.AddressComponents
	if components == nil {
		components = []model.AddressComponent{}
	}

	c := *coord
	return model.LocationContext{
		Coordinate:        &c,
		FormattedAddress:  result.FormattedAddress,
		AddressComponents: components,
		IsPrivateProperty: IsPrivateProperty(components),
	}
}

// IsPrivateProperty は住所要素のタイプが私有地タイプを一つでも含むかを判定する
func IsPrivateProperty(components []model.AddressComponent) bool {
	for _, comp := range components {
		for _, t := range comp.Types {
			if model.PrivatePropertyTypes[t] {
				return true
			}
		}
	}
	return false
}

func degradedContext(coord model.Coordinate) model.LocationContext {
	return model.LocationContext{
		Coordinate:        &coord,
		FormattedAddress:  coord.String(),
		AddressComponents: []model.AddressComponent{},
		IsPrivateProperty: false,
		Degraded:          true,
	}
}
