package model

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Coordinate は緯度経度のペア
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate は緯度・経度が両方そろっている場合のみCoordinateを返す
func NewCoordinate(lat, lng *float64) *Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &Coordinate{Latitude: *lat, Longitude: *lng}
}

// String は "lat,lng" 形式の文字列を返す（ジオコーディング失敗時の住所にも使う）
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ToPoint はorb.Point（[lng, lat]）に変換する
func (c Coordinate) ToPoint() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// CoordinateFromPoint はorb.PointからCoordinateを作成する
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}

// AddressComponent は逆ジオコーディング結果の住所要素
type AddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

// LocationContext は解析リクエストごとに一度だけ計算される位置情報のコンテキスト（永続化しない）
type LocationContext struct {
	Coordinate        *Coordinate        `json:"coordinate,omitempty"`
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
	IsPrivateProperty bool               `json:"is_private_property"`
	// Degraded はジオコーディングに失敗し "lat,lng" で代替したことを示す
	Degraded bool `json:"-"`
}

// GeocodeResult はジオコーディングプロバイダが返す生の結果
type GeocodeResult struct {
	FormattedAddress  string
	AddressComponents []AddressComponent
}
