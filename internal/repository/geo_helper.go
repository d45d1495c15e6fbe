package repository

import (
	"database/sql"
	"fmt"

	"github.com/paulmach/orb/encoding/wkt"

	"SnapSolve-App/internal/domain/model"
)

// CoordinateToWKT はCoordinateをPostGISに渡すWKT（POINT(lng lat)）に変換する
// 位置情報が無い場合はNULLになる
func CoordinateToWKT(c *model.Coordinate) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: wkt.MarshalString(c.ToPoint()), Valid: true}
}

// WKTToCoordinate はST_AsTextの結果をCoordinateに戻す
func WKTToCoordinate(s sql.NullString) (*model.Coordinate, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	point, err := wkt.UnmarshalPoint(s.String)
	if err != nil {
		return nil, fmt.Errorf("location WKTパースエラー: %w", err)
	}

	c := model.CoordinateFromPoint(point)
	return &c, nil
}
