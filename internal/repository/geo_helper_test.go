package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SnapSolve-App/internal/domain/model"
)

func TestCoordinateToWKT(t *testing.T) {
	assert.False(t, CoordinateToWKT(nil).Valid)

	s := CoordinateToWKT(&model.Coordinate{Latitude: 35.5, Longitude: 139.25})
	require.True(t, s.Valid)
	assert.Equal(t, "POINT(139.25 35.5)", s.String)
}

func TestWKTToCoordinate(t *testing.T) {
	c, err := WKTToCoordinate(sql.NullString{String: "POINT(139.25 35.5)", Valid: true})
	require.NoError(t, err)
	assert.Equal(t, &model.Coordinate{Latitude: 35.5, Longitude: 139.25}, c)

	c, err = WKTToCoordinate(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = WKTToCoordinate(sql.NullString{String: "LINESTRING(0 0, 1 1)", Valid: true})
	assert.Error(t, err)
}
