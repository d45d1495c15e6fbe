package imaging

import (
	"bytes"
	"encoding/base64"
	"math"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"

	"SnapSolve-App/internal/domain/model"
)

// DefaultMimeType は判定できない場合に使うMIMEタイプ（クライアントはJPEGを送る）
const DefaultMimeType = "image/jpeg"

// DecodeBase64 は画像ペイロードをデコードする。空またはbase64でなければValidationError
func DecodeBase64(field, payload string) ([]byte, error) {
	if payload == "" {
		return nil, &model.ValidationError{Field: field, Message: "Missing " + field}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &model.ValidationError{Field: field, Message: field + " must be base64 encoded"}
	}
	if len(data) == 0 {
		return nil, &model.ValidationError{Field: field, Message: "Missing " + field}
	}
	return data, nil
}

// DetectMimeType は画像のMIMEタイプを判定する。画像でなければDefaultMimeTypeを返す
func DetectMimeType(data []byte) string {
	mt := mimetype.Detect(data)
	if mt == nil || !strings.HasPrefix(mt.String(), "image/") {
		return DefaultMimeType
	}
	return mt.String()
}

// ExtractCoordinate はEXIFのGPS情報から座標を取り出す。無ければnil
func ExtractCoordinate(data []byte) *model.Coordinate {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	lat, lng, err := x.LatLong()
	if err != nil {
		return nil
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return nil
	}
	return &model.Coordinate{Latitude: lat, Longitude: lng}
}
