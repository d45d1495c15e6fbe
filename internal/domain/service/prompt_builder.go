package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"SnapSolve-App/internal/domain/model"
)

// promptLocationMeta はプロンプトに埋め込む位置メタデータ。フィールド順が出力順になる
type promptLocationMeta struct {
	Latitude            *float64                 `json:"latitude"`
	Longitude           *float64                 `json:"longitude"`
	Address             string                   `json:"address"`
	Components          []model.AddressComponent `json:"components"`
	PrivatePropertyHint bool                     `json:"privatePropertyHint"`
}

const classificationInstructions = `Based on that metadata:
- Decide whether this is private property (campus, building, business premises, etc.) or public city-managed infrastructure. privatePropertyHint is true when the address components indicate an establishment, school, university, hospital, point of interest or premise.
- Identify the problem in the attached image (e.g., pothole, broken light, graffiti). If you can't identify the problem, use exactly "unknown" as the description.
- Recommend exactly one authority or department that should be notified, and give its contact email address.

Respond with a single JSON object only, with exactly these keys:
{
  "description": "short description of the problem",
  "recommendation": "department or authority to notify",
  "email": "contact email address"
}
No extra text, no markdown, no code fences, no explanation.`

// BuildClassificationPrompt はLocationContextからビジョンモデル向けの分類プロンプトを組み立てる。
// 同じ入力には常に同じ文字列を返す
func BuildClassificationPrompt(loc model.LocationContext) string {
	meta := promptLocationMeta{
		Address:             loc.FormattedAddress,
		Components:          loc.AddressComponents,
		PrivatePropertyHint: loc.IsPrivateProperty,
	}
	if meta.Components == nil {
		meta.Components = []model.AddressComponent{}
	}
	if loc.Coordinate != nil {
		lat, lng := loc.Coordinate.Latitude, loc.Coordinate.Longitude
		meta.Latitude = &lat
		meta.Longitude = &lng
	}

	var sb strings.Builder
	sb.WriteString("You are analyzing an urban infrastructure report.\n")
	if loc.FormattedAddress != "" {
		fmt.Fprintf(&sb, "Address: %s\n", loc.FormattedAddress)
	} else {
		sb.WriteString("Address: not available\n")
	}
	sb.WriteString("Here is the location metadata (JSON):\n")
	sb.WriteString(renderMeta(meta))
	sb.WriteString("\n\n")
	sb.WriteString(classificationInstructions)
	return sb.String()
}

func renderMeta(meta promptLocationMeta) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		// float64・string・boolのみなので通常は起こらない
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}
