package repository

import (
	"context"

	"SnapSolve-App/internal/domain/model"
)

// IdentityRepository はbearerトークンを外部IDプロバイダで検証する。結果はキャッシュしない
type IdentityRepository interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}
