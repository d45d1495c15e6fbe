package repository

import (
	"context"

	"SnapSolve-App/internal/domain/model"
)

// NotificationRepository は推奨機関へのメール送信を担当する
type NotificationRepository interface {
	Notify(ctx context.Context, n *model.Notification) error
}
