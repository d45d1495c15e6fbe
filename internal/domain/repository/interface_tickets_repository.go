package repository

import (
	"context"

	"SnapSolve-App/internal/domain/model"
)

// TicketsRepository はチケットの永続化を担当する。作成後のチケットは更新しない
type TicketsRepository interface {
	// Create はIDを割り当てて保存し、保存したレコードを返す
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	// ListByOwner はownerIDが一致するチケットだけを返す
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Ticket, error)
	// ListAll は画像を含む全チケットを返す
	ListAll(ctx context.Context) ([]*model.Ticket, error)
	// ListLocations は位置情報のあるチケットのID・緯度・経度だけを返す
	ListLocations(ctx context.Context) ([]model.TicketLocation, error)
}
