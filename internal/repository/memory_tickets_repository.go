package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
)

// MemoryTicketsRepository はプロセス内のマップにチケットを保持する（ローカル開発用）
type MemoryTicketsRepository struct {
	mu      sync.RWMutex
	tickets map[string]*model.Ticket
}

func NewMemoryTicketsRepository() repository.TicketsRepository {
	return &MemoryTicketsRepository{
		tickets: make(map[string]*model.Ticket),
	}
}

func (r *MemoryTicketsRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	if err := ticket.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "create", Err: err}
	}

	stored := ticket.Copy()
	stored.ID = uuid.New().String()

	r.mu.Lock()
	r.tickets[stored.ID] = stored
	r.mu.Unlock()

	return stored.Copy(), nil
}

func (r *MemoryTicketsRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Ticket, error) {
	return r.list(ctx, func(t *model.Ticket) bool { return t.OwnerID == ownerID })
}

func (r *MemoryTicketsRepository) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	return r.list(ctx, func(*model.Ticket) bool { return true })
}

func (r *MemoryTicketsRepository) ListLocations(ctx context.Context) ([]model.TicketLocation, error) {
	tickets, err := r.list(ctx, func(t *model.Ticket) bool { return t.Location != nil })
	if err != nil {
		return nil, err
	}

	locations := make([]model.TicketLocation, 0, len(tickets))
	for _, t := range tickets {
		locations = append(locations, model.TicketLocation{
			ID:        t.ID,
			Latitude:  t.Location.Latitude,
			Longitude: t.Location.Longitude,
		})
	}
	return locations, nil
}

func (r *MemoryTicketsRepository) list(ctx context.Context, match func(*model.Ticket) bool) ([]*model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "list", Err: err}
	}

	r.mu.RLock()
	tickets := make([]*model.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if match(t) {
			tickets = append(tickets, t.Copy())
		}
	}
	r.mu.RUnlock()

	model.SortTicketsNewestFirst(tickets)
	return tickets, nil
}
