package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/apex/log"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
)

// FirestoreTicketsRepository Firestoreを使用したチケットリポジトリ
type FirestoreTicketsRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreTicketsRepository 新しいFirestoreTicketsRepositoryインスタンスを作成
func NewFirestoreTicketsRepository(client *firestore.Client, collection string) repository.TicketsRepository {
	if collection == "" {
		collection = "tickets"
	}
	return &FirestoreTicketsRepository{
		client:     client,
		collection: collection,
	}
}

// Create はチケットを新しいドキュメントとして保存する。既存ドキュメントは上書きしない
func (r *FirestoreTicketsRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	stored := ticket.Copy()
	stored.ID = uuid.New().String()

	_, err := r.client.Collection(r.collection).Doc(stored.ID).Create(ctx, stored.ToFirestoreTicket())
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, &model.PersistenceError{Op: "create", Err: fmt.Errorf("ticket %s already exists: %w", stored.ID, err)}
		}
		log.WithError(err).WithField("ticket_id", stored.ID).Error("❌ Failed to save ticket")
		return nil, &model.PersistenceError{Op: "create", Err: fmt.Errorf("チケットの保存に失敗しました: %w", err)}
	}

	log.WithField("ticket_id", stored.ID).Info("✅ Ticket saved")
	return stored, nil
}

func (r *FirestoreTicketsRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Ticket, error) {
	query := r.client.Collection(r.collection).Where("owner_id", "==", ownerID)
	return r.queryTickets(ctx, "list by owner", query)
}

func (r *FirestoreTicketsRepository) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	return r.queryTickets(ctx, "list all", r.client.Collection(r.collection).Query)
}

// ListLocations は位置情報だけを射影して取得する（画像・説明は読み込まない）
func (r *FirestoreTicketsRepository) ListLocations(ctx context.Context) ([]model.TicketLocation, error) {
	iter := r.client.Collection(r.collection).Select("location", "timestamp").Documents(ctx)
	defer iter.Stop()

	var projected []*model.Ticket
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &model.PersistenceError{Op: "list locations", Err: err}
		}

		var data struct {
			Location  *latlng.LatLng `firestore:"location"`
			Timestamp int64          `firestore:"timestamp"`
		}
		if err := doc.DataTo(&data); err != nil {
			return nil, &model.PersistenceError{Op: "list locations", Err: fmt.Errorf("データの変換に失敗しました: %w", err)}
		}
		if data.Location == nil {
			continue
		}
		projected = append(projected, &model.Ticket{
			ID:        doc.Ref.ID,
			Timestamp: data.Timestamp,
			Location:  &model.Coordinate{Latitude: data.Location.Latitude, Longitude: data.Location.Longitude},
		})
	}

	model.SortTicketsNewestFirst(projected)

	locations := make([]model.TicketLocation, 0, len(projected))
	for _, t := range projected {
		locations = append(locations, model.TicketLocation{
			ID:        t.ID,
			Latitude:  t.Location.Latitude,
			Longitude: t.Location.Longitude,
		})
	}
	return locations, nil
}

// queryTickets はクエリ結果をTicketに変換し、新しい順に並べて返す
// 複合インデックスを不要にするため並べ替えはアプリ側で行う
func (r *FirestoreTicketsRepository) queryTickets(ctx context.Context, op string, query firestore.Query) ([]*model.Ticket, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	tickets := []*model.Ticket{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &model.PersistenceError{Op: op, Err: err}
		}

		var data model.FirestoreTicket
		if err := doc.DataTo(&data); err != nil {
			return nil, &model.PersistenceError{Op: op, Err: fmt.Errorf("データの変換に失敗しました: %w", err)}
		}
		tickets = append(tickets, data.ToTicket(doc.Ref.ID))
	}

	model.SortTicketsNewestFirst(tickets)
	return tickets, nil
}
