package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
	"SnapSolve-App/internal/infrastructure/database"
)

const ticketsSchema = `
CREATE EXTENSION IF NOT EXISTS postgis;
CREATE TABLE IF NOT EXISTS tickets (
	id                  UUID PRIMARY KEY,
	problem_description TEXT NOT NULL,
	recommendation      TEXT NOT NULL,
	submitted_at        BIGINT NOT NULL,
	email               TEXT,
	submitter_email     TEXT,
	location            GEOGRAPHY(Point, 4326),
	image_base64        TEXT NOT NULL,
	owner_id            TEXT
);
CREATE INDEX IF NOT EXISTS tickets_owner_id_idx ON tickets (owner_id);
CREATE INDEX IF NOT EXISTS tickets_submitted_at_idx ON tickets (submitted_at DESC);`

const ticketColumns = `id, problem_description, recommendation, submitted_at,
	COALESCE(email, ''), COALESCE(submitter_email, ''), ST_AsText(location::geometry),
	image_base64, COALESCE(owner_id, '')`

type PostgresTicketsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresTicketsRepository(client *database.PostgreSQLClient) repository.TicketsRepository {
	return &PostgresTicketsRepository{
		client: client,
	}
}

// EnsureSchema はticketsテーブルが無ければ作成する
func (r *PostgresTicketsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.DB.ExecContext(ctx, ticketsSchema); err != nil {
		return &model.PersistenceError{Op: "ensure schema", Err: err}
	}
	return nil
}

// TicketRow はticketsテーブルの1行を受け取るための構造体
type TicketRow struct {
	ID                 string
	ProblemDescription string
	Recommendation     string
	SubmittedAt        int64
	Email              string
	SubmitterEmail     string
	Location           sql.NullString
	ImageBase64        string
	OwnerID            string
}

// ToTicket TicketRowをmodel.Ticketに変換
func (tr *TicketRow) ToTicket() (*model.Ticket, error) {
	location, err := WKTToCoordinate(tr.Location)
	if err != nil {
		return nil, err
	}

	return &model.Ticket{
		ID:                 tr.ID,
		ProblemDescription: tr.ProblemDescription,
		Recommendation:     tr.Recommendation,
		Timestamp:          tr.SubmittedAt,
		Email:              tr.Email,
		SubmitterEmail:     tr.SubmitterEmail,
		Location:           location,
		ImageData:          tr.ImageBase64,
		OwnerID:            tr.OwnerID,
	}, nil
}

func (r *PostgresTicketsRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	stored := ticket.Copy()
	stored.ID = uuid.New().String()

	query := `INSERT INTO tickets (id, problem_description, recommendation, submitted_at, email, submitter_email, location, image_base64, owner_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), ST_GeogFromText($7), $8, NULLIF($9, ''))`

	_, err := r.client.DB.ExecContext(ctx, query,
		stored.ID, stored.ProblemDescription, stored.Recommendation, stored.Timestamp,
		stored.Email, stored.SubmitterEmail, CoordinateToWKT(stored.Location),
		stored.ImageData, stored.OwnerID,
	)
	if err != nil {
		return nil, &model.PersistenceError{Op: "create", Err: fmt.Errorf("チケットの保存失敗: %w", err)}
	}

	return stored, nil
}

func (r *PostgresTicketsRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE owner_id = $1 ORDER BY submitted_at DESC, id ASC`
	return r.queryTickets(ctx, "list by owner", query, ownerID)
}

func (r *PostgresTicketsRepository) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY submitted_at DESC, id ASC`
	return r.queryTickets(ctx, "list all", query)
}

func (r *PostgresTicketsRepository) ListLocations(ctx context.Context) ([]model.TicketLocation, error) {
	query := `SELECT id, ST_Y(location::geometry), ST_X(location::geometry) FROM tickets
		WHERE location IS NOT NULL ORDER BY submitted_at DESC, id ASC`

	rows, err := r.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, &model.PersistenceError{Op: "list locations", Err: err}
	}
	defer rows.Close()

	locations := []model.TicketLocation{}
	for rows.Next() {
		var loc model.TicketLocation
		if err := rows.Scan(&loc.ID, &loc.Latitude, &loc.Longitude); err != nil {
			return nil, &model.PersistenceError{Op: "list locations", Err: fmt.Errorf("位置情報スキャンエラー: %w", err)}
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "list locations", Err: err}
	}

	return locations, nil
}

func (r *PostgresTicketsRepository) queryTickets(ctx context.Context, op, query string, args ...interface{}) ([]*model.Ticket, error) {
	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: op, Err: err}
	}
	defer rows.Close()

	tickets := []*model.Ticket{}
	for rows.Next() {
		var row TicketRow
		err := rows.Scan(&row.ID, &row.ProblemDescription, &row.Recommendation, &row.SubmittedAt,
			&row.Email, &row.SubmitterEmail, &row.Location, &row.ImageBase64, &row.OwnerID)
		if err != nil {
			return nil, &model.PersistenceError{Op: op, Err: fmt.Errorf("チケットデータスキャンエラー: %w", err)}
		}

		ticket, err := row.ToTicket()
		if err != nil {
			return nil, &model.PersistenceError{Op: op, Err: err}
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: op, Err: err}
	}

	return tickets, nil
}
