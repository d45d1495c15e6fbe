package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SnapSolve-App/internal/domain/model"
)

// Firestoreエミュレータ（FIRESTORE_EMULATOR_HOST）が無い環境ではスキップする
func newEmulatorRepo(t *testing.T) *FirestoreTicketsRepository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	client, err := firestore.NewClient(context.Background(), "snapsolve-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	collection := "tickets-" + uuid.New().String()
	return NewFirestoreTicketsRepository(client, collection).(*FirestoreTicketsRepository)
}

func TestFirestoreTicketsRepository_CreateAndList(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, newTicket("uid-1", 100, &model.Coordinate{Latitude: 35.5, Longitude: 139.25}))
	require.NoError(t, err)
	b, err := repo.Create(ctx, newTicket("uid-2", 200, nil))
	require.NoError(t, err)

	mine, err := repo.ListByOwner(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, &model.Coordinate{Latitude: 35.5, Longitude: 139.25}, mine[0].Location)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	locations, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.TicketLocation{{ID: a.ID, Latitude: 35.5, Longitude: 139.25}}, locations)
}

func TestFirestoreTicketsRepository_CreateValidation(t *testing.T) {
	// バリデーションはFirestoreに触れる前に行われる
	repo := &FirestoreTicketsRepository{collection: "tickets"}

	_, err := repo.Create(context.Background(), newTicket("uid-1", 0, nil))

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "timestamp", validationErr.Field)
}
