package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreConnection(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	ctx := context.Background()
	client, err := NewFirestoreClient(ctx, "snapsolve-test")
	require.NoError(t, err, "Firestoreクライアントの初期化に失敗")
	defer client.Close()

	// 基本的な書き込みと読み取り
	doc := client.GetClient().Collection("connection-test").Doc("ping")
	_, err = doc.Set(ctx, map[string]interface{}{"ok": true})
	require.NoError(t, err)

	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, snap.Data()["ok"])
}
