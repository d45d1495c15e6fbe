package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/apex/log"
	"google.golang.org/api/option"
)

// FirestoreClient はチケット保存用のFirestoreクライアント
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient はFirestoreクライアントを作成する
// GOOGLE_APPLICATION_CREDENTIALSのファイルがあればそれを使い、無ければデフォルト認証を使う
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	var opts []option.ClientOption

	switch {
	case os.Getenv("FIRESTORE_EMULATOR_HOST") != "":
		log.Infof("🧪 Firestore emulator: %s", os.Getenv("FIRESTORE_EMULATOR_HOST"))
	case os.Getenv("K_SERVICE") != "":
		// Cloud Run環境ではデフォルト認証を使用
		log.Info("☁️ Cloud Run環境: デフォルト認証を使用")
	default:
		if credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsFile != "" {
			if _, err := os.Stat(credentialsFile); err != nil {
				log.Warnf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
			} else {
				log.Infof("📄 Using credentials file: %s", credentialsFile)
				opts = append(opts, option.WithCredentialsFile(credentialsFile))
			}
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Infof("✅ Firestore client initialized for project: %s", projectID)

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
