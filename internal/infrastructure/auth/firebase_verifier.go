package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseAuth "firebase.google.com/go/v4/auth"

	"SnapSolve-App/internal/domain/model"
)

// IDTokenVerifier はFirebase IDトークンを検証する。*auth.Client が満たす
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error)
}

// FirebaseVerifier はFirebase Admin SDKでIDトークンを検証する
// 公開鍵証明書のキャッシュはSDKに任せ、検証結果はキャッシュしない
type FirebaseVerifier struct {
	client IDTokenVerifier
	// isCertFetchFailure は証明書取得の失敗かどうかを判定する
	isCertFetchFailure func(error) bool
}

// NewFirebaseVerifier はプロジェクトIDからFirebaseアプリを初期化してFirebaseVerifierを作成する
func NewFirebaseVerifier(ctx context.Context, projectID string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return NewFirebaseVerifierWithClient(client), nil
}

// NewFirebaseVerifierWithClient は検証クライアントを差し替えて作成する
func NewFirebaseVerifierWithClient(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{
		client:             client,
		isCertFetchFailure: firebaseAuth.IsCertificateFetchFailed,
	}
}

// Verify はトークンを検証し、uidとemailを返す
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, &model.AuthError{Kind: model.AuthUnauthorized, Message: "Unauthorized"}
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		// 証明書が取れないのはトークンの問題ではない
		if v.isCertFetchFailure(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &model.UpstreamError{Service: "identity", Message: "failed to fetch signing certificates", Err: err}
		}
		return nil, &model.AuthError{Kind: model.AuthForbidden, Message: "Invalid or expired token", Err: err}
	}
	if decoded == nil || decoded.UID == "" {
		return nil, &model.AuthError{Kind: model.AuthForbidden, Message: "Invalid or expired token", Err: errors.New("token has no subject")}
	}

	email, _ := decoded.Claims["email"].(string)
	return &model.Identity{UID: decoded.UID, Email: email}, nil
}
