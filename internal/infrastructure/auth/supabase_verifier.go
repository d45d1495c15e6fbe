package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"SnapSolve-App/internal/domain/model"
)

// UserFetcher はトークンの持ち主をGoTrueに問い合わせる
type UserFetcher func(token string) (*types.UserResponse, error)

// SupabaseVerifier はSupabase AuthのアクセストークンをGoTrueの /auth/v1/user で検証する
type SupabaseVerifier struct {
	getUser UserFetcher
}

// NewSupabaseVerifier はSupabaseクライアントを使うSupabaseVerifierを作成する
func NewSupabaseVerifier(client *supabase.Client) *SupabaseVerifier {
	return NewSupabaseVerifierWithFetcher(func(token string) (*types.UserResponse, error) {
		return client.Auth.WithToken(token).GetUser()
	})
}

// NewSupabaseVerifierWithFetcher は問い合わせ関数を差し替えて作成する
func NewSupabaseVerifierWithFetcher(getUser UserFetcher) *SupabaseVerifier {
	return &SupabaseVerifier{getUser: getUser}
}

type userResult struct {
	user *types.UserResponse
	err  error
}

// Verify はトークンを検証し、uidとemailを返す
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, &model.AuthError{Kind: model.AuthUnauthorized, Message: "Unauthorized"}
	}

	// gotrue-goはcontextを受け取らないので、呼び出し元のキャンセルはここで待ちを打ち切る
	done := make(chan userResult, 1)
	go func() {
		user, err := v.getUser(token)
		done <- userResult{user: user, err: err}
	}()

	var res userResult
	select {
	case <-ctx.Done():
		return nil, &model.AuthError{Kind: model.AuthForbidden, Message: "Invalid or expired token", Err: ctx.Err()}
	case res = <-done:
	}

	if res.err != nil {
		return nil, &model.AuthError{Kind: model.AuthForbidden, Message: "Invalid or expired token", Err: res.err}
	}
	if res.user == nil || res.user.ID == uuid.Nil {
		return nil, &model.AuthError{Kind: model.AuthForbidden, Message: "Invalid or expired token", Err: errors.New("user has no id")}
	}

	return &model.Identity{UID: res.user.ID.String(), Email: res.user.Email}, nil
}
