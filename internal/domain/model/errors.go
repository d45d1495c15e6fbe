package model

// ValidationError は必須入力の欠落や形式不正を表す（4xx）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// AuthErrorKind は認証エラーの種類
type AuthErrorKind int

const (
	// AuthUnauthorized はトークンが提示されていない
	AuthUnauthorized AuthErrorKind = iota
	// AuthForbidden はIDプロバイダがトークンを拒否した、またはデコードできない
	AuthForbidden
)

// AuthError は認証失敗を表す（401/403）
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// UpstreamError は外部API（ジオコーディング・ビジョンモデル・IDプロバイダ）の呼び出し失敗を表す
type UpstreamError struct {
	Service string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Service + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Service + ": " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError はビジョンモデルの応答がJSON契約に一致しないことを表す
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError はストアの読み書き失敗を表す
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return "persistence " + e.Op + ": " + e.Err.Error()
	}
	return "persistence " + e.Op
}

func (e *PersistenceError) Unwrap() error { return e.Err }
