package model

// PrivatePropertyTypes は私有地と判定する住所要素タイプ
var PrivatePropertyTypes = map[string]bool{
	"establishment":     true,
	"university":        true,
	"school":            true,
	"hospital":          true,
	"point_of_interest": true,
	"premise":           true,
	"subpremise":        true,
}

// UnknownProblem はモデルが問題を特定できなかった場合のdescription
const UnknownProblem = "unknown"

const (
	// TicketStoreFirestore はFirestoreをチケットストアとして使う
	TicketStoreFirestore = "firestore"
	// TicketStorePostgres はPostgreSQLをチケットストアとして使う
	TicketStorePostgres = "postgres"
	// TicketStoreMemory はプロセス内メモリをチケットストアとして使う（ローカル開発用）
	TicketStoreMemory = "memory"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderSupabase = "supabase"
)
