package model

import (
	"encoding/base64"
	"sort"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// Ticket は永続化されたインフラ問題の報告（作成後は書き換えない）
type Ticket struct {
	ID                 string      `json:"id"`
	ProblemDescription string      `json:"problem_description"`
	Recommendation     string      `json:"recommendation"`
	Timestamp          int64       `json:"timestamp"`                 // Unix秒
	Email              string      `json:"email,omitempty"`           // 通知先機関の連絡先
	SubmitterEmail     string      `json:"submitter_email,omitempty"` // 認証済み投稿者のメール（reply-to）
	Location           *Coordinate `json:"location,omitempty"`
	ImageData          string      `json:"imageBase64"`
	OwnerID            string      `json:"owner_id,omitempty"`
}

// TicketLocation は位置情報だけを射影したチケット（画像・説明は含めない）
type TicketLocation struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateTicketRequest は POST /api/tickets のリクエストボディ
type CreateTicketRequest struct {
	ProblemDescription string   `json:"problem_description"`
	Recommendation     string   `json:"recommendation"`
	Timestamp          int64    `json:"timestamp"`
	Email              string   `json:"email"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	ImageBase64        string   `json:"imageBase64"`
}

// Identity はIDプロバイダが検証した呼び出し元（リクエストをまたいで保持しない）
type Identity struct {
	UID   string
	Email string
}

// Validate はチケット作成に必要なフィールドを検証する
func (t *Ticket) Validate() error {
	if t.ProblemDescription == "" {
		return &ValidationError{Field: "problem_description", Message: "is required"}
	}
	if t.Recommendation == "" {
		return &ValidationError{Field: "recommendation", Message: "is required"}
	}
	if t.Timestamp == 0 {
		return &ValidationError{Field: "timestamp", Message: "is required"}
	}
	if t.ImageData == "" {
		return &ValidationError{Field: "imageBase64", Message: "is required"}
	}
	if _, err := base64.StdEncoding.DecodeString(t.ImageData); err != nil {
		return &ValidationError{Field: "imageBase64", Message: "must be base64 encoded"}
	}
	return nil
}

// Copy は呼び出し元に渡すためのディープコピーを返す
func (t *Ticket) Copy() *Ticket {
	c := *t
	if t.Location != nil {
		loc := *t.Location
		c.Location = &loc
	}
	return &c
}

// SortTicketsNewestFirst はtimestamp降順、同一timestampはID昇順に並べ替える
func SortTicketsNewestFirst(tickets []*Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].Timestamp != tickets[j].Timestamp {
			return tickets[i].Timestamp > tickets[j].Timestamp
		}
		return tickets[i].ID < tickets[j].ID
	})
}

// FirestoreTicket はFirestoreに保存するドキュメントの形
type FirestoreTicket struct {
	ProblemDescription string         `firestore:"problem_description"`
	Recommendation     string         `firestore:"recommendation"`
	Timestamp          int64          `firestore:"timestamp"`
	Email              string         `firestore:"email,omitempty"`
	SubmitterEmail     string         `firestore:"submitter_email,omitempty"`
	Location           *latlng.LatLng `firestore:"location,omitempty"`
	ImageBase64        string         `firestore:"image_base64"`
	OwnerID            string         `firestore:"owner_id,omitempty"`
}

// ToFirestoreTicket はTicketをFirestore保存用に変換する
func (t *Ticket) ToFirestoreTicket() *FirestoreTicket {
	ft := &FirestoreTicket{
		ProblemDescription: t.ProblemDescription,
		Recommendation:     t.Recommendation,
		Timestamp:          t.Timestamp,
		Email:              t.Email,
		SubmitterEmail:     t.SubmitterEmail,
		ImageBase64:        t.ImageData,
		OwnerID:            t.OwnerID,
	}
	if t.Location != nil {
		ft.Location = &latlng.LatLng{Latitude: t.Location.Latitude, Longitude: t.Location.Longitude}
	}
	return ft
}

// ToTicket はFirestoreのドキュメントをTicketに戻す
func (ft *FirestoreTicket) ToTicket(id string) *Ticket {
	t := &Ticket{
		ID:                 id,
		ProblemDescription: ft.ProblemDescription,
		Recommendation:     ft.Recommendation,
		Timestamp:          ft.Timestamp,
		Email:              ft.Email,
		SubmitterEmail:     ft.SubmitterEmail,
		ImageData:          ft.ImageBase64,
		OwnerID:            ft.OwnerID,
	}
	if ft.Location != nil {
		t.Location = &Coordinate{Latitude: ft.Location.Latitude, Longitude: ft.Location.Longitude}
	}
	return t
}
