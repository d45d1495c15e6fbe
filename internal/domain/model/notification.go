package model

// Notification は推奨機関に送るメール
type Notification struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}
