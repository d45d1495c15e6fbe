package mail

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"SnapSolve-App/internal/domain/model"
)

// Sender はSendGridクライアントのうち送信に使う部分
type Sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier は推奨機関にSendGrid経由でメールを送る
type SendGridNotifier struct {
	sender    Sender
	fromName  string
	fromEmail string
}

// NewSendGridNotifier は新しいSendGridNotifierを作成する
func NewSendGridNotifier(apiKey, fromName, fromEmail string) *SendGridNotifier {
	return NewSendGridNotifierWithSender(sendgrid.NewSendClient(apiKey), fromName, fromEmail)
}

// NewSendGridNotifierWithSender は送信クライアントを差し替えて作成する
func NewSendGridNotifierWithSender(sender Sender, fromName, fromEmail string) *SendGridNotifier {
	return &SendGridNotifier{
		sender:    sender,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Notify は1通のメールを送る。2xx以外のステータスはエラーとして返す
func (n *SendGridNotifier) Notify(ctx context.Context, notification *model.Notification) error {
	if notification.To == "" {
		return &model.ValidationError{Field: "to", Message: "recipient is required"}
	}

	from := sgmail.NewEmail(n.fromName, n.fromEmail)
	to := sgmail.NewEmail(notification.To, notification.To)
	message := sgmail.NewSingleEmailPlainText(from, notification.Subject, to, notification.Body)
	if notification.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail(notification.ReplyTo, notification.ReplyTo))
	}

	response, err := n.sender.SendWithContext(ctx, message)
	if err != nil {
		return &model.UpstreamError{Service: "mail", Message: "failed to send email", Err: err}
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &model.UpstreamError{
			Service: "mail",
			Message: fmt.Sprintf("sendgrid returned status %d: %s", response.StatusCode, response.Body),
		}
	}

	log.WithFields(log.Fields{
		"to":     notification.To,
		"status": response.StatusCode,
	}).Info("📧 Notification email sent")
	return nil
}

// LogNotifier はSendGridが設定されていない環境で送信内容をログに出すだけのNotifier
type LogNotifier struct{}

// NewLogNotifier は新しいLogNotifierを作成する
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify は送信する代わりにログへ記録する
func (n *LogNotifier) Notify(ctx context.Context, notification *model.Notification) error {
	log.WithFields(log.Fields{
		"to":       notification.To,
		"reply_to": notification.ReplyTo,
		"subject":  notification.Subject,
	}).Info("📭 SendGrid not configured, notification logged only")
	return nil
}
