package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
	"SnapSolve-App/internal/infrastructure/metrics"
)

const maxSubjectDescriptionLength = 80

type TicketUseCase interface {
	// CreateTicket は検証済みの呼び出し元を所有者としてチケットを保存し、担当機関に通知する
	CreateTicket(ctx context.Context, identity *model.Identity, req *model.CreateTicketRequest) (*model.Ticket, error)

	// ListMyTickets は呼び出し元が所有するチケットだけを返す
	ListMyTickets(ctx context.Context, identity *model.Identity) ([]*model.Ticket, error)

	ListAllTickets(ctx context.Context) ([]*model.Ticket, error)

	ListTicketLocations(ctx context.Context) ([]model.TicketLocation, error)
}

// ticketUseCaseImpl はTicketUseCaseの実装
type ticketUseCaseImpl struct {
	tickets       repository.TicketsRepository
	notifier      repository.NotificationRepository
	storeTimeout  time.Duration
	notifyTimeout time.Duration
}

// NewTicketUseCase は新しいTicketUseCaseインスタンスを作成
func NewTicketUseCase(
	tickets repository.TicketsRepository,
	notifier repository.NotificationRepository,
	storeTimeout time.Duration,
	notifyTimeout time.Duration,
) TicketUseCase {
	return &ticketUseCaseImpl{
		tickets:       tickets,
		notifier:      notifier,
		storeTimeout:  storeTimeout,
		notifyTimeout: notifyTimeout,
	}
}

func (u *ticketUseCaseImpl) CreateTicket(ctx context.Context, identity *model.Identity, req *model.CreateTicketRequest) (*model.Ticket, error) {
	if identity == nil || identity.UID == "" {
		return nil, &model.AuthError{Kind: model.AuthUnauthorized, Message: "Unauthorized"}
	}

	ticket := &model.Ticket{
		ProblemDescription: strings.TrimSpace(req.ProblemDescription),
		Recommendation:     strings.TrimSpace(req.Recommendation),
		Timestamp:          req.Timestamp,
		Email:              strings.TrimSpace(req.Email),
		SubmitterEmail:     identity.Email,
		Location:           model.NewCoordinate(req.Latitude, req.Longitude),
		ImageData:          req.ImageBase64,
		OwnerID:            identity.UID,
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	stored, err := u.tickets.Create(storeCtx, ticket)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("チケットの作成に失敗: %w", err)
	}
	metrics.TicketsCreatedTotal.Inc()
	log.WithFields(log.Fields{
		"ticket_id": stored.ID,
		"owner_id":  stored.OwnerID,
	}).Info("🎫 チケット作成完了")

	u.notify(ctx, stored)

	return stored, nil
}

// notify は担当機関へのメール送信を試みる。失敗してもチケット作成は成功扱い
func (u *ticketUseCaseImpl) notify(ctx context.Context, ticket *model.Ticket) {
	logger := log.WithField("ticket_id", ticket.ID)

	if ticket.Email == "" {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		logger.Info("📭 担当機関のメールアドレスが無いため通知をスキップ")
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, u.notifyTimeout)
	defer cancel()

	if err := u.notifier.Notify(notifyCtx, BuildTicketNotification(ticket)); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logger.WithError(err).Error("❌ 担当機関への通知に失敗")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}

// BuildTicketNotification はチケットから担当機関向けのメールを組み立てる
func BuildTicketNotification(ticket *model.Ticket) *model.Notification {
	subject := ticket.ProblemDescription
	if runes := []rune(subject); len(runes) > maxSubjectDescriptionLength {
		subject = string(runes[:maxSubjectDescriptionLength]) + "..."
	}

	var body strings.Builder
	body.WriteString("A new infrastructure issue has been reported through SnapSolve.\n\n")
	fmt.Fprintf(&body, "Problem: %s\n", ticket.ProblemDescription)
	fmt.Fprintf(&body, "Recommended authority: %s\n", ticket.Recommendation)
	fmt.Fprintf(&body, "Reported at: %s\n", time.Unix(ticket.Timestamp, 0).UTC().Format(time.RFC1123))
	if ticket.Location != nil {
		fmt.Fprintf(&body, "Location: %s\n", ticket.Location.String())
		fmt.Fprintf(&body, "Map: https://www.google.com/maps?q=%s\n", ticket.Location.String())
	}
	fmt.Fprintf(&body, "Ticket ID: %s\n", ticket.ID)
	if ticket.SubmitterEmail != "" {
		body.WriteString("\nReply to this email to contact the reporter.\n")
	}

	return &model.Notification{
		To:      ticket.Email,
		ReplyTo: ticket.SubmitterEmail,
		Subject: "SnapSolve report: " + subject,
		Body:    body.String(),
	}
}

func (u *ticketUseCaseImpl) ListMyTickets(ctx context.Context, identity *model.Identity) ([]*model.Ticket, error) {
	if identity == nil || identity.UID == "" {
		return nil, &model.AuthError{Kind: model.AuthUnauthorized, Message: "Unauthorized"}
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	tickets, err := u.tickets.ListByOwner(storeCtx, identity.UID)
	if err != nil {
		return nil, fmt.Errorf("チケット一覧の取得に失敗: %w", err)
	}
	return tickets, nil
}

func (u *ticketUseCaseImpl) ListAllTickets(ctx context.Context) ([]*model.Ticket, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	tickets, err := u.tickets.ListAll(storeCtx)
	if err != nil {
		return nil, fmt.Errorf("全チケットの取得に失敗: %w", err)
	}
	return tickets, nil
}

func (u *ticketUseCaseImpl) ListTicketLocations(ctx context.Context) ([]model.TicketLocation, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	locations, err := u.tickets.ListLocations(storeCtx)
	if err != nil {
		return nil, fmt.Errorf("チケット位置情報の取得に失敗: %w", err)
	}
	return locations, nil
}
