package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/judicial-monitor/internal/application/change"
	"github.com/judicial-monitor/internal/domain"
	"github.com/judicial-monitor/internal/infrastructure/smtp"
	"github.com/judicial-monitor/internal/pkg/id"
	"github.com/judicial-monitor/internal/pkg/logger"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 50

type Service interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)

	// Notify records one in-app notification for the favorite's owner and then
	// tries to email them. Only a failure to store the notification is returned;
	// email problems are logged.
	Notify(ctx context.Context, fav domain.FavoriteProcess, message string, emails *EmailCache) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
}

type emailResolver interface {
	ResolveEmail(ctx context.Context, userID string) (string, error)
}

type mailer interface {
	SendHTML(to, subject, html string) error
}

type service struct {
	repo         notificationStore
	users        emailResolver
	mailer       mailer
	emailEnabled bool
	frontendURL  string
	log          logrus.FieldLogger
	now          func() time.Time
}

type ServiceDeps struct {
	Repo         notificationStore
	Users        emailResolver
	Mailer       mailer
	EmailEnabled bool
	FrontendURL  string
	Log          logrus.FieldLogger
}

func NewService(deps ServiceDeps) Service {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	return &service{
		repo:         deps.Repo,
		users:        deps.Users,
		mailer:       deps.Mailer,
		emailEnabled: deps.EmailEnabled && deps.Mailer != nil && deps.Users != nil,
		frontendURL:  deps.FrontendURL,
		log:          deps.Log,
		now:          time.Now,
	}
}

func (s *service) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.repo.ListByUser(ctx, userID, int32(limit))
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("forbidden: %w", domain.ErrForbidden)
	}
	if n.IsRead {
		return n, nil
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	unread, err := s.repo.ListUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range unread {
		if _, err := s.repo.MarkAsRead(ctx, n.NotificationID); err != nil {
			return marked, fmt.Errorf("mark %s as read: %w", n.NotificationID, err)
		}
		marked++
	}
	return marked, nil
}

func (s *service) Notify(ctx context.Context, fav domain.FavoriteProcess, message string, emails *EmailCache) error {
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         fav.UserID,
		CaseNumber:     fav.CaseNumber,
		Title:          change.Title(fav.CaseNumber),
		Message:        message,
		IsRead:         false,
		Type:           domain.NotificationTypeInApp,
		CreatedAt:      now,
		SentAt:         &now,
	}
	putErr := s.repo.Put(ctx, n)
	if putErr != nil {
		putErr = fmt.Errorf("store notification for user %s: %w", fav.UserID, putErr)
	}

	s.sendEmail(ctx, fav, message, emails)
	return putErr
}

func (s *service) sendEmail(ctx context.Context, fav domain.FavoriteProcess, message string, emails *EmailCache) {
	if !s.emailEnabled {
		return
	}
	log := s.log.WithFields(logrus.Fields{"user_id": fav.UserID, "case_number": fav.CaseNumber})
	if emails == nil {
		emails = NewEmailCache()
	}

	to, err := emails.Resolve(ctx, fav.UserID, s.users.ResolveEmail)
	if err != nil {
		log.WithError(err).Warn("notification: email lookup failed")
		return
	}
	if to == "" {
		log.Debug("notification: no email on file")
		return
	}
	html, err := smtp.RenderProcessUpdate(s.frontendURL, fav.CaseNumber, message)
	if err != nil {
		log.WithError(err).Error("notification: render email")
		return
	}
	if err := s.mailer.SendHTML(to, change.EmailSubject(fav.CaseNumber), html); err != nil {
		log.WithError(err).Warn("notification: email send failed")
	}
}
