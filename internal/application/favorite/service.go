package favorite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/judicial-monitor/internal/domain"
	"github.com/judicial-monitor/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.FavoriteProcess, error)
	Add(ctx context.Context, userID string, req domain.CreateFavoriteRequest) (*domain.FavoriteProcess, error)
	Remove(ctx context.Context, userID, caseNumber string) error
	// ListAll returns every favorite of every user; it feeds the monitoring run.
	ListAll(ctx context.Context) ([]domain.FavoriteProcess, error)
}

type favoriteStore interface {
	Create(ctx context.Context, f *domain.FavoriteProcess) error
	ListByUser(ctx context.Context, userID string) ([]domain.FavoriteProcess, error)
	ListAll(ctx context.Context) ([]domain.FavoriteProcess, error)
	Delete(ctx context.Context, userID, caseNumber string) error
}

type service struct {
	repo favoriteStore
	now  func() time.Time
}

func NewService(repo favoriteStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.FavoriteProcess, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID string, req domain.CreateFavoriteRequest) (*domain.FavoriteProcess, error) {
	req.CaseNumber = strings.TrimSpace(req.CaseNumber)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	f := &domain.FavoriteProcess{
		UserID:     userID,
		CaseNumber: req.CaseNumber,
		Office:     req.Office,
		Plaintiff:  req.Plaintiff,
		Defendant:  req.Defendant,
		CaseType:   req.CaseType,
		FilingDate: req.FilingDate,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Remove(ctx context.Context, userID, caseNumber string) error {
	return s.repo.Delete(ctx, userID, strings.TrimSpace(caseNumber))
}

func (s *service) ListAll(ctx context.Context) ([]domain.FavoriteProcess, error) {
	return s.repo.ListAll(ctx)
}
