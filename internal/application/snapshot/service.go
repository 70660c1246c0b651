package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/judicial-monitor/internal/domain"
)

// archiveURLTTL bounds the lifetime of presigned links to archived case data.
const archiveURLTTL = 15 * time.Minute

// Service is the snapshot store: one ProcessSnapshot per case number.
type Service interface {
	// Get returns nil without error when the case was never observed.
	Get(ctx context.Context, caseNumber string) (*domain.ProcessSnapshot, error)
	// Upsert replaces the stored snapshot for s.ProcessNumber entirely.
	Upsert(ctx context.Context, s domain.ProcessSnapshot) error
	// Lookup is Get for the HTTP surface: an absent snapshot is ErrNotFound,
	// and the link to the latest archived case record is attached when available.
	Lookup(ctx context.Context, caseNumber string) (*View, error)
}

// View is a snapshot as exposed to API clients.
type View struct {
	domain.ProcessSnapshot
	ArchiveURL string `json:"archive_url,omitempty"`
}

type snapshotStore interface {
	Get(ctx context.Context, processNumber string) (*domain.ProcessSnapshot, error)
	Upsert(ctx context.Context, s *domain.ProcessSnapshot) error
}

type caseArchive interface {
	LatestKey(ctx context.Context, caseNumber string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	repo    snapshotStore
	archive caseArchive
}

type ServiceDeps struct {
	Repo    snapshotStore
	Archive caseArchive // optional
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, archive: deps.Archive}
}

func (s *service) Get(ctx context.Context, caseNumber string) (*domain.ProcessSnapshot, error) {
	snap, err := s.repo.Get(ctx, strings.TrimSpace(caseNumber))
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", caseNumber, err)
	}
	return snap, nil
}

func (s *service) Upsert(ctx context.Context, snap domain.ProcessSnapshot) error {
	if strings.TrimSpace(snap.ProcessNumber) == "" {
		return fmt.Errorf("snapshot without case number: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Upsert(ctx, &snap); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.ProcessNumber, err)
	}
	return nil
}

func (s *service) Lookup(ctx context.Context, caseNumber string) (*View, error) {
	snap, err := s.Get(ctx, caseNumber)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("snapshot %s: %w", caseNumber, domain.ErrNotFound)
	}
	v := &View{ProcessSnapshot: *snap}
	if s.archive == nil {
		return v, nil
	}
	// A missing archive never hides the snapshot itself.
	if key, err := s.archive.LatestKey(ctx, snap.ProcessNumber); err == nil {
		if u, err := s.archive.PresignedURL(ctx, key, archiveURLTTL); err == nil {
			v.ArchiveURL = u
		}
	}
	return v, nil
}
