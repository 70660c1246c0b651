// Package monitoring runs the periodic pass over every favorited case: it
// fetches fresh case data, compares it with the stored snapshot and notifies
// the users following a case when something changed.
package monitoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/judicial-monitor/internal/application/change"
	"github.com/judicial-monitor/internal/application/notification"
	"github.com/judicial-monitor/internal/domain"
	"github.com/judicial-monitor/internal/infrastructure/sns"
	"github.com/judicial-monitor/internal/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CycleReport summarizes one monitoring run.
type CycleReport struct {
	Disabled      bool      `json:"disabled"`
	Favorites     int       `json:"favorites"`
	Fetches       int       `json:"fetches"`
	FailedFetches int       `json:"failed_fetches"`
	Changes       int       `json:"changes"`
	Notifications int       `json:"notifications"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

type favoriteLister interface {
	ListAll(ctx context.Context) ([]domain.FavoriteProcess, error)
}

type caseFetcher interface {
	FetchCase(ctx context.Context, caseNumber string, activeOnly bool) (*domain.CaseData, error)
}

type snapshotStore interface {
	Get(ctx context.Context, caseNumber string) (*domain.ProcessSnapshot, error)
	Upsert(ctx context.Context, s domain.ProcessSnapshot) error
}

type dispatcher interface {
	Notify(ctx context.Context, fav domain.FavoriteProcess, message string, emails *notification.EmailCache) error
}

type caseArchiver interface {
	Put(ctx context.Context, data *domain.CaseData) (string, error)
}

type changePublisher interface {
	PublishChange(ctx context.Context, ev sns.ProcessChanged) error
}

type Service struct {
	enabled     bool
	concurrency int
	favorites   favoriteLister
	fetcher     caseFetcher
	snapshots   snapshotStore
	dispatcher  dispatcher
	archive     caseArchiver
	publisher   changePublisher
	locks       *keyedMutex
	log         logrus.FieldLogger
	now         func() time.Time
}

type ServiceDeps struct {
	Enabled          bool
	FetchConcurrency int
	Favorites        favoriteLister
	Fetcher          caseFetcher
	Snapshots        snapshotStore
	Dispatcher       dispatcher
	Archive          caseArchiver    // optional
	Publisher        changePublisher // optional
	Log              logrus.FieldLogger
}

func NewService(deps ServiceDeps) *Service {
	if deps.FetchConcurrency < 1 {
		deps.FetchConcurrency = 1
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	return &Service{
		enabled:     deps.Enabled,
		concurrency: deps.FetchConcurrency,
		favorites:   deps.Favorites,
		fetcher:     deps.Fetcher,
		snapshots:   deps.Snapshots,
		dispatcher:  deps.Dispatcher,
		archive:     deps.Archive,
		publisher:   deps.Publisher,
		locks:       newKeyedMutex(),
		log:         deps.Log,
		now:         time.Now,
	}
}

// decision is the outcome for one case number within a run.
type decision struct {
	message string
	changed bool
}

// run holds the state scoped to one cycle. Nothing in it survives the cycle.
type run struct {
	cases     map[string]*domain.CaseData // nil value: fetch failed or case unknown
	decisions map[string]decision
	followers map[string]int
	emails    *notification.EmailCache
	report    *CycleReport
}

// RunCycle executes one monitoring pass. It never returns an error: failures
// are logged and confined to the case number or favorite they belong to.
func (s *Service) RunCycle(ctx context.Context) (report CycleReport) {
	report = CycleReport{StartedAt: s.now().UTC()}
	if !s.enabled {
		s.log.Debug("monitoring: disabled, skipping run")
		report.Disabled = true
		report.FinishedAt = s.now().UTC()
		return report
	}

	s.log.Info("monitoring: run started")
	defer func() {
		report.FinishedAt = s.now().UTC()
		s.log.WithFields(logrus.Fields{
			"favorites":     report.Favorites,
			"changes":       report.Changes,
			"notifications": report.Notifications,
			"duration_ms":   report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		}).Info("monitoring: run finished")
	}()

	favs, err := s.favorites.ListAll(ctx)
	if err != nil {
		s.log.WithError(err).Error("monitoring: list favorites")
		return report
	}
	report.Favorites = len(favs)
	if len(favs) == 0 {
		s.log.Debug("monitoring: no favorites")
		return report
	}

	r := &run{
		decisions: make(map[string]decision),
		followers: make(map[string]int),
		emails:    notification.NewEmailCache(),
		report:    &report,
	}
	for _, f := range favs {
		if n := strings.TrimSpace(f.CaseNumber); n != "" {
			r.followers[n]++
		}
	}
	r.cases = s.prefetch(ctx, r.followers, &report)

	for _, f := range favs {
		s.processFavorite(ctx, r, f)
	}
	return report
}

// prefetch fetches every distinct case number once, a bounded number at a time.
func (s *Service) prefetch(ctx context.Context, numbers map[string]int, report *CycleReport) map[string]*domain.CaseData {
	var (
		mu    sync.Mutex
		cases = make(map[string]*domain.CaseData, len(numbers))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for n := range numbers {
		n := n
		g.Go(func() error {
			data := s.fetch(gctx, n)
			mu.Lock()
			defer mu.Unlock()
			cases[n] = data
			report.Fetches++
			if data == nil {
				report.FailedFetches++
			}
			return nil
		})
	}
	_ = g.Wait()
	return cases
}

func (s *Service) fetch(ctx context.Context, caseNumber string) (data *domain.CaseData) {
	log := s.log.WithField("case_number", caseNumber)
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("monitoring: fetch panicked")
			data = nil
		}
	}()
	data, err := s.fetcher.FetchCase(ctx, caseNumber, false)
	if err != nil {
		log.WithError(err).Error("monitoring: fetch case")
		return nil
	}
	return data
}

func (s *Service) processFavorite(ctx context.Context, r *run, fav domain.FavoriteProcess) {
	n := strings.TrimSpace(fav.CaseNumber)
	log := s.log.WithFields(logrus.Fields{"case_number": n, "user_id": fav.UserID})
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("monitoring: favorite processing panicked")
		}
	}()

	if n == "" {
		log.Debug("monitoring: favorite without case number, skipping")
		return
	}
	data := r.cases[n]
	if data == nil {
		log.Debug("monitoring: no case data this run, skipping")
		return
	}

	d := s.decide(ctx, r, n, data)
	if !d.changed {
		return
	}
	fav.CaseNumber = n
	if err := s.dispatcher.Notify(ctx, fav, d.message, r.emails); err != nil {
		log.WithError(err).Error("monitoring: dispatch notification")
		return
	}
	r.report.Notifications++
}

// decide evaluates a case number once per run. The snapshot read, comparison
// and upsert happen under the case number's lock; later favorites of the same
// case reuse the cached decision.
func (s *Service) decide(ctx context.Context, r *run, n string, data *domain.CaseData) decision {
	if d, ok := r.decisions[n]; ok {
		return d
	}
	unlock := s.locks.Lock(n)
	defer unlock()

	d := s.evaluate(ctx, r, n, data)
	r.decisions[n] = d
	return d
}

func (s *Service) evaluate(ctx context.Context, r *run, n string, data *domain.CaseData) decision {
	log := s.log.WithField("case_number", n)

	prev, err := s.snapshots.Get(ctx, n)
	if err != nil {
		log.WithError(err).Error("monitoring: read snapshot, skipping case")
		return decision{}
	}
	msg, changed := change.Decide(prev, data)
	if !changed {
		return decision{}
	}
	r.report.Changes++

	snap := change.BuildSnapshot(data)
	snap.ProcessNumber = n
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		log.WithError(err).Error("monitoring: upsert snapshot")
	}
	s.fanOut(ctx, n, data, snap, msg, r.followers[n])
	return decision{message: msg, changed: true}
}

// fanOut archives the case record and publishes the change event. Both are
// optional and never affect notifications.
func (s *Service) fanOut(ctx context.Context, n string, data *domain.CaseData, snap domain.ProcessSnapshot, msg string, followers int) {
	log := s.log.WithField("case_number", n)
	if s.archive != nil {
		if key, err := s.archive.Put(ctx, data); err != nil {
			log.WithError(err).Warn("monitoring: archive case data")
		} else {
			log.WithField("key", key).Debug("monitoring: case data archived")
		}
	}
	if s.publisher != nil {
		err := s.publisher.PublishChange(ctx, sns.ProcessChanged{
			CaseNumber:       n,
			ProcessID:        snap.ProcessID,
			LastActivityDate: snap.LastActivityDate,
			Status:           snap.LastStatus,
			Message:          msg,
			Followers:        followers,
			DetectedAt:       s.now().UTC(),
		})
		if err != nil {
			log.WithError(err).Warn("monitoring: publish change event")
		}
	}
}

func (r CycleReport) String() string {
	return fmt.Sprintf("favorites=%d fetches=%d failed=%d changes=%d notifications=%d",
		r.Favorites, r.Fetches, r.FailedFetches, r.Changes, r.Notifications)
}
