package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/search"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// RecentFinesLimit caps the fines shown on the dashboard.
const RecentFinesLimit = 5

// Cache holds read-mostly views. Implementations swallow their own errors.
type Cache interface {
	GetFine(ctx context.Context, id string) (domain.TrafficFine, bool)
	SetFine(ctx context.Context, f domain.TrafficFine)
	GetMunicipalities(ctx context.Context) ([]domain.Municipality, bool)
	SetMunicipalities(ctx context.Context, ms []domain.Municipality)
}

type FineService struct {
	Store   store.Store
	Cache   Cache // optional
	Metrics *metrics.Metrics
	Latency time.Duration
}

// Search returns the fines matching p in feed order. Empty params return an
// empty list rather than everything.
func (s *FineService) Search(ctx context.Context, p search.Params) ([]domain.TrafficFine, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return nil, err
	}

	mode := p.Mode()
	if mode == search.ModeNone {
		return []domain.TrafficFine{}, nil
	}

	all, err := s.Store.Fines().ListFines(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list fines", slog.Any("error", err))
		return nil, err
	}

	results := search.Match(p, all)
	s.Metrics.ObserveSearch(string(mode), len(results))
	slogx.FromContext(ctx).Debug("fine search",
		slog.String("mode", string(mode)),
		slog.Int("results", len(results)),
	)
	return results, nil
}

func (s *FineService) GetFineByID(ctx context.Context, id string) (domain.TrafficFine, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.TrafficFine{}, err
	}

	if s.Cache != nil {
		if f, ok := s.Cache.GetFine(ctx, id); ok {
			return f, nil
		}
	}

	f, err := s.Store.Fines().GetFineByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TrafficFine{}, ErrFineNotFound
		}
		return domain.TrafficFine{}, err
	}

	if s.Cache != nil {
		s.Cache.SetFine(ctx, f)
	}
	return f, nil
}

// GetUserFines returns every fine issued to the user's ID number or to one of
// their vehicles, in feed order.
func (s *FineService) GetUserFines(ctx context.Context, userID string) ([]domain.TrafficFine, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return nil, err
	}
	_, fines, err := s.userFines(ctx, userID)
	return fines, err
}

func (s *FineService) userFines(ctx context.Context, userID string) (domain.User, []domain.TrafficFine, error) {
	var (
		user domain.User
		all  []domain.TrafficFine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = loadUser(gctx, s.Store, userID)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = s.Store.Fines().ListFines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.User{}, nil, err
	}

	return user, search.MatchOwner(user.IDNumber, user.Registrations(), all), nil
}

// Dashboard is the signed-in landing view.
type Dashboard struct {
	User        domain.User
	Stats       domain.DashboardStats
	RecentFines []domain.TrafficFine
}

func (s *FineService) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return Dashboard{}, err
	}

	user, fines, err := s.userFines(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		User:        user,
		Stats:       domain.Summarise(user, fines),
		RecentFines: fines[:min(len(fines), RecentFinesLimit)],
	}, nil
}

func (s *FineService) ListMunicipalities(ctx context.Context) ([]domain.Municipality, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if ms, ok := s.Cache.GetMunicipalities(ctx); ok {
			return ms, nil
		}
	}

	ms, err := s.Store.Reference().ListMunicipalities(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.SetMunicipalities(ctx, ms)
	}
	return ms, nil
}
