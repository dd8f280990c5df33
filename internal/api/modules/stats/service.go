package stats

import (
	"context"
	"time"

	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/sdk"
	"github.com/ethanbaker/refbot/pkg/stats"
)

// Service answers stats queries from the counter store
type Service struct {
	store        stats.StoreInterface
	destinations *destination.Destinations
	loc          *time.Location
	now          func() time.Time
}

// NewService creates a Service. A nil location means local time
func NewService(store stats.StoreInterface, destinations *destination.Destinations, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		store:        store,
		destinations: destinations,
		loc:          loc,
		now:          time.Now,
	}
}

// Today returns the current day in the service's time zone
func (s *Service) Today() string {
	return stats.Day(s.now(), s.loc)
}

// ParseDate normalizes a YYYY-MM-DD query value. An empty value means today
func (s *Service) ParseDate(raw string) (string, error) {
	if raw == "" {
		return s.Today(), nil
	}

	t, err := time.ParseInLocation(stats.DateLayout, raw, s.loc)
	if err != nil {
		return "", err
	}
	return t.Format(stats.DateLayout), nil
}

// Snapshot returns the per-destination counts for date
func (s *Service) Snapshot(ctx context.Context, date string) sdk.StatsResponse {
	counters := s.store.Load(ctx)
	return sdk.StatsResponse{
		Date:         date,
		Destinations: stats.Summarize(counters, s.destinations.Names(), date),
	}
}
