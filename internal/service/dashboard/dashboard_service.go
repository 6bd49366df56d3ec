package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"

	"flightdash/internal/dataset"
	"flightdash/internal/domain"
	"flightdash/internal/pipeline"
)

type DashboardUseCase interface {
	View(ctx context.Context, criteria domain.FilterCriteria) (*View, error)
	Options(ctx context.Context) (*FilterOptions, error)
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// SnapshotProvider hands out the memoized dataset snapshot.
type SnapshotProvider interface {
	Load(ctx context.Context) (*dataset.Snapshot, error)
}

type Cache interface {
	GetView(ctx context.Context, key string) (*View, error)
	SetView(ctx context.Context, key string, view *View) error
	GetOptions(ctx context.Context) (*FilterOptions, error)
	SetOptions(ctx context.Context, options *FilterOptions) error
}

// View is everything the presentation layer needs for one interaction: the
// filtered rows, the KPI metrics and both chart series. When Empty is true no
// metrics or series are present and the caller must surface a no-data notice
// instead of rendering.
type View struct {
	Empty           bool                 `json:"empty"`
	Rows            domain.Table         `json:"rows"`
	Metrics         *pipeline.Metrics    `json:"metrics,omitempty"`
	PriceByAirline  []pipeline.GroupStat `json:"price_by_airline,omitempty"`
	PriceByDaysLeft []pipeline.GroupStat `json:"price_by_days_left,omitempty"`
}

// FilterOptions populates the filter widgets: the distinct values of each
// categorical dimension in first-appearance order, and the price bounds for
// the range slider.
type FilterOptions struct {
	Airlines          []string `json:"airlines"`
	SourceCities      []string `json:"source_cities"`
	DestinationCities []string `json:"destination_cities"`
	Classes           []string `json:"classes"`
	Stops             []string `json:"stops"`
	PriceMin          float64  `json:"price_min"`
	PriceMax          float64  `json:"price_max"`
}

type DashboardService struct {
	snapshots SnapshotProvider
	cache     Cache
}

type DashboardServiceOption func(*DashboardService)

// WithCache enables read-through caching of computed views and options.
func WithCache(cache Cache) DashboardServiceOption {
	return func(s *DashboardService) {
		s.cache = cache
	}
}

func NewDashboardService(snapshots SnapshotProvider, opts ...DashboardServiceOption) *DashboardService {
	service := &DashboardService{snapshots: snapshots}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// View runs the full pipeline for one set of criteria: filter, then summarize
// and both group-means over the filtered rows. The aggregation engines are
// never invoked when the filter result is empty.
func (s *DashboardService) View(ctx context.Context, criteria domain.FilterCriteria) (*View, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	key := criteriaKey(criteria)
	if s.cache != nil {
		if cached, err := s.cache.GetView(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	view, err := s.computeView(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && !view.Empty {
		if err := s.cache.SetView(ctx, key, view); err != nil {
			log.Printf("cache view %s: %v", key, err)
		}
	}
	return view, nil
}

// Options derives the filter widget options from the full dataset.
func (s *DashboardService) Options(ctx context.Context) (*FilterOptions, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetOptions(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	options, err := s.computeOptions(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetOptions(ctx, options); err != nil {
			log.Printf("cache options: %v", err)
		}
	}
	return options, nil
}

// Snapshot exposes dataset provenance for health reporting.
func (s *DashboardService) Snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	return s.snapshots.Load(ctx)
}

// Warm recomputes the unconstrained default view and the filter options and
// stores them unconditionally, refreshing their TTLs. The worker calls this
// so the first dashboard paint after a deploy is a cache hit.
func (s *DashboardService) Warm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	defaultCriteria := domain.FilterCriteria{}
	view, err := s.computeView(ctx, defaultCriteria)
	if err != nil {
		return err
	}
	if err := s.cache.SetView(ctx, criteriaKey(defaultCriteria), view); err != nil {
		return err
	}

	options, err := s.computeOptions(ctx)
	if err != nil {
		return err
	}
	return s.cache.SetOptions(ctx, options)
}

func (s *DashboardService) computeView(ctx context.Context, criteria domain.FilterCriteria) (*View, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := pipeline.Filter(snap.Table, criteria)
	if err != nil {
		return nil, err
	}

	view := &View{Rows: filtered}
	if len(filtered) == 0 {
		view.Empty = true
		return view, nil
	}

	metrics, err := pipeline.Summarize(filtered)
	if err != nil {
		return nil, err
	}
	byAirline, err := pipeline.GroupMean(filtered, domain.FieldAirline, domain.FieldPrice, pipeline.OrderMeanDescending)
	if err != nil {
		return nil, err
	}
	byDaysLeft, err := pipeline.GroupMean(filtered, domain.FieldDaysLeft, domain.FieldPrice, pipeline.OrderKeyAscending)
	if err != nil {
		return nil, err
	}

	view.Metrics = metrics
	view.PriceByAirline = byAirline
	view.PriceByDaysLeft = byDaysLeft
	return view, nil
}

func (s *DashboardService) computeOptions(ctx context.Context) (*FilterOptions, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	options := &FilterOptions{
		Airlines:          distinct(snap.Table, domain.FieldAirline),
		SourceCities:      distinct(snap.Table, domain.FieldSourceCity),
		DestinationCities: distinct(snap.Table, domain.FieldDestinationCity),
		Classes:           distinct(snap.Table, domain.FieldClass),
		Stops:             distinct(snap.Table, domain.FieldStops),
	}
	for i, r := range snap.Table {
		if i == 0 || r.Price < options.PriceMin {
			options.PriceMin = r.Price
		}
		if i == 0 || r.Price > options.PriceMax {
			options.PriceMax = r.Price
		}
	}
	return options, nil
}

func distinct(t domain.Table, f domain.Field) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range t {
		v, ok := r.Categorical(f)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// criteriaKey is a stable digest of the criteria used as the cache key.
// Selections are sorted and deduplicated first, so equivalent criteria hash
// to the same entry regardless of the order parameters arrived in.
func criteriaKey(c domain.FilterCriteria) string {
	canon := domain.FilterCriteria{
		Airlines:          canonical(c.Airlines),
		SourceCities:      canonical(c.SourceCities),
		DestinationCities: canonical(c.DestinationCities),
		Classes:           canonical(c.Classes),
		Stops:             canonical(c.Stops),
		Price:             c.Price,
	}
	data, err := json.Marshal(canon)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

func canonical(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var _ DashboardUseCase = (*DashboardService)(nil)
