package dataset

import (
	"context"

	"flightdash/internal/domain"
	"flightdash/internal/repository"
)

// PGSource loads the flights table from Postgres through the record
// repository. The repository already returns typed rows, so no coercion or
// column mapping applies here.
type PGSource struct {
	repo repository.FlightRecordRepository
	key  string
}

func NewPGSource(repo repository.FlightRecordRepository, key string) *PGSource {
	return &PGSource{repo: repo, key: key}
}

func (s *PGSource) Key() string {
	return s.key
}

func (s *PGSource) Fetch(ctx context.Context) (domain.Table, error) {
	return s.repo.List(ctx)
}

var _ Source = (*PGSource)(nil)
