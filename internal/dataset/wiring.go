package dataset

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"flightdash/config"
	"flightdash/internal/repository"
)

// NewSourceFromConfig builds the source the dataset config selects, so every
// binary resolves kind the same way. The returned cleanup releases backing
// resources; for CSV it is a no-op.
func NewSourceFromConfig(ctx context.Context, cfg config.DatasetConfig) (Source, func(), error) {
	switch cfg.Kind {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewFlightRecordRepository(pool)
		return NewPGSource(repo, cfg.Database.DSN()), pool.Close, nil
	default:
		return NewCSVSource(cfg.Location, Columns(cfg.Columns)), func() {}, nil
	}
}
