// Package dataset loads the flights table from its configured source and
// memoizes it for the life of the process.
package dataset

import (
	"context"

	"flightdash/internal/domain"
)

// Source fetches the full flights table from somewhere external: a CSV over
// HTTP, a local file, or a database.
type Source interface {
	// Key identifies the source for snapshot caching, e.g. the CSV URL.
	Key() string
	Fetch(ctx context.Context) (domain.Table, error)
}

// ColumnMapping maps logical fields to the column names a concrete CSV uses.
// Sources of this dataset ship headers either in snake_case or in a
// "Title With Spaces" normalization; the mapping makes the loader agnostic.
type ColumnMapping map[domain.Field]string

// Columns builds a ColumnMapping from configured overrides, defaulting every
// unmentioned field to its snake_case logical name.
func Columns(overrides map[string]string) ColumnMapping {
	m := make(ColumnMapping, len(domain.Fields))
	for _, f := range domain.Fields {
		m[f] = string(f)
	}
	for logical, column := range overrides {
		m[domain.Field(logical)] = column
	}
	return m
}
