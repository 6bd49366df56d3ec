// Package pipeline holds the filter-and-aggregate core of the dashboard:
// pure functions from a flight table (plus criteria) to the filtered view and
// the derived metrics the presentation layer renders.
package pipeline

import (
	"flightdash/internal/domain"
)

// Filter returns the rows of t that satisfy every constraint in c, in their
// original relative order. The result is always a subset of t; an empty result
// is not an error. A price range with min > max is rejected before any row is
// inspected.
func Filter(t domain.Table, c domain.FilterCriteria) (domain.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make(domain.Table, 0, len(t))
	for _, r := range t {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
