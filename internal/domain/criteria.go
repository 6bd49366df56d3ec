package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by aggregations given a zero-row table.
	ErrEmptyInput = errors.New("empty input table")
	// ErrInvalidPriceRange is returned when a price range has min > max.
	ErrInvalidPriceRange = errors.New("invalid price range: min is greater than max")
)

// MissingColumnError reports a logical field that does not resolve to an
// actual column. It is a configuration fault, not a data condition.
type MissingColumnError struct {
	Field  Field
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %q configured for field %q not found", e.Column, e.Field)
	}
	return fmt.Sprintf("no column resolves field %q", e.Field)
}

// PriceRange is an inclusive [Min, Max] price constraint.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterCriteria is one user interaction's worth of constraints. An empty
// selection slice leaves that dimension unconstrained; a nil Price leaves the
// price dimension unconstrained.
type FilterCriteria struct {
	Airlines          []string    `json:"airlines,omitempty"`
	SourceCities      []string    `json:"source_cities,omitempty"`
	DestinationCities []string    `json:"destination_cities,omitempty"`
	Classes           []string    `json:"classes,omitempty"`
	Stops             []string    `json:"stops,omitempty"`
	Price             *PriceRange `json:"price,omitempty"`
}

// Validate rejects criteria the presentation layer should never have built.
func (c FilterCriteria) Validate() error {
	if c.Price != nil && c.Price.Min > c.Price.Max {
		return ErrInvalidPriceRange
	}
	return nil
}

// Matches reports whether r satisfies every constraint in c. Predicates are
// independent, so evaluation order does not affect the outcome.
func (c FilterCriteria) Matches(r FlightRecord) bool {
	if !selected(c.Airlines, r.Airline) {
		return false
	}
	if !selected(c.SourceCities, r.SourceCity) {
		return false
	}
	if !selected(c.DestinationCities, r.DestinationCity) {
		return false
	}
	if !selected(c.Classes, r.Class) {
		return false
	}
	if !selected(c.Stops, r.Stops) {
		return false
	}
	if c.Price != nil && (r.Price < c.Price.Min || r.Price > c.Price.Max) {
		return false
	}
	return true
}

func selected(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
