package pipeline

import (
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"flightdash/internal/domain"
)

// Metrics are the scalar KPIs of a filtered table. Means are kept at full
// precision; rounding for display is the presentation layer's job.
type Metrics struct {
	Count       int     `json:"count"`
	AvgPrice    float64 `json:"avg_price"`
	AvgDuration float64 `json:"avg_duration"`
	PriceRange  float64 `json:"price_range"`
}

// Summarize computes the scalar metrics of t. Zero rows is a contract
// violation: callers must check emptiness first.
func Summarize(t domain.Table) (*Metrics, error) {
	if len(t) == 0 {
		return nil, domain.ErrEmptyInput
	}

	prices := make([]float64, len(t))
	durations := make([]float64, len(t))
	for i, r := range t {
		prices[i] = r.Price
		durations[i] = r.Duration
	}

	avgPrice, err := stats.Mean(prices)
	if err != nil {
		return nil, err
	}
	avgDuration, err := stats.Mean(durations)
	if err != nil {
		return nil, err
	}
	minPrice, err := stats.Min(prices)
	if err != nil {
		return nil, err
	}
	maxPrice, err := stats.Max(prices)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Count:       len(t),
		AvgPrice:    avgPrice,
		AvgDuration: avgDuration,
		PriceRange:  maxPrice - minPrice,
	}, nil
}

// GroupOrder selects how GroupMean orders its result.
type GroupOrder int

const (
	// OrderKeyAscending sorts by group key, numerically when the key field is
	// numeric. Used for trend series such as price by days left.
	OrderKeyAscending GroupOrder = iota
	// OrderMeanDescending sorts by mean, highest first. The sort is stable:
	// groups with equal means keep their first-encountered order.
	OrderMeanDescending
)

// GroupStat is one group's aggregate in a GroupMean result.
type GroupStat struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// GroupMean partitions t by the distinct values of groupKey and computes the
// arithmetic mean of valueKey within each partition. groupKey may be
// categorical or numeric; valueKey must be numeric. Groups are accumulated in
// first-encountered order before ordering is applied.
func GroupMean(t domain.Table, groupKey, valueKey domain.Field, order GroupOrder) ([]GroupStat, error) {
	if len(t) == 0 {
		return nil, domain.ErrEmptyInput
	}

	_, numericKey := t[0].Numeric(groupKey)
	if _, ok := t[0].Categorical(groupKey); !ok && !numericKey {
		return nil, &domain.MissingColumnError{Field: groupKey}
	}
	if _, ok := t[0].Numeric(valueKey); !ok {
		return nil, &domain.MissingColumnError{Field: valueKey}
	}

	type bucket struct {
		label  string
		keyNum float64
		mean   float64
		values []float64
	}

	index := make(map[string]int)
	buckets := make([]*bucket, 0)
	for _, r := range t {
		var label string
		var keyNum float64
		if numericKey {
			keyNum, _ = r.Numeric(groupKey)
			label = strconv.FormatFloat(keyNum, 'f', -1, 64)
		} else {
			label, _ = r.Categorical(groupKey)
		}
		value, _ := r.Numeric(valueKey)

		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, &bucket{label: label, keyNum: keyNum})
		}
		buckets[i].values = append(buckets[i].values, value)
	}

	for _, b := range buckets {
		mean, err := stats.Mean(b.values)
		if err != nil {
			return nil, err
		}
		b.mean = mean
	}

	switch order {
	case OrderKeyAscending:
		if numericKey {
			sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].keyNum < buckets[j].keyNum })
		} else {
			sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].label < buckets[j].label })
		}
	case OrderMeanDescending:
		sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].mean > buckets[j].mean })
	}

	result := make([]GroupStat, len(buckets))
	for i, b := range buckets {
		result[i] = GroupStat{Key: b.label, Mean: b.mean, Count: len(b.values)}
	}
	return result, nil
}
