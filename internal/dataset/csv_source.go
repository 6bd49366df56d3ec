package dataset

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"flightdash/internal/domain"
)

// CSVSource reads the flights dataset from an http(s) URL or a local file.
type CSVSource struct {
	location string
	columns  ColumnMapping
	client   *http.Client
}

func NewCSVSource(location string, columns ColumnMapping) *CSVSource {
	return &CSVSource{
		location: location,
		columns:  columns,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *CSVSource) Key() string {
	return s.location
}

// Fetch downloads and parses the CSV, applies the column mapping, coerces the
// numeric columns and drops rows with missing or non-coercible values.
func (s *CSVSource) Fetch(ctx context.Context) (domain.Table, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	df := dataframe.ReadCSV(body, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", s.location, df.Err)
	}
	return tableFromDataFrame(df, s.columns)
}

func (s *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch csv %s: %w", s.location, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch csv %s: unexpected status %s", s.location, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(s.location)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", s.location, err)
	}
	return f, nil
}

// tableFromDataFrame converts a parsed dataframe into the typed table. Rows
// failing numeric coercion (the dataframe equivalent of NA) are dropped, so
// the engines downstream never see NaNs.
func tableFromDataFrame(df dataframe.DataFrame, columns ColumnMapping) (domain.Table, error) {
	colIdx := make(map[domain.Field]int, len(domain.Fields))
	names := df.Names()
	for _, f := range domain.Fields {
		column := columns[f]
		idx := -1
		for i, n := range names {
			if n == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &domain.MissingColumnError{Field: f, Column: column}
		}
		colIdx[f] = idx
	}

	table := make(domain.Table, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		rec, ok := rowRecord(df, colIdx, i)
		if !ok {
			continue
		}
		table = append(table, rec)
	}
	return table, nil
}

func rowRecord(df dataframe.DataFrame, colIdx map[domain.Field]int, row int) (domain.FlightRecord, bool) {
	var rec domain.FlightRecord

	str := func(f domain.Field) (string, bool) {
		e := df.Elem(row, colIdx[f])
		if e.IsNA() {
			return "", false
		}
		v := strings.TrimSpace(e.String())
		return v, v != ""
	}
	num := func(f domain.Field) (float64, bool) {
		e := df.Elem(row, colIdx[f])
		if e.IsNA() {
			return 0, false
		}
		v := e.Float()
		return v, !math.IsNaN(v)
	}

	var ok bool
	if rec.Airline, ok = str(domain.FieldAirline); !ok {
		return rec, false
	}
	if rec.FlightNumber, ok = str(domain.FieldFlightNumber); !ok {
		return rec, false
	}
	if rec.SourceCity, ok = str(domain.FieldSourceCity); !ok {
		return rec, false
	}
	if rec.DepartureTime, ok = str(domain.FieldDepartureTime); !ok {
		return rec, false
	}
	if rec.Stops, ok = str(domain.FieldStops); !ok {
		return rec, false
	}
	if rec.ArrivalTime, ok = str(domain.FieldArrivalTime); !ok {
		return rec, false
	}
	if rec.DestinationCity, ok = str(domain.FieldDestinationCity); !ok {
		return rec, false
	}
	if rec.Class, ok = str(domain.FieldClass); !ok {
		return rec, false
	}

	duration, ok := num(domain.FieldDuration)
	if !ok {
		return rec, false
	}
	daysLeft, ok := num(domain.FieldDaysLeft)
	if !ok {
		return rec, false
	}
	price, ok := num(domain.FieldPrice)
	if !ok {
		return rec, false
	}

	rec.Duration = duration
	rec.DaysLeft = int(daysLeft)
	rec.Price = price
	return rec, true
}
