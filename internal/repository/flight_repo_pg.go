package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"flightdash/internal/domain"
)

type FlightRecordRepository interface {
	List(ctx context.Context) (domain.Table, error)
}

type PGFlightRecordRepository struct {
	db *pgxpool.Pool
}

func NewFlightRecordRepository(db *pgxpool.Pool) FlightRecordRepository {
	return &PGFlightRecordRepository{db: db}
}

// List reads the whole bookings table in insertion order, so a snapshot built
// from it has the same positional identity as one built from the CSV export.
func (r *PGFlightRecordRepository) List(ctx context.Context) (domain.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT airline, flight, source_city, departure_time, stops, arrival_time, destination_city, class, duration, days_left, price FROM flight_bookings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(domain.Table, 0)
	for rows.Next() {
		var rec domain.FlightRecord
		if err := rows.Scan(&rec.Airline, &rec.FlightNumber, &rec.SourceCity, &rec.DepartureTime, &rec.Stops, &rec.ArrivalTime, &rec.DestinationCity, &rec.Class, &rec.Duration, &rec.DaysLeft, &rec.Price); err != nil {
			return nil, err
		}
		table = append(table, rec)
	}
	return table, rows.Err()
}

var _ FlightRecordRepository = (*PGFlightRecordRepository)(nil)
