package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	CreateMany(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error)
	DecrementSeats(ctx context.Context, flightID int64, count int) error
	ListOverbooked(ctx context.Context) ([]domain.OverbookedFlight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline, flight_number, departure_code, departure_city, departure_time, arrival_code, arrival_city, arrival_time, duration_minutes, price_cents, flight_date, stops, travel_class, total_seats, available_seats, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.DepartureCode, &f.DepartureCity, &f.DepartureTime, &f.ArrivalCode, &f.ArrivalCity, &f.ArrivalTime, &f.DurationMinutes, &f.PriceCents, &f.FlightDate, &f.Stops, &f.TravelClass, &f.TotalSeats, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY flight_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: flight %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (airline, flight_number, departure_code, departure_city, departure_time, arrival_code, arrival_city, arrival_time, duration_minutes, price_cents, flight_date, stops, travel_class, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		flight.Airline, flight.FlightNumber, flight.DepartureCode, flight.DepartureCity, flight.DepartureTime, flight.ArrivalCode, flight.ArrivalCity, flight.ArrivalTime, flight.DurationMinutes, flight.PriceCents, flight.FlightDate, flight.Stops, flight.TravelClass, flight.TotalSeats, flight.AvailableSeats).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) CreateMany(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		if err := tx.QueryRow(ctx, `INSERT INTO flights (airline, flight_number, departure_code, departure_city, departure_time, arrival_code, arrival_city, arrival_time, duration_minutes, price_cents, flight_date, stops, travel_class, total_seats, available_seats)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at, updated_at`,
			f.Airline, f.FlightNumber, f.DepartureCode, f.DepartureCity, f.DepartureTime, f.ArrivalCode, f.ArrivalCity, f.ArrivalTime, f.DurationMinutes, f.PriceCents, f.FlightDate, f.Stops, f.TravelClass, f.TotalSeats, f.AvailableSeats).
			Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		created = append(created, f)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// DecrementSeats is the conditional seat commit: it only succeeds while
// enough seats remain, so the counter can never go negative.
func (r *PGFlightRepository) DecrementSeats(ctx context.Context, flightID int64, count int) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id=$1 AND available_seats >= $2`, flightID, count)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: flight %d has fewer than %d seat(s) left", domain.ErrUnavailable, flightID, count)
	}
	return nil
}

func (r *PGFlightRepository) ListOverbooked(ctx context.Context) ([]domain.OverbookedFlight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.flight_number, f.total_seats, COALESCE(SUM(jsonb_array_length(b.passengers)), 0) AS paid_passengers
		FROM flights f
		JOIN flight_bookings b ON b.flight_id = f.id AND b.is_paid
		GROUP BY f.id, f.flight_number, f.total_seats
		HAVING COALESCE(SUM(jsonb_array_length(b.passengers)), 0) > f.total_seats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overbooked []domain.OverbookedFlight
	for rows.Next() {
		var o domain.OverbookedFlight
		if err := rows.Scan(&o.FlightID, &o.FlightNumber, &o.TotalSeats, &o.PaidPassengers); err != nil {
			return nil, err
		}
		overbooked = append(overbooked, o)
	}
	return overbooked, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
