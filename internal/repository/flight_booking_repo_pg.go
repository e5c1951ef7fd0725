package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightBookingRepository interface {
	// Create re-checks the seat count and inserts the booking in one
	// transaction. Seats are NOT decremented here: the decrement happens at
	// payment time, so the check is an advisory gate only.
	Create(ctx context.Context, booking *domain.FlightBooking) error
	GetByID(ctx context.Context, id string) (*domain.FlightBooking, error)
	ListForUser(ctx context.Context, userID string) ([]domain.FlightBooking, error)
	// MarkPaid flips is_paid only when the booking is still pending and
	// returns the updated booking, or nil when nothing transitioned.
	MarkPaid(ctx context.Context, id string, info domain.PaymentInfo) (*domain.FlightBooking, error)
}

type PGFlightBookingRepository struct {
	db *pgxpool.Pool
}

func NewFlightBookingRepository(db *pgxpool.Pool) FlightBookingRepository {
	return &PGFlightBookingRepository{db: db}
}

const flightBookingColumns = `id, user_id, flight_id, passengers, contact_details, total_price_cents, is_paid, payment_order_id, payment_id, payment_signature, created_at, updated_at`

func scanFlightBooking(row pgx.Row, b *domain.FlightBooking) error {
	var orderID, paymentID, signature *string
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Passengers, &b.Contact, &b.TotalPriceCents, &b.IsPaid, &orderID, &paymentID, &signature, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if orderID != nil || paymentID != nil {
		b.PaymentInfo = &domain.PaymentInfo{}
		if orderID != nil {
			b.PaymentInfo.RazorpayOrderID = *orderID
		}
		if paymentID != nil {
			b.PaymentInfo.RazorpayPaymentID = *paymentID
		}
		if signature != nil {
			b.PaymentInfo.RazorpaySignature = *signature
		}
	}
	return nil
}

func (r *PGFlightBookingRepository) Create(ctx context.Context, booking *domain.FlightBooking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var available int
	if err := tx.QueryRow(ctx, `SELECT available_seats FROM flights WHERE id=$1 FOR UPDATE`, booking.FlightID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: flight %d", domain.ErrNotFound, booking.FlightID)
		}
		return err
	}
	if available < len(booking.Passengers) {
		return fmt.Errorf("%w: only %d seat(s) available", domain.ErrUnavailable, available)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO flight_bookings (id, user_id, flight_id, passengers, contact_details, total_price_cents, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.FlightID, booking.Passengers, booking.Contact, booking.TotalPriceCents).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightBookingRepository) GetByID(ctx context.Context, id string) (*domain.FlightBooking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightBookingColumns+` FROM flight_bookings WHERE id=$1`, id)
	var b domain.FlightBooking
	if err := scanFlightBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGFlightBookingRepository) ListForUser(ctx context.Context, userID string) ([]domain.FlightBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightBookingColumns+` FROM flight_bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.FlightBooking, 0)
	for rows.Next() {
		var b domain.FlightBooking
		if err := scanFlightBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGFlightBookingRepository) MarkPaid(ctx context.Context, id string, info domain.PaymentInfo) (*domain.FlightBooking, error) {
	row := r.db.QueryRow(ctx, `UPDATE flight_bookings
		SET is_paid=true, payment_order_id=$2, payment_id=$3, payment_signature=$4, updated_at=now()
		WHERE id=$1 AND is_paid=false
		RETURNING `+flightBookingColumns,
		id, info.RazorpayOrderID, info.RazorpayPaymentID, info.RazorpaySignature)
	var b domain.FlightBooking
	if err := scanFlightBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// unknown id or already paid: caller treats both as a no-op
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

var _ FlightBookingRepository = (*PGFlightBookingRepository)(nil)
