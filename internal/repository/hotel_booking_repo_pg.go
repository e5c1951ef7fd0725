package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HotelBookingRepository interface {
	// Create re-checks room availability and inserts the booking in one
	// transaction, holding the room row lock across both steps.
	Create(ctx context.Context, booking *domain.HotelBooking) error
	GetByID(ctx context.Context, id string) (*domain.HotelBooking, error)
	ListForRoom(ctx context.Context, roomID int64) ([]domain.HotelBooking, error)
	ListForUser(ctx context.Context, userID string) ([]domain.HotelBooking, error)
	ListForHotel(ctx context.Context, hotelID int64) ([]domain.HotelBooking, error)
	// MarkPaid flips is_paid only when the booking is still pending and
	// returns the updated booking, or nil when nothing transitioned.
	MarkPaid(ctx context.Context, id string, info domain.PaymentInfo) (*domain.HotelBooking, error)
}

type PGHotelBookingRepository struct {
	db *pgxpool.Pool
}

func NewHotelBookingRepository(db *pgxpool.Pool) HotelBookingRepository {
	return &PGHotelBookingRepository{db: db}
}

const hotelBookingColumns = `id, user_id, room_id, hotel_id, guests, check_in, check_out, total_price_cents, is_paid, payment_order_id, payment_id, payment_signature, created_at, updated_at`

func scanHotelBooking(row pgx.Row, b *domain.HotelBooking) error {
	var orderID, paymentID, signature *string
	if err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.HotelID, &b.Guests, &b.CheckIn, &b.CheckOut, &b.TotalPriceCents, &b.IsPaid, &orderID, &paymentID, &signature, &b.CreatedAt, &b.UpdatedAt); err != nil {
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

func (r *PGHotelBookingRepository) Create(ctx context.Context, booking *domain.HotelBooking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// lock the room row so two concurrent creations for the same room
	// serialize on the overlap re-check
	var roomID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id=$1 FOR UPDATE`, booking.RoomID).Scan(&roomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: room %d", domain.ErrNotFound, booking.RoomID)
		}
		return err
	}

	var overlapping int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM hotel_bookings WHERE room_id=$1 AND check_in < $2 AND check_out > $3`,
		booking.RoomID, booking.CheckOut, booking.CheckIn).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		return fmt.Errorf("%w: room is not available for the selected dates", domain.ErrUnavailable)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO hotel_bookings (id, user_id, room_id, hotel_id, guests, check_in, check_out, total_price_cents, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.RoomID, booking.HotelID, booking.Guests, booking.CheckIn, booking.CheckOut, booking.TotalPriceCents).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGHotelBookingRepository) GetByID(ctx context.Context, id string) (*domain.HotelBooking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelBookingColumns+` FROM hotel_bookings WHERE id=$1`, id)
	var b domain.HotelBooking
	if err := scanHotelBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGHotelBookingRepository) ListForRoom(ctx context.Context, roomID int64) ([]domain.HotelBooking, error) {
	return r.list(ctx, `SELECT `+hotelBookingColumns+` FROM hotel_bookings WHERE room_id=$1`, roomID)
}

func (r *PGHotelBookingRepository) ListForUser(ctx context.Context, userID string) ([]domain.HotelBooking, error) {
	return r.list(ctx, `SELECT `+hotelBookingColumns+` FROM hotel_bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *PGHotelBookingRepository) ListForHotel(ctx context.Context, hotelID int64) ([]domain.HotelBooking, error) {
	return r.list(ctx, `SELECT `+hotelBookingColumns+` FROM hotel_bookings WHERE hotel_id=$1 ORDER BY created_at DESC`, hotelID)
}

func (r *PGHotelBookingRepository) list(ctx context.Context, query string, arg interface{}) ([]domain.HotelBooking, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.HotelBooking, 0)
	for rows.Next() {
		var b domain.HotelBooking
		if err := scanHotelBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGHotelBookingRepository) MarkPaid(ctx context.Context, id string, info domain.PaymentInfo) (*domain.HotelBooking, error) {
	row := r.db.QueryRow(ctx, `UPDATE hotel_bookings
		SET is_paid=true, payment_order_id=$2, payment_id=$3, payment_signature=$4, updated_at=now()
		WHERE id=$1 AND is_paid=false
		RETURNING `+hotelBookingColumns,
		id, info.RazorpayOrderID, info.RazorpayPaymentID, info.RazorpaySignature)
	var b domain.HotelBooking
	if err := scanHotelBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// unknown id or already paid: caller treats both as a no-op
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

var _ HotelBookingRepository = (*PGHotelBookingRepository)(nil)
