package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type HotelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Hotel, error)
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, hotel_id, room_type, price_per_night_cents, amenities, is_available, created_at, updated_at FROM rooms WHERE id=$1`, id)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.HotelID, &room.RoomType, &room.PricePerNightCents, &room.Amenities, &room.IsAvailable, &room.CreatedAt, &room.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &room, nil
}

type PGHotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{db: db}
}

func (r *PGHotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, owner_id FROM hotels WHERE id=$1`, id)
	var hotel domain.Hotel
	if err := row.Scan(&hotel.ID, &hotel.Name, &hotel.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: hotel %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *PGHotelRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, owner_id FROM hotels WHERE owner_id=$1`, ownerID)
	var hotel domain.Hotel
	if err := row.Scan(&hotel.ID, &hotel.Name, &hotel.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no hotel for owner", domain.ErrNotFound)
		}
		return nil, err
	}
	return &hotel, nil
}

var (
	_ RoomRepository  = (*PGRoomRepository)(nil)
	_ HotelRepository = (*PGHotelRepository)(nil)
)
