package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewRoomRepository(pool))
	assert.NotNil(t, NewHotelRepository(pool))
	assert.NotNil(t, NewHotelBookingRepository(pool))
	assert.NotNil(t, NewFlightBookingRepository(pool))
}
