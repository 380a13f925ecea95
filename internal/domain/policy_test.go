package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreate(t *testing.T) {
	assert.NoError(t, CanCreate(1, 2))
	assert.ErrorIs(t, CanCreate(1, 1), ErrSelfBookingForbidden)
}

func TestCanDecide(t *testing.T) {
	assert.NoError(t, CanDecide(1, 1))
	assert.ErrorIs(t, CanDecide(1, 2), ErrNotOwner)
}

func TestCanView(t *testing.T) {
	const owner, booker = int64(1), int64(2)

	assert.NoError(t, CanView(owner, booker, owner))
	assert.NoError(t, CanView(owner, booker, booker))
	assert.ErrorIs(t, CanView(owner, booker, 3), ErrForbidden)
}
