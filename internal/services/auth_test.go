package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)

	user, err := Register(db, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	authed, err := Authenticate(db, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = Authenticate(db, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = Authenticate(db, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)

	_, err := Register(db, "", "pw")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Register(db, "bob", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Register(db, "carol", "pw")
	require.NoError(t, err)
	_, err = Register(db, "carol", "pw")
	assert.ErrorIs(t, err, ErrValidation)
}
