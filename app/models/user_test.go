package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	user := &User{ID: "u1", Email: "ana@conexa.test", Name: "Ana Paz"}

	require.NoError(t, user.SetPassword("camion123"))
	assert.NotEmpty(t, user.PasswordHash)

	ok, err := user.PasswordMatches("camion123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = user.PasswordMatches("wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, user.SetPassword(""))
}

func TestUserValidation(t *testing.T) {
	valid := &User{ID: "u1", Email: "ana@conexa.test", Name: "Ana Paz"}
	assert.NoError(t, valid.Validate())

	badEmail := &User{ID: "u1", Email: "not-an-email", Name: "Ana Paz"}
	assert.Error(t, badEmail.Validate())
}

func TestUserSession(t *testing.T) {
	user := &User{ID: "u1", Email: "ana@conexa.test", Name: "Ana Paz", Role: RoleDualOperator}

	sess := user.Session("tok")
	assert.Equal(t, "u1", sess.ID)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, RoleDualOperator, sess.Role)
	assert.Equal(t, AuthorRef{ID: "u1", Name: "Ana Paz"}, user.Ref())
}
