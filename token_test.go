package medichain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenIssuer_SignupToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", 7*24*time.Hour, 24*time.Hour)
	acc := &Account{ID: "acc1", UID: "PAT-123456001", Role: RolePatient}

	token, err := issuer.IssueSignup(acc)
	assert.NoError(t, err)

	claims, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "acc1", claims.Subject)
	assert.Equal(t, RolePatient, claims.Role)
	assert.Equal(t, "PAT-123456001", claims.UID)
	assert.NotEmpty(t, claims.Id)
	assert.InDelta(t, time.Now().Add(7*24*time.Hour).Unix(), claims.ExpiresAt, 5)
}

func TestTokenIssuer_SessionToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", 7*24*time.Hour, 24*time.Hour)
	acc := &Account{ID: "acc2", UID: "DOC-123456001", Role: RoleDoctor}

	token, err := issuer.IssueSession(acc)
	assert.NoError(t, err)

	claims, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "acc2", claims.Subject)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.Empty(t, claims.UID)
	assert.InDelta(t, time.Now().Add(24*time.Hour).Unix(), claims.ExpiresAt, 5)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Hour)
	other := NewTokenIssuer("other", time.Hour, time.Hour)

	token, err := issuer.IssueSession(&Account{ID: "acc1", Role: RoleHospital})
	assert.NoError(t, err)

	claims, err := other.Parse(token)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, -time.Hour)

	token, err := issuer.IssueSession(&Account{ID: "acc1", Role: RolePatient})
	assert.NoError(t, err)

	claims, err := issuer.Parse(token)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Hour)

	claims, err := issuer.Parse("not.a.token")
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}
