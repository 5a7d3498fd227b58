package medichain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type uidRepoStub struct {
	Repository
	collisions int
	findCalls  int
	count      int64
	countCalls int
	findErr    error
}

func (s *uidRepoStub) FindByUID(uid string) (*Account, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findCalls <= s.collisions {
		return &Account{UID: uid}, nil
	}
	return nil, ErrNotFound
}

func (s *uidRepoStub) CountAll() (int64, error) {
	s.countCalls++
	return s.count, nil
}

func TestGenerateUID_FormatPerRole(t *testing.T) {
	tests := []struct {
		role    Role
		pattern string
	}{
		{RolePatient, `^PAT-\d+$`},
		{RoleDoctor, `^DOC-\d+$`},
		{RoleHospital, `^HOS-\d+$`},
	}

	for _, tt := range tests {
		uid, err := GenerateUID(tt.role, NewAccountRepository(tt.role))
		assert.NoError(t, err)
		assert.Regexp(t, tt.pattern, uid)
	}
}

func TestGenerateUID_RetriesOnCollision(t *testing.T) {
	repo := &uidRepoStub{collisions: 3}

	uid, err := GenerateUID(RolePatient, repo)

	assert.NoError(t, err)
	assert.Regexp(t, `^PAT-\d+$`, uid)
	assert.Equal(t, 4, repo.findCalls)
	assert.Equal(t, 0, repo.countCalls)
}

func TestGenerateUID_FallbackAfterExhaustedAttempts(t *testing.T) {
	repo := &uidRepoStub{collisions: 100, count: 41}

	uid, err := GenerateUID(RoleDoctor, repo)

	assert.NoError(t, err)
	assert.Regexp(t, `^DOC-\d+-42$`, uid)
	assert.Equal(t, maxUIDAttempts, repo.findCalls)
	assert.Equal(t, 1, repo.countCalls)
}

func TestGenerateUID_PropagatesStoreErrors(t *testing.T) {
	repo := &uidRepoStub{findErr: errors.New("connection reset")}

	uid, err := GenerateUID(RoleHospital, repo)

	assert.EqualError(t, err, "connection reset")
	assert.Empty(t, uid)
}

func TestGenerateUID_DistinctAcrossRun(t *testing.T) {
	repo := NewAccountRepository(RolePatient)
	seen := map[string]bool{}

	for i := 0; i < 1000; i++ {
		uid, err := GenerateUID(RolePatient, repo)
		assert.NoError(t, err)
		assert.False(t, seen[uid], "duplicate uid %s at iteration %d", uid, i)
		seen[uid] = true

		err = repo.Store(&Account{ID: ID(fmt.Sprintf("acc-%d", i)), UID: uid})
		assert.NoError(t, err)
	}

	assert.Len(t, seen, 1000)
}
