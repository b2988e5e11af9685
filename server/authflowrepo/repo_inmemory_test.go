package authflowrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo := NewInMemoryRepo(10 * time.Minute)
	repo.now = func() time.Time { return now }

	require.Error(t, repo.Upsert("", &AuthFlowState{}))
	require.Error(t, repo.Upsert("s", nil))

	in := &AuthFlowState{SessionID: "sess", CodeVerifier: "verifier", ReturnURL: "/"}
	require.NoError(t, repo.Upsert("state-1", in))
	in.CodeVerifier = "changed"

	got, err := repo.Get("state-1")
	require.NoError(t, err)
	require.Equal(t, "verifier", got.CodeVerifier)
	require.Equal(t, now, got.CreatedAt)

	_, err = repo.Get("state-2")
	require.ErrorIs(t, err, ErrStateNotFound)

	now = now.Add(11 * time.Minute)
	_, err = repo.Get("state-1")
	require.ErrorIs(t, err, ErrStateExpired)

	require.NoError(t, repo.Upsert("state-3", &AuthFlowState{SessionID: "other"}))
	_, err = repo.Get("state-1")
	require.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.Delete("state-3"))
	_, err = repo.Get("state-3")
	require.ErrorIs(t, err, ErrStateNotFound)
}
