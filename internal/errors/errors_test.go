package errors_test

import (
	"testing"

	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "[Orchestrator FetchEvents]"))

	err := errors.Wrapf(errors.ErrFetchFailed, "[Orchestrator FetchEvents] for %s", "ada@example.com")
	require.True(t, errors.Is(err, errors.ErrFetchFailed))
	require.Equal(t, "[Orchestrator FetchEvents] for ada@example.com: "+errors.ErrFetchFailed.Error(), err.Error())
}
