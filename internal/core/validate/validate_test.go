package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
)

func pinYear(t *testing.T, year int) {
	t.Helper()
	now = func() time.Time { return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })
}

func requireKind(t *testing.T, err error, kind domain.Kind, msg string) {
	t.Helper()
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, msg, de.Message)
}

func requireInvalid(t *testing.T, err error, msg string) {
	t.Helper()
	requireKind(t, err, domain.KindValidation, msg)
}
