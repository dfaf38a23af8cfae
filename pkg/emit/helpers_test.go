package emit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftshop-erp/shopdata/pkg/graph"
)

func cutoffDate(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
}

func noExc(t *testing.T) *graph.Exceptions {
	t.Helper()
	exc, err := graph.LoadExceptions("")
	require.NoError(t, err)
	return exc
}
