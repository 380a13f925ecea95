package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SharingService/pkg/metrics"
)

func setupDB(t *testing.T) (*DB, *metrics.Metrics) {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	return Wrap(raw, m), m
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", Operation("SELECT id FROM bookings"))
	assert.Equal(t, "update", Operation("\n\tUPDATE bookings SET status = ?"))
	assert.Equal(t, "unknown", Operation("   "))
}

func TestQueriesAreObserved(t *testing.T) {
	db, m := setupDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", 1)
	require.NoError(t, err)

	var id int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM t WHERE id = ?", 1).Scan(&id))
	assert.Equal(t, 1, id)

	// create, insert, select
	assert.Equal(t, 3, testutil.CollectAndCount(m.DBQueryDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("insert")))
}

func TestFailedQueryCountsError(t *testing.T) {
	db, m := setupDB(t)

	_, err := db.ExecContext(context.Background(), "INSERT INTO missing (id) VALUES (1)")
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("insert")))
}

func TestPoolStats(t *testing.T) {
	db, m := setupDB(t)

	db.recordPoolStats()

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.DBOpenConnections.WithLabelValues("open")), float64(0))
}
