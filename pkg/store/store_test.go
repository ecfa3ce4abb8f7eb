package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/retailops/ingress/pkg/frame"
)

// openTestDB opens an in-memory database with the three layer schemas
// attached under the same names the pipeline writes to.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, schema := range []string{"raw", "ingest", "curate"} {
		_, err := db.Exec("ATTACH DATABASE ':memory:' AS " + schema)
		require.NoError(t, err)
	}
	return db
}

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	fr := frame.New([]string{"customer_id", "price", "note"})
	for _, row := range [][]interface{}{
		{int64(1), 9.5, "first"},
		{int64(2), 12.0, nil},
		{int64(3), 3.25, "third"},
	} {
		require.NoError(t, fr.AppendRow(row))
	}
	return fr
}

func TestAppendCreatesTableAndWritesRows(t *testing.T) {
	s := New(openTestDB(t), zap.NewNop())

	n, err := s.Append(context.Background(), "raw", "customer_transactions", testFrame(t))
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	got, err := s.QueryFrame(context.Background(),
		`SELECT customer_id, price, note FROM "raw"."customer_transactions" ORDER BY customer_id`)
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())
	require.Equal(t, []string{"customer_id", "price", "note"}, got.Columns())
}

func TestAppendIsAdditive(t *testing.T) {
	s := New(openTestDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := s.Append(ctx, "ingest", "customer_transactions", testFrame(t))
	require.NoError(t, err)
	_, err = s.Append(ctx, "ingest", "customer_transactions", testFrame(t))
	require.NoError(t, err)

	got, err := s.QueryFrame(ctx, `SELECT COUNT(*) AS n FROM "ingest"."customer_transactions"`)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumRows())
	require.EqualValues(t, 6, got.Row(0)[0])
}

func TestAppendBatchesLargeFrames(t *testing.T) {
	s := New(openTestDB(t), zap.NewNop()).WithBatchSize(2)
	ctx := context.Background()

	fr := frame.New([]string{"id"})
	for i := 0; i < 5; i++ {
		require.NoError(t, fr.AppendRow([]interface{}{int64(i)}))
	}

	n, err := s.Append(ctx, "raw", "ids", fr)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	got, err := s.QueryFrame(ctx, `SELECT COUNT(*) AS n FROM "raw"."ids"`)
	require.NoError(t, err)
	require.EqualValues(t, 5, got.Row(0)[0])
}

func TestAppendRejectsEmptyFrame(t *testing.T) {
	s := New(openTestDB(t), zap.NewNop())
	_, err := s.Append(context.Background(), "raw", "empty", frame.New(nil))
	require.Error(t, err)
}

func TestQueryFrameNormalizesBytes(t *testing.T) {
	s := New(openTestDB(t), zap.NewNop())
	ctx := context.Background()

	fr := frame.New([]string{"category"})
	require.NoError(t, fr.AppendRow([]interface{}{"Books"}))
	_, err := s.Append(ctx, "curate", "categories", fr)
	require.NoError(t, err)

	got, err := s.QueryFrame(ctx, `SELECT category FROM "curate"."categories"`)
	require.NoError(t, err)
	require.Equal(t, "Books", got.Row(0)[0])
}

func TestInferColumnTypes(t *testing.T) {
	fr := frame.New([]string{"id", "price", "mixed", "label"})
	rows := [][]interface{}{
		{int64(1), 9.5, int64(1), "a"},
		{int64(2), 10.0, "oops", "b"},
		{nil, 1.25, int64(3), "c"},
	}
	for _, row := range rows {
		require.NoError(t, fr.AppendRow(row))
	}

	types := inferColumnTypes(fr)
	require.Equal(t, []string{"BIGINT", "DOUBLE PRECISION", "TEXT", "TEXT"}, types)
}

func TestInferColumnTypesPromotesIntToFloat(t *testing.T) {
	fr := frame.New([]string{"price"})
	require.NoError(t, fr.AppendRow([]interface{}{int64(5)}))
	require.NoError(t, fr.AppendRow([]interface{}{5.5}))

	require.Equal(t, []string{"DOUBLE PRECISION"}, inferColumnTypes(fr))
}

func TestBindValueCoercions(t *testing.T) {
	require.Equal(t, "42", bindValue(42, "TEXT"))
	require.Equal(t, float64(3), bindValue(int64(3), "DOUBLE PRECISION"))
	require.Equal(t, int64(7), bindValue(7, "BIGINT"))
	require.Nil(t, bindValue(nil, "TEXT"))
}
