package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/frame"
	"github.com/retailops/ingress/pkg/model"
)

func testSchema() *model.TableSchema {
	return &model.TableSchema{
		Schema: "raw",
		Table:  "customer_transactions",
		Columns: []model.Column{
			{Name: "customer_id", Type: model.TypeInteger},
			{Name: "product_id", Type: model.TypeInteger},
			{Name: "quantity", Type: model.TypeInteger},
			{Name: "price", Type: model.TypeFloat, RequirePositive: true},
			{Name: "timestamp", Type: model.TypeTimestamp},
		},
	}
}

func newTestCleaner(t *testing.T) *Cleaner {
	t.Helper()
	c, err := New(zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestIsValidPositive(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"numeric string", "5", true},
		{"negative string", "-3", false},
		{"non-numeric string", "abc", false},
		{"zero string", "0", false},
		{"positive float", 10.5, true},
		{"negative float", -0.01, false},
		{"positive int", int64(3), true},
		{"zero int", int64(0), false},
		{"nil", nil, false},
		{"empty string", "", false},
		{"whitespace", "   ", false},
		{"bool", true, false},
		{"padded numeric string", " 7.5 ", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsValidPositive(tc.value))
		})
	}
}

func TestCleanDeduplicates(t *testing.T) {
	fr := frame.New([]string{"customer_id", "product_id"})
	require.NoError(t, fr.AppendRow([]interface{}{int64(1), int64(10)}))
	require.NoError(t, fr.AppendRow([]interface{}{int64(1), int64(10)}))
	require.NoError(t, fr.AppendRow([]interface{}{int64(2), int64(20)}))

	out, stats, err := newTestCleaner(t).Clean(fr, testSchema())
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	require.Equal(t, 1, stats.DuplicatesRemoved)
	// First-seen order preserved
	require.Equal(t, int64(1), out.Value(0, "customer_id"))
	require.Equal(t, int64(2), out.Value(1, "customer_id"))
}

func TestCleanDistinguishesValueTypes(t *testing.T) {
	// "1" (string) and 1 (int) are not exact duplicates
	fr := frame.New([]string{"customer_id"})
	require.NoError(t, fr.AppendRow([]interface{}{int64(1)}))
	require.NoError(t, fr.AppendRow([]interface{}{"1"}))

	out, _, err := newTestCleaner(t).Clean(fr, &model.TableSchema{Table: "t"})
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())
}

func TestCleanFiltersInvalidPrices(t *testing.T) {
	fr := frame.New([]string{"price"})
	require.NoError(t, fr.AppendRow([]interface{}{float64(10)}))
	require.NoError(t, fr.AppendRow([]interface{}{float64(-5)}))
	require.NoError(t, fr.AppendRow([]interface{}{"x"}))

	out, stats, err := newTestCleaner(t).Clean(fr, testSchema())
	require.NoError(t, err)

	require.Equal(t, 1, out.NumRows())
	require.Equal(t, float64(10), out.Value(0, "price"))
	require.Equal(t, 2, stats.InvalidDropped)
}

func TestCleanCoercesTimestamps(t *testing.T) {
	fr := frame.New([]string{"price", "timestamp"})
	require.NoError(t, fr.AppendRow([]interface{}{float64(1), "2024-03-01 12:30:00"}))
	require.NoError(t, fr.AppendRow([]interface{}{float64(2), "2024-03-02"}))

	out, stats, err := newTestCleaner(t).Clean(fr, testSchema())
	require.NoError(t, err)

	require.Equal(t, 2, stats.TimestampsCoerced)
	ts, ok := out.Value(0, "timestamp").(time.Time)
	require.True(t, ok)
	require.Equal(t, 2024, ts.Year())
}

func TestCleanTimestampFailureIsFatal(t *testing.T) {
	fr := frame.New([]string{"price", "timestamp"})
	require.NoError(t, fr.AppendRow([]interface{}{float64(1), "2024-03-01"}))
	require.NoError(t, fr.AppendRow([]interface{}{float64(2), "not a date"}))

	_, _, err := newTestCleaner(t).Clean(fr, testSchema())
	require.Error(t, err)
	require.Equal(t, model.CategoryParse, model.CategoryOf(err))
}

func TestCleanSkipsAbsentColumns(t *testing.T) {
	// Schema declares timestamp and price rules but the frame has neither
	fr := frame.New([]string{"product_name"})
	require.NoError(t, fr.AppendRow([]interface{}{"milk"}))

	out, _, err := newTestCleaner(t).Clean(fr, testSchema())
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
}

func TestCleanIsIdempotent(t *testing.T) {
	fr := frame.New([]string{"price", "timestamp"})
	require.NoError(t, fr.AppendRow([]interface{}{float64(10), "2024-01-01T10:00:00Z"}))
	require.NoError(t, fr.AppendRow([]interface{}{float64(10), "2024-01-01T10:00:00Z"}))
	require.NoError(t, fr.AppendRow([]interface{}{"bad", "2024-01-02T10:00:00Z"}))

	c := newTestCleaner(t)
	once, _, err := c.Clean(fr, testSchema())
	require.NoError(t, err)

	twice, stats, err := c.Clean(once, testSchema())
	require.NoError(t, err)

	require.Equal(t, once.NumRows(), twice.NumRows())
	require.Zero(t, stats.DuplicatesRemoved)
	require.Zero(t, stats.InvalidDropped)
	require.Zero(t, stats.TimestampsCoerced)
}

func TestParseFloat(t *testing.T) {
	f, ok := ParseFloat("3.25")
	require.True(t, ok)
	require.Equal(t, 3.25, f)

	_, ok = ParseFloat(struct{}{})
	require.False(t, ok)

	f, ok = ParseFloat([]byte("42"))
	require.True(t, ok)
	require.Equal(t, float64(42), f)
}
