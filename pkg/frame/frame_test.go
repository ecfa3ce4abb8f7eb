package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendRowRejectsWrongWidth(t *testing.T) {
	fr := New([]string{"a", "b"})
	require.Error(t, fr.AppendRow([]interface{}{1}))
	require.NoError(t, fr.AppendRow([]interface{}{1, 2}))
	require.Equal(t, 1, fr.NumRows())
}

func TestColumnLookup(t *testing.T) {
	fr := New([]string{"a", "b", "c"})
	require.Equal(t, 1, fr.ColumnIndex("b"))
	require.Equal(t, -1, fr.ColumnIndex("z"))
	require.True(t, fr.HasColumn("c"))
	require.False(t, fr.HasColumn("d"))
}

func TestFilterPreservesOrder(t *testing.T) {
	fr := New([]string{"n"})
	for i := 1; i <= 5; i++ {
		require.NoError(t, fr.AppendRow([]interface{}{int64(i)}))
	}

	odd := fr.Filter(func(row []interface{}) bool {
		return row[0].(int64)%2 == 1
	})
	require.Equal(t, 3, odd.NumRows())
	require.Equal(t, int64(1), odd.Value(0, "n"))
	require.Equal(t, int64(3), odd.Value(1, "n"))
	require.Equal(t, int64(5), odd.Value(2, "n"))
	// Source untouched
	require.Equal(t, 5, fr.NumRows())
}

func TestFingerprintDistinguishesTypesAndNil(t *testing.T) {
	require.NotEqual(t,
		Fingerprint([]interface{}{int64(1)}),
		Fingerprint([]interface{}{"1"}))
	require.NotEqual(t,
		Fingerprint([]interface{}{nil}),
		Fingerprint([]interface{}{""}))
	require.Equal(t,
		Fingerprint([]interface{}{int64(1), "a"}),
		Fingerprint([]interface{}{int64(1), "a"}))
}

func buildJoinFixtures(t *testing.T) (*Frame, *Frame) {
	t.Helper()
	left := New([]string{"customer_id", "product_id", "quantity", "price"})
	require.NoError(t, left.AppendRow([]interface{}{int64(1), int64(101), int64(2), 9.99}))
	require.NoError(t, left.AppendRow([]interface{}{int64(2), int64(102), int64(1), 5.0}))
	require.NoError(t, left.AppendRow([]interface{}{int64(3), int64(999), int64(4), 3.0})) // no catalog match

	right := New([]string{"product_id", "product_name", "category", "price"})
	require.NoError(t, right.AppendRow([]interface{}{int64(101), "Widget", "tools", 12.0}))
	require.NoError(t, right.AppendRow([]interface{}{int64(102), "Gadget", "toys", 6.0}))
	return left, right
}

func TestInnerJoinDropsUnmatched(t *testing.T) {
	left, right := buildJoinFixtures(t)

	out, err := InnerJoin(left, right, "product_id", "_x", "_y")
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	for i := 0; i < out.NumRows(); i++ {
		require.NotEqual(t, int64(999), out.Value(i, "product_id"))
	}
}

func TestInnerJoinSuffixesOverlap(t *testing.T) {
	left, right := buildJoinFixtures(t)

	out, err := InnerJoin(left, right, "product_id", "_x", "_y")
	require.NoError(t, err)

	require.Equal(t,
		[]string{"customer_id", "product_id", "quantity", "price_x", "product_name", "category", "price_y"},
		out.Columns())
	require.Equal(t, 9.99, out.Value(0, "price_x"))
	require.Equal(t, 12.0, out.Value(0, "price_y"))
}

func TestInnerJoinOneRowPerMatch(t *testing.T) {
	left := New([]string{"product_id", "quantity"})
	require.NoError(t, left.AppendRow([]interface{}{int64(1), int64(5)}))

	right := New([]string{"product_id", "product_name"})
	require.NoError(t, right.AppendRow([]interface{}{int64(1), "first"}))
	require.NoError(t, right.AppendRow([]interface{}{int64(1), "second"}))

	out, err := InnerJoin(left, right, "product_id", "_x", "_y")
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	require.Equal(t, "first", out.Value(0, "product_name"))
	require.Equal(t, "second", out.Value(1, "product_name"))
}

func TestInnerJoinMatchesAcrossNumericTypes(t *testing.T) {
	// Keys parsed as int64 on one side and float64 on the other still join
	left := New([]string{"product_id"})
	require.NoError(t, left.AppendRow([]interface{}{int64(7)}))

	right := New([]string{"product_id", "product_name"})
	require.NoError(t, right.AppendRow([]interface{}{float64(7), "seven"}))

	out, err := InnerJoin(left, right, "product_id", "_x", "_y")
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
}

func TestInnerJoinMissingKey(t *testing.T) {
	left := New([]string{"a"})
	right := New([]string{"b"})
	_, err := InnerJoin(left, right, "product_id", "_x", "_y")
	require.Error(t, err)
}
