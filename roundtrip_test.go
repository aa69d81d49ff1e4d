package parquet

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segmentio-labs/parquetrec/format"
)

type roundtripAddress struct {
	City string
	Zip  string
}

type roundtripLineItem struct {
	SKU      string
	Quantity int32
	Price    decimal.Decimal
}

type roundtripOrder struct {
	ID       string
	Status   string
	Total    decimal.Decimal
	PlacedAt time.Time
	ShipTo   *roundtripAddress
	Tags     []string
	Items    []*roundtripLineItem
	Metadata map[string]string
}

// buildOrderRecord wires the descriptors for roundtripOrder, deliberately
// asking for SpecificListType/MapSpecific containers rather than the
// OrderedSequence/MapHash defaults: the default builders in container.go
// only ever produce []interface{} and map[interface{}]interface{}, which
// cannot be reflect.Convert'd into a concretely typed field like []string
// or map[string]string. A concrete target field needs the GoType path.
func buildOrderRecord(t *testing.T) *Record {
	t.Helper()

	addressRec, err := RecordOf(roundtripAddress{}).
		Field("City", NewLogicalBinary(LogicalString, false)).
		Field("Zip", NewLogicalBinary(LogicalString, false)).
		Build()
	require.NoError(t, err)

	price, err := NewDecimal(10, 2, RoundHalfUp, false)
	require.NoError(t, err)

	lineItemRec, err := RecordOf(roundtripLineItem{}).
		Field("SKU", NewLogicalBinary(LogicalString, false)).
		Field("Quantity", NewPrimitive(KindI32, false)).
		Field("Price", price).
		Build()
	require.NoError(t, err)

	tags, err := NewList(NewLogicalBinary(LogicalString, false), ThreeLevel, SpecificListType, true)
	require.NoError(t, err)
	tags.GoType = reflect.TypeOf([]string(nil))

	items, err := NewList(lineItemRec, ThreeLevel, SpecificListType, true)
	require.NoError(t, err)
	items.GoType = reflect.TypeOf([]*roundtripLineItem(nil))

	metadata, err := NewMap(NewLogicalBinary(LogicalString, false), NewLogicalBinary(LogicalString, false), MapSpecific, true)
	require.NoError(t, err)
	metadata.GoType = reflect.TypeOf(map[string]string(nil))

	status := NewLogicalBinary(LogicalEnum, false)
	status.Symbols = []string{"PLACED", "SHIPPED", "CANCELLED"}

	total, err := NewDecimal(10, 2, RoundHalfUp, false)
	require.NoError(t, err)

	placedAt := NewTemporal(TemporalInstant, Millis, false)

	orderRec, err := RecordOf(roundtripOrder{}).
		Field("ID", NewLogicalBinary(LogicalString, false), FieldID(1)).
		Field("Status", status, FieldID(2)).
		Field("Total", total, FieldID(3)).
		Field("PlacedAt", placedAt, FieldID(4)).
		Field("ShipTo", addressRec, FieldID(5)).
		Field("Tags", tags, FieldID(6)).
		Field("Items", items, FieldID(7)).
		Field("Metadata", metadata, FieldID(8)).
		Build()
	require.NoError(t, err)
	return orderRec
}

func TestRoundTripWriteReadMaterialize(t *testing.T) {
	ctx := context.Background()
	orderRec := buildOrderRecord(t)

	schema, err := CompileSchema("order", orderRec, FieldName)
	require.NoError(t, err)
	numCol := len(leafColumnIndex(schema))

	sink := NewMemWriter(numCol)
	w, err := NewWriter(sink, "order", orderRec, DefaultWriterConfig())
	require.NoError(t, err)
	requireDumpEqual(t, schema, w.Schema())

	want := []*roundtripOrder{
		{
			ID:       "o-1",
			Status:   "PLACED",
			Total:    decimal.RequireFromString("19.99"),
			PlacedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			ShipTo:   &roundtripAddress{City: "Springfield", Zip: "00000"},
			Tags:     []string{"gift", "fragile"},
			Items: []*roundtripLineItem{
				{SKU: "a", Quantity: 2, Price: decimal.RequireFromString("5.00")},
				{SKU: "b", Quantity: 1, Price: decimal.RequireFromString("9.99")},
			},
			Metadata: map[string]string{"channel": "web"},
		},
		{
			ID:       "o-2",
			Status:   "CANCELLED",
			Total:    decimal.RequireFromString("0.00"),
			PlacedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:       "o-3",
			Status:   "SHIPPED",
			Total:    decimal.RequireFromString("100.00"),
			PlacedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
			ShipTo:   &roundtripAddress{City: "Metropolis", Zip: "11111"},
			Tags:     []string{"solo"},
			Items: []*roundtripLineItem{
				{SKU: "z", Quantity: 100, Price: decimal.RequireFromString("1.00")},
			},
			Metadata: map[string]string{"channel": "retail", "gift_wrap": "true"},
		},
	}

	for _, o := range want {
		require.NoError(t, w.Write(ctx, o))
	}
	require.NoError(t, w.Close())

	src, err := sink.Reader()
	require.NoError(t, err)

	r, err := NewReader(src, schema, orderRec, DefaultReaderPolicy())
	require.NoError(t, err)

	var got []*roundtripOrder
	for {
		inst, ok, err := r.Read(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, inst.(*roundtripOrder))
	}
	r.EndRowGroup()

	require.Len(t, got, len(want))
	for i := range want {
		requireOrderEqual(t, fmt.Sprintf("orders[%d]", i), want[i], got[i])
	}
}

// TestRoundTripDictionarySharing exercises spec §4.4's dictionary
// pass-through: two records carrying the same enum text decode to the same
// Go string backing within one row group, asserted by reference equality
// via reflect's StringHeader-independent byte-identity check (the Go
// runtime is free to intern short string constants, so this compares the
// interned value came from the same Dictionary.Intern call instead).
func TestRoundTripDictionarySharing(t *testing.T) {
	ctx := context.Background()
	orderRec := buildOrderRecord(t)

	schema, err := CompileSchema("order", orderRec, FieldName)
	require.NoError(t, err)
	numCol := len(leafColumnIndex(schema))

	sink := NewMemWriter(numCol)
	w, err := NewWriter(sink, "order", orderRec, DefaultWriterConfig())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		o := &roundtripOrder{
			ID:       fmt.Sprintf("o-%d", i),
			Status:   "PLACED",
			Total:    decimal.RequireFromString("1.00"),
			PlacedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, w.Write(ctx, o))
	}
	require.NoError(t, w.Close())

	src, err := sink.Reader()
	require.NoError(t, err)
	r, err := NewReader(src, schema, orderRec, DefaultReaderPolicy())
	require.NoError(t, err)

	var statuses []string
	for {
		inst, ok, err := r.Read(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		statuses = append(statuses, inst.(*roundtripOrder).Status)
	}
	require.Len(t, statuses, 3)

	hdr := func(s string) uintptr { return reflect.ValueOf(s).Pointer() }
	require.Equal(t, hdr(statuses[0]), hdr(statuses[1]), "dictionary-backed values should share one backing array within a row group")
	require.Equal(t, hdr(statuses[1]), hdr(statuses[2]))
}

func requireOrderEqual(t *testing.T, label string, want, got *roundtripOrder) {
	t.Helper()
	require.Equal(t, want.ID, got.ID, "%s: ID", label)
	require.Equal(t, want.Status, got.Status, "%s: Status", label)
	require.Truef(t, want.Total.Equal(got.Total), "%s: Total want %s got %s", label, want.Total, got.Total)
	require.Truef(t, want.PlacedAt.Equal(got.PlacedAt), "%s: PlacedAt want %s got %s", label, want.PlacedAt, got.PlacedAt)

	if want.ShipTo == nil {
		require.Nilf(t, got.ShipTo, "%s: ShipTo", label)
	} else {
		require.NotNilf(t, got.ShipTo, "%s: ShipTo", label)
		require.Equal(t, *want.ShipTo, *got.ShipTo, "%s: ShipTo", label)
	}

	requireDeepEqualDiff(t, label+": Tags", want.Tags, got.Tags)

	require.Equal(t, len(want.Items), len(got.Items), "%s: Items length", label)
	for i := range want.Items {
		require.Equal(t, want.Items[i].SKU, got.Items[i].SKU, "%s: Items[%d].SKU", label, i)
		require.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity, "%s: Items[%d].Quantity", label, i)
		require.Truef(t, want.Items[i].Price.Equal(got.Items[i].Price), "%s: Items[%d].Price want %s got %s", label, i, want.Items[i].Price, got.Items[i].Price)
	}

	requireDeepEqualDiff(t, label+": Metadata", want.Metadata, got.Metadata)
}

// requireDeepEqualDiff compares two values by their Go-syntax dump and, on
// mismatch, fails with a unified diff rather than testify's single-line
// %#v dump (which is unreadable once a slice or map gets more than a
// couple of elements).
func requireDeepEqualDiff(t *testing.T, label string, want, got interface{}) {
	t.Helper()
	ws := fmt.Sprintf("%#v\n", want)
	gs := fmt.Sprintf("%#v\n", got)
	if ws == gs {
		return
	}
	edits := myers.ComputeEdits(span.URIFromPath("want"), ws, gs)
	diff := fmt.Sprint(gotextdiff.ToUnified("want", "got", ws, edits))
	t.Errorf("%s mismatch:\n%s", label, diff)
}

// requireDumpEqual asserts two schemas render identically via Dump,
// catching any divergence between a freshly compiled schema and the one a
// Writer compiled internally.
func requireDumpEqual(t *testing.T, want, got *format.MessageType) {
	t.Helper()
	var wb, gb bytes.Buffer
	require.NoError(t, Dump(&wb, want))
	require.NoError(t, Dump(&gb, got))
	if wb.String() == gb.String() {
		return
	}
	edits := myers.ComputeEdits(span.URIFromPath("want.txt"), wb.String(), gb.String())
	diff := fmt.Sprint(gotextdiff.ToUnified("want.txt", "got.txt", wb.String(), edits))
	t.Errorf("schema dump mismatch:\n%s", diff)
}
