package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requireErrorKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, kind, perr.Kind)
}

func TestRecordBuilderRejectsDuplicateFieldID(t *testing.T) {
	type widget struct {
		A string
		B string
	}
	_, err := RecordOf(widget{}).
		Field("A", NewLogicalBinary(LogicalString, false), FieldID(1)).
		Field("B", NewLogicalBinary(LogicalString, false), FieldID(1)).
		Build()
	requireErrorKind(t, err, DuplicateFieldId)
}

func TestRecordBuilderRejectsUnknownSourceName(t *testing.T) {
	type widget struct {
		A string
	}
	_, err := RecordOf(widget{}).
		Field("DoesNotExist", NewLogicalBinary(LogicalString, false)).
		Build()
	requireErrorKind(t, err, UnsupportedTarget)
}

func TestRecordOfRejectsNonStructPrototype(t *testing.T) {
	_, err := RecordOf(42).Field("X", NewPrimitive(KindI32, false)).Build()
	requireErrorKind(t, err, UnsupportedTarget)
}

func TestCheckRecursionRejectsDirectSelfReference(t *testing.T) {
	type node struct {
		Value    string
		Children *node
	}
	b := RecordOf(node{}).
		Field("Value", NewLogicalBinary(LogicalString, false))

	// The record under construction must reference itself to exercise
	// recursion: build it, then splice it into its own field list the way
	// a hand-rolled self-referential schema would, since Go's type system
	// can't construct the record and pass it to its own builder call in
	// one step.
	rec, err := b.Field("Children", NewPrimitive(KindI8, true)).Build()
	require.NoError(t, err)

	selfField := &Field{SourceName: "Children", Desc: rec, Accessor: func(interface{}) (interface{}, bool) { return nil, false }}
	rec.Fields[1] = selfField

	err = checkRecursion(rec, nil)
	requireErrorKind(t, err, UnsupportedTarget)
}

func TestNewDecimalValidatesPrecisionAndScale(t *testing.T) {
	_, err := NewDecimal(0, 0, RoundHalfUp, false)
	requireErrorKind(t, err, UnsupportedTarget)

	_, err = NewDecimal(39, 0, RoundHalfUp, false)
	requireErrorKind(t, err, UnsupportedTarget)

	_, err = NewDecimal(5, 6, RoundHalfUp, false)
	requireErrorKind(t, err, UnsupportedTarget)

	d, err := NewDecimal(5, 5, RoundHalfUp, false)
	require.NoError(t, err)
	require.Equal(t, int32(5), d.Precision)
}

func TestNewListRejectsNilElement(t *testing.T) {
	_, err := NewList(nil, ThreeLevel, OrderedSequence, false)
	requireErrorKind(t, err, UnsupportedTarget)
}

func TestNewMapRejectsNilKeyOrValue(t *testing.T) {
	_, err := NewMap(nil, NewPrimitive(KindI32, false), MapHash, false)
	requireErrorKind(t, err, UnsupportedTarget)

	_, err = NewMap(NewPrimitive(KindI32, false), nil, MapHash, false)
	requireErrorKind(t, err, UnsupportedTarget)
}

func TestNewMapRejectsCompositeKey(t *testing.T) {
	list, err := NewList(NewPrimitive(KindI32, false), ThreeLevel, OrderedSequence, false)
	require.NoError(t, err)

	_, err = NewMap(list, NewPrimitive(KindI32, false), MapHash, false)
	requireErrorKind(t, err, UnsupportedTarget)

	m, err := NewMap(NewPrimitive(KindI32, false), NewPrimitive(KindI32, false), MapHash, false)
	require.NoError(t, err)
	_, err = NewMap(m, NewPrimitive(KindI32, false), MapHash, false)
	requireErrorKind(t, err, UnsupportedTarget)
}
