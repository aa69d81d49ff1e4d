package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segmentio-labs/parquetrec/format"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"OrderID":   "order_id",
		"orderId":   "order_id",
		"ID":        "id",
		"UserName":  "user_name",
		"already_snake": "already_snake",
		"HTTPCode":  "http_code",
	}
	for in, want := range cases {
		require.Equal(t, want, toSnakeCase(in), "input %q", in)
	}
}

func TestTargetNameResolutionOrder(t *testing.T) {
	f := &Field{SourceName: "OrderID"}
	require.Equal(t, "OrderID", targetName(f, FieldName))
	require.Equal(t, "order_id", targetName(f, SnakeCase))

	f.Alias = "order_identifier"
	require.Equal(t, "order_identifier", targetName(f, SnakeCase), "alias overrides naming strategy")
}

func TestFieldNodeBestEffortFallsBackToSnakeCase(t *testing.T) {
	group := &format.Node{
		Name: "root",
		Fields: []*format.Node{
			{Name: "order_id"},
		},
	}
	f := &Field{SourceName: "OrderID"}

	require.Nil(t, fieldNode(group, f, FieldName), "exact source name does not match file's snake_case column")
	require.NotNil(t, fieldNode(group, f, BestEffort), "best-effort falls back to snake_case")
	require.Equal(t, "order_id", fieldNode(group, f, BestEffort).Name)
}

func TestFieldNodeAliasOverridesEvenBestEffort(t *testing.T) {
	group := &format.Node{
		Name: "root",
		Fields: []*format.Node{
			{Name: "legacy_name"},
		},
	}
	f := &Field{SourceName: "OrderID", Alias: "legacy_name"}
	n := fieldNode(group, f, BestEffort)
	require.NotNil(t, n)
	require.Equal(t, "legacy_name", n.Name)
}
