package parquet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormattingWithAndWithoutPath(t *testing.T) {
	bare := &Error{Kind: UnsupportedTarget, Reason: "no accessor"}
	require.Equal(t, "parquet: UnsupportedTarget: no accessor", bare.Error())

	withPath := &Error{Kind: MissingColumn, Path: []string{"order", "items", "sku"}, Reason: "no column matches"}
	require.Equal(t, "parquet: MissingColumn at order.items.sku: no column matches", withPath.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := &Error{Kind: UnsupportedTarget, Reason: "wrapped", Cause: cause}
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestErrorKindStrings(t *testing.T) {
	cases := map[ErrorKind]string{
		UnsupportedTarget:   "UnsupportedTarget",
		SchemaIncompatible:  "SchemaIncompatible",
		MissingColumn:       "MissingColumn",
		NullForRequired:     "NullForRequired",
		NarrowingDisallowed: "NarrowingDisallowed",
		DuplicateFieldId:    "DuplicateFieldId",
		InexactRescale:      "InexactRescale",
		MalformedLevels:     "MalformedLevels",
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.String())
	}
	require.Equal(t, "Unknown", ErrorKind(99).String())
}
