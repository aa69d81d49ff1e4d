package parquet

import "fmt"

// ErrorKind is the error taxonomy of spec §7. It is not itself an error
// type: Error wraps a Kind with the column path and reason that produced
// it, the way the teacher's ConvertError (convert.go) wraps a Reason/Path/
// From/To tuple rather than relying on a family of sentinel errors.
type ErrorKind int8

const (
	UnsupportedTarget ErrorKind = iota
	SchemaIncompatible
	MissingColumn
	NullForRequired
	NarrowingDisallowed
	DuplicateFieldId
	InexactRescale
	MalformedLevels
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedTarget:
		return "UnsupportedTarget"
	case SchemaIncompatible:
		return "SchemaIncompatible"
	case MissingColumn:
		return "MissingColumn"
	case NullForRequired:
		return "NullForRequired"
	case NarrowingDisallowed:
		return "NarrowingDisallowed"
	case DuplicateFieldId:
		return "DuplicateFieldId"
	case InexactRescale:
		return "InexactRescale"
	case MalformedLevels:
		return "MalformedLevels"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned across this package for all
// taxonomy kinds in spec §7.
type Error struct {
	Kind   ErrorKind
	Path   []string // column path, nil when not applicable
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("parquet: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("parquet: %s at %s: %s", e.Kind, columnPath(e.Path), e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

func columnPath(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}
