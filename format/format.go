// Package format models the on-disk Parquet schema representation that the
// Schema Compiler produces and the Schema Projector consumes (spec §3.2).
//
// It intentionally stops at the schema tree: page/row-group/footer framing
// is an external collaborator (assumed available, see spec §1) and is not
// reproduced here. A real footer writer is expected to serialize a
// MessageType produced by this package byte-identically to standard
// Parquet, in particular the reserved LIST/MAP wrapper names (spec §6.3).
package format

import "fmt"

// Repetition is the FieldRepetitionType of a schema node.
type Repetition int8

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// PhysicalType is the physical storage type of a leaf column.
type PhysicalType int8

const (
	Boolean PhysicalType = iota
	Int32
	Int64
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t PhysicalType) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// TimeUnit is the resolution carried by TIME/TIMESTAMP logical annotations.
type TimeUnit int8

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

func (u TimeUnit) String() string {
	switch u {
	case Millis:
		return "MILLIS"
	case Micros:
		return "MICROS"
	case Nanos:
		return "NANOS"
	default:
		return "UNKNOWN"
	}
}

// LogicalKind discriminates which field of LogicalAnnotation applies.
type LogicalKind int8

const (
	NoLogical LogicalKind = iota
	StringLogical
	EnumLogical
	UUIDLogical
	JSONLogical
	BSONLogical
	DateLogical
	TimeLogical
	TimestampLogical
	DecimalLogical
	ListLogical
	MapLogical
)

func (k LogicalKind) String() string {
	switch k {
	case StringLogical:
		return "STRING"
	case EnumLogical:
		return "ENUM"
	case UUIDLogical:
		return "UUID"
	case JSONLogical:
		return "JSON"
	case BSONLogical:
		return "BSON"
	case DateLogical:
		return "DATE"
	case TimeLogical:
		return "TIME"
	case TimestampLogical:
		return "TIMESTAMP"
	case DecimalLogical:
		return "DECIMAL"
	case ListLogical:
		return "LIST"
	case MapLogical:
		return "MAP"
	default:
		return ""
	}
}

// LogicalAnnotation carries the interpretation hint attached to a physical
// primitive (spec §3.2). Only the fields relevant to Kind are meaningful.
type LogicalAnnotation struct {
	Kind LogicalKind

	// DECIMAL
	Precision int32
	Scale     int32

	// TIME / TIMESTAMP
	Unit          TimeUnit
	AdjustedToUTC bool
}

// Node is a node of the Parquet schema tree: MessageType (root), GroupType,
// or PrimitiveType (spec §3.2). Leaves have Physical set; groups carry
// Fields in declared order instead.
type Node struct {
	Name       string
	Repetition Repetition
	FieldID    *int32 // nil means "no field id" (structural wrappers, spec §6.3)

	// Leaf-only.
	Physical   *PhysicalType
	TypeLength int32 // FIXED_LEN_BYTE_ARRAY length (e.g. 16 for UUID)
	Logical    *LogicalAnnotation

	// Group-only, in declared order.
	Fields []*Node
}

// MessageType is the root of a schema tree.
type MessageType struct {
	Name   string
	Fields []*Node
}

func (n *Node) IsLeaf() bool { return n.Physical != nil }
func (n *Node) IsGroup() bool { return n.Physical == nil }

func (n *Node) IsList() bool {
	return n.Logical != nil && n.Logical.Kind == ListLogical
}

func (n *Node) IsMap() bool {
	return n.Logical != nil && n.Logical.Kind == MapLogical
}

// ChildByName looks up a direct child by name, or returns nil.
func (n *Node) ChildByName(name string) *Node {
	for _, f := range n.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s %s %s", n.Repetition, n.Physical, n.Name)
	}
	return fmt.Sprintf("%s group %s", n.Repetition, n.Name)
}

// RepetitionLevelOf and DefinitionLevelOf compute the maximum rep/def level
// reached by walking the path from root to a leaf (spec §3.3): max def-level
// counts non-REQUIRED ancestors on the path; max rep-level counts REPEATED
// ancestors.
func RepetitionLevelOf(path []*Node) int {
	n := 0
	for _, node := range path {
		if node.Repetition == Repeated {
			n++
		}
	}
	return n
}

func DefinitionLevelOf(path []*Node) int {
	n := 0
	for _, node := range path {
		if node.Repetition != Required {
			n++
		}
	}
	return n
}
