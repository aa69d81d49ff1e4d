package parquet

import (
	"fmt"

	"github.com/segmentio-labs/parquetrec/format"
)

// Projection is the output of the Schema Projector (spec §4.2): a
// MessageType containing exactly the columns needed by the target,
// alongside a FieldPlan tree the Record Materializer walks to reconstruct
// records without re-deriving the matching decisions on every row.
type Projection struct {
	Schema *format.MessageType
	Plan   []FieldPlan
}

// FieldPlan describes how one target Field was resolved against the file
// schema.
type FieldPlan struct {
	Field    *Field
	Missing  bool         // spec §4.2.2.a: no matching column, default on read
	FileNode *format.Node // the (possibly trimmed) matched file node

	Record *RecordPlan // set when Field.Desc is *Record
	List   *ListPlan   // set when Field.Desc is *List
	Map    *MapPlan    // set when Field.Desc is *Map
}

type RecordPlan struct {
	Fields []FieldPlan
	// DefThreshold is the definition level at which this group itself is
	// present (spec §4.4 "Record assembly"): parent's threshold plus one if
	// the group's own file node is not REQUIRED.
	DefThreshold int
}

// ListPlan carries the detected on-file list encoding and the plan for the
// element subtree (spec §4.2 step 3).
type ListPlan struct {
	FileEncoding ListEncoding
	Element      FieldPlan
	// DefThreshold is the definition level at which the list itself is
	// present (as opposed to null); one level higher again means a
	// produced element (spec §4.4 "Assembly (list-shaped columns)").
	DefThreshold int
	// RepDepth is the repetition level produced by this list's own
	// repeated node: the first element of a fresh list carries the
	// repetition level the list was entered at, subsequent elements carry
	// RepDepth (spec §4.4).
	RepDepth int
}

// MapPlan carries the plans for the key and value subtrees under
// key_value (spec §4.2 step 3).
type MapPlan struct {
	Key          FieldPlan
	Value        FieldPlan
	DefThreshold int
	RepDepth     int
}

// ProjectSchema is the Schema Projector (spec §4.2): given a file schema
// and a target Record descriptor, it computes a projected MessageType and
// a FieldPlan tree, or fails according to the ReaderPolicy.
//
// Grounded on the teacher's convert.go: the sorted child-name diffing in
// comm()/merge() that classifies target fields as matched/missing/extra is
// generalized here into fieldNode()'s name-matching strategies, and the
// optional/repeated/leaf/group dispatch of convert() becomes projectField.
func ProjectSchema(file *format.MessageType, target *Record, policy ReaderPolicy) (*Projection, error) {
	root := &format.Node{Name: file.Name, Repetition: format.Required, Fields: file.Fields}
	plan, fields, err := projectGroup(root, target, nil, 0, 0, policy)
	if err != nil {
		return nil, err
	}
	return &Projection{Schema: &format.MessageType{Name: file.Name, Fields: fields}, Plan: plan}, nil
}

// parentDef/parentRep are the definition/repetition levels reached by the
// group node itself (spec §3.3): a node's own threshold is parentDef (or
// parentRep) plus one exactly when its repetition marks it non-REQUIRED (or
// REPEATED, respectively). Threaded through so Record/List/Map plans can
// store the thresholds the Record Materializer needs to detect presence and
// iteration boundaries (spec §4.4).
func projectGroup(group *format.Node, target *Record, path []string, parentDef, parentRep int, policy ReaderPolicy) ([]FieldPlan, []*format.Node, error) {
	plans := make([]FieldPlan, 0, len(target.Fields))
	projectedOf := map[*format.Node]*format.Node{}

	for _, f := range target.Fields {
		fieldPath := append(append([]string{}, path...), f.SourceName)
		fn := fieldNode(group, f, policy.Naming)
		if fn == nil {
			if policy.FailOnMissingColumn {
				return nil, nil, &Error{Kind: MissingColumn, Path: fieldPath, Reason: fmt.Sprintf("no column matches target field %q", f.SourceName)}
			}
			plans = append(plans, FieldPlan{Field: f, Missing: true})
			continue
		}

		if (f.NotNull || (f.Desc != nil && !f.Desc.Nullable())) && fn.Repetition != format.Required {
			if policy.FailOnNullForPrimitive {
				return nil, nil, &Error{Kind: NullForRequired, Path: fieldPath, Reason: fmt.Sprintf("column %q is %s but target field is not-null", fn.Name, fn.Repetition)}
			}
		}

		fp, projected, err := projectField(fn, f, fieldPath, parentDef, parentRep, policy)
		if err != nil {
			return nil, nil, err
		}
		projectedOf[fn] = projected
		plans = append(plans, fp)
	}

	projectedFields := make([]*format.Node, 0, len(projectedOf))
	for _, fn := range group.Fields {
		if p, ok := projectedOf[fn]; ok {
			projectedFields = append(projectedFields, p)
		}
	}
	return plans, projectedFields, nil
}

func projectField(fn *format.Node, f *Field, path []string, parentDef, parentRep int, policy ReaderPolicy) (FieldPlan, *format.Node, error) {
	defHere := parentDef
	if fn.Repetition != format.Required {
		defHere++
	}
	repHere := parentRep
	if fn.Repetition == format.Repeated {
		repHere++
	}

	switch t := f.Desc.(type) {
	case *Primitive:
		if fn.IsGroup() {
			return FieldPlan{}, nil, incompatible(path, fn, "primitive", "group")
		}
		level := primitiveCompat(fn, t.KindOf)
		if level == compatNever {
			return FieldPlan{}, nil, incompatible(path, fn, t.KindOf.String(), fn.Physical.String())
		}
		if level == compatStrict && policy.FailOnNarrowing {
			return FieldPlan{}, nil, &Error{Kind: NarrowingDisallowed, Path: path, Reason: fmt.Sprintf("narrowing %s to %s disallowed", fn.Physical, t.KindOf)}
		}
		return FieldPlan{Field: f, FileNode: fn}, fn, nil

	case *LogicalBinary:
		if fn.IsGroup() {
			return FieldPlan{}, nil, incompatible(path, fn, "logical binary", "group")
		}
		if t.KindOf == LogicalRawBinary {
			if *fn.Physical != format.ByteArray && *fn.Physical != format.FixedLenByteArray {
				return FieldPlan{}, nil, incompatible(path, fn, "raw-binary", fn.Physical.String())
			}
			return FieldPlan{Field: f, FileNode: fn}, fn, nil
		}
		if logicalBinaryCompat(fn.Logical, t.KindOf) != compatAlways {
			return FieldPlan{}, nil, incompatible(path, fn, t.KindOf.String(), annotationName(fn.Logical))
		}
		return FieldPlan{Field: f, FileNode: fn}, fn, nil

	case *Decimal:
		if fn.IsGroup() || fn.Logical == nil || fn.Logical.Kind != format.DecimalLogical {
			return FieldPlan{}, nil, incompatible(path, fn, "decimal", annotationName(fn.Logical))
		}
		return FieldPlan{Field: f, FileNode: fn}, fn, nil

	case *Temporal:
		if fn.IsGroup() || fn.Logical == nil || !temporalKindMatches(t.KindOf, fn.Logical.Kind) {
			return FieldPlan{}, nil, incompatible(path, fn, t.KindOf.String(), annotationName(fn.Logical))
		}
		return FieldPlan{Field: f, FileNode: fn}, fn, nil

	case *List:
		return projectList(fn, f, t, path, parentDef, parentRep, policy)

	case *Map:
		return projectMap(fn, f, t, path, parentDef, parentRep, policy)

	case *Record:
		if fn.IsList() || fn.IsMap() || fn.IsLeaf() {
			return FieldPlan{}, nil, incompatible(path, fn, "record", "non-group")
		}
		nested, fields, err := projectGroup(fn, t, path, defHere, repHere, policy)
		if err != nil {
			return FieldPlan{}, nil, err
		}
		projected := &format.Node{Name: fn.Name, Repetition: fn.Repetition, Fields: fields}
		return FieldPlan{Field: f, FileNode: projected, Record: &RecordPlan{Fields: nested, DefThreshold: defHere}}, projected, nil

	default:
		return FieldPlan{}, nil, &Error{Kind: UnsupportedTarget, Path: path, Reason: "unresolved target descriptor"}
	}
}

func temporalKindMatches(target TemporalKind, logical format.LogicalKind) bool {
	switch target {
	case TemporalDate:
		return logical == format.DateLogical
	case TemporalTime:
		return logical == format.TimeLogical
	default: // LocalDateTime / Instant both map to TIMESTAMP on file
		return logical == format.TimestampLogical
	}
}

// projectList strips the LIST wrapper per the file's actual encoding (spec
// §4.2 step 3): three-level -> list.element; two-level -> the repeated
// node itself; one-level -> the repeated primitive/group, i.e. fn itself.
func projectList(fn *format.Node, f *Field, t *List, path []string, parentDef, parentRep int, policy ReaderPolicy) (FieldPlan, *format.Node, error) {
	elemField := &Field{SourceName: "element", Desc: t.Element, NotNull: t.Element != nil && !t.Element.Nullable()}
	elemPath := append(append([]string{}, path...), "[]")

	listDef := parentDef
	if fn.Repetition != format.Required {
		listDef++
	}

	switch {
	case fn.IsList():
		wrapper := fn.Fields[0]
		if wrapper.Name == "list" && wrapper.Repetition == format.Repeated && len(wrapper.Fields) == 1 {
			// three-level
			elemNode := wrapper.Fields[0]
			ep, projectedElem, err := projectField(elemNode, elemField, elemPath, listDef, parentRep, policy)
			if err != nil {
				return FieldPlan{}, nil, err
			}
			projWrapper := &format.Node{Name: "list", Repetition: format.Repeated, Fields: []*format.Node{projectedElem}}
			projected := &format.Node{Name: fn.Name, Repetition: fn.Repetition, Logical: fn.Logical, Fields: []*format.Node{projWrapper}}
			return FieldPlan{Field: f, FileNode: projected, List: &ListPlan{FileEncoding: ThreeLevel, Element: ep, DefThreshold: listDef, RepDepth: parentRep + 1}}, projected, nil
		}
		// two-level: fn.Fields[0] is the repeated element directly.
		elemNode := wrapper
		ep, projectedElem, err := projectField(elemNode, elemField, elemPath, listDef, parentRep, policy)
		if err != nil {
			return FieldPlan{}, nil, err
		}
		projectedElem.Repetition = format.Repeated
		projected := &format.Node{Name: fn.Name, Repetition: fn.Repetition, Logical: fn.Logical, Fields: []*format.Node{projectedElem}}
		return FieldPlan{Field: f, FileNode: projected, List: &ListPlan{FileEncoding: TwoLevel, Element: ep, DefThreshold: listDef, RepDepth: parentRep + 1}}, projected, nil

	case fn.Repetition == format.Repeated:
		// one-level: fn is the repeated element itself, no wrapper.
		required := &format.Node{Name: fn.Name, Repetition: format.Required, Physical: fn.Physical, TypeLength: fn.TypeLength, Logical: fn.Logical, Fields: fn.Fields}
		ep, projectedElem, err := projectField(required, elemField, elemPath, listDef, parentRep, policy)
		if err != nil {
			return FieldPlan{}, nil, err
		}
		projectedElem.Repetition = format.Repeated
		return FieldPlan{Field: f, FileNode: projectedElem, List: &ListPlan{FileEncoding: OneLevel, Element: ep, DefThreshold: listDef, RepDepth: parentRep + 1}}, projectedElem, nil

	default:
		return FieldPlan{}, nil, incompatible(path, fn, "list", "non-repeated")
	}
}

// projectMap recurses into the key and value subtrees under key_value
// (spec §4.2 step 3); a file-side map key record with extra fields than
// the target is accepted and the surplus fields are dropped (spec §8
// property 7).
func projectMap(fn *format.Node, f *Field, t *Map, path []string, parentDef, parentRep int, policy ReaderPolicy) (FieldPlan, *format.Node, error) {
	if !fn.IsMap() || len(fn.Fields) != 1 || fn.Fields[0].Name != "key_value" || len(fn.Fields[0].Fields) != 2 {
		return FieldPlan{}, nil, incompatible(path, fn, "map", "non-map")
	}
	kv := fn.Fields[0]
	keyNode, valNode := kv.Fields[0], kv.Fields[1]

	mapDef := parentDef
	if fn.Repetition != format.Required {
		mapDef++
	}

	keyField := &Field{SourceName: "key", Desc: t.Key, NotNull: true}
	kp, projectedKey, err := projectField(keyNode, keyField, append(append([]string{}, path...), "<key>"), mapDef, parentRep, policy)
	if err != nil {
		return FieldPlan{}, nil, err
	}

	valField := &Field{SourceName: "value", Desc: t.Value, NotNull: t.Value != nil && !t.Value.Nullable()}
	vp, projectedVal, err := projectField(valNode, valField, append(append([]string{}, path...), "<value>"), mapDef, parentRep, policy)
	if err != nil {
		return FieldPlan{}, nil, err
	}

	projectedKV := &format.Node{Name: "key_value", Repetition: format.Repeated, Fields: []*format.Node{projectedKey, projectedVal}}
	projected := &format.Node{Name: fn.Name, Repetition: fn.Repetition, Logical: fn.Logical, Fields: []*format.Node{projectedKV}}
	return FieldPlan{Field: f, FileNode: projected, Map: &MapPlan{Key: kp, Value: vp, DefThreshold: mapDef, RepDepth: parentRep + 1}}, projected, nil
}

func incompatible(path []string, fn *format.Node, target, file string) *Error {
	return &Error{Kind: SchemaIncompatible, Path: path, Reason: fmt.Sprintf("column %q (%s) incompatible with target %s", fn.Name, file, target)}
}

func annotationName(l *format.LogicalAnnotation) string {
	if l == nil {
		return "none"
	}
	return l.Kind.String()
}

func primitiveCompat(fn *format.Node, target Kind) compatLevel {
	if fn.Physical == nil {
		return compatNever
	}
	if target == KindBool {
		if *fn.Physical == format.Boolean {
			return compatAlways
		}
		return compatNever
	}
	if fn.Logical != nil {
		return compatNever
	}
	return numericCompat(*fn.Physical, target)
}
