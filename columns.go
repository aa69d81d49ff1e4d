package parquet

import "github.com/segmentio-labs/parquetrec/format"

// leafColumnIndex assigns each leaf node of a schema tree its column index
// in depth-first, file-declared order (spec §3.3, §4.1). The Schema
// Compiler and Record Assembler produce columns in this same order when
// walking a target descriptor, and the Schema Projector's FieldPlan tree
// reuses the exact *format.Node pointers that appear in the projected
// schema, so indexing by pointer lets the Record Materializer look up which
// column feeds a given leaf FieldPlan without re-deriving the walk order.
func leafColumnIndex(schema *format.MessageType) map[*format.Node]int {
	idx := map[*format.Node]int{}
	col := 0
	var walk func(nodes []*format.Node)
	walk = func(nodes []*format.Node) {
		for _, n := range nodes {
			if n.IsLeaf() {
				idx[n] = col
				col++
				continue
			}
			walk(n.Fields)
		}
	}
	walk(schema.Fields)
	return idx
}
