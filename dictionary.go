package parquet

// Dictionary provides the decoded-value sharing spec §4.4 calls dictionary
// pass-through: "binary values decoded into string/enum/uuid are shared
// across rows by reference equality within one row-group." Once a given
// raw byte sequence has been decoded for a column, later occurrences of
// the same bytes in the same row group return the previously decoded
// value instead of allocating a fresh one.
//
// Grounded on the teacher's encoding/dict/dict.go: this repo keeps that
// package's dictionary-as-a-deduplicated-value-table model (one table per
// column, populated on first sight of a raw value) but drops its RLE
// page-encoding machinery entirely, since page encoding itself is out of
// scope (spec.md §1) — only the sharing guarantee survives.
type Dictionary struct {
	perColumn []map[string]interface{}
}

// NewDictionary prepares an empty Dictionary scoped to one row group, with
// one cache per leaf column.
func NewDictionary(numColumns int) *Dictionary {
	return &Dictionary{perColumn: make([]map[string]interface{}, numColumns)}
}

// Intern returns the value previously decoded for raw in the given
// column, or records decoded as that value if raw has not been seen yet
// in this column.
func (d *Dictionary) Intern(col int, raw []byte, decoded interface{}) interface{} {
	if d == nil {
		return decoded
	}
	if d.perColumn[col] == nil {
		d.perColumn[col] = make(map[string]interface{})
	}
	key := string(raw)
	if v, ok := d.perColumn[col][key]; ok {
		return v
	}
	d.perColumn[col][key] = decoded
	return decoded
}

// Reset drops every cached value, called at row-group boundaries: sharing
// is scoped to "within one row-group" (spec §4.4), never across groups.
func (d *Dictionary) Reset() {
	for i := range d.perColumn {
		d.perColumn[i] = nil
	}
}
