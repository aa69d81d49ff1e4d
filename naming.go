package parquet

import (
	"strings"

	"github.com/segmentio-labs/parquetrec/format"
)

// targetName resolves a field's column name per spec §4.6's resolution
// order: (1) explicit alias; (2) configured naming strategy; (3) source
// name verbatim. BestEffort is handled by the caller (see fieldNode below)
// since it needs to retry lookups, not just transform a string.
func targetName(f *Field, naming NamingStrategy) string {
	if f.Alias != "" {
		return f.Alias
	}
	switch naming {
	case SnakeCase:
		return toSnakeCase(f.SourceName)
	default:
		return f.SourceName
	}
}

// toSnakeCase transforms an identifier such as "OrderID" or "orderId" into
// "order_id".
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if i > 0 {
				prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if prevLower || (nextLower && runes[i-1] != '_') {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fieldNode looks up the file schema node matching a target Field under
// the configured naming/matching strategy (spec §4.2 step 1, §4.6 "the
// BEST_EFFORT strategy first attempts exact and then snake-case"). An
// explicit alias always overrides the strategy, including for BestEffort.
func fieldNode(group *format.Node, f *Field, naming NamingStrategy) *format.Node {
	if f.Alias != "" {
		return group.ChildByName(f.Alias)
	}
	switch naming {
	case SnakeCase:
		return group.ChildByName(toSnakeCase(f.SourceName))
	case BestEffort:
		if n := group.ChildByName(f.SourceName); n != nil {
			return n
		}
		return group.ChildByName(toSnakeCase(f.SourceName))
	default: // FieldName
		return group.ChildByName(f.SourceName)
	}
}
