package parquet

// NamingStrategy resolves a target field's column name before applying an
// explicit alias override (spec §4.6).
type NamingStrategy int8

const (
	// FieldName uses the Field.SourceName verbatim.
	FieldName NamingStrategy = iota
	// SnakeCase transforms the source name to snake_case.
	SnakeCase
	// BestEffort tries an exact match first, then falls back to SnakeCase;
	// read-path only (spec §4.2, §4.6).
	BestEffort
)

// ReaderPolicy carries the three cross-cutting flags the Schema Projector
// consults (spec §4.2, §6.2). The zero value is NOT the default: use
// DefaultReaderPolicy or NewReaderPolicy.
type ReaderPolicy struct {
	// FailOnMissingColumn: if true, a target field with no matching file
	// column fails projection. Default true.
	FailOnMissingColumn bool
	// FailOnNullForPrimitive: if true, a non-nullable target primitive
	// matched to an OPTIONAL file column fails projection. Default false.
	FailOnNullForPrimitive bool
	// FailOnNarrowing: if true, a file primitive wider than the target
	// fails projection instead of being narrowed at read time. Default
	// false.
	FailOnNarrowing bool
	// Naming selects the field-matching strategy (spec §4.2 step 1).
	Naming NamingStrategy
}

// DefaultReaderPolicy returns the policy spec §4.2 documents as default.
func DefaultReaderPolicy() ReaderPolicy {
	return ReaderPolicy{
		FailOnMissingColumn:    true,
		FailOnNullForPrimitive: false,
		FailOnNarrowing:        false,
		Naming:                 BestEffort,
	}
}

// ReaderOption customizes a ReaderPolicy. Grounded on the teacher's
// config.go functional-option pattern (*ConfigOption closures applied over
// a defaulted struct).
type ReaderOption func(*ReaderPolicy)

func FailOnMissingColumn(fail bool) ReaderOption {
	return func(p *ReaderPolicy) { p.FailOnMissingColumn = fail }
}

func FailOnNullForPrimitive(fail bool) ReaderOption {
	return func(p *ReaderPolicy) { p.FailOnNullForPrimitive = fail }
}

func FailOnNarrowing(fail bool) ReaderOption {
	return func(p *ReaderPolicy) { p.FailOnNarrowing = fail }
}

func WithNamingStrategy(n NamingStrategy) ReaderOption {
	return func(p *ReaderPolicy) { p.Naming = n }
}

// NewReaderPolicy builds a ReaderPolicy from the defaults plus options.
func NewReaderPolicy(options ...ReaderOption) ReaderPolicy {
	p := DefaultReaderPolicy()
	for _, opt := range options {
		opt(&p)
	}
	return p
}

// WriterConfig carries the one cross-cutting writer-side setting: the
// naming strategy used to resolve column names from the target descriptor
// (spec §4.6, §6.2). Only FieldName and SnakeCase are meaningful on write;
// BestEffort is a read-only strategy.
type WriterConfig struct {
	Naming NamingStrategy
}

func DefaultWriterConfig() WriterConfig {
	return WriterConfig{Naming: FieldName}
}

type WriterOption func(*WriterConfig)

func WithWriterNamingStrategy(n NamingStrategy) WriterOption {
	return func(c *WriterConfig) { c.Naming = n }
}

func NewWriterConfig(options ...WriterOption) WriterConfig {
	c := DefaultWriterConfig()
	for _, opt := range options {
		opt(&c)
	}
	return c
}
