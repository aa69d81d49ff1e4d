package parquet

// levels holds the repetition/definition level state of a descriptor walk,
// mirroring the teacher's convert.go/traverse.go "levels" accumulator. The
// assembler and the schema projector do not use this type: they thread the
// same state as plain rep/def int parameters.
type levels struct {
	repetitionLevel int8
	definitionLevel int8
	repetitionDepth int8 // deepest REPEATED ancestor seen so far on this path
}

func countLevelsEqual(levels []byte, value byte) int {
	n := 0
	for _, l := range levels {
		if l == value {
			n++
		}
	}
	return n
}

func countLevelsNotEqual(levels []byte, value byte) int {
	return len(levels) - countLevelsEqual(levels, value)
}

func appendLevel(levels []byte, value byte, count int) []byte {
	i := len(levels)
	n := len(levels) + count

	if cap(levels) < n {
		newLevels := make([]byte, n, 2*n)
		copy(newLevels, levels)
		levels = newLevels
	} else {
		levels = levels[:n]
	}

	for j := i; j < n; j++ {
		levels[j] = value
	}
	return levels
}
