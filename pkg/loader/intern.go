package loader

import "strings"

// maxInterned bounds the distinct values an interner keeps per column.
const maxInterned = 4096

// interner deduplicates repeated cell strings within a column so that
// low-cardinality columns share one copy of each value and one boxed cell.
type interner struct {
	cells   map[string]any
	maxSize int
	hits    int
	misses  int
}

func newInterner(maxSize int) *interner {
	return &interner{cells: make(map[string]any), maxSize: maxSize}
}

// cell returns s boxed as a cell. Once the interner is full new values are
// boxed without being remembered.
func (in *interner) cell(s string) any {
	if c, ok := in.cells[s]; ok {
		in.hits++
		return c
	}
	in.misses++
	// Clone so the cell does not pin the reader's record buffer
	var c any = strings.Clone(s)
	if len(in.cells) < in.maxSize {
		in.cells[c.(string)] = c
	}
	return c
}

// stats returns the number of remembered values and the hit and miss
// counts so far.
func (in *interner) stats() (size, hits, misses int) {
	return len(in.cells), in.hits, in.misses
}
