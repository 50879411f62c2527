// Package taxonomy implements the dotted account code scheme shared by the
// four catalog levels (type, category, group, account). Codes always have
// four non-negative integer segments, e.g. "1.1.3.002". The first segment
// identifies the type, the first two the category, the first three the
// group, and all four a single account. The final segment is rendered with
// three digits.
package taxonomy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diarium/diarium/internal/ledger"
)

// Catalog levels, coarsest to finest. The numeric value doubles as the
// number of leading code segments that identify a node at that level.
const (
	LevelType     = 1
	LevelCategory = 2
	LevelGroup    = 3
	LevelAccount  = 4
)

// Segments is the number of segments in every code.
const Segments = 4

// Code is a parsed account code.
type Code [Segments]int

// Parse splits a dotted code into its four segments. It fails with
// ErrMalformedCode unless the input has exactly four dot-separated
// non-negative integers.
func Parse(s string) (Code, error) {
	var c Code
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != Segments {
		return c, fmt.Errorf("%w: %q must have %d dot-separated segments", ledger.ErrMalformedCode, s, Segments)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return c, fmt.Errorf("%w: segment %d of %q is not a non-negative integer", ledger.ErrMalformedCode, i+1, s)
		}
		c[i] = n
	}
	return c, nil
}

// String renders the code in canonical form: plain integers for the first
// three segments and a three-digit zero-padded final segment.
func (c Code) String() string {
	return fmt.Sprintf("%d.%d.%d.%03d", c[0], c[1], c[2], c[3])
}

// SharesPrefix reports whether child's first depth segments equal parent's.
func SharesPrefix(parent, child Code, depth int) bool {
	if depth < 0 || depth > Segments {
		return false
	}
	for i := 0; i < depth; i++ {
		if parent[i] != child[i] {
			return false
		}
	}
	return true
}

// WithPrefix returns a copy of c with its first depth segments replaced by
// prefix's, trailing segments preserved verbatim. It is the primitive a
// renumber cascade applies to every descendant code.
func (c Code) WithPrefix(prefix Code, depth int) Code {
	out := c
	for i := 0; i < depth && i < Segments; i++ {
		out[i] = prefix[i]
	}
	return out
}

// ForLevel builds the canonical code for a node at the given level whose
// identifying segments are seg (only the first level entries are used;
// the remainder are zero).
func ForLevel(level int, seg ...int) Code {
	var c Code
	for i := 0; i < level && i < len(seg) && i < Segments; i++ {
		c[i] = seg[i]
	}
	return c
}

// Segment returns the 1-based segment value at position i.
func (c Code) Segment(i int) int {
	return c[i-1]
}
