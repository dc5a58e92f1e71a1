// internal/types/position.go
package types

import "fmt"

// Position addresses a point in document text.
// Line is 1-based, matching common editor conventions at the host boundary.
// Col is the 0-based column (rune) index within the line.
type Position struct {
	Line int
	Col  int // Rune index
}

// Before reports whether p is strictly before other in document order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Line, p.Col)
}
