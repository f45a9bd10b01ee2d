package ledger

import "fmt"

// Traversal selects one of the three tree traversal orders.
type Traversal int

const (
	InOrder Traversal = iota
	PreOrder
	PostOrder
)

var traversalNames = map[string]Traversal{
	"":           InOrder,
	"em-ordem":   InOrder,
	"in-order":   InOrder,
	"pre-ordem":  PreOrder,
	"pre-order":  PreOrder,
	"pos-ordem":  PostOrder,
	"post-order": PostOrder,
}

// ParseTraversal accepts the UI names (em-ordem, pre-ordem, pos-ordem) and
// their English equivalents. An empty string means in-order.
func ParseTraversal(s string) (Traversal, error) {
	t, ok := traversalNames[s]
	if !ok {
		return InOrder, fmt.Errorf("unknown traversal %q", s)
	}
	return t, nil
}

func (t Traversal) String() string {
	switch t {
	case PreOrder:
		return "pre-ordem"
	case PostOrder:
		return "pos-ordem"
	default:
		return "em-ordem"
	}
}
