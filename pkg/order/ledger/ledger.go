// Package ledger implements the Order Ledger: a binary search tree of orders
// keyed by time key, safe for concurrent use.
//
// For every node, keys in the left subtree are strictly less than the node's
// key and keys in the right subtree are strictly greater. The tree is
// height-balanced (AVL) unless built with WithBalancing(false), in which case
// its shape follows insertion history exactly.
package ledger

import (
	"fmt"
	"sync"

	"pizzaflow/pkg/order"
)

type node struct {
	order  order.Order
	left   *node
	right  *node
	height int
}

func (n *node) key() int64 { return n.order.TimeKey }

// Ledger stores orders in a binary search tree. All reads take a shared lock,
// all mutations an exclusive one, so every traversal sees one tree shape.
type Ledger struct {
	mu       sync.RWMutex
	root     *node
	size     int
	version  uint64
	balanced bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithBalancing toggles AVL rebalancing. Without it the tree degrades to a
// list under sorted insertion.
func WithBalancing(on bool) Option {
	return func(l *Ledger) { l.balanced = on }
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{balanced: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Balanced reports whether the ledger rebalances on mutation.
func (l *Ledger) Balanced() bool { return l.balanced }

// Insert stores o. It fails with order.ErrDuplicateKey when an order with the
// same time key is already present, leaving the ledger unchanged.
func (l *Ledger) Insert(o order.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	root, err := l.insert(l.root, o)
	if err != nil {
		return err
	}
	l.root = root
	l.size++
	l.version++
	return nil
}

func (l *Ledger) insert(n *node, o order.Order) (*node, error) {
	if n == nil {
		return &node{order: o, height: 1}, nil
	}
	var err error
	switch {
	case o.TimeKey < n.key():
		n.left, err = l.insert(n.left, o)
	case o.TimeKey > n.key():
		n.right, err = l.insert(n.right, o)
	default:
		return n, fmt.Errorf("insert %d: %w", o.TimeKey, order.ErrDuplicateKey)
	}
	if err != nil {
		return n, err
	}
	return l.fix(n), nil
}

// Delete removes and returns the order stored under key. A node with two
// children takes the order of its in-order successor, which is then removed
// from the right subtree.
func (l *Ledger) Delete(key int64) (order.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	root, removed, ok := l.remove(l.root, key)
	if !ok {
		return order.Order{}, fmt.Errorf("delete %d: %w", key, order.ErrNotFound)
	}
	l.root = root
	l.size--
	l.version++
	return removed, nil
}

func (l *Ledger) remove(n *node, key int64) (*node, order.Order, bool) {
	if n == nil {
		return nil, order.Order{}, false
	}
	var (
		removed order.Order
		ok      bool
	)
	switch {
	case key < n.key():
		n.left, removed, ok = l.remove(n.left, key)
	case key > n.key():
		n.right, removed, ok = l.remove(n.right, key)
	default:
		removed, ok = n.order, true
		if n.left == nil || n.right == nil {
			child := n.left
			if child == nil {
				child = n.right
			}
			// detach so the removed node holds no subtree
			n.left, n.right = nil, nil
			return child, removed, true
		}
		succ := minNode(n.right)
		n.order = succ.order
		n.right, _, _ = l.remove(n.right, succ.key())
	}
	if !ok {
		return n, removed, false
	}
	return l.fix(n), removed, true
}

// Find looks up the order stored under key.
func (l *Ledger) Find(key int64) (order.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.root
	for n != nil {
		switch {
		case key < n.key():
			n = n.left
		case key > n.key():
			n = n.right
		default:
			return n.order, true
		}
	}
	return order.Order{}, false
}

// FreeKeyFrom returns the smallest key >= key that no order uses.
func (l *Ledger) FreeKeyFrom(key int64) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// walk the run of occupied keys starting at key
	next := key
	walkFrom(l.root, key, func(k int64) bool {
		if k != next {
			return false
		}
		next++
		return true
	})
	return next
}

// walkFrom visits keys >= from in ascending order until fn returns false.
func walkFrom(n *node, from int64, fn func(int64) bool) bool {
	if n == nil {
		return true
	}
	if from < n.key() {
		if !walkFrom(n.left, from, fn) {
			return false
		}
	}
	if from <= n.key() {
		if !fn(n.key()) {
			return false
		}
	}
	return walkFrom(n.right, from, fn)
}

// Count returns the number of stored orders.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// IsEmpty reports whether the ledger holds no orders.
func (l *Ledger) IsEmpty() bool {
	return l.Count() == 0
}

// Height returns the height of the tree; 0 when empty.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return height(l.root)
}

// Version increases on every successful mutation. Caches derived from a
// snapshot stay valid while the version is unchanged.
func (l *Ledger) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// TraverseInOrder returns all orders ascending by time key.
func (l *Ledger) TraverseInOrder() []order.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return inOrder(l.root, make([]order.Order, 0, l.size))
}

// TraversePreOrder returns orders node-left-right. The result depends on the
// tree shape and therefore on insertion history.
func (l *Ledger) TraversePreOrder() []order.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return preOrder(l.root, make([]order.Order, 0, l.size))
}

// TraversePostOrder returns orders left-right-node.
func (l *Ledger) TraversePostOrder() []order.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return postOrder(l.root, make([]order.Order, 0, l.size))
}

// Traverse dispatches to the traversal named by t. It panics on a value
// that is not one of InOrder, PreOrder or PostOrder; use ParseTraversal on
// untrusted input.
func (l *Ledger) Traverse(t Traversal) []order.Order {
	switch t {
	case InOrder:
		return l.TraverseInOrder()
	case PreOrder:
		return l.TraversePreOrder()
	case PostOrder:
		return l.TraversePostOrder()
	default:
		panic(fmt.Sprintf("ledger: unknown traversal %d", int(t)))
	}
}

// Snapshot returns the in-order traversal together with the version it was
// taken at, under a single read lock.
func (l *Ledger) Snapshot() ([]order.Order, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return inOrder(l.root, make([]order.Order, 0, l.size)), l.version
}

func inOrder(n *node, out []order.Order) []order.Order {
	if n == nil {
		return out
	}
	out = inOrder(n.left, out)
	out = append(out, n.order)
	return inOrder(n.right, out)
}

func preOrder(n *node, out []order.Order) []order.Order {
	if n == nil {
		return out
	}
	out = append(out, n.order)
	out = preOrder(n.left, out)
	return preOrder(n.right, out)
}

func postOrder(n *node, out []order.Order) []order.Order {
	if n == nil {
		return out
	}
	out = postOrder(n.left, out)
	out = postOrder(n.right, out)
	return append(out, n.order)
}

func minNode(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node) update() {
	n.height = 1 + max(height(n.left), height(n.right))
}

// fix recomputes n's height and, for balanced ledgers, restores the AVL
// property at n. It returns the new subtree root.
func (l *Ledger) fix(n *node) *node {
	n.update()
	if !l.balanced {
		return n
	}
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()
	return l
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	n.update()
	r.update()
	return r
}
