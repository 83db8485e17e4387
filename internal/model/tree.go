package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// QueryMode selects which read model a query produces.
type QueryMode int

const (
	QueryContinuous QueryMode = iota // chronological formatted feed
	QueryInPlace                     // latest message per leaf topic
	QueryTopics                      // tree listing with rolled-up counts
)

// ErrInvalidMode is returned for a query mode the tree does not know. It
// indicates a programming defect in the caller, not a runtime condition;
// callers treat it as fatal.
var ErrInvalidMode = errors.New("invalid query mode")

// Node is one segment of the topic namespace. Its history holds every
// message whose topic equals the node's path or any descendant of it, so
// the root's history sees the whole stream.
type Node struct {
	name     string
	children map[string]*Node
	hist     *History
	capacity int
}

// Index is the topic tree, rooted at an unnamed node. Nodes are created
// lazily on first message and live for the process lifetime.
type Index struct {
	root *Node
}

func NewIndex(capacity int) *Index {
	return &Index{root: newNode("", capacity)}
}

func newNode(name string, capacity int) *Node {
	return &Node{name: name, children: map[string]*Node{}, hist: NewHistory(capacity), capacity: capacity}
}

// Root exposes the root node, whose history aggregates everything.
func (ix *Index) Root() *Node { return ix.root }

// Insert records the message at every node along its topic path.
func (ix *Index) Insert(m *Message) { ix.root.insert(m.Topic, m) }

// Query runs the given read model over the whole tree.
func (ix *Index) Query(mode QueryMode) ([]Row, error) { return ix.root.Query(mode) }

// Name is the node's full path from the root; empty for the root itself.
func (n *Node) Name() string { return n.name }

// History is the node's rolled-up retention.
func (n *Node) History() *History { return n.hist }

func (n *Node) insert(rest string, m *Message) {
	n.hist.Append(m)
	head, tail := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		head, tail = rest[:i], rest[i+1:]
	}
	if head == "" {
		return
	}
	child, ok := n.children[head]
	if !ok {
		name := head
		if n.name != "" {
			name = n.name + "/" + head
		}
		child = newNode(name, n.capacity)
		n.children[head] = child
	}
	child.insert(tail, m)
}

// Query produces the ordered rows of one read model rooted at this node.
// Queries never mutate the tree or its histories.
func (n *Node) Query(mode QueryMode) ([]Row, error) {
	switch mode {
	case QueryContinuous:
		return n.hist.Lines(), nil
	case QueryInPlace:
		return n.inPlace(nil), nil
	case QueryTopics:
		return n.topics(nil), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
}

func (n *Node) sortedChildren() []*Node {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Node, len(keys))
	for i, k := range keys {
		out[i] = n.children[k]
	}
	return out
}

// inPlace concatenates, depth first in lexicographic segment order, the
// formatted lines of each leaf's latest message. Inner nodes contribute
// only through their children.
func (n *Node) inPlace(rows []Row) []Row {
	if len(n.children) == 0 {
		if m := n.hist.Last(); m != nil {
			rows = append(rows, m.Lines()...)
		}
		return rows
	}
	for _, c := range n.sortedChildren() {
		rows = c.inPlace(rows)
	}
	return rows
}

// topics is the pre-order tree listing: per node a bold full-path header
// and a summary row, children in lexicographic order. The unnamed root
// contributes no rows of its own.
func (n *Node) topics(rows []Row) []Row {
	if n.name != "" {
		rows = append(rows,
			Row{Text: n.name, Style: StyleHeader, Origin: Origin{Node: n}},
			Row{Indent: 1, Text: n.summary(), Style: StyleMeta, Origin: Origin{Node: n}},
		)
	}
	for _, c := range n.sortedChildren() {
		rows = c.topics(rows)
	}
	return rows
}

func (n *Node) summary() string {
	s := fmt.Sprintf("%d subtopics, %d msgs", len(n.children), n.hist.Len())
	if ts := n.hist.LastStamp(); !ts.IsZero() {
		s += ", last update " + ts.Format("15:04:05")
	}
	return s
}
