package domain

import "strings"

// Node is one element of a game tree. Its fields are only reachable through
// accessors; the tree changes exclusively through AddNode, EditNode and
// DeleteChildNode.
type Node struct {
	id          string
	name        string
	description string
	nodeType    NodeType
	condition   Condition // set only when nodeType is NodeTypeCondition
	children    []*Node
}

// NewRoom creates a detached Room, typically the root of a new game.
func NewRoom(id, name, description string) (*Node, error) {
	if id == "" {
		return nil, nodeErr("create", "", ErrNullValue, "node id")
	}
	n, err := newNode(NodeTypeRoom, id, &name, &description, nil, "")
	if err != nil {
		return nil, fieldErr("create", id, err)
	}
	return n, nil
}

// newNode validates the fields the given kind uses and builds a detached node.
// Fields the kind does not use are ignored.
func newNode(t NodeType, id string, name, description, flagID *string, state FlagState) (*Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nodeErr("", id, ErrEmptyString, "node id")
	}
	n := &Node{id: id, nodeType: t}
	switch t {
	case NodeTypeRoom:
		nm, err := requireText(name)
		if err != nil {
			return nil, nodeErr("", id, err, "name")
		}
		desc, err := requireText(description)
		if err != nil {
			return nil, nodeErr("", id, err, "description")
		}
		n.name, n.description = nm, desc
	case NodeTypeChoice, NodeTypeFlag:
		nm, err := requireText(name)
		if err != nil {
			return nil, nodeErr("", id, err, "name")
		}
		n.name = nm
	case NodeTypeCondition:
		c, err := NewCondition(flagID, state, &id)
		if err != nil {
			return nil, err
		}
		n.condition = c
	default:
		return nil, nodeErr("", id, ErrParentMismatch, "unknown node type %q", t)
	}
	return n, nil
}

func (n *Node) ID() string          { return n.id }
func (n *Node) Name() string        { return n.name }
func (n *Node) Description() string { return n.description }
func (n *Node) Type() NodeType      { return n.nodeType }

// Condition returns the node's condition. ok is false unless n is a Condition node.
func (n *Node) Condition() (c Condition, ok bool) {
	if n.nodeType != NodeTypeCondition {
		return Condition{}, false
	}
	return n.condition, true
}

// Children returns the direct children in insertion order.
// The returned slice is a copy; reordering it does not affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// FindByID searches n and its subtree depth-first, pre-order, children in
// insertion order. It returns nil when no node carries id.
func (n *Node) FindByID(id string) *Node {
	if n.id == id {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its subtree in pre-order. Returning false from fn skips
// the children of the node just visited.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Len counts n and all of its descendants.
func (n *Node) Len() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// DanglingConditions lists Condition nodes whose flag id does not resolve to
// a Flag within n. They appear when a flag disappears together with a
// removed ancestor, which the flag cascade does not cover.
func (n *Node) DanglingConditions() []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.nodeType != NodeTypeCondition {
			return true
		}
		if f := n.FindByID(node.condition.flagID); f == nil || f.nodeType != NodeTypeFlag {
			out = append(out, node)
		}
		return true
	})
	return out
}

func (n *Node) hasRoomChild() bool {
	for _, c := range n.children {
		if c.nodeType == NodeTypeRoom {
			return true
		}
	}
	return false
}

// admit checks that n may take one more child of type t.
func (n *Node) admit(t NodeType) error {
	if !n.nodeType.Accepts(t) {
		return nodeErr("", n.id, ErrParentMismatch, "%s cannot hold %s", n.nodeType, t)
	}
	if t == NodeTypeRoom && n.hasRoomChild() {
		return nodeErr("", n.id, ErrParentMismatch, "%s already holds a room", n.nodeType)
	}
	return nil
}

func (n *Node) parentOf(target *Node) *Node {
	for _, c := range n.children {
		if c == target {
			return n
		}
		if p := c.parentOf(target); p != nil {
			return p
		}
	}
	return nil
}
