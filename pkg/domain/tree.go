package domain

import "slices"

// AddRequest carries the arguments of AddNode. Zero-valued ID, ParentID and
// Type mean the argument is absent. Name, Description and FlagID are pointers
// so that an absent value can be told apart from a blank one.
type AddRequest struct {
	ID       string
	ParentID string
	Type     NodeType

	Name        *string
	Description *string

	FlagID    *string
	FlagState FlagState
}

// EditRequest carries the new field values for EditNode. Only the fields used
// by the target's kind are read.
type EditRequest struct {
	Name        *string
	Description *string

	FlagID    *string
	FlagState FlagState
}

// Removal describes what DeleteChildNode took out of the tree.
type Removal struct {
	Node     *Node   // the detached node, with its subtree
	Cascaded []*Node // Condition nodes dropped because they referenced Node
}

// AddNode creates a node of req.Type under req.ParentID somewhere in n's
// subtree and returns it. The tree is left untouched on failure.
func (n *Node) AddNode(req AddRequest) (*Node, error) {
	const op = "add"
	switch {
	case req.ID == "":
		return nil, nodeErr(op, "", ErrNullValue, "node id")
	case req.ParentID == "":
		return nil, nodeErr(op, req.ID, ErrNullValue, "parent id")
	case req.Type == "":
		return nil, nodeErr(op, req.ID, ErrNullValue, "node type")
	}

	if n.FindByID(req.ID) != nil {
		return nil, nodeErr(op, req.ID, ErrAlreadyExists, "")
	}
	parent := n.FindByID(req.ParentID)
	if parent == nil {
		return nil, nodeErr(op, req.ID, ErrParentNotExists, "parent %q", req.ParentID)
	}
	if req.Type == NodeTypeCondition {
		if err := n.resolveFlag(req.FlagID); err != nil {
			return nil, fieldErr(op, req.ID, err)
		}
	}

	if err := parent.admit(req.Type); err != nil {
		return nil, fieldErr(op, req.ID, err)
	}
	child, err := newNode(req.Type, req.ID, req.Name, req.Description, req.FlagID, req.FlagState)
	if err != nil {
		return nil, fieldErr(op, req.ID, err)
	}
	parent.children = append(parent.children, child)
	return child, nil
}

// EditNode replaces the editable fields of the node identified by id.
// Every field is validated before any is assigned.
func (n *Node) EditNode(id string, req EditRequest) error {
	const op = "edit"
	if id == "" {
		return nodeErr(op, "", ErrNullValue, "node id")
	}
	target := n.FindByID(id)
	if target == nil {
		return nodeErr(op, id, ErrNodeNotFound, "")
	}
	if target.nodeType == NodeTypeCondition {
		if err := n.resolveFlag(req.FlagID); err != nil {
			return fieldErr(op, id, err)
		}
	}
	if err := target.apply(req); err != nil {
		return fieldErr(op, id, err)
	}
	return nil
}

func (n *Node) apply(req EditRequest) error {
	switch n.nodeType {
	case NodeTypeRoom:
		name, err := requireText(req.Name)
		if err != nil {
			return nodeErr("", n.id, err, "name")
		}
		desc, err := requireText(req.Description)
		if err != nil {
			return nodeErr("", n.id, err, "description")
		}
		n.name, n.description = name, desc
	case NodeTypeChoice, NodeTypeFlag:
		name, err := requireText(req.Name)
		if err != nil {
			return nodeErr("", n.id, err, "name")
		}
		n.name = name
	case NodeTypeCondition:
		c, err := NewCondition(req.FlagID, req.FlagState, &n.id)
		if err != nil {
			return err
		}
		n.condition = c
	}
	return nil
}

// DeleteChildNode detaches the node identified by id, with its subtree, from
// its parent. Deleting a Flag also drops every Condition in n's subtree that
// references it. n itself cannot be deleted.
func (n *Node) DeleteChildNode(id string) (Removal, error) {
	const op = "delete"
	if id == "" {
		return Removal{}, nodeErr(op, "", ErrNullValue, "node id")
	}
	target := n.FindByID(id)
	if target == nil {
		return Removal{}, nodeErr(op, id, ErrNodeNotFound, "")
	}
	if target == n {
		return Removal{}, nodeErr(op, id, ErrRootNodeDeleting, "")
	}

	parent := n.parentOf(target)
	parent.children = slices.DeleteFunc(parent.children, func(c *Node) bool { return c == target })

	rm := Removal{Node: target}
	if target.nodeType == NodeTypeFlag {
		rm.Cascaded = n.pruneConditions(target.id)
	}
	return rm, nil
}

// pruneConditions drops, at any depth below n, the Condition nodes that
// reference flagID. Subtrees of dropped nodes go with them.
func (n *Node) pruneConditions(flagID string) []*Node {
	var removed []*Node
	kept := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.nodeType == NodeTypeCondition && c.condition.flagID == flagID {
			removed = append(removed, c)
			continue
		}
		removed = append(removed, c.pruneConditions(flagID)...)
		kept = append(kept, c)
	}
	n.children = kept
	return removed
}

// resolveFlag checks that flagID names a Flag node within n.
func (n *Node) resolveFlag(flagID *string) error {
	if flagID == nil {
		return nodeErr("", "", ErrFlagNotExists, "flag id missing")
	}
	f := n.FindByID(*flagID)
	if f == nil {
		return nodeErr("", "", ErrFlagNotExists, "flag %q", *flagID)
	}
	if f.nodeType != NodeTypeFlag {
		return nodeErr("", "", ErrFlagNotExists, "%q is a %s", *flagID, f.nodeType)
	}
	return nil
}
