package domain

// Snapshot is a plain copy of a subtree, suitable for encoding by callers.
type Snapshot struct {
	ID          string             `json:"id" yaml:"id" mapstructure:"id"`
	Type        NodeType           `json:"type" yaml:"type" mapstructure:"type"`
	Name        string             `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Condition   *ConditionSnapshot `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
	Children    []Snapshot         `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// ConditionSnapshot is the encoded form of a Condition.
type ConditionSnapshot struct {
	FlagID    string    `json:"flag_id" yaml:"flag_id" mapstructure:"flag_id"`
	FlagState FlagState `json:"flag_state" yaml:"flag_state" mapstructure:"flag_state"`
	NodeID    string    `json:"node_id,omitempty" yaml:"node_id,omitempty" mapstructure:"node_id"`
}

// Snapshot copies n and its subtree.
func (n *Node) Snapshot() Snapshot {
	s := Snapshot{
		ID:          n.id,
		Type:        n.nodeType,
		Name:        n.name,
		Description: n.description,
	}
	if n.nodeType == NodeTypeCondition {
		s.Condition = &ConditionSnapshot{
			FlagID:    n.condition.flagID,
			FlagState: n.condition.flagState,
			NodeID:    n.condition.nodeID,
		}
	}
	for _, c := range n.children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// Restore rebuilds a tree from a snapshot. The root must be a Room, ids must
// be unique and every parent/child pair must satisfy the same rules AddNode
// enforces. Condition flag references are not required to resolve; see
// DanglingConditions.
func Restore(s Snapshot) (*Node, error) {
	const op = "restore"
	if s.Type != NodeTypeRoom {
		return nil, nodeErr(op, s.ID, ErrParentMismatch, "root must be a %s, got %q", NodeTypeRoom, s.Type)
	}
	seen := make(map[string]struct{})
	return restore(s, seen)
}

func restore(s Snapshot, seen map[string]struct{}) (*Node, error) {
	const op = "restore"
	if s.ID == "" {
		return nil, nodeErr(op, "", ErrNullValue, "node id")
	}
	if _, dup := seen[s.ID]; dup {
		return nil, nodeErr(op, s.ID, ErrAlreadyExists, "")
	}
	seen[s.ID] = struct{}{}

	var (
		flagID *string
		state  FlagState
	)
	if s.Condition != nil {
		flagID, state = &s.Condition.FlagID, s.Condition.FlagState
	}
	name, desc := s.Name, s.Description
	n, err := newNode(s.Type, s.ID, &name, &desc, flagID, state)
	if err != nil {
		return nil, fieldErr(op, s.ID, err)
	}

	for _, cs := range s.Children {
		if err := n.admit(cs.Type); err != nil {
			return nil, fieldErr(op, cs.ID, err)
		}
		child, err := restore(cs, seen)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}
