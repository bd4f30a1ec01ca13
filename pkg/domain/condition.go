package domain

import "strings"

// Condition is the value held by a Condition node: the flag it references,
// the state that flag must be in, and the id of the node that owns it.
type Condition struct {
	flagID    string
	flagState FlagState
	nodeID    string
}

// NewCondition validates and builds a Condition.
func NewCondition(flagID *string, state FlagState, nodeID *string) (Condition, error) {
	fid, err := requireID(flagID)
	if err != nil {
		return Condition{}, nodeErr("condition", "", err, "flag id")
	}
	nid, err := requireID(nodeID)
	if err != nil {
		return Condition{}, nodeErr("condition", "", err, "node id")
	}
	if state == "" {
		return Condition{}, nodeErr("condition", nid, ErrNullValue, "flag state")
	}
	if !state.Valid() {
		return Condition{}, nodeErr("condition", nid, ErrNullValue, "unknown flag state %q", state)
	}
	return Condition{flagID: fid, flagState: state, nodeID: nid}, nil
}

func (c Condition) FlagID() string       { return c.flagID }
func (c Condition) FlagState() FlagState { return c.flagState }
func (c Condition) NodeID() string       { return c.nodeID }

// Equal compares all three fields.
func (c Condition) Equal(other Condition) bool {
	return c == other
}

func requireID(s *string) (string, error) {
	if s == nil {
		return "", ErrNullValue
	}
	if strings.TrimSpace(*s) == "" {
		return "", ErrEmptyString
	}
	return *s, nil
}

func requireText(s *string) (string, error) {
	if s == nil {
		return "", ErrNullValue
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return "", ErrEmptyString
	}
	return v, nil
}
