package domain

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of a node.
type NodeType string

const (
	NodeTypeRoom      NodeType = "ROOM"
	NodeTypeChoice    NodeType = "CHOICE"
	NodeTypeFlag      NodeType = "FLAG"
	NodeTypeCondition NodeType = "CONDITION"
)

// NodeTypes lists every node kind in declaration order.
var NodeTypes = []NodeType{NodeTypeRoom, NodeTypeChoice, NodeTypeFlag, NodeTypeCondition}

// ParseNodeType resolves a node type name, ignoring case.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the declared node kinds.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeRoom, NodeTypeChoice, NodeTypeFlag, NodeTypeCondition:
		return true
	}
	return false
}

// Accepts reports whether a node of type t may hold a direct child of type child.
// The single-Room limit is enforced separately since it depends on existing children.
func (t NodeType) Accepts(child NodeType) bool {
	switch t {
	case NodeTypeRoom:
		return child == NodeTypeRoom || child == NodeTypeChoice || child == NodeTypeFlag
	case NodeTypeChoice, NodeTypeCondition:
		return child == NodeTypeRoom || child == NodeTypeCondition
	default:
		return false
	}
}

func (t NodeType) String() string { return string(t) }

// FlagState is the state a Condition requires its flag to be in.
type FlagState string

const (
	FlagActive    FlagState = "ACTIVE"
	FlagNotActive FlagState = "NOT_ACTIVE"
)

// ParseFlagState resolves a flag state name, ignoring case.
func ParseFlagState(s string) (FlagState, error) {
	st := FlagState(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown flag state %q", s)
	}
	return st, nil
}

// Valid reports whether s is ACTIVE or NOT_ACTIVE.
func (s FlagState) Valid() bool {
	return s == FlagActive || s == FlagNotActive
}

func (s FlagState) String() string { return string(s) }

// Size limits applied to user supplied text at the API boundary.
const (
	MinStringSize      = 2
	MaxShortStringSize = 25
	MaxLongStringSize  = 255
)
