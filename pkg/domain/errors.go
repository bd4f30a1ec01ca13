package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyString is returned when a required text field is blank after trimming.
	ErrEmptyString = errors.New("empty string")

	// ErrNullValue is returned when a required argument or field is absent.
	ErrNullValue = errors.New("null value")

	// ErrAlreadyExists is returned when a node id is already used in the tree.
	ErrAlreadyExists = errors.New("node already exists")

	// ErrParentNotExists is returned when the requested parent id cannot be resolved.
	ErrParentNotExists = errors.New("parent node does not exist")

	// ErrParentMismatch is returned when a parent does not accept a child of the requested type.
	ErrParentMismatch = errors.New("parent does not accept child type")

	// ErrFlagNotExists is returned when a condition references a flag that cannot be resolved.
	ErrFlagNotExists = errors.New("flag does not exist")

	// ErrNodeNotFound is returned when the target of an edit or delete cannot be resolved.
	ErrNodeNotFound = errors.New("node not found")

	// ErrRootNodeDeleting is returned on an attempt to delete the node the call was made on.
	ErrRootNodeDeleting = errors.New("cannot delete root node")
)

// NodeError records a failed tree operation and the node it concerned.
type NodeError struct {
	Op     string // "add", "edit", "delete", "restore", ...
	NodeID string
	Err    error // one of the sentinel errors above
	Msg    string
}

func (e *NodeError) Error() string {
	s := e.Op
	if e.NodeID != "" {
		s += fmt.Sprintf(" %q", e.NodeID)
	}
	s += ": " + e.Err.Error()
	if e.Msg != "" {
		s += " (" + e.Msg + ")"
	}
	return s
}

func (e *NodeError) Unwrap() error { return e.Err }

func nodeErr(op, id string, err error, format string, args ...any) *NodeError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &NodeError{Op: op, NodeID: id, Err: err, Msg: msg}
}

// fieldErr reattaches a field-level validation failure to an operation.
func fieldErr(op, id string, err error) error {
	var ne *NodeError
	if errors.As(err, &ne) {
		return &NodeError{Op: op, NodeID: id, Err: ne.Err, Msg: ne.Msg}
	}
	return &NodeError{Op: op, NodeID: id, Err: err}
}
