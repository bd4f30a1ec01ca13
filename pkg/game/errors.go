package game

import "errors"

var (
	// ErrGameNotFound is returned by stores and services when a game id is unknown.
	ErrGameNotFound = errors.New("game not found")

	// ErrForbidden is returned when a user may not view or modify a game.
	ErrForbidden = errors.New("forbidden")

	// ErrRootNotExists is returned when editing or deleting nodes of a game without a root.
	ErrRootNotExists = errors.New("game has no root node")

	// ErrNotRootNode is returned when the first node of a game is not attached to RootParentID.
	ErrNotRootNode = errors.New("first node must use the root parent id")

	// ErrIllegalRootType is returned when the first node of a game is not a Room.
	ErrIllegalRootType = errors.New("root node must be a room")
)
