/*
Package quester is the authoring backend of a branching text adventure
platform.

A game is a tree of nodes. Rooms hold choices and flags, choices lead to
rooms or to conditions, and a condition gates its subtree on the state of a
flag. The tree enforces its shape on every change: which node types a parent
accepts, unique ids, at most one room below a room, and conditions that only
point at existing flags. Deleting a flag removes every condition that tests
it.

# Layout

  - pkg/domain: the node tree and its operations (add, edit, delete, find).
  - pkg/dsl: a fluent builder for trees in Go code and tests.
  - pkg/game: the Game aggregate, with ownership, publication and its document form.
  - pkg/editor: serialized load, mutate and save use cases over a ports.GameStore.
  - pkg/adapters: stores (memory, file, redis, sqlite), a Loam library, and the HTTP and MCP front ends.

# Usage

	root, _ := domain.NewRoom("hall", "Hall", "A long hall")
	name := "Lever"
	_, err := root.AddNode(domain.AddRequest{
		ID:       "lever",
		ParentID: "hall",
		Type:     domain.NodeTypeFlag,
		Name:     &name,
	})

The quester command (cmd/quester) serves games over HTTP or MCP and can
validate, outline or graph game files.
*/
package quester
