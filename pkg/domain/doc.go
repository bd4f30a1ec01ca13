/*
Package domain contains the game-node tree at the heart of Quester.

A game is authored as a rooted tree of typed nodes. Every operation is invoked
on a node and acts on that node and its subtree; in practice it is always the
root of a game.

# Node kinds

  - Room: a location with a name and a description.
  - Choice: a labelled option offered to the player.
  - Flag: a named boolean marker.
  - Condition: a gate that references a Flag and the state it must be in.

Which kind may hang under which is fixed by a small policy table (see
NodeType.Accepts). A parent holds at most one Room child.

# Errors

Every failing operation returns a *NodeError wrapping exactly one of the
sentinel errors declared in errors.go, so callers branch with errors.Is.

The package performs no I/O and never logs. Callers that share a tree
between goroutines must serialize access themselves.
*/
package domain
