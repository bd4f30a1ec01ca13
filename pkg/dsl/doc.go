/*
Package dsl provides a fluent builder for constructing game trees in Go code.

It is a thin layer over the domain tree protocol: every declared node is
replayed through (*domain.Node).AddNode in declaration order, so a built tree
obeys exactly the same rules as one assembled through the API.

Example usage:

	b := dsl.New("hall", "Hall", "A long hall with a lever.")

	b.Flag("lever", "Lever pulled").Under("hall")
	b.Choice("pull", "Pull the lever").Under("hall")
	b.Condition("lever-on", "lever", domain.FlagActive).Under("pull")
	b.Room("cellar", "Cellar", "A trapdoor opens.").Under("lever-on")

	root, err := b.Build()

Nodes declared without Under are attached to the root.
*/
package dsl
