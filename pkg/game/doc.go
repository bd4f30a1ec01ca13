// Package game wraps a domain node tree into an authored, publishable game.
//
// It owns what the tree deliberately does not: metadata, authorship checks,
// creation of the root Room and the document shape that stores persist.
package game
