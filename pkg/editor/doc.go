/*
Package editor implements the use cases of game authoring on top of a store.

A game tree is not safe for concurrent mutation, so every change to a game
runs inside Manager.WithLock: a per-game in-process mutex, optionally backed
by a distributed lock so that several replicas can share one store. Inside
the lock the game is loaded, mutated and saved back.
*/
package editor
