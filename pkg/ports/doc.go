/*
Package ports defines the driven ports (interfaces) of Quester.

These interfaces keep the game model free of storage and coordination
concerns, allowing the editor to run over various backends.

# Key Interfaces

  - GameStore: persists games (memory, file, Redis, SQLite).
  - GameLibrary: read-only source of published games (e.g. a Loam repository).
  - DistributedLocker: serializes edits of one game across replicas.
*/
package ports
