/*
Package ports defines the driven ports (interfaces) used by the gitgraph host code.

The rendering engine itself has no dependencies; these interfaces let the tracker
persist graphs to various storage backends.

# Key Interfaces

  - SnapshotStore: Responsible for persisting and loading graph snapshots by key
    (in memory, as JSON files, or in Redis).
*/
package ports
