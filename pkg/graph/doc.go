// Package graph implements the Graph Store: the exclusive owner of Node records.
//
// Nodes live in an arena indexed by a stable integer handle (their insertion
// sequence). A secondary id -> handle table resolves parent references, so nodes
// only ever refer to each other by ID.
//
// The store enforces identity (unique, non-empty IDs) and edge validity (every
// parent must exist before a child references it). Since parents always precede
// their children, the stored graph is acyclic by construction.
//
// A Store is not safe for concurrent use. Hosts that share one across goroutines
// must provide their own mutual exclusion.
package graph
