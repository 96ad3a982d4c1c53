/*
Package domain contains the core models of the gitgraph engine.

It defines the records the Graph Store owns and the values the Layout Engine and
Renderer exchange. The package is kept pure: no I/O, no logging, no concurrency.

# Key Entities

  - Node: a graph vertex with a caller-supplied ID, a label and an ordered parent list.
  - Overlay: the optional workflow status fields (state, activity, progress, turns).
  - AgentState: the overlay lifecycle (pending, running, completed, failed).
  - Stats: node count, edge count and highest lane index of a layout.
  - Snapshot: a serialisable copy of a graph, replayable in insertion order.
*/
package domain
