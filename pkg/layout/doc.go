/*
Package layout converts a node set into rows and lanes.

Rows follow a topological order where insertion sequence breaks ties, so the same
sequence of AddNode calls always yields the same layout.

Columns follow an active lanes model. Every edge parent -> child owns exactly one
lane from the parent's row down to the child's row:

  - a root opens a lane at the lowest free column;
  - a node continues in the lane of its first parent, and the lanes of its other
    parents close at its row (merge), freeing their columns;
  - after a node is placed its first child (in row order) inherits its column, and
    every further child gets a new lane at the lowest free column (branch point);
  - a node without children closes its lane.

Because freed columns are reused, MaxColumn is bounded by the peak number of
simultaneously open lanes rather than by the node count.
*/
package layout
