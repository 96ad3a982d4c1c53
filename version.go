package gitgraph

// Version is the release of the gitgraph module.
var Version = "0.3.0"
