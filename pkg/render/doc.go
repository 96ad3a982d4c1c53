// Package render turns a computed layout into text.
//
// Each row produces a node line (lane bars, the node marker and the label), optionally
// preceded by a merge connector and followed by a fork connector. Connectors draw a
// junction at the node column, a corner at every lane that opens or closes, and a
// horizontal run in between, so lines trace continuously from a parent to each child.
//
// Rendering is pure: the same nodes and layout always yield the same string.
package render
