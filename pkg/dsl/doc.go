/*
Package dsl provides a fluent Go builder for commit and workflow graphs.

It lets callers declare a graph in code and hand it to the renderer in one step,
which keeps tests and demo drivers short:

	b := dsl.New()
	b.Add("a1").Label("Initial commit")
	b.Add("a2").Label("Add parser").After("a1")
	b.Add("b1").Label("Start feature").After("a1")
	b.Add("a3").Label("Merge feature").After("a2", "b1")

	g, err := b.Build(gitgraph.WithStyle(render.StyleUnicode))

FromTree builds the same kind of graph from a parent to children map.
*/
package dsl
