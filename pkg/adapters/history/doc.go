/*
Package history loads commit and workflow graphs from YAML or JSON documents.

A document has an optional options block, a list of plain nodes and a list of agents:

	options:
	  style: unicode
	  max_label_width: 30
	nodes:
	  - id: a1
	    label: Initial commit
	  - id: a2
	    label: Add parser
	    parents: [a1]
	agents:
	  - id: review
	    name: Reviewer
	    parent: a2
	    state: running
	    activity: Reading diff

Nodes are inserted first, in document order, then agents. A document with at least one
agent renders as a workflow.
*/
package history
