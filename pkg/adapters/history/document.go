package history

import (
	"fmt"
	"os"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/render"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the decoded form of a history file.
type Document struct {
	Options map[string]any `mapstructure:"options"`
	Nodes   []NodeEntry    `mapstructure:"nodes"`
	Agents  []AgentEntry   `mapstructure:"agents"`
}

// NodeEntry declares a plain commit node.
type NodeEntry struct {
	ID      string   `mapstructure:"id"`
	Label   string   `mapstructure:"label"`
	Parents []string `mapstructure:"parents"`
}

// AgentEntry declares a workflow node.
type AgentEntry struct {
	ID       string   `mapstructure:"id"`
	Name     string   `mapstructure:"name"`
	Parent   string   `mapstructure:"parent"`
	WaitsOn  []string `mapstructure:"waits_on"`
	State    string   `mapstructure:"state"`
	Activity string   `mapstructure:"activity"`
	Progress string   `mapstructure:"progress"`
	Turns    int      `mapstructure:"turns"`
}

// IsWorkflow reports whether the document declares agents.
func (d *Document) IsWorkflow() bool {
	return len(d.Agents) > 0
}

// Parse decodes a YAML or JSON document. Unknown keys are rejected so typos surface
// instead of silently producing a different graph.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse history document: %w", err)
	}

	var doc Document
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid history document: %w", err)
	}
	return &doc, nil
}

// ParseFile reads and decodes a history file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return Parse(data)
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// RenderOptions merges the document's options block over base.
func (d *Document) RenderOptions(base render.Options) (render.Options, error) {
	opts := base
	if len(d.Options) == 0 {
		return opts, nil
	}
	if err := decode(d.Options, &opts); err != nil {
		return base, fmt.Errorf("invalid options block: %w", err)
	}
	style, ok := render.ParseStyle(string(opts.Style))
	if !ok {
		return base, fmt.Errorf("invalid options block: unknown style %q", opts.Style)
	}
	opts.Style = style
	return opts, nil
}

// Snapshot converts the document into a graph snapshot. Agents get a status overlay;
// plain nodes do not. Validation of ids and parents happens when the snapshot is
// restored into a renderer.
func (d *Document) Snapshot() (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Nodes: make([]domain.Node, 0, len(d.Nodes)+len(d.Agents))}
	for _, n := range d.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		snap.Nodes = append(snap.Nodes, domain.Node{
			ID:      n.ID,
			Label:   label,
			Parents: n.Parents,
		})
	}
	for _, a := range d.Agents {
		state, err := domain.ParseAgentState(a.State)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.ID, err)
		}
		if a.Turns < 0 {
			return nil, fmt.Errorf("agent %q: negative turn count %d", a.ID, a.Turns)
		}
		var parents []string
		if a.Parent != "" {
			parents = append(parents, a.Parent)
		}
		parents = append(parents, a.WaitsOn...)
		label := a.Name
		if label == "" {
			label = a.ID
		}
		snap.Nodes = append(snap.Nodes, domain.Node{
			ID:         a.ID,
			Label:      label,
			Parents:    parents,
			HasOverlay: true,
			Overlay: domain.Overlay{
				State:    state,
				Activity: a.Activity,
				Progress: a.Progress,
				Turns:    a.Turns,
			},
		})
	}
	return snap, nil
}

// Load builds a renderer from the document. Options given by the caller are applied
// after the document's options block, so command-line flags win.
func (d *Document) Load(base render.Options, opts ...gitgraph.Option) (*gitgraph.AgentRenderer, error) {
	renderOpts, err := d.RenderOptions(base)
	if err != nil {
		return nil, err
	}
	snap, err := d.Snapshot()
	if err != nil {
		return nil, err
	}

	all := append([]gitgraph.Option{gitgraph.WithOptions(renderOpts)}, opts...)
	a := gitgraph.NewAgentRenderer(all...)
	if err := a.Restore(snap); err != nil {
		return nil, err
	}
	return a, nil
}

// Render draws the document: as a workflow when it declares agents, as a commit
// graph otherwise.
func (d *Document) Render(base render.Options, opts ...gitgraph.Option) (string, error) {
	a, err := d.Load(base, opts...)
	if err != nil {
		return "", err
	}
	if d.IsWorkflow() {
		return a.Render()
	}
	return a.Graph().Render()
}
