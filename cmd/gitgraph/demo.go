package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/dsl"
	"github.com/aretw0/gitgraph/pkg/render"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Draw the built-in example graphs",
}

var demoGitCmd = &cobra.Command{
	Use:   "git",
	Short: "Draw commit histories: linear, branch and merge, parallel teams, git flow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGitDemo(cmd.OutOrStdout())
	},
}

var demoAgentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Replay a merge-conflict workflow with a coordinator, workers and CI",
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, _ := cmd.Flags().GetDuration("delay")
		return runAgentDemo(cmd.Context(), cmd.OutOrStdout(), delay)
	},
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

func printGraph(w io.Writer, r *gitgraph.Renderer) error {
	out, err := r.Render()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

type commit struct {
	id, label string
	parents   []string
}

func addCommits(r *gitgraph.Renderer, commits []commit) error {
	for _, c := range commits {
		if err := r.AddNode(c.id, c.label, c.parents...); err != nil {
			return err
		}
	}
	return nil
}

func runGitDemo(w io.Writer) error {
	section(w, "Linear history")
	linear := gitgraph.New()
	if err := addCommits(linear, []commit{
		{"1", "Initial commit", nil},
		{"2", "Add feature A", []string{"1"}},
		{"3", "Fix bug in feature A", []string{"2"}},
		{"4", "Add documentation", []string{"3"}},
		{"5", "Update tests", []string{"4"}},
	}); err != nil {
		return err
	}
	if err := printGraph(w, linear); err != nil {
		return err
	}

	section(w, "Branch and merge")
	b := dsl.New()
	b.Add("m1").Label("Initial commit")
	b.Add("m2").Label("Main: Add core feature").After("m1")
	b.Add("f1").Label("Feature: Start new feature").After("m1")
	b.Add("f2").Label("Feature: Complete feature").After("f1")
	b.Add("m3").Label("Merge feature into main").After("m2", "f2")
	b.Add("m4").Label("Main: Continue development").After("m3")
	branch, err := b.Build()
	if err != nil {
		return err
	}
	if err := printGraph(w, branch); err != nil {
		return err
	}

	section(w, "Parallel development")
	parallel := gitgraph.New(gitgraph.WithStyle(render.StyleUnicode))
	if err := addCommits(parallel, []commit{
		{"trunk", "Production release v1.0", nil},
		{"teamA-1", "Team A: Database refactor", []string{"trunk"}},
		{"teamA-2", "Team A: Add migrations", []string{"teamA-1"}},
		{"teamA-3", "Team A: Performance optimizations", []string{"teamA-2"}},
		{"teamB-1", "Team B: New API endpoints", []string{"trunk"}},
		{"teamB-2", "Team B: API documentation", []string{"teamB-1"}},
		{"teamB-3", "Team B: Integration tests", []string{"teamB-2"}},
		{"teamC-1", "Team C: UI redesign", []string{"teamA-1"}},
		{"teamC-2", "Team C: Add dark mode", []string{"teamC-1"}},
		{"int-1", "Integration: Merge Team A", []string{"trunk", "teamA-3"}},
		{"int-2", "Integration: Merge Team B", []string{"int-1", "teamB-3"}},
		{"int-3", "Integration: Merge Team C", []string{"int-2", "teamC-2"}},
		{"trunk2", "Production release v2.0", []string{"int-3"}},
	}); err != nil {
		return err
	}
	if err := printGraph(w, parallel); err != nil {
		return err
	}
	stats, err := parallel.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nStats: %d nodes, %d edges, %d columns used\n", stats.Nodes, stats.Edges, stats.Columns())

	section(w, "Git flow (compact)")
	flow, err := dsl.FromTree(map[string][]string{
		"master-1":  {"develop-1", "master-2"},
		"develop-1": {"feature-1", "develop-2"},
		"feature-1": {"develop-2"},
		"develop-2": {"release-1"},
		"release-1": {"master-2", "develop-3"},
		"master-2":  {"hotfix-1"},
		"hotfix-1":  {"develop-3"},
	}, map[string]string{
		"master-1":  "master: v1.0.0",
		"develop-1": "develop: Start v1.1",
		"feature-1": "feature/auth: Complete",
		"develop-2": "develop: Merge auth",
		"release-1": "release/1.1: Ready",
		"master-2":  "master: v1.1.0",
		"hotfix-1":  "hotfix/1.1.1: Critical fix",
		"develop-3": "develop: Merge hotfix",
	}, gitgraph.WithCompact(true))
	if err != nil {
		return err
	}
	if err := printGraph(w, flow); err != nil {
		return err
	}

	section(w, "Programmatic graph, then cleared")
	prog := gitgraph.New(gitgraph.WithMaxLabelWidth(24))
	prev := ""
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("step-%d", i)
		var parents []string
		if prev != "" {
			parents = append(parents, prev)
		}
		if err := prog.AddNode(id, fmt.Sprintf("Generated step %d of a long running pipeline", i), parents...); err != nil {
			return err
		}
		prev = id
	}
	if err := printGraph(w, prog); err != nil {
		return err
	}
	prog.Clear()
	fmt.Fprintln(w)
	return printGraph(w, prog)
}

// agentStep is one frame of the workflow replay.
type agentStep struct {
	title string
	apply func(a *gitgraph.AgentRenderer) error
}

func agentSteps() []agentStep {
	const coord = "coordinator-001"
	return []agentStep{
		{"Initial state", func(a *gitgraph.AgentRenderer) error {
			return a.AddAgent(gitgraph.Agent{
				ID: coord, Name: "Merge Coordinator", State: domain.StateRunning,
				CurrentActivity: "Scanning repository for conflicts", Progress: "0/5 files",
			})
		}},
		{"Workers spawned", func(a *gitgraph.AgentRenderer) error {
			return firstErr(
				a.UpdateAgentActivity(coord, "Found 3 merge conflicts, spawning workers"),
				a.UpdateAgentProgress(coord, "3/5 files"),
				a.AddAgent(gitgraph.Agent{
					ID: "worker-main-002", Name: "Conflict Resolver: main.rs", State: domain.StateRunning,
					ParentID: coord, CurrentActivity: "Analyzing merge conflict in main.rs", Progress: "0/4 steps",
				}),
				a.AddAgent(gitgraph.Agent{
					ID: "worker-utils-003", Name: "Conflict Resolver: utils.rs", State: domain.StateRunning,
					ParentID: coord, CurrentActivity: "Starting conflict resolution", Progress: "0/3 steps",
				}),
			)
		}},
		{"Workers making progress", func(a *gitgraph.AgentRenderer) error {
			_, errMain := a.IncrementAgentTurns("worker-main-002")
			_, errUtils := a.IncrementAgentTurns("worker-utils-003")
			return firstErr(
				a.UpdateAgentActivity("worker-main-002", "Applying merge strategy"),
				a.UpdateAgentProgress("worker-main-002", "2/4 steps"),
				errMain,
				a.UpdateAgentActivity("worker-utils-003", "Resolving import conflicts"),
				a.UpdateAgentProgress("worker-utils-003", "1/3 steps"),
				errUtils,
			)
		}},
		{"First worker completed", func(a *gitgraph.AgentRenderer) error {
			return firstErr(
				a.UpdateAgentActivity("worker-main-002", "Conflict resolved successfully"),
				a.UpdateAgentState("worker-main-002", domain.StateCompleted),
				a.UpdateAgentProgress(coord, "4/5 files"),
			)
		}},
		{"CI runner started", func(a *gitgraph.AgentRenderer) error {
			return firstErr(
				a.UpdateAgentActivity("worker-utils-003", "All conflicts resolved"),
				a.UpdateAgentState("worker-utils-003", domain.StateCompleted),
				a.UpdateAgentProgress(coord, "5/5 files"),
				a.AddAgent(gitgraph.Agent{
					ID: "ci-runner-004", Name: "CI Verification", State: domain.StateRunning,
					ParentID: coord, WaitsOn: []string{"worker-main-002", "worker-utils-003"},
					CurrentActivity: "Running test suite", Progress: "0/2 stages",
				}),
			)
		}},
		{"Final result", func(a *gitgraph.AgentRenderer) error {
			return firstErr(
				a.UpdateAgentActivity("ci-runner-004", "All tests passed"),
				a.UpdateAgentState("ci-runner-004", domain.StateCompleted),
				a.UpdateAgentProgress("ci-runner-004", "2/2 stages"),
				a.UpdateAgentActivity(coord, "Merge conflict resolution complete"),
				a.UpdateAgentState(coord, domain.StateCompleted),
			)
		}},
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func runAgentDemo(ctx context.Context, w io.Writer, delay time.Duration) error {
	a := gitgraph.NewAgentRenderer()
	for i, step := range agentSteps() {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := step.apply(a); err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
		if err := a.BuildGraph(); err != nil {
			return err
		}
		out, err := a.RenderASCII()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n%s\n\n", step.title, out)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoGitCmd)
	demoCmd.AddCommand(demoAgentsCmd)

	demoAgentsCmd.Flags().Duration("delay", 300*time.Millisecond, "Pause between workflow steps")
}
