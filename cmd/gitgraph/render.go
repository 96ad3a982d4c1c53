package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/internal/presentation/graph"
	"github.com/aretw0/gitgraph/internal/presentation/tui"
	"github.com/aretw0/gitgraph/pkg/adapters/history"
	"github.com/aretw0/gitgraph/pkg/render"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a history document",
	Long: `Reads a YAML or JSON history document and draws it.

Documents with an agents list render as a workflow with status glyphs; documents
with only a nodes list render as a commit graph. Flags override the document's
options block.

Formats:
- ascii (default): the lane graph as text
- mermaid: a Mermaid flowchart
- markdown: the graph and its stats as a rendered markdown report`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		opts, err := renderFlagOptions(cmd)
		if err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if watch {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchDocument(ctx, cmd.OutOrStdout(), args[0], format, opts)
		}

		doc, err := history.ParseFile(args[0])
		if err != nil {
			return err
		}
		out, err := renderDocument(doc, filepath.Base(args[0]), format, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// renderFlagOptions turns the flags the user actually set into renderer options.
func renderFlagOptions(cmd *cobra.Command) ([]gitgraph.Option, error) {
	flags := cmd.Flags()
	var opts []gitgraph.Option

	if flags.Changed("style") {
		raw, _ := flags.GetString("style")
		style, ok := render.ParseStyle(raw)
		if !ok {
			return nil, fmt.Errorf("unknown style %q (want ascii or unicode)", raw)
		}
		opts = append(opts, gitgraph.WithStyle(style))
	}
	if flags.Changed("no-labels") {
		noLabels, _ := flags.GetBool("no-labels")
		opts = append(opts, gitgraph.WithShowLabels(!noLabels))
	}
	if flags.Changed("max-label-width") {
		width, _ := flags.GetInt("max-label-width")
		opts = append(opts, gitgraph.WithMaxLabelWidth(width))
	}
	if flags.Changed("compact") {
		compact, _ := flags.GetBool("compact")
		opts = append(opts, gitgraph.WithCompact(compact))
	}

	color, _ := flags.GetString("color")
	switch color {
	case "auto":
		if tui.IsTerminal(os.Stdout) {
			opts = append(opts, gitgraph.WithColors(tui.ColorProfile(os.Stdout, false)))
		}
	case "always":
		opts = append(opts, gitgraph.WithColors(tui.ColorProfile(os.Stdout, true)))
	case "never":
		opts = append(opts, gitgraph.WithColors(termenv.Ascii))
	default:
		return nil, fmt.Errorf("unknown color mode %q (want auto, always or never)", color)
	}
	return opts, nil
}

// renderDocument draws doc in the requested format.
func renderDocument(doc *history.Document, title, format string, opts ...gitgraph.Option) (string, error) {
	switch format {
	case "", "ascii":
		return doc.Render(render.DefaultOptions(), opts...)
	case "mermaid":
		a, err := doc.Load(render.DefaultOptions(), opts...)
		if err != nil {
			return "", err
		}
		return graph.GenerateMermaid(a.Snapshot().Nodes, nil), nil
	case "markdown":
		text, err := doc.Render(render.DefaultOptions(), append(opts, gitgraph.WithColors(termenv.Ascii))...)
		if err != nil {
			return "", err
		}
		a, err := doc.Load(render.DefaultOptions(), opts...)
		if err != nil {
			return "", err
		}
		stats, err := a.Stats()
		if err != nil {
			return "", err
		}
		return tui.NewRenderer(tui.Width(os.Stdout))(tui.MarkdownReport(title, text, stats))
	default:
		return "", fmt.Errorf("unknown format %q (want ascii, mermaid or markdown)", format)
	}
}

func watchDocument(ctx context.Context, w io.Writer, path, format string, opts []gitgraph.Option) error {
	out := termenv.NewOutput(os.Stdout)
	clearScreen := tui.IsTerminal(os.Stdout) && w == io.Writer(os.Stdout)
	title := filepath.Base(path)

	logger.Info("Watching history document", "path", path)
	return history.Watch(ctx, path, history.DefaultDebounce, func(doc *history.Document, err error) {
		if err != nil {
			logger.Error("Reload failed", "path", path, "err", err)
			return
		}
		rendered, err := renderDocument(doc, title, format, opts...)
		if err != nil {
			logger.Error("Render failed", "path", path, "err", err)
			return
		}
		if clearScreen {
			out.ClearScreen()
		}
		fmt.Fprintln(w, rendered)
	})
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("style", "ascii", "Glyph style: ascii or unicode")
	cmd.Flags().String("format", "ascii", "Output format: ascii, mermaid or markdown")
	cmd.Flags().Bool("no-labels", false, "Draw the graph without labels")
	cmd.Flags().Int("max-label-width", render.DefaultMaxLabelWidth, "Truncate labels to this many cells")
	cmd.Flags().Bool("compact", false, "Drop spacer lines between rows")
	cmd.Flags().String("color", "auto", "Colour status glyphs: auto, always or never")
	cmd.Flags().Bool("watch", false, "Re-render whenever the file changes")
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addRenderFlags(renderCmd)
}
