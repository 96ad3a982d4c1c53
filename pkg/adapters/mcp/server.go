package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/internal/logging"
	"github.com/aretw0/gitgraph/internal/presentation/graph"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource exposing the current graph snapshot.
const GraphURI = "gitgraph://graph"

// AgentArgs are the arguments of the add_agent tool.
type AgentArgs struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	WaitsOn  []string `json:"waits_on,omitempty"`
	State    string   `json:"state,omitempty"`
	Activity string   `json:"activity,omitempty"`
	Progress string   `json:"progress,omitempty"`
}

// UpdateArgs are the arguments of the update_agent tool.
type UpdateArgs struct {
	ID             string  `json:"id"`
	State          *string `json:"state,omitempty"`
	Activity       *string `json:"activity,omitempty"`
	Progress       *string `json:"progress,omitempty"`
	IncrementTurns bool    `json:"increment_turns,omitempty"`
}

// RenderArgs are the arguments of the render_graph tool.
type RenderArgs struct {
	Format string `json:"format,omitempty"`
	Focus  string `json:"focus,omitempty"`
}

// Server exposes a Tracker as an MCP server.
type Server struct {
	tracker   *tracker.Tracker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(t *tracker.Tracker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		tracker:   t,
		logger:    logger,
		mcpServer: server.NewMCPServer("gitgraph-mcp", strings.TrimSpace(gitgraph.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	addTool := mcp.NewTool("add_agent",
		mcp.WithDescription("Add an agent to the workflow graph. The agent forks from parent and waits on every id in waits_on."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Unique agent id")),
		mcp.WithString("name", mcp.Description("Display name (defaults to id)")),
		mcp.WithString("parent", mcp.Description("Primary parent id")),
		mcp.WithArray("waits_on", mcp.Description("Additional parent ids"), mcp.WithStringItems()),
		mcp.WithString("state", mcp.Description("pending, running, completed or failed"),
			mcp.Enum(string(domain.StatePending), string(domain.StateRunning), string(domain.StateCompleted), string(domain.StateFailed))),
		mcp.WithString("activity", mcp.Description("Current activity line")),
		mcp.WithString("progress", mcp.Description("Free-form progress, e.g. 3/10")),
		mcp.WithOutputSchema[domain.Node](),
	)
	s.mcpServer.AddTool(addTool, mcp.NewStructuredToolHandler(s.handleAddAgent))

	updateTool := mcp.NewTool("update_agent",
		mcp.WithDescription("Update the status overlay of an agent. Fields left out are unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Agent id")),
		mcp.WithString("state", mcp.Description("New lifecycle state")),
		mcp.WithString("activity", mcp.Description("New activity line")),
		mcp.WithString("progress", mcp.Description("New progress")),
		mcp.WithBoolean("increment_turns", mcp.Description("Count one more turn")),
		mcp.WithOutputSchema[domain.Node](),
	)
	s.mcpServer.AddTool(updateTool, mcp.NewStructuredToolHandler(s.handleUpdateAgent))

	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the workflow graph as text or as a Mermaid flowchart."),
		mcp.WithString("format", mcp.Description("text (default) or mermaid"), mcp.Enum("text", "mermaid")),
		mcp.WithString("focus", mcp.Description("Comma-separated ids to highlight (mermaid only)")),
	), s.handleRender)

	s.mcpServer.AddTool(mcp.NewTool("graph_stats",
		mcp.WithDescription("Return node, edge and lane counts."),
		mcp.WithOutputSchema[domain.Stats](),
	), mcp.NewStructuredToolHandler(s.handleStats))

	s.mcpServer.AddTool(mcp.NewTool("clear_graph",
		mcp.WithDescription("Remove every node from the graph."),
	), s.handleClear)
}

func (s *Server) handleAddAgent(ctx context.Context, request mcp.CallToolRequest, args AgentArgs) (domain.Node, error) {
	var state domain.AgentState
	if args.State != "" {
		parsed, err := domain.ParseAgentState(args.State)
		if err != nil {
			return domain.Node{}, err
		}
		state = parsed
	}
	err := s.tracker.AddAgent(ctx, gitgraph.Agent{
		ID:              args.ID,
		Name:            args.Name,
		State:           state,
		ParentID:        args.Parent,
		WaitsOn:         args.WaitsOn,
		CurrentActivity: args.Activity,
		Progress:        args.Progress,
	})
	if err != nil {
		s.logger.Warn("MCP add_agent rejected", "id", args.ID, "err", err)
		return domain.Node{}, fmt.Errorf("add_agent failed: %w", err)
	}
	return s.tracker.Node(args.ID)
}

func (s *Server) handleUpdateAgent(ctx context.Context, request mcp.CallToolRequest, args UpdateArgs) (domain.Node, error) {
	patch := tracker.AgentPatch{
		Activity:       args.Activity,
		Progress:       args.Progress,
		IncrementTurns: args.IncrementTurns,
	}
	if args.State != nil {
		state, err := domain.ParseAgentState(*args.State)
		if err != nil {
			return domain.Node{}, err
		}
		patch.State = &state
	}
	if patch.Empty() {
		return domain.Node{}, errors.New("update_agent: nothing to update")
	}
	node, err := s.tracker.UpdateAgent(ctx, args.ID, patch)
	if err != nil {
		s.logger.Warn("MCP update_agent rejected", "id", args.ID, "err", err)
		return domain.Node{}, fmt.Errorf("update_agent failed: %w", err)
	}
	return node, nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args RenderArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	out, err := s.render(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) render(args RenderArgs) (string, error) {
	switch args.Format {
	case "", "text":
		out, err := s.tracker.Render()
		if err != nil {
			return "", fmt.Errorf("render failed: %w", err)
		}
		return out, nil
	case "mermaid":
		var overlay *graph.GraphOverlay
		if args.Focus != "" {
			overlay = &graph.GraphOverlay{Focus: strings.Split(args.Focus, ",")}
		}
		return graph.GenerateMermaid(s.tracker.Snapshot().Nodes, overlay), nil
	default:
		return "", fmt.Errorf("unknown format %q", args.Format)
	}
}

func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Stats, error) {
	return s.tracker.Stats()
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.tracker.Clear(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return mcp.NewToolResultText("graph cleared"), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current workflow graph",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.tracker.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
