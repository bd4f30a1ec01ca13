package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/quester"
	"github.com/aretw0/quester/internal/logging"
	"github.com/aretw0/quester/internal/presentation/graph"
	"github.com/aretw0/quester/internal/sanitize"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// Editor defines the use cases the MCP server needs. *editor.Manager
// implements it.
type Editor interface {
	Get(ctx context.Context, id string, viewer *game.User) (*game.Game, error)
	List(ctx context.Context, viewer *game.User) ([]game.Summary, error)
	AddNode(ctx context.Context, gameID string, u game.User, req domain.AddRequest) (*domain.Node, error)
	EditNode(ctx context.Context, gameID string, u game.User, nodeID string, req domain.EditRequest) (*domain.Node, error)
	DeleteNode(ctx context.Context, gameID string, u game.User, nodeID string) (domain.Removal, error)
}

// ListGamesResponse wraps the visible games.
type ListGamesResponse struct {
	Games []game.Summary `json:"games" jsonschema_description:"Games visible to the acting user"`
}

// DeleteNodeResponse reports what a deletion removed.
type DeleteNodeResponse struct {
	Removed  domain.Snapshot `json:"removed" jsonschema_description:"The removed node and its subtree"`
	Cascaded []string        `json:"cascaded" jsonschema_description:"Conditions dropped because they referenced the removed flag"`
}

// Server exposes the editor as an MCP Server. Every call acts as one user.
type Server struct {
	editor    Editor
	user      game.User
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server acting as user.
func NewServer(ed Editor, user game.User, opts ...Option) *Server {
	s := &Server{
		editor:    ed,
		user:      user,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("quester-mcp", strings.TrimSpace(quester.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Node trees are recursive, so only list_games declares an output schema.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_games",
		mcp.WithDescription("List the games visible to the acting user."),
		mcp.WithOutputSchema[ListGamesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListGames))

	s.mcpServer.AddTool(mcp.NewTool("get_game",
		mcp.WithDescription("Get a game with its full node tree."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
	), mcp.NewStructuredToolHandler(s.handleGetGame))

	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a node under parent_id. The first node of a game must be a ROOM whose parent_id is \""+game.RootParentID+"\"."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("id", mcp.Required(), mcp.Description("New node ID, unique within the game")),
		mcp.WithString("parent_id", mcp.Required(), mcp.Description("Parent node ID")),
		mcp.WithString("type", mcp.Required(), mcp.Enum("ROOM", "CHOICE", "FLAG", "CONDITION"), mcp.Description("Node type")),
		mcp.WithString("name", mcp.Description("Name (ROOM, CHOICE, FLAG)")),
		mcp.WithString("description", mcp.Description("Description (ROOM)")),
		mcp.WithString("flag_id", mcp.Description("Flag tested by a CONDITION")),
		mcp.WithString("flag_state", mcp.Enum("ACTIVE", "NOT_ACTIVE"), mcp.Description("Expected flag state (CONDITION)")),
	), mcp.NewStructuredToolHandler(s.handleAddNode))

	s.mcpServer.AddTool(mcp.NewTool("edit_node",
		mcp.WithDescription("Edit a node. Only the fields used by the node's type are read."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
		mcp.WithString("name", mcp.Description("New name (ROOM, CHOICE, FLAG)")),
		mcp.WithString("description", mcp.Description("New description (ROOM)")),
		mcp.WithString("flag_id", mcp.Description("New flag (CONDITION)")),
		mcp.WithString("flag_state", mcp.Enum("ACTIVE", "NOT_ACTIVE"), mcp.Description("New expected state (CONDITION)")),
	), mcp.NewStructuredToolHandler(s.handleEditNode))

	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and its subtree. Deleting a FLAG also removes every CONDITION that tests it."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
	), mcp.NewStructuredToolHandler(s.handleDeleteNode))

	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render a game tree as a Mermaid flowchart."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
	), s.handleRenderGraph)
}

type gameArgs struct {
	GameID string `mapstructure:"game_id"`
}

type addNodeArgs struct {
	GameID      string  `mapstructure:"game_id"`
	ID          string  `mapstructure:"id"`
	ParentID    string  `mapstructure:"parent_id"`
	Type        string  `mapstructure:"type"`
	Name        *string `mapstructure:"name"`
	Description *string `mapstructure:"description"`
	FlagID      *string `mapstructure:"flag_id"`
	FlagState   string  `mapstructure:"flag_state"`
}

type editNodeArgs struct {
	GameID      string  `mapstructure:"game_id"`
	NodeID      string  `mapstructure:"node_id"`
	Name        *string `mapstructure:"name"`
	Description *string `mapstructure:"description"`
	FlagID      *string `mapstructure:"flag_id"`
	FlagState   string  `mapstructure:"flag_state"`
}

type nodeArgs struct {
	GameID string `mapstructure:"game_id"`
	NodeID string `mapstructure:"node_id"`
}

func decodeArgs(args map[string]any, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleListGames(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (ListGamesResponse, error) {
	games, err := s.editor.List(ctx, &s.user)
	if err != nil {
		return ListGamesResponse{}, fmt.Errorf("list failed: %w", err)
	}
	return ListGamesResponse{Games: games}, nil
}

func (s *Server) handleGetGame(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (game.Document, error) {
	var a gameArgs
	if err := decodeArgs(args, &a); err != nil {
		return game.Document{}, err
	}
	g, err := s.editor.Get(ctx, a.GameID, &s.user)
	if err != nil {
		return game.Document{}, fmt.Errorf("get failed: %w", err)
	}
	return g.Document(), nil
}

func (s *Server) handleAddNode(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (domain.Snapshot, error) {
	var a addNodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return domain.Snapshot{}, err
	}
	req := domain.AddRequest{
		ID:          sanitize.Input(a.ID),
		ParentID:    sanitize.Input(a.ParentID),
		Name:        sanitize.Ptr(a.Name),
		Description: sanitize.Ptr(a.Description),
		FlagID:      sanitize.Ptr(a.FlagID),
	}
	var typeErr, stateErr error
	req.Type, typeErr = sanitize.NodeType("type", a.Type)
	req.FlagState, stateErr = sanitize.FlagState("flag_state", a.FlagState)
	if err := firstErr(
		typeErr,
		stateErr,
		sanitize.Short("id", req.ID),
		sanitize.Length("name", req.Name, domain.MaxShortStringSize),
		sanitize.Length("description", req.Description, domain.MaxLongStringSize),
		sanitize.Length("flag_id", req.FlagID, domain.MaxShortStringSize),
	); err != nil {
		s.logger.Warn("MCP add_node: Input rejected", "err", err)
		return domain.Snapshot{}, err
	}

	n, err := s.editor.AddNode(ctx, a.GameID, s.user, req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("add failed: %w", err)
	}
	return n.Snapshot(), nil
}

func (s *Server) handleEditNode(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (domain.Snapshot, error) {
	var a editNodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return domain.Snapshot{}, err
	}
	req := domain.EditRequest{
		Name:        sanitize.Ptr(a.Name),
		Description: sanitize.Ptr(a.Description),
		FlagID:      sanitize.Ptr(a.FlagID),
	}
	var stateErr error
	req.FlagState, stateErr = sanitize.FlagState("flag_state", a.FlagState)
	if err := firstErr(
		stateErr,
		sanitize.Length("name", req.Name, domain.MaxShortStringSize),
		sanitize.Length("description", req.Description, domain.MaxLongStringSize),
		sanitize.Length("flag_id", req.FlagID, domain.MaxShortStringSize),
	); err != nil {
		s.logger.Warn("MCP edit_node: Input rejected", "err", err)
		return domain.Snapshot{}, err
	}

	n, err := s.editor.EditNode(ctx, a.GameID, s.user, a.NodeID, req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("edit failed: %w", err)
	}
	return n.Snapshot(), nil
}

func (s *Server) handleDeleteNode(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (DeleteNodeResponse, error) {
	var a nodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return DeleteNodeResponse{}, err
	}
	rm, err := s.editor.DeleteNode(ctx, a.GameID, s.user, a.NodeID)
	if err != nil {
		return DeleteNodeResponse{}, fmt.Errorf("delete failed: %w", err)
	}
	resp := DeleteNodeResponse{Cascaded: []string{}}
	if rm.Node != nil {
		resp.Removed = rm.Node.Snapshot()
	}
	for _, c := range rm.Cascaded {
		resp.Cascaded = append(resp.Cascaded, c.ID())
	}
	return resp, nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.editor.Get(ctx, gameID, &s.user)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g.Root(), nil)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: quester://games
	s.mcpServer.AddResource(mcp.NewResource("quester://games", "Visible games",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		games, err := s.editor.List(ctx, &s.user)
		if err != nil {
			return nil, fmt.Errorf("failed to list games: %w", err)
		}
		jsonBytes, _ := json.Marshal(games)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "quester://games",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
