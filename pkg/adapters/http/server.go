package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/quester"
	"github.com/aretw0/quester/internal/logging"
	"github.com/aretw0/quester/internal/presentation/graph"
	"github.com/aretw0/quester/internal/sanitize"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/editor"
	"github.com/aretw0/quester/pkg/game"
	"github.com/go-chi/chi/v5"
)

// Identity headers. Authentication happens upstream; the API trusts them.
const (
	HeaderUser  = "X-Quester-User"
	HeaderAdmin = "X-Quester-Admin"
)

// Editor defines the use cases the API exposes. *editor.Manager implements it.
type Editor interface {
	Create(ctx context.Context, u game.User, p editor.CreateParams) (*game.Game, error)
	Get(ctx context.Context, id string, viewer *game.User) (*game.Game, error)
	List(ctx context.Context, viewer *game.User) ([]game.Summary, error)
	Update(ctx context.Context, id string, u game.User, up game.Update) (*game.Game, error)
	Delete(ctx context.Context, id string, u game.User) error
	AddNode(ctx context.Context, gameID string, u game.User, req domain.AddRequest) (*domain.Node, error)
	EditNode(ctx context.Context, gameID string, u game.User, nodeID string, req domain.EditRequest) (*domain.Node, error)
	DeleteNode(ctx context.Context, gameID string, u game.User, nodeID string) (domain.Removal, error)
}

var _ Editor = (*editor.Manager)(nil)

// Server holds the handlers of the REST API.
type Server struct {
	Editor  Editor
	Streams *StreamManager

	logger      *slog.Logger
	metrics     http.Handler
	maxBodySize int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for rejected and failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams sets the stream manager feeding GET /games/{gameID}/events.
// Its Hooks must be registered on the editor for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMaxBodySize overrides sanitize.DefaultMaxBodySize.
func WithMaxBodySize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// NewHandler creates a new HTTP handler for the editor.
func NewHandler(ed Editor, opts ...Option) http.Handler {
	s := &Server{
		Editor:      ed,
		logger:      logging.NewNop(),
		maxBodySize: sanitize.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/games", func(r chi.Router) {
		r.Get("/", s.ListGames)
		r.Post("/", s.CreateGame)
		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", s.GetGame)
			r.Patch("/", s.UpdateGame)
			r.Delete("/", s.DeleteGame)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/nodes", s.AddNode)
			r.Get("/nodes/{nodeID}", s.GetNode)
			r.Put("/nodes/{nodeID}", s.EditNode)
			r.Delete("/nodes/{nodeID}", s.DeleteNode)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderUser+", "+HeaderAdmin)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// viewer returns the caller, or nil for anonymous requests.
func viewer(r *http.Request) *game.User {
	name := strings.TrimSpace(r.Header.Get(HeaderUser))
	if name == "" {
		return nil
	}
	admin, _ := strconv.ParseBool(r.Header.Get(HeaderAdmin))
	return &game.User{Username: name, Admin: admin}
}

func requireUser(r *http.Request) (game.User, error) {
	u := viewer(r)
	if u == nil {
		return game.User{}, errMissingUser
	}
	return *u, nil
}

// decode reads, checks and decodes a JSON body into v.
func (s *Server) decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(s.maxBodySize)+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := sanitize.Body(body, s.maxBodySize); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "quester-http",
		"version": strings.TrimSpace(quester.Version),
	})
}

// ListGames handles GET /games.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.Editor.List(r.Context(), viewer(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// CreateGame handles POST /games.
func (s *Server) CreateGame(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body CreateGameRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := body.params()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.Editor.Create(r.Context(), u, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/games/"+g.ID())
	writeJSON(w, http.StatusCreated, g.Document())
}

// GetGame handles GET /games/{gameID}.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.Editor.Get(r.Context(), chi.URLParam(r, "gameID"), viewer(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Document())
}

// UpdateGame handles PATCH /games/{gameID}.
func (s *Server) UpdateGame(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body UpdateGameRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := body.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.Editor.Update(r.Context(), chi.URLParam(r, "gameID"), u, up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Document())
}

// DeleteGame handles DELETE /games/{gameID}.
func (s *Server) DeleteGame(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Editor.Delete(r.Context(), chi.URLParam(r, "gameID"), u); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /games/{gameID}/graph. Dangling conditions are
// highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Editor.Get(r.Context(), chi.URLParam(r, "gameID"), viewer(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var overlay *graph.GraphOverlay
	if root := g.Root(); root != nil {
		if dangling := root.DanglingConditions(); len(dangling) > 0 {
			overlay = &graph.GraphOverlay{}
			for _, n := range dangling {
				overlay.Warnings = append(overlay.Warnings, n.ID())
			}
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(g.Root(), overlay))
}

// GetNode handles GET /games/{gameID}/nodes/{nodeID} and returns the subtree.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	g, err := s.Editor.Get(r.Context(), chi.URLParam(r, "gameID"), viewer(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if g.Root() == nil {
		s.writeError(w, r, game.ErrRootNotExists)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	n := g.Root().FindByID(nodeID)
	if n == nil {
		s.writeError(w, r, &domain.NodeError{Op: "find", NodeID: nodeID, Err: domain.ErrNodeNotFound})
		return
	}
	writeJSON(w, http.StatusOK, n.Snapshot())
}

// AddNode handles POST /games/{gameID}/nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body AddNodeRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := body.request()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.Editor.AddNode(r.Context(), chi.URLParam(r, "gameID"), u, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n.Snapshot())
}

// EditNode handles PUT /games/{gameID}/nodes/{nodeID}.
func (s *Server) EditNode(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body EditNodeRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := body.request()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.Editor.EditNode(r.Context(), chi.URLParam(r, "gameID"), u, chi.URLParam(r, "nodeID"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n.Snapshot())
}

// DeleteNode handles DELETE /games/{gameID}/nodes/{nodeID}.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	u, err := requireUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rm, err := s.Editor.DeleteNode(r.Context(), chi.URLParam(r, "gameID"), u, chi.URLParam(r, "nodeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeleteNodeResponse(rm))
}

// SubscribeEvents handles GET /games/{gameID}/events (SSE). The optional
// watch query parameter filters by operation, e.g. ?watch=add,delete.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	gameID := chi.URLParam(r, "gameID")
	if _, err := s.Editor.Get(r.Context(), gameID, viewer(r)); err != nil {
		s.writeError(w, r, err)
		return
	}

	watch := make(map[string]bool)
	if v := r.URL.Query().Get("watch"); v != "" {
		for _, op := range strings.Split(v, ",") {
			watch[strings.TrimSpace(op)] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(gameID)
	defer cancel()

	s.logger.Info("SSE: Subscribing to game updates", "game_id", gameID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "game_id", gameID)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watch[string(e.Op)] {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", e.encode())
			flusher.Flush()
		}
	}
}
