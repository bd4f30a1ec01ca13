package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/quester/pkg/observability"
)

// Event is the SSE payload sent for each successful change to a game.
type Event struct {
	Op       observability.Op `json:"op"`
	GameID   string           `json:"game_id"`
	NodeID   string           `json:"node_id,omitempty"`
	NodeType string           `json:"node_type,omitempty"`
	User     string           `json:"user,omitempty"`
	Cascaded []string         `json:"cascaded,omitempty"`
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Event]struct{} // GameID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Event]struct{}),
	}
}

func (sm *StreamManager) Subscribe(gameID string) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 10)
	if _, ok := sm.subscribers[gameID]; !ok {
		sm.subscribers[gameID] = make(map[chan<- Event]struct{})
	}
	sm.subscribers[gameID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[gameID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, gameID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(e Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[e.GameID] {
		select {
		case ch <- e:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping event", "game_id", e.GameID, "op", e.Op)
		}
	}
}

// Hooks returns editor hooks that broadcast successful changes. Rejected
// mutations change nothing and are not streamed.
func (sm *StreamManager) Hooks() observability.Hooks {
	node := func(_ context.Context, e *observability.NodeEvent) {
		if e.Err != nil {
			return
		}
		sm.Broadcast(Event{
			Op:       e.Op,
			GameID:   e.GameID,
			NodeID:   e.NodeID,
			NodeType: string(e.NodeType),
			User:     e.User,
			Cascaded: e.Cascaded,
		})
	}
	return observability.Hooks{
		OnNodeAdded:   node,
		OnNodeEdited:  node,
		OnNodeDeleted: node,
		OnGameChanged: func(_ context.Context, e *observability.GameEvent) {
			if e.Err != nil {
				return
			}
			sm.Broadcast(Event{Op: e.Op, GameID: e.GameID, User: e.User})
		},
	}
}

func (e Event) encode() string {
	data, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(data)
}
