package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/quester/internal/sanitize"
	"github.com/aretw0/quester/pkg/adapters/memory"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/editor"
	"github.com/aretw0/quester/pkg/game"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Server, string) {
	t.Helper()
	ctx := context.Background()
	alice := game.User{Username: "alice"}

	ed := editor.NewManager(memory.NewStore())
	g, err := ed.Create(ctx, alice, editor.CreateParams{Name: "Dungeon", Description: "A dark place", Language: "en"})
	require.NoError(t, err)

	s := NewServer(ed, alice)
	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id":     g.ID(),
		"id":          "hall",
		"parent_id":   game.RootParentID,
		"type":        "ROOM",
		"name":        "Hall",
		"description": "Entrance",
	})
	require.NoError(t, err)
	return s, g.ID()
}

func TestListAndGet(t *testing.T) {
	s, id := setup(t)
	ctx := context.Background()

	list, err := s.handleListGames(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, list.Games, 1)
	assert.Equal(t, id, list.Games[0].ID)

	doc, err := s.handleGetGame(ctx, mcp.CallToolRequest{}, map[string]any{"game_id": id})
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	assert.Equal(t, "hall", doc.Root.ID)

	_, err = s.handleGetGame(ctx, mcp.CallToolRequest{}, map[string]any{"game_id": "nope"})
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestNodeTools(t *testing.T) {
	s, id := setup(t)
	ctx := context.Background()

	_, err := s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "lever", "parent_id": "hall", "type": "FLAG", "name": "Lever",
	})
	require.NoError(t, err)

	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "pull", "parent_id": "hall", "type": "CHOICE", "name": "Pull",
	})
	require.NoError(t, err)

	snap, err := s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "gate", "parent_id": "pull", "type": "CONDITION", "flag_id": "lever", "flag_state": "NOT_ACTIVE",
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Condition)
	assert.Equal(t, domain.FlagNotActive, snap.Condition.FlagState)

	snap, err = s.handleEditNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "node_id": "gate", "flag_id": "lever", "flag_state": "ACTIVE",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FlagActive, snap.Condition.FlagState)

	rm, err := s.handleDeleteNode(ctx, mcp.CallToolRequest{}, map[string]any{"game_id": id, "node_id": "lever"})
	require.NoError(t, err)
	assert.Equal(t, "lever", rm.Removed.ID)
	assert.Equal(t, []string{"gate"}, rm.Cascaded)

	_, err = s.handleDeleteNode(ctx, mcp.CallToolRequest{}, map[string]any{"game_id": id, "node_id": "hall"})
	assert.ErrorIs(t, err, domain.ErrRootNodeDeleting)
}

func TestAddNode_Rejected(t *testing.T) {
	s, id := setup(t)
	ctx := context.Background()

	_, err := s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "x1", "parent_id": "hall", "type": "CONDITION", "flag_id": "ghost", "flag_state": "ACTIVE",
	})
	assert.ErrorIs(t, err, domain.ErrFlagNotExists)

	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "x", "parent_id": "hall", "type": "FLAG", "name": "X1",
	})
	assert.Error(t, err)

	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{"game_id": id, "id": 42})
	assert.Error(t, err)
}

func TestRenderGraph(t *testing.T) {
	s, id := setup(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Name = "render_graph"
	req.Params.Arguments = map[string]any{"game_id": id}

	res, err := s.handleRenderGraph(ctx, req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `hall(("Hall"))`)

	req.Params.Arguments = map[string]any{}
	res, err = s.handleRenderGraph(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestActsAsConfiguredUser(t *testing.T) {
	s, id := setup(t)
	bob := NewServer(s.editor, game.User{Username: "bob"})

	_, err := bob.handleGetGame(context.Background(), mcp.CallToolRequest{}, map[string]any{"game_id": id})
	assert.ErrorIs(t, err, game.ErrForbidden)

	list, err := bob.handleListGames(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Empty(t, list.Games)
}

func TestNodeTools_EnumNames(t *testing.T) {
	s, id := setup(t)
	ctx := context.Background()

	snap, err := s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "lv", "parent_id": "hall", "type": "flag", "name": "Lever",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.NodeTypeFlag, snap.Type)

	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "go", "parent_id": "hall", "type": "choice", "name": "Go",
	})
	require.NoError(t, err)

	snap, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "on", "parent_id": "go", "type": "condition", "flag_id": "lv", "flag_state": "active",
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Condition)
	assert.Equal(t, domain.FlagActive, snap.Condition.FlagState)

	_, err = s.handleAddNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "id": "x1", "parent_id": "hall", "type": "portal", "name": "X1",
	})
	assert.ErrorIs(t, err, sanitize.ErrUnknownValue)

	_, err = s.handleEditNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"game_id": id, "node_id": "on", "flag_id": "lv", "flag_state": "sometimes",
	})
	assert.ErrorIs(t, err, sanitize.ErrUnknownValue)
}
