package http

import (
	"github.com/aretw0/quester/internal/sanitize"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/editor"
	"github.com/aretw0/quester/pkg/game"
)

// CreateGameRequest is the body of POST /games.
type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Published   bool   `json:"published"`
}

func (r *CreateGameRequest) params() (editor.CreateParams, error) {
	p := editor.CreateParams{
		Name:        sanitize.Input(r.Name),
		Description: sanitize.Input(r.Description),
		Language:    sanitize.Input(r.Language),
		Published:   r.Published,
	}
	if err := sanitize.Short("name", p.Name); err != nil {
		return p, err
	}
	if err := sanitize.Long("description", p.Description); err != nil {
		return p, err
	}
	if err := sanitize.Short("language", p.Language); err != nil {
		return p, err
	}
	return p, nil
}

// UpdateGameRequest is the body of PATCH /games/{gameID}.
type UpdateGameRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Language    *string `json:"language,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

func (r *UpdateGameRequest) update() (game.Update, error) {
	up := game.Update{
		Name:        sanitize.Ptr(r.Name),
		Description: sanitize.Ptr(r.Description),
		Language:    sanitize.Ptr(r.Language),
		Published:   r.Published,
	}
	if err := sanitize.Length("name", up.Name, domain.MaxShortStringSize); err != nil {
		return up, err
	}
	if err := sanitize.Length("description", up.Description, domain.MaxLongStringSize); err != nil {
		return up, err
	}
	if err := sanitize.Length("language", up.Language, domain.MaxShortStringSize); err != nil {
		return up, err
	}
	return up, nil
}

// AddNodeRequest is the body of POST /games/{gameID}/nodes. The first node
// of a game uses game.RootParentID as its parent.
type AddNodeRequest struct {
	ID          string  `json:"id"`
	ParentID    string  `json:"parent_id"`
	Type        string  `json:"type"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	FlagID      *string `json:"flag_id,omitempty"`
	FlagState   string  `json:"flag_state,omitempty"`
}

func (r *AddNodeRequest) request() (domain.AddRequest, error) {
	req := domain.AddRequest{
		ID:          sanitize.Input(r.ID),
		ParentID:    sanitize.Input(r.ParentID),
		Name:        sanitize.Ptr(r.Name),
		Description: sanitize.Ptr(r.Description),
		FlagID:      sanitize.Ptr(r.FlagID),
	}
	var err error
	if req.Type, err = sanitize.NodeType("type", r.Type); err != nil {
		return req, err
	}
	if req.FlagState, err = sanitize.FlagState("flag_state", r.FlagState); err != nil {
		return req, err
	}
	if err := sanitize.Short("id", req.ID); err != nil {
		return req, err
	}
	if err := sanitize.Short("parent_id", req.ParentID); err != nil {
		return req, err
	}
	if err := sanitize.Length("name", req.Name, domain.MaxShortStringSize); err != nil {
		return req, err
	}
	if err := sanitize.Length("description", req.Description, domain.MaxLongStringSize); err != nil {
		return req, err
	}
	if err := sanitize.Length("flag_id", req.FlagID, domain.MaxShortStringSize); err != nil {
		return req, err
	}
	return req, nil
}

// EditNodeRequest is the body of PUT /games/{gameID}/nodes/{nodeID}. Only
// the fields used by the target's type are read.
type EditNodeRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	FlagID      *string `json:"flag_id,omitempty"`
	FlagState   string  `json:"flag_state,omitempty"`
}

func (r *EditNodeRequest) request() (domain.EditRequest, error) {
	req := domain.EditRequest{
		Name:        sanitize.Ptr(r.Name),
		Description: sanitize.Ptr(r.Description),
		FlagID:      sanitize.Ptr(r.FlagID),
	}
	var err error
	if req.FlagState, err = sanitize.FlagState("flag_state", r.FlagState); err != nil {
		return req, err
	}
	if err := sanitize.Length("name", req.Name, domain.MaxShortStringSize); err != nil {
		return req, err
	}
	if err := sanitize.Length("description", req.Description, domain.MaxLongStringSize); err != nil {
		return req, err
	}
	if err := sanitize.Length("flag_id", req.FlagID, domain.MaxShortStringSize); err != nil {
		return req, err
	}
	return req, nil
}

// DeleteNodeResponse reports the removed subtree and the conditions dropped
// with it.
type DeleteNodeResponse struct {
	Removed  domain.Snapshot `json:"removed"`
	Cascaded []string        `json:"cascaded"`
}

func newDeleteNodeResponse(rm domain.Removal) DeleteNodeResponse {
	resp := DeleteNodeResponse{Cascaded: []string{}}
	if rm.Node != nil {
		resp.Removed = rm.Node.Snapshot()
	}
	for _, c := range rm.Cascaded {
		resp.Cascaded = append(resp.Cascaded, c.ID())
	}
	return resp
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
