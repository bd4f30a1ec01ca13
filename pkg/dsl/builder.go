package dsl

import (
	"fmt"

	"github.com/aretw0/quester/pkg/domain"
)

// Builder records node declarations and replays them on Build.
type Builder struct {
	rootID, rootName, rootDescription string
	steps                             []*Step
}

// New starts a tree whose root is a Room.
func New(rootID, name, description string) *Builder {
	return &Builder{rootID: rootID, rootName: name, rootDescription: description}
}

// Step is one declared node.
type Step struct {
	req     domain.AddRequest
	builder *Builder
}

// Under sets the parent of the declared node.
func (s *Step) Under(parentID string) *Builder {
	s.req.ParentID = parentID
	return s.builder
}

func (b *Builder) step(req domain.AddRequest) *Step {
	req.ParentID = b.rootID
	s := &Step{req: req, builder: b}
	b.steps = append(b.steps, s)
	return s
}

// Room declares a Room node.
func (b *Builder) Room(id, name, description string) *Step {
	return b.step(domain.AddRequest{ID: id, Type: domain.NodeTypeRoom, Name: &name, Description: &description})
}

// Choice declares a Choice node.
func (b *Builder) Choice(id, name string) *Step {
	return b.step(domain.AddRequest{ID: id, Type: domain.NodeTypeChoice, Name: &name})
}

// Flag declares a Flag node.
func (b *Builder) Flag(id, name string) *Step {
	return b.step(domain.AddRequest{ID: id, Type: domain.NodeTypeFlag, Name: &name})
}

// Condition declares a Condition node gated on flagID being in state.
func (b *Builder) Condition(id, flagID string, state domain.FlagState) *Step {
	return b.step(domain.AddRequest{ID: id, Type: domain.NodeTypeCondition, FlagID: &flagID, FlagState: state})
}

// Build creates the root and replays every declaration. It stops at the
// first failing declaration.
func (b *Builder) Build() (*domain.Node, error) {
	root, err := domain.NewRoom(b.rootID, b.rootName, b.rootDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to create root: %w", err)
	}
	for i, s := range b.steps {
		if _, err := root.AddNode(s.req); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return root, nil
}

// MustBuild is like Build but panics on error. Intended for fixtures.
func (b *Builder) MustBuild() *domain.Node {
	root, err := b.Build()
	if err != nil {
		panic(err)
	}
	return root
}
