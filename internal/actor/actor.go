// Package actor executes agent decisions against the live page: it resolves
// a registry id from the last abstraction pass back to a live node and
// performs the requested action on it.
package actor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/domlens/domlens/internal/abstract"
	"github.com/domlens/domlens/internal/dom"
)

var (
	// ErrUnknownID means the id was never assigned in this pass.
	ErrUnknownID = errors.New("actor: unknown element id")
	// ErrNotActionable means the binding's backend cannot perform actions
	// (e.g. a static HTML snapshot).
	ErrNotActionable = errors.New("actor: element backend is not actionable")
	// ErrKindMismatch means the action does not fit the binding, e.g.
	// typing into a clickable or selecting on a text input.
	ErrKindMismatch = errors.New("actor: action does not match element kind")
)

// Action is one agent decision referencing an element by registry id.
type Action struct {
	Type  string `json:"type"` // click | type | check | uncheck | select
	ID    int    `json:"id"`
	Value string `json:"value,omitempty"`
}

// Executor performs actions against the bindings of one abstraction pass.
// Like the registry it wraps, it is valid for one page snapshot only.
type Executor struct {
	reg *abstract.Registry
	log zerolog.Logger
}

func New(reg *abstract.Registry, log zerolog.Logger) *Executor {
	return &Executor{reg: reg, log: log}
}

// Do performs the action and returns a short observation for the agent loop.
func (e *Executor) Do(ctx context.Context, act Action) (string, error) {
	binding, ok := e.reg.Resolve(act.ID)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, act.ID)
	}
	target, ok := binding.Node.(dom.Actionable)
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrNotActionable, act.ID)
	}

	e.log.Debug().Int("id", act.ID).Str("type", act.Type).
		Str("name", binding.Name).Msg("executing action")

	switch act.Type {
	case "click":
		if err := requireKind(binding, abstract.BindClickable, "checkbox", "radio"); err != nil {
			return "", err
		}
		if err := target.Click(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("clicked %q (id %d)", binding.Name, act.ID), nil

	case "type":
		if err := requireKind(binding, abstract.BindInput, "text", "number"); err != nil {
			return "", err
		}
		if err := target.Fill(ctx, act.Value); err != nil {
			return "", err
		}
		return fmt.Sprintf("typed into %q (id %d)", binding.Name, act.ID), nil

	case "check", "uncheck":
		if err := requireKind(binding, abstract.BindInput, "checkbox", "radio"); err != nil {
			return "", err
		}
		if err := target.SetChecked(ctx, act.Type == "check"); err != nil {
			return "", err
		}
		return fmt.Sprintf("%sed %q (id %d)", act.Type, binding.Name, act.ID), nil

	case "select":
		if err := requireKind(binding, abstract.BindInput, "select"); err != nil {
			return "", err
		}
		if err := target.SelectOption(ctx, act.Value); err != nil {
			return "", err
		}
		return fmt.Sprintf("selected %q in %q (id %d)", act.Value, binding.Name, act.ID), nil

	default:
		return "", fmt.Errorf("actor: unknown action type %q", act.Type)
	}
}

// ReadValue looks up the live current value of an input binding. Form state
// is never cached on the abstract tree, it is read through the binding when
// the agent needs it.
func (e *Executor) ReadValue(ctx context.Context, id int) (string, error) {
	binding, ok := e.reg.Resolve(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	if binding.Kind != abstract.BindInput {
		return "", fmt.Errorf("%w: id %d is not an input", ErrKindMismatch, id)
	}
	target, ok := binding.Node.(dom.Actionable)
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrNotActionable, id)
	}
	return target.Value(ctx)
}

// requireKind accepts a binding either of the wanted kind or, for actions
// like click on a checkbox, an input binding whose type is listed.
func requireKind(b abstract.Binding, kind abstract.BindingKind, inputTypes ...string) error {
	if b.Kind == kind {
		if kind == abstract.BindClickable {
			return nil
		}
		for _, t := range inputTypes {
			if b.InputType == t {
				return nil
			}
		}
		return fmt.Errorf("%w: id %d is a %s input", ErrKindMismatch, b.ID, b.InputType)
	}
	if kind == abstract.BindClickable && b.Kind == abstract.BindInput {
		// Checkboxes and radios are clickable by nature.
		for _, t := range inputTypes {
			if b.InputType == t {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: id %d is %s", ErrKindMismatch, b.ID, b.Kind)
}
