package abstract

import (
	"fmt"
	"sync"

	"github.com/domlens/domlens/internal/dom"
)

// BindingKind says what an interactive binding can do.
type BindingKind int

const (
	// BindClickable resolves to an element the agent can click.
	BindClickable BindingKind = iota
	// BindInput resolves to an input-capable control.
	BindInput
)

func (k BindingKind) String() string {
	if k == BindClickable {
		return "clickable"
	}
	return "input"
}

// Binding maps one registry id back to a live source node.
type Binding struct {
	ID   int
	Kind BindingKind
	// InputType is text/number/checkbox/radio/select for BindInput,
	// empty for BindClickable.
	InputType string
	Node      dom.Node
	Name      string
}

// Registry holds the interactive-element bindings of one abstraction pass.
// Ids are dense from 0 and strictly increasing. A registry must never be
// shared across passes: bindings go stale with the snapshot they came from.
type Registry struct {
	mu       sync.Mutex
	bindings []Binding
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Bind allocates the next id and records the binding. Id allocation is the
// one piece of shared mutable state in a pass, so it is serialized here.
func (r *Registry) Bind(kind BindingKind, inputType string, node dom.Node, name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := len(r.bindings)
	b := Binding{ID: id, Kind: kind, InputType: inputType, Node: node, Name: name}
	r.bindings = append(r.bindings, b)
	if r.bindings[id].ID != id {
		// Unreachable unless the slice was mutated behind our back.
		panic(fmt.Sprintf("abstract: registry id collision at %d", id))
	}
	return id
}

// Resolve returns the binding for id, false if the id was never assigned.
func (r *Registry) Resolve(id int) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.bindings) {
		return Binding{}, false
	}
	return r.bindings[id], true
}

// Len returns how many ids have been assigned.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Bindings returns a copy of all bindings in id order.
func (r *Registry) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Binding(nil), r.bindings...)
}
