// Package abstract turns one DOM snapshot into a compact element tree an
// agent can reason about, guided by a declarative recipe. A pass produces
// the tree plus a registry binding clickable/input elements to live nodes.
package abstract

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the closed set of abstract node variants.
type Kind int

const (
	// KindElement is a node backed by a source DOM element.
	KindElement Kind = iota
	// KindText is a synthetic text-only node with no DOM correspondent
	// (for example an empty_message placeholder).
	KindText
	// KindSplitMarker is a synthetic chunking marker inserted between
	// siblings of long lists.
	KindSplitMarker
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindSplitMarker:
		return "split-marker"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Input records that an abstract element is an input-capable control and
// which registry id resolves it.
type Input struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Element is one node of the abstract tree.
type Element struct {
	Kind     Kind              `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Name     string            `json:"name,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attributes,omitempty"`
	Children []*Element        `json:"children,omitempty"`

	// ClickID is set when the element is bound as clickable.
	ClickID *int `json:"clickableId,omitempty"`
	// SelectID is set on expanded <select> controls.
	SelectID *int `json:"selectId,omitempty"`
	// Input is set on input-capable controls (text/number/checkbox/radio).
	Input *Input `json:"input,omitempty"`
}
