package abstract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Render writes the abstract tree as indented pseudo-HTML, the compact form
// handed to the LLM-facing prompt layer.
func Render(elements []*Element) string {
	var b strings.Builder
	for _, el := range elements {
		renderInto(&b, el, 0)
	}
	return b.String()
}

func renderInto(b *strings.Builder, el *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	switch el.Kind {
	case KindSplitMarker:
		fmt.Fprintf(b, "%s<split-marker/>\n", indent)
		return
	case KindText:
		fmt.Fprintf(b, "%s<text>%s</text>\n", indent, el.Text)
		return
	}

	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(el.Tag)
	if el.Name != "" {
		fmt.Fprintf(b, " name=%q", el.Name)
	}
	for _, k := range sortedKeys(el.Attrs) {
		fmt.Fprintf(b, " %s=%q", k, el.Attrs[k])
	}
	if el.ClickID != nil {
		fmt.Fprintf(b, " clickable-id=%d", *el.ClickID)
	}
	if el.SelectID != nil {
		fmt.Fprintf(b, " select-id=%d", *el.SelectID)
	}
	if el.Input != nil {
		fmt.Fprintf(b, " input-id=%d input-type=%q", el.Input.ID, el.Input.Type)
	}

	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">")
	if el.Text != "" {
		b.WriteString(el.Text)
	}
	if len(el.Children) == 0 {
		fmt.Fprintf(b, "</%s>\n", el.Tag)
		return
	}
	b.WriteString("\n")
	for _, child := range el.Children {
		renderInto(b, child, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, el.Tag)
}

// MarshalJSON on Result emits the structured document form: the tree plus
// the registry's binding summary (ids, kinds, names).
func (r *Result) MarshalJSON() ([]byte, error) {
	type binding struct {
		ID        int    `json:"id"`
		Kind      string `json:"kind"`
		InputType string `json:"inputType,omitempty"`
		Name      string `json:"name,omitempty"`
	}
	bindings := make([]binding, 0, r.Registry.Len())
	for _, b := range r.Registry.Bindings() {
		bindings = append(bindings, binding{
			ID:        b.ID,
			Kind:      b.Kind.String(),
			InputType: b.InputType,
			Name:      b.Name,
		})
	}
	return json.Marshal(struct {
		Recipe   string     `json:"recipe,omitempty"`
		Elements []*Element `json:"elements"`
		Bindings []binding  `json:"bindings"`
	}{
		Recipe:   r.RecipeName,
		Elements: r.Elements,
		Bindings: bindings,
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
