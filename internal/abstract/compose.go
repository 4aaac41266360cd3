package abstract

import (
	"context"
	"errors"
	"strconv"

	"github.com/domlens/domlens/internal/dom"
	"github.com/domlens/domlens/internal/recipe"
)

// defaultKeptAttrs is the attribute set carried over from every source
// element when present. keep_attr extends it, never shrinks it.
var defaultKeptAttrs = []string{"alt", "title", "type", "value"}

// composeAttrs computes the abstract element's attribute map. A failing
// dynamic override only drops its own key; the rest of the map survives.
// Source classes are never copied, only an explicit recipe class/id is set.
func (b *Builder) composeAttrs(ctx context.Context, node dom.Node, frag *recipe.Recipe) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, name := range defaultKeptAttrs {
		if val, ok := node.Attribute(name); ok {
			attrs[name] = val
		}
	}
	for _, name := range frag.KeepAttr {
		if val, ok := node.Attribute(name); ok {
			attrs[name] = val
		}
	}
	for name, val := range frag.OverrideAttr {
		if !val.Dynamic {
			attrs[name] = val.Literal
			continue
		}
		res, err := node.Evaluate(ctx, val.JS)
		if err != nil {
			if ctxDone(err) {
				return nil, err
			}
			b.log.Warn().Err(err).Str("attr", name).Str("selector", frag.Selector).
				Msg("override_attr evaluation failed, key omitted")
			continue
		}
		attrs[name] = res
	}
	if frag.Class != "" {
		attrs["class"] = frag.Class
	}
	if frag.ID != "" {
		attrs["id"] = frag.ID
	}
	return attrs, nil
}

// inputType reports whether node is an input-capable control the binder
// should register, and the type it should be registered as.
func inputType(node dom.Node) (string, bool) {
	switch node.Tag() {
	case "textarea":
		return "text", true
	case "input":
		t, ok := node.Attribute("type")
		if !ok || t == "" {
			t = "text"
		}
		switch t {
		case "text", "number", "checkbox", "radio", "search", "email", "password", "tel", "url":
			if t == "text" || t == "number" || t == "checkbox" || t == "radio" {
				return t, true
			}
			// Free-text variants behave like text inputs for the agent.
			return "text", true
		default:
			return "", false
		}
	default:
		return "", false
	}
}

func ctxDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func boolAttr(v bool) string {
	return strconv.FormatBool(v)
}
