package abstract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/domlens/domlens/internal/dom"
	"github.com/domlens/domlens/internal/recipe"
)

// Builder runs one abstraction pass: a depth-first walk of the source DOM
// guided by the recipe tree. It owns the pass registry; neither may be
// reused for another snapshot.
type Builder struct {
	reg *Registry
	log zerolog.Logger
}

func NewBuilder(reg *Registry, log zerolog.Logger) *Builder {
	return &Builder{reg: reg, log: log}
}

// Registry returns the pass registry.
func (b *Builder) Registry() *Registry { return b.reg }

// Result is what one abstraction pass hands to its consumers: the abstract
// tree and the interactive-element registry, both scoped to one snapshot.
type Result struct {
	RecipeName string
	Elements   []*Element
	Registry   *Registry
}

// Run performs a full pass over page with a fresh registry.
func Run(ctx context.Context, page dom.Page, rec *recipe.Recipe, log zerolog.Logger) (*Result, error) {
	b := NewBuilder(NewRegistry(), log)
	elements, err := b.BuildPage(ctx, page, rec)
	if err != nil {
		return nil, err
	}
	return &Result{Elements: elements, Registry: b.reg}, nil
}

// scope is anything a fragment selector can be queried against: the page
// itself at the root, a source node below it.
type scope interface {
	QueryAll(ctx context.Context, selector string) ([]dom.Node, error)
}

// BuildPage applies the recipe's root fragment against the whole page.
func (b *Builder) BuildPage(ctx context.Context, page dom.Page, rec *recipe.Recipe) ([]*Element, error) {
	return b.buildFragment(ctx, page, rec, "")
}

// buildFragment locates the fragment's matched set under sc and builds one
// abstract element per match, in document order. A fragment matching nothing
// yields nothing; a malformed selector fails only this fragment.
func (b *Builder) buildFragment(ctx context.Context, sc scope, frag *recipe.Recipe, path string) ([]*Element, error) {
	var (
		nodes []dom.Node
		err   error
	)
	if node, ok := sc.(dom.Node); ok && frag.DirectChild {
		nodes, err = node.QueryDirect(ctx, frag.Selector)
	} else {
		nodes, err = sc.QueryAll(ctx, frag.Selector)
	}
	if err != nil {
		if errors.Is(err, dom.ErrBadSelector) {
			b.log.Warn().Err(err).Str("selector", frag.Selector).
				Msg("fragment selector is invalid, fragment skipped")
			return nil, nil
		}
		return nil, fmt.Errorf("fragment %q: %w", frag.Selector, err)
	}
	out := make([]*Element, 0, len(nodes))
	for i, node := range nodes {
		el, err := b.buildOne(ctx, node, frag, path, i+1)
		if err != nil {
			return nil, err
		}
		if el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

// buildOne builds the abstract element for one matched source node.
// Returns nil (and no registry mutation) when the fragment turns out to be
// malformed for this node, e.g. clickable with an unresolvable name.
func (b *Builder) buildOne(ctx context.Context, node dom.Node, frag *recipe.Recipe, path string, ordinal int) (*Element, error) {
	attrs, err := b.composeAttrs(ctx, node, frag)
	if err != nil {
		return nil, err
	}
	text, err := b.resolveText(ctx, node, frag)
	if err != nil {
		return nil, err
	}
	name := resolveName(frag, text, ordinal, path)

	el := &Element{
		Kind:  KindElement,
		Tag:   node.Tag(),
		Name:  name,
		Text:  text,
		Attrs: attrs,
	}

	// <select> controls bypass the generic recursion: the control is bound
	// as a select input and its options become the whole subtree.
	if el.Tag == "select" {
		if err := b.expandSelect(ctx, node, el); err != nil {
			return nil, err
		}
		return el, nil
	}

	if frag.Clickable {
		// Hard precondition: a clickable element without a resolvable
		// name can never be referenced by the agent. Skip it, bind
		// nothing.
		if name == "" {
			b.log.Warn().Str("selector", frag.Selector).
				Msg("clickable fragment has no resolvable name, skipped")
			return nil, nil
		}
		target := node
		if frag.ClickSelector != "" {
			matches, err := node.QueryAll(ctx, frag.ClickSelector)
			switch {
			case err != nil && !errors.Is(err, dom.ErrBadSelector):
				return nil, err
			case err == nil && len(matches) > 0:
				target = matches[0]
			default:
				b.log.Warn().Err(err).Str("click_selector", frag.ClickSelector).
					Msg("click_selector matched nothing, binding the element itself")
			}
		}
		id := b.reg.Bind(BindClickable, "", target, name)
		el.ClickID = &id
	}

	// Checkboxes and radios are both clickable and typed inputs; the input
	// binding is allocated independently of the clickable one.
	if t, ok := inputType(node); ok {
		id := b.reg.Bind(BindInput, t, node, name)
		el.Input = &Input{ID: id, Type: t}
	}

	// No children declaration means flatten: the matched element becomes a
	// leaf no matter how deep the source subtree is.
	if frag.Children == nil {
		return el, nil
	}
	children, err := b.buildChildren(ctx, node, frag, childPath(path, name))
	if err != nil {
		return nil, err
	}
	el.Children = children
	return el, nil
}

// buildChildren collects the children of one built element in recipe
// declaration order (matches within one fragment keep document order), then
// applies split markers when the parent asks for them.
func (b *Builder) buildChildren(ctx context.Context, node dom.Node, frag *recipe.Recipe, path string) ([]*Element, error) {
	var out []*Element
	for _, child := range frag.Children {
		els, err := b.buildFragment(ctx, node, child, path)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 && child.EmptyMessage != "" {
			els = []*Element{{Kind: KindText, Tag: "text", Text: child.EmptyMessage}}
		}
		out = append(out, els...)
	}
	if frag.InsertSplitMarker {
		out = InsertMarkers(out, frag.InsertSplitMarkerEvery)
	}
	return out, nil
}

// expandSelect binds the select control and rewrites its options into
// abstract children carrying value, name and selected state.
func (b *Builder) expandSelect(ctx context.Context, node dom.Node, el *Element) error {
	id := b.reg.Bind(BindInput, "select", node, el.Name)
	el.SelectID = &id

	options, err := node.QueryAll(ctx, "option")
	if err != nil {
		return err
	}
	for _, opt := range options {
		label, err := opt.Text(ctx)
		if err != nil {
			return err
		}
		value, ok := opt.Attribute("value")
		if !ok {
			// Options without a value attribute submit their label.
			value = label
		}
		selected, err := optionSelected(ctx, opt)
		if err != nil {
			if ctxDone(err) {
				return err
			}
			b.log.Warn().Err(err).Msg("selected state unavailable, assuming unselected")
			selected = false
		}
		el.Children = append(el.Children, &Element{
			Kind: KindElement,
			Tag:  "option",
			Name: label,
			Attrs: map[string]string{
				"value":    value,
				"selected": boolAttr(selected),
			},
		})
	}
	return nil
}

func optionSelected(ctx context.Context, opt dom.Node) (bool, error) {
	if st, ok := opt.(dom.OptionState); ok {
		return st.Selected(ctx)
	}
	_, ok := opt.Attribute("selected")
	return ok, nil
}

func childPath(path, name string) string {
	if name != "" {
		return name
	}
	return path
}
