package dom

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// StaticPage is a Page over a parsed HTML snapshot. It has no script engine,
// so Evaluate on its nodes fails with ErrEvaluateUnsupported; everything else
// behaves like the live backend. Used for offline abstraction and tests.
type StaticPage struct {
	doc *goquery.Document
	url string
}

// ParseStatic builds a StaticPage from raw HTML. url may be empty.
func ParseStatic(r io.Reader, url string) (*StaticPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &StaticPage{doc: doc, url: url}, nil
}

func (p *StaticPage) URL() string { return p.url }

func (p *StaticPage) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadSelector, selector, err)
	}
	return wrapSelection(p.doc.FindMatcher(m)), nil
}

type staticNode struct {
	sel *goquery.Selection
}

func wrapSelection(s *goquery.Selection) []Node {
	nodes := make([]Node, 0, s.Length())
	s.Each(func(_ int, one *goquery.Selection) {
		nodes = append(nodes, &staticNode{sel: one})
	})
	return nodes
}

func (n *staticNode) Tag() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return strings.ToLower(n.sel.Nodes[0].Data)
}

func (n *staticNode) Attribute(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *staticNode) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return CollapseSpace(n.sel.Text()), nil
}

func (n *staticNode) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadSelector, selector, err)
	}
	return wrapSelection(n.sel.FindMatcher(m)), nil
}

func (n *staticNode) QueryDirect(ctx context.Context, selector string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadSelector, selector, err)
	}
	return wrapSelection(n.sel.ChildrenMatcher(m)), nil
}

func (n *staticNode) Evaluate(ctx context.Context, expression string) (string, error) {
	_ = expression
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrEvaluateUnsupported
}

// Selected reports the selected attribute of a static <option>.
func (n *staticNode) Selected(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := n.sel.Attr("selected")
	return ok, nil
}

// CollapseSpace trims the string and collapses internal whitespace runs to a
// single space, approximating rendered text.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
