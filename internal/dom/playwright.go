package dom

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// LivePage is a Page over a playwright page. Node handles returned from it
// point at live elements and become stale on navigation.
type LivePage struct {
	page playwright.Page
}

func NewLivePage(page playwright.Page) *LivePage {
	return &LivePage{page: page}
}

func (p *LivePage) URL() string { return p.page.URL() }

func (p *LivePage) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, classifyQueryErr(selector, err)
	}
	return wrapHandles(handles), nil
}

type liveNode struct {
	h   playwright.ElementHandle
	tag string
}

func wrapHandles(handles []playwright.ElementHandle) []Node {
	nodes := make([]Node, 0, len(handles))
	for _, h := range handles {
		nodes = append(nodes, &liveNode{h: h})
	}
	return nodes
}

// Handle exposes the underlying playwright handle for callers that need
// driver-specific behavior.
func (n *liveNode) Handle() playwright.ElementHandle { return n.h }

func (n *liveNode) Tag() string {
	if n.tag != "" {
		return n.tag
	}
	val, err := n.h.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return ""
	}
	if s, ok := val.(string); ok {
		n.tag = s
	}
	return n.tag
}

func (n *liveNode) Attribute(name string) (string, bool) {
	val, err := n.h.Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil || val == nil {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

func (n *liveNode) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := n.h.InnerText()
	if err != nil {
		return "", fmt.Errorf("playwright inner text: %w", err)
	}
	return CollapseSpace(text), nil
}

func (n *liveNode) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := n.h.QuerySelectorAll(selector)
	if err != nil {
		return nil, classifyQueryErr(selector, err)
	}
	return wrapHandles(handles), nil
}

func (n *liveNode) QueryDirect(ctx context.Context, selector string) ([]Node, error) {
	return n.QueryAll(ctx, ":scope > "+selector)
}

func (n *liveNode) Evaluate(ctx context.Context, expression string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	val, err := n.h.Evaluate(expression)
	if err != nil {
		return "", fmt.Errorf("playwright evaluate: %w", err)
	}
	return stringify(val)
}

// Selected reports the live selected property of an <option>.
func (n *liveNode) Selected(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	val, err := n.h.Evaluate("el => el.selected")
	if err != nil {
		return false, fmt.Errorf("playwright evaluate selected: %w", err)
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("playwright evaluate selected: unexpected %T", val)
	}
	return b, nil
}

func (n *liveNode) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Scroll failures are not fatal, the click may still land.
	_ = n.h.ScrollIntoViewIfNeeded()
	return wrapAction(n.h.Click())
}

func (n *liveNode) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrapAction(n.h.Fill(text))
}

func (n *liveNode) SetChecked(ctx context.Context, checked bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if checked {
		return wrapAction(n.h.Check())
	}
	return wrapAction(n.h.Uncheck())
}

func (n *liveNode) SelectOption(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.h.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return wrapAction(err)
}

func (n *liveNode) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	val, err := n.h.InputValue()
	if err != nil {
		return "", wrapAction(err)
	}
	return val, nil
}

// classifyQueryErr maps selector syntax errors reported by the browser onto
// ErrBadSelector so malformed recipes degrade instead of failing the pass.
func classifyQueryErr(selector string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "not a valid selector") || strings.Contains(msg, "Unexpected token") {
		return fmt.Errorf("%w: %q: %v", ErrBadSelector, selector, err)
	}
	return fmt.Errorf("playwright query %q: %w", selector, err)
}

func wrapAction(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("playwright: %w", err)
}

func stringify(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", fmt.Errorf("expression returned no value")
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expression returned unusable %T", val)
	}
}
