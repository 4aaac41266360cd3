// Package dom abstracts the page-query capability the abstraction engine
// runs against. Two backends exist: a live playwright page and a static
// goquery document parsed from an HTML snapshot.
package dom

import (
	"context"
	"errors"
)

// ErrEvaluateUnsupported is returned by backends that cannot run dynamic
// expressions (static HTML snapshots have no script engine).
var ErrEvaluateUnsupported = errors.New("dom: dynamic evaluation not supported by this backend")

// ErrBadSelector wraps selector syntax errors. Callers use it to tell a
// malformed recipe apart from a failing page query.
var ErrBadSelector = errors.New("dom: invalid selector")

// Page is one document snapshot the engine can query.
type Page interface {
	// QueryAll returns all elements matching the CSS selector, in
	// document order.
	QueryAll(ctx context.Context, selector string) ([]Node, error)
	// URL returns the current page URL (empty for detached snapshots).
	URL() string
}

// Node is an opaque handle to one element. The document owns the element;
// handles are only valid for the lifetime of one abstraction pass.
type Node interface {
	// Tag returns the lowercase tag name.
	Tag() string
	// Attribute returns the named attribute and whether it is present.
	Attribute(name string) (string, bool)
	// Text returns the element's rendered text content.
	Text(ctx context.Context) (string, error)
	// QueryAll returns matching descendants in document order.
	QueryAll(ctx context.Context, selector string) ([]Node, error)
	// QueryDirect is QueryAll restricted to immediate children.
	QueryDirect(ctx context.Context, selector string) ([]Node, error)
	// Evaluate runs a dynamic expression against the element and returns
	// its result as a string. Backends without a script engine return
	// ErrEvaluateUnsupported.
	Evaluate(ctx context.Context, expression string) (string, error)
}

// Actionable is implemented by nodes that can receive user-like actions.
// Only live backends provide it; the action executor type-asserts.
type Actionable interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	SetChecked(ctx context.Context, checked bool) error
	SelectOption(ctx context.Context, value string) error
	Value(ctx context.Context) (string, error)
}

// OptionState reports the live selected state of an <option> node.
type OptionState interface {
	Selected(ctx context.Context) (bool, error)
}
