package recipe

import (
	"context"
	"strings"

	"github.com/domlens/domlens/internal/dom"
)

// Matches evaluates the recipe's root match rule against the page. A recipe
// without a match rule never matches, and a malformed match selector counts
// as no match rather than an error: a broken recipe must not fail the pass.
func (r *Recipe) Matches(ctx context.Context, page dom.Page) bool {
	if strings.TrimSpace(r.Match) == "" {
		return false
	}
	switch r.MatchMethod {
	case MatchURL:
		return strings.Contains(page.URL(), r.Match)
	default: // MatchText is the default when match_method is omitted.
		nodes, err := page.QueryAll(ctx, r.Match)
		if err != nil {
			return false
		}
		return len(nodes) > 0
	}
}

// Select returns the first library recipe whose match rule holds for the
// page, along with its name. ok is false when nothing matches.
func (l *Library) Select(ctx context.Context, page dom.Page) (rec *Recipe, name string, ok bool) {
	for _, e := range l.entries {
		if e.Recipe.Matches(ctx, page) {
			return e.Recipe, e.Name, true
		}
	}
	return nil, "", false
}
