package abstract

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/domlens/domlens/internal/dom"
	"github.com/domlens/domlens/internal/recipe"
)

// resolveText computes the abstract element's text. Priority order, first
// applicable wins: text_selector extraction, text_js evaluation, add_text.
// When text_format is set it is applied unconditionally, even over an empty
// base value.
func (b *Builder) resolveText(ctx context.Context, node dom.Node, frag *recipe.Recipe) (string, error) {
	var text string
	switch {
	case frag.TextSelector != "":
		matches, err := node.QueryAll(ctx, frag.TextSelector)
		if err != nil {
			if !errors.Is(err, dom.ErrBadSelector) {
				return "", err
			}
			b.log.Warn().Err(err).Str("selector", frag.Selector).
				Msg("text_selector is invalid, text omitted")
			break
		}
		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			t, err := m.Text(ctx)
			if err != nil {
				return "", err
			}
			if t != "" {
				parts = append(parts, t)
			}
		}
		text = strings.Join(parts, " ")
	case frag.TextJS != "":
		res, err := node.Evaluate(ctx, frag.TextJS)
		if err != nil {
			if ctxDone(err) {
				return "", err
			}
			b.log.Warn().Err(err).Str("selector", frag.Selector).
				Msg("text_js evaluation failed, text omitted")
			break
		}
		text = res
	case frag.AddText:
		t, err := node.Text(ctx)
		if err != nil {
			return "", err
		}
		text = t
	}
	if frag.TextFormat != "" {
		text = strings.ReplaceAll(frag.TextFormat, "{}", text)
	}
	return text, nil
}

// resolveName computes the element's agent-facing name, prefixed with the
// ancestor path so repeated structures stay distinguishable. ordinal is the
// 1-based position among the fragment's matched siblings. Returns "" when
// the fragment declares no name or the derivation comes up empty.
func resolveName(frag *recipe.Recipe, text string, ordinal int, path string) string {
	var base string
	switch frag.Name.Kind {
	case recipe.NameLiteral:
		base = frag.Name.Literal
	case recipe.NameFromText:
		base = text
	case recipe.NameFromNthChild:
		base = strconv.Itoa(ordinal)
	default:
		return ""
	}
	if base == "" {
		return ""
	}
	return joinPath(path, base)
}

func joinPath(path, base string) string {
	if path == "" {
		return base
	}
	return path + "/" + base
}
