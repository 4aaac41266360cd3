package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listHTML = `
<html><body>
  <div id="wrap" title="wrapper">
    <ul class="items">
      <li class="item">First <b>bold</b></li>
      <li class="item">Second</li>
    </ul>
    <p class="item">Not a list entry</p>
    <select name="size">
      <option value="a">A</option>
      <option value="b" selected>B</option>
    </select>
  </div>
</body></html>`

func mustParse(t *testing.T, html, url string) *StaticPage {
	t.Helper()
	page, err := ParseStatic(strings.NewReader(html), url)
	require.NoError(t, err)
	return page
}

func TestStaticQueryAllDocumentOrder(t *testing.T) {
	page := mustParse(t, listHTML, "https://example.com/items")
	ctx := context.Background()

	nodes, err := page.QueryAll(ctx, ".item")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "li", nodes[0].Tag())
	assert.Equal(t, "li", nodes[1].Tag())
	assert.Equal(t, "p", nodes[2].Tag())

	text, err := nodes[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First bold", text)
}

func TestStaticQueryDirectRestrictsToChildren(t *testing.T) {
	page := mustParse(t, listHTML, "")
	ctx := context.Background()

	wraps, err := page.QueryAll(ctx, "#wrap")
	require.NoError(t, err)
	require.Len(t, wraps, 1)

	// .item descendants exist at two depths; direct lookup sees only <p>.
	direct, err := wraps[0].QueryDirect(ctx, ".item")
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "p", direct[0].Tag())

	all, err := wraps[0].QueryAll(ctx, ".item")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStaticAttributes(t *testing.T) {
	page := mustParse(t, listHTML, "")
	nodes, err := page.QueryAll(context.Background(), "#wrap")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	title, ok := nodes[0].Attribute("title")
	assert.True(t, ok)
	assert.Equal(t, "wrapper", title)

	_, ok = nodes[0].Attribute("alt")
	assert.False(t, ok)
}

func TestStaticBadSelector(t *testing.T) {
	page := mustParse(t, listHTML, "")
	_, err := page.QueryAll(context.Background(), "li[unclosed")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadSelector)
}

func TestStaticEvaluateUnsupported(t *testing.T) {
	page := mustParse(t, listHTML, "")
	nodes, err := page.QueryAll(context.Background(), "li")
	require.NoError(t, err)
	_, err = nodes[0].Evaluate(context.Background(), "el => el.innerText")
	assert.ErrorIs(t, err, ErrEvaluateUnsupported)
}

func TestStaticOptionSelected(t *testing.T) {
	page := mustParse(t, listHTML, "")
	ctx := context.Background()
	options, err := page.QueryAll(ctx, "option")
	require.NoError(t, err)
	require.Len(t, options, 2)

	for i, want := range []bool{false, true} {
		state, ok := options[i].(OptionState)
		require.True(t, ok)
		selected, err := state.Selected(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, selected)
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a\n\t b   c "))
	assert.Equal(t, "", CollapseSpace(" \n "))
}
