package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productRecipe = `
match: ".product-card"
selector: "html"
children:
  - selector: ".product-card"
    name: from_text
    text_selector: "h2"
    clickable: true
    keep_attr: [href, "data-sku"]
    override_attr:
      price: "unknown"
      height: {js: "el => getComputedStyle(el).height"}
    children:
      - selector: ".price"
        add_text: true
        class: product-price
  - selector: ".results"
    insert_split_marker: true
    insert_split_marker_every: 4
    children:
      - selector: ".result"
        name: from_nth_child
        add_text: true
`

func TestParseRecipe(t *testing.T) {
	rec, err := Parse(strings.NewReader(productRecipe))
	require.NoError(t, err)

	assert.Equal(t, ".product-card", rec.Match)
	assert.Equal(t, MatchMethod(""), rec.MatchMethod)
	require.Len(t, rec.Children, 2)

	card := rec.Children[0]
	assert.Equal(t, NameFromText, card.Name.Kind)
	assert.True(t, card.Clickable)
	assert.Equal(t, []string{"href", "data-sku"}, card.KeepAttr)

	price, ok := card.OverrideAttr["price"]
	require.True(t, ok)
	assert.False(t, price.Dynamic)
	assert.Equal(t, "unknown", price.Literal)

	height, ok := card.OverrideAttr["height"]
	require.True(t, ok)
	assert.True(t, height.Dynamic)
	assert.Contains(t, height.JS, "getComputedStyle")

	results := rec.Children[1]
	assert.True(t, results.InsertSplitMarker)
	assert.Equal(t, 4, results.InsertSplitMarkerEvery)
	assert.Equal(t, NameFromNthChild, results.Children[0].Name.Kind)
}

func TestParseNameLiteral(t *testing.T) {
	rec, err := Parse(strings.NewReader("selector: nav\nname: main_nav\n"))
	require.NoError(t, err)
	assert.Equal(t, NameLiteral, rec.Name.Kind)
	assert.Equal(t, "main_nav", rec.Name.Literal)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing selector",
			yaml: "name: x",
			want: "selector is required",
		},
		{
			name: "clickable without name",
			yaml: "selector: a\nclickable: true",
			want: "must declare a name",
		},
		{
			name: "clickable child without name",
			yaml: "selector: body\nchildren:\n  - selector: a\n    clickable: true",
			want: "children[0]",
		},
		{
			name: "split marker without interval",
			yaml: "selector: ul\ninsert_split_marker: true",
			want: "insert_split_marker_every",
		},
		{
			name: "bad match method",
			yaml: "selector: body\nmatch: x\nmatch_method: regex",
			want: "unknown match_method",
		},
		{
			name: "override_attr bad mapping",
			yaml: "selector: a\noverride_attr:\n  width: {eval: x}",
			want: "js key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("10_search.yaml", "match: \".results\"\nselector: html\n")
	write("20_product.yml", "match: \"/product/\"\nmatch_method: url\nselector: html\n")
	write("notes.txt", "not a recipe")

	lib, err := LoadDir(dir)
	require.NoError(t, err)
	entries := lib.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "10_search", entries[0].Name)
	assert.Equal(t, "20_product", entries[1].Name)
	assert.Equal(t, MatchURL, entries[1].Recipe.MatchMethod)
}

func TestLoadDirRejectsInvalidRecipe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"),
		[]byte("selector: a\nclickable: true\n"), 0o644))
	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
}
