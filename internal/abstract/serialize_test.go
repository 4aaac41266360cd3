package abstract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	click := 0
	tree := []*Element{
		{
			Kind: KindElement,
			Tag:  "div",
			Name: "results",
			Children: []*Element{
				{Kind: KindElement, Tag: "a", Name: "results/1", Text: "Alpha", ClickID: &click,
					Attrs: map[string]string{"title": "first", "alt": "a"}},
				NewSplitMarker(),
				{Kind: KindText, Text: "No more results"},
			},
		},
	}
	got := Render(tree)
	want := `<div name="results">
  <a name="results/1" alt="a" title="first" clickable-id=0>Alpha</a>
  <split-marker/>
  <text>No more results</text>
</div>
`
	assert.Equal(t, want, got)
}

func TestRenderLeafSelfCloses(t *testing.T) {
	assert.Equal(t, "<img alt=\"logo\"/>\n",
		Render([]*Element{{Kind: KindElement, Tag: "img", Attrs: map[string]string{"alt": "logo"}}}))
}

func TestResultJSON(t *testing.T) {
	reg := NewRegistry()
	id := reg.Bind(BindClickable, "", nil, "buy")
	res := &Result{
		RecipeName: "search",
		Elements:   []*Element{{Kind: KindElement, Tag: "a", Name: "buy", ClickID: &id}},
		Registry:   reg,
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Recipe   string `json:"recipe"`
		Elements []struct {
			Kind        string `json:"kind"`
			Tag         string `json:"tag"`
			ClickableID *int   `json:"clickableId"`
		} `json:"elements"`
		Bindings []struct {
			ID   int    `json:"id"`
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "search", decoded.Recipe)
	require.Len(t, decoded.Elements, 1)
	assert.Equal(t, "element", decoded.Elements[0].Kind)
	require.NotNil(t, decoded.Elements[0].ClickableID)
	assert.Equal(t, 0, *decoded.Elements[0].ClickableID)
	require.Len(t, decoded.Bindings, 1)
	assert.Equal(t, "clickable", decoded.Bindings[0].Kind)
	assert.Equal(t, "buy", decoded.Bindings[0].Name)
}
