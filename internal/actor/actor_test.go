package actor

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlens/domlens/internal/abstract"
	"github.com/domlens/domlens/internal/dom"
)

// fakeNode satisfies dom.Node through the embedded interface and records the
// actions performed on it.
type fakeNode struct {
	dom.Node
	clicked  bool
	filled   string
	checked  *bool
	selected string
	value    string
}

func (f *fakeNode) Click(context.Context) error { f.clicked = true; return nil }
func (f *fakeNode) Fill(_ context.Context, text string) error {
	f.filled = text
	return nil
}
func (f *fakeNode) SetChecked(_ context.Context, checked bool) error {
	f.checked = &checked
	return nil
}
func (f *fakeNode) SelectOption(_ context.Context, value string) error {
	f.selected = value
	return nil
}
func (f *fakeNode) Value(context.Context) (string, error) { return f.value, nil }

func TestDoClick(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{}
	id := reg.Bind(abstract.BindClickable, "", node, "buy_button")
	ex := New(reg, zerolog.Nop())

	obs, err := ex.Do(context.Background(), Action{Type: "click", ID: id})
	require.NoError(t, err)
	assert.True(t, node.clicked)
	assert.Contains(t, obs, "buy_button")
}

func TestDoClickOnCheckboxInput(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{}
	id := reg.Bind(abstract.BindInput, "checkbox", node, "agree")
	ex := New(reg, zerolog.Nop())

	_, err := ex.Do(context.Background(), Action{Type: "click", ID: id})
	require.NoError(t, err)
	assert.True(t, node.clicked)
}

func TestDoType(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{}
	id := reg.Bind(abstract.BindInput, "text", node, "search")
	ex := New(reg, zerolog.Nop())

	_, err := ex.Do(context.Background(), Action{Type: "type", ID: id, Value: "nike shoes"})
	require.NoError(t, err)
	assert.Equal(t, "nike shoes", node.filled)
}

func TestDoCheckUncheck(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{}
	id := reg.Bind(abstract.BindInput, "checkbox", node, "agree")
	ex := New(reg, zerolog.Nop())

	_, err := ex.Do(context.Background(), Action{Type: "check", ID: id})
	require.NoError(t, err)
	require.NotNil(t, node.checked)
	assert.True(t, *node.checked)

	_, err = ex.Do(context.Background(), Action{Type: "uncheck", ID: id})
	require.NoError(t, err)
	assert.False(t, *node.checked)
}

func TestDoSelect(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{}
	id := reg.Bind(abstract.BindInput, "select", node, "size")
	ex := New(reg, zerolog.Nop())

	_, err := ex.Do(context.Background(), Action{Type: "select", ID: id, Value: "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", node.selected)
}

func TestDoKindMismatch(t *testing.T) {
	reg := abstract.NewRegistry()
	clickID := reg.Bind(abstract.BindClickable, "", &fakeNode{}, "link")
	textID := reg.Bind(abstract.BindInput, "text", &fakeNode{}, "search")
	ex := New(reg, zerolog.Nop())
	ctx := context.Background()

	_, err := ex.Do(ctx, Action{Type: "type", ID: clickID, Value: "x"})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = ex.Do(ctx, Action{Type: "select", ID: textID, Value: "x"})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = ex.Do(ctx, Action{Type: "check", ID: textID})
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestDoUnknownID(t *testing.T) {
	ex := New(abstract.NewRegistry(), zerolog.Nop())
	_, err := ex.Do(context.Background(), Action{Type: "click", ID: 7})
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestDoUnknownActionType(t *testing.T) {
	reg := abstract.NewRegistry()
	id := reg.Bind(abstract.BindClickable, "", &fakeNode{}, "link")
	ex := New(reg, zerolog.Nop())
	_, err := ex.Do(context.Background(), Action{Type: "hover", ID: id})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}

func TestDoStaticBackendNotActionable(t *testing.T) {
	page, err := dom.ParseStatic(strings.NewReader(`<html><body><a href="/">Home</a></body></html>`), "")
	require.NoError(t, err)
	nodes, err := page.QueryAll(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	reg := abstract.NewRegistry()
	id := reg.Bind(abstract.BindClickable, "", nodes[0], "home")
	ex := New(reg, zerolog.Nop())

	_, err = ex.Do(context.Background(), Action{Type: "click", ID: id})
	assert.ErrorIs(t, err, ErrNotActionable)
}

func TestReadValue(t *testing.T) {
	reg := abstract.NewRegistry()
	node := &fakeNode{value: "shoes"}
	textID := reg.Bind(abstract.BindInput, "text", node, "search")
	clickID := reg.Bind(abstract.BindClickable, "", &fakeNode{}, "link")
	ex := New(reg, zerolog.Nop())

	val, err := ex.ReadValue(context.Background(), textID)
	require.NoError(t, err)
	assert.Equal(t, "shoes", val)

	_, err = ex.ReadValue(context.Background(), clickID)
	assert.ErrorIs(t, err, ErrKindMismatch)
}
