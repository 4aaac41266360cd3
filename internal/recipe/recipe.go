// Package recipe holds the declarative configuration describing how a page
// type is abstracted: which elements to keep, how to name them, which are
// clickable, and how long lists are chunked.
package recipe

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MatchMethod selects how a recipe's root match rule is evaluated.
type MatchMethod string

const (
	// MatchText matches when the match selector finds at least one element.
	MatchText MatchMethod = "text"
	// MatchURL matches when the match string is a substring of the page URL.
	MatchURL MatchMethod = "url"
)

// Recipe is one fragment of the declarative transform tree. The root fragment
// additionally carries the match rule used to pick a recipe for a page.
// Recipes are immutable after loading.
type Recipe struct {
	Match       string      `yaml:"match,omitempty"`
	MatchMethod MatchMethod `yaml:"match_method,omitempty"`

	Selector    string `yaml:"selector"`
	DirectChild bool   `yaml:"direct_child,omitempty"`

	TextSelector string `yaml:"text_selector,omitempty"`
	AddText      bool   `yaml:"add_text,omitempty"`
	TextJS       string `yaml:"text_js,omitempty"`
	TextFormat   string `yaml:"text_format,omitempty"`

	Name NameRule `yaml:"name,omitempty"`

	Clickable     bool   `yaml:"clickable,omitempty"`
	ClickSelector string `yaml:"click_selector,omitempty"`

	KeepAttr     []string             `yaml:"keep_attr,omitempty"`
	OverrideAttr map[string]AttrValue `yaml:"override_attr,omitempty"`
	Class        string               `yaml:"class,omitempty"`
	ID           string               `yaml:"id,omitempty"`

	Children []*Recipe `yaml:"children,omitempty"`

	InsertSplitMarker      bool   `yaml:"insert_split_marker,omitempty"`
	InsertSplitMarkerEvery int    `yaml:"insert_split_marker_every,omitempty"`
	EmptyMessage           string `yaml:"empty_message,omitempty"`
}

// NameKind discriminates the forms a recipe name field can take.
type NameKind int

const (
	// NameNone means the fragment declares no name.
	NameNone NameKind = iota
	// NameLiteral uses the declared string verbatim.
	NameLiteral
	// NameFromText derives the name from the fragment's resolved text.
	NameFromText
	// NameFromNthChild uses the 1-based ordinal among matched siblings.
	NameFromNthChild
)

// NameRule is the tagged form of the duck-typed name field: a plain string
// is a literal, while the reserved literals "from_text" and "from_nth_child"
// select derivation rules.
type NameRule struct {
	Kind    NameKind
	Literal string
}

func (n *NameRule) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: name must be a string", value.Line)
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "from_text":
		n.Kind = NameFromText
	case "from_nth_child":
		n.Kind = NameFromNthChild
	case "":
		n.Kind = NameNone
	default:
		n.Kind = NameLiteral
		n.Literal = s
	}
	return nil
}

func (n NameRule) MarshalYAML() (any, error) {
	switch n.Kind {
	case NameFromText:
		return "from_text", nil
	case NameFromNthChild:
		return "from_nth_child", nil
	case NameLiteral:
		return n.Literal, nil
	default:
		return nil, nil
	}
}

// IsZero lets yaml treat an unset name as omitted.
func (n NameRule) IsZero() bool { return n.Kind == NameNone }

// AttrValue is the tagged form of an override_attr entry: a plain scalar is
// a literal value, a `{js: EXPR}` mapping is a dynamic expression evaluated
// against the live element.
type AttrValue struct {
	Literal string
	JS      string
	Dynamic bool
}

func (a *AttrValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		a.Dynamic = false
		return value.Decode(&a.Literal)
	case yaml.MappingNode:
		var directive struct {
			JS string `yaml:"js"`
		}
		if err := value.Decode(&directive); err != nil {
			return err
		}
		if directive.JS == "" {
			return fmt.Errorf("line %d: override_attr mapping needs a js key", value.Line)
		}
		a.Dynamic = true
		a.JS = directive.JS
		return nil
	default:
		return fmt.Errorf("line %d: override_attr value must be a scalar or {js: ...}", value.Line)
	}
}

func (a AttrValue) MarshalYAML() (any, error) {
	if a.Dynamic {
		return map[string]string{"js": a.JS}, nil
	}
	return a.Literal, nil
}

// Validate checks the structural rules a recipe must satisfy before it can
// drive a pass. It walks the whole fragment tree.
func (r *Recipe) Validate() error {
	return r.validate("recipe")
}

func (r *Recipe) validate(path string) error {
	if strings.TrimSpace(r.Selector) == "" {
		return fmt.Errorf("%s: selector is required", path)
	}
	switch r.MatchMethod {
	case "", MatchText, MatchURL:
	default:
		return fmt.Errorf("%s: unknown match_method %q", path, r.MatchMethod)
	}
	if r.Clickable && r.Name.Kind == NameNone {
		return fmt.Errorf("%s: clickable fragment must declare a name", path)
	}
	if r.InsertSplitMarker && r.InsertSplitMarkerEvery < 1 {
		return fmt.Errorf("%s: insert_split_marker requires insert_split_marker_every >= 1", path)
	}
	for i, child := range r.Children {
		if child == nil {
			return fmt.Errorf("%s: children[%d] is empty", path, i)
		}
		if err := child.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads and validates one recipe document.
func Parse(r io.Reader) (*Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	var rec Recipe
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return &rec, nil
}

// Entry is a named recipe inside a Library.
type Entry struct {
	Name   string
	Recipe *Recipe
}

// Library is an ordered set of recipes for the page types a site supports.
// Order matters: selection returns the first recipe whose match rule holds.
type Library struct {
	entries []Entry
}

// LoadFile parses a single recipe file.
func LoadFile(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe %s: %w", path, err)
	}
	defer f.Close()
	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}
	return rec, nil
}

// LoadDir loads every *.yaml/*.yml file in dir, in lexical filename order.
func LoadDir(dir string) (*Library, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read recipe dir: %w", err)
	}
	lib := &Library{}
	for _, de := range dirents {
		if de.IsDir() || !isYAML(de) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		rec, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		lib.entries = append(lib.entries, Entry{Name: name, Recipe: rec})
	}
	if len(lib.entries) == 0 {
		return nil, fmt.Errorf("no recipes found in %s", dir)
	}
	return lib, nil
}

// Add appends a recipe to the library, preserving selection order.
func (l *Library) Add(name string, rec *Recipe) {
	l.entries = append(l.entries, Entry{Name: name, Recipe: rec})
}

// Entries returns the library content in selection order.
func (l *Library) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

func isYAML(de fs.DirEntry) bool {
	switch strings.ToLower(filepath.Ext(de.Name())) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
