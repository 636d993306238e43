package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/htmlio"
)

// Script is a YAML operation script.
type Script struct {
	// Name describes the script.
	Name string `yaml:"name"`

	// Text is the initial plain text. HTML, when set, replaces it with
	// imported content.
	Text string `yaml:"text"`
	HTML string `yaml:"html"`

	Steps []Step `yaml:"steps"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op    string    `yaml:"op"`
	Pos   int       `yaml:"pos"`
	Start int       `yaml:"start"`
	End   int       `yaml:"end"`
	Text  string    `yaml:"text"`
	Type  string    `yaml:"type"`
	Attrs yaml.Node `yaml:"attrs"`
	Align string    `yaml:"align"`
	Name  string    `yaml:"name"`

	// Steps are the nested steps of a group. A group is one undo unit and
	// is reverted entirely when one of its steps fails.
	Steps []Step `yaml:"steps"`

	// Expect is checked after the operation runs.
	Expect *Expectation `yaml:"expect"`
}

// Expectation describes the document state after a step. Unset fields are
// not checked.
type Expectation struct {
	Text        *string  `yaml:"text"`
	HTML        *string  `yaml:"html"`
	Annotations []string `yaml:"annotations"`
	Changed     *bool    `yaml:"changed"`
}

// Parse reads a YAML script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return &s, nil
		}
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &s, nil
}

// ParseString reads a YAML script from a string.
func ParseString(s string) (*Script, error) {
	return Parse(strings.NewReader(s))
}

// IsLua reports whether path names a Lua script.
func IsLua(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".lua")
}

// ParseFile reads a YAML script file.
func ParseFile(path string) (*Script, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScript, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// NewEngine creates an engine holding the script's initial content.
func (s *Script) NewEngine(html htmlio.Options, opts ...engine.Option) (*engine.Engine, error) {
	if s.HTML == "" {
		return engine.New(append([]engine.Option{engine.WithContent(s.Text)}, opts...)...)
	}
	c, err := htmlio.ImportString(s.HTML, html)
	if err != nil {
		return nil, err
	}
	return engine.New(append([]engine.Option{
		engine.WithContent(c.Text()),
		engine.WithAnnotations(c.Annotations()),
	}, opts...)...)
}

// attributes decodes the attrs mapping keeping its key order.
func (st *Step) attributes() (block.Attributes, error) {
	var attrs block.Attributes
	switch st.Attrs.Kind {
	case 0:
		return attrs, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(st.Attrs.Content); i += 2 {
			attrs.Set(st.Attrs.Content[i].Value, st.Attrs.Content[i+1].Value)
		}
		return attrs, nil
	}
	return attrs, fmt.Errorf("attrs must be a mapping (line %d)", st.Attrs.Line)
}
