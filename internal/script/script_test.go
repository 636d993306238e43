package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/htmlio"
)

func runYAML(t *testing.T, src string) (*engine.Engine, error) {
	t.Helper()
	s, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	e, err := s.NewEngine(htmlio.DefaultOptions(), engine.WithStrictInvariants(true))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, NewRunner(e).Run(context.Background(), s)
}

func newLuaRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	e, err := engine.New(engine.WithStrictInvariants(true))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return NewRunner(e, opts...)
}

func TestRunListScript(t *testing.T) {
	_, err := runYAML(t, `
name: make a list
text: "first item\nsecond item"
steps:
  - op: toggle
    type: ul
    start: 0
    end: 22
    expect:
      changed: true
      html: "<ul><li>first item</li><li>second item</li></ul>"
      annotations:
        - "unordered-list@1[0, 23)"
        - "list-item@2[0, 11)"
        - "list-item@2[11, 23)"
  - op: toggle
    type: ul
    start: 0
    end: 22
    expect:
      annotations: []
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunHistoryAndSnapshots(t *testing.T) {
	e, err := runYAML(t, `
text: abc
steps:
  - {op: insert, pos: 3, text: d, expect: {text: abcd}}
  - {op: undo, expect: {text: abc, changed: true}}
  - {op: undo, expect: {changed: false}}
  - {op: redo, expect: {text: abcd}}
  - {op: snapshot, name: before}
  - {op: insert, pos: 0, text: x}
  - {op: restore, name: before, expect: {text: abcd}}
  - {op: check}
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := e.Text(); got != "abcd" {
		t.Errorf("Text() = %q, want %q", got, "abcd")
	}
}

func TestRunGroup(t *testing.T) {
	e, err := runYAML(t, `
text: "a\nb"
steps:
  - op: group
    name: quoted list
    steps:
      - {op: apply, type: ul, start: 0, end: 3}
      - {op: apply, type: quote, start: 0, end: 3}
    expect: {changed: true}
  - {op: undo, expect: {annotations: []}}
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := e.RedoCount(); n != 1 {
		t.Errorf("RedoCount() = %d, want 1", n)
	}
}

func TestRunGroupRevertsOnFailure(t *testing.T) {
	e, err := runYAML(t, `
text: abc
steps:
  - op: group
    name: broken
    steps:
      - {op: insert, pos: 0, text: x}
      - {op: apply, type: h1, start: 0, end: 0}
      - {op: delete, start: 0, end: 99}
`)
	if err == nil {
		t.Fatal("Run() should fail")
	}
	if got := e.Text(); got != "abc" {
		t.Errorf("Text() = %q, want %q", got, "abc")
	}
	if len(e.Annotations()) != 0 || e.CanUndo() {
		t.Errorf("failed group left %d annotations, undo %v", len(e.Annotations()), e.CanUndo())
	}
}

func TestRunOrderedAttributes(t *testing.T) {
	_, err := runYAML(t, `
text: "a\nb"
steps:
  - op: apply
    type: ol
    start: 0
    end: 3
    attrs:
      start: "3"
      reversed: ""
    expect:
      html: '<ol start="3" reversed=""><li>a</li><li>b</li></ol>'
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunFromHTML(t *testing.T) {
	e, err := runYAML(t, `
html: "<blockquote>Quote 1</blockquote><br><blockquote>Quote 2</blockquote>"
steps:
  - op: delete
    start: 8
    end: 9
    expect:
      text: "Quote 1\nQuote 2"
      html: "<blockquote>Quote 1<br>Quote 2</blockquote>"
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := len(e.Annotations()); n != 1 {
		t.Errorf("len(Annotations()) = %d, want 1", n)
	}
}

func TestRunAlign(t *testing.T) {
	_, err := runYAML(t, `
html: "<p>centered</p>"
steps:
  - op: align
    align: center
    start: 0
    end: 0
    expect:
      html: '<p style="text-align: center">centered</p>'
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown op", "steps:\n  - op: shuffle\n", ErrUnknownOp},
		{"failed expectation", "text: a\nsteps:\n  - expect: {text: b}\n", ErrExpectation},
		{"unknown type", "steps:\n  - {op: apply, type: table}\n", block.ErrUnknownType},
		{"bad range", "text: a\nsteps:\n  - {op: delete, start: 1, end: 0}\n", engine.ErrRangeInvalid},
		{"missing snapshot", "steps:\n  - {op: restore, name: nope}\n", engine.ErrSnapshotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runYAML(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := ParseString("steps:\n  - op: insert\n    position: 3\n"); err == nil {
		t.Error("ParseString() accepted an unknown key")
	}
	if _, err := ParseString("steps:\n  - {op: apply, type: ol, attrs: [a, b]}\n"); err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
}

func TestBadAttrs(t *testing.T) {
	_, err := runYAML(t, "text: a\nsteps:\n  - {op: apply, type: ol, attrs: [a, b]}\n")
	if err == nil || !strings.Contains(err.Error(), "attrs must be a mapping") {
		t.Errorf("Run() error = %v, want attrs error", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(path, []byte("name: file\nsteps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if s.Name != "file" {
		t.Errorf("Name = %q, want file", s.Name)
	}

	if _, err := ParseFile(filepath.Join(dir, "steps.txt")); !errors.Is(err, ErrUnsupportedScript) {
		t.Errorf("ParseFile(txt) error = %v, want ErrUnsupportedScript", err)
	}
	if !IsLua("x.LUA") || IsLua("x.yaml") {
		t.Error("IsLua() misclassified a path")
	}
}

func TestRunLua(t *testing.T) {
	r := newLuaRunner(t)
	err := r.RunLua(context.Background(), `
doc:insert(0, "Quote 1\nQuote 2")
assert(doc:apply("quote", 0, doc:len()))
assert(doc:formatted("quote", 0, 0))

local anns = doc:annotations()
assert(#anns == 1, "one annotation")
assert(anns[1].type == "quote" and anns[1].level == 1 and anns[1]["end"] == 16)
assert(doc:html() == "<blockquote>Quote 1<br>Quote 2</blockquote>")

assert(doc:undo())
assert(#doc:annotations() == 0)
assert(doc:redo())
assert(doc:check())
`)
	if err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}
	if n := len(r.Engine().Annotations()); n != 1 {
		t.Errorf("len(Annotations()) = %d, want 1", n)
	}
}

func TestRunLuaTransaction(t *testing.T) {
	r := newLuaRunner(t)
	err := r.RunLua(context.Background(), `
doc:insert(0, "a\nb")
assert(doc:transaction("quoted list", function()
  doc:apply("ul", 0, 3)
  doc:apply("quote", 0, 3)
end))

local ok, msg = doc:transaction("broken", function()
  doc:insert(0, "x")
  doc:delete(0, 99)
end)
assert(not ok and msg ~= nil)
assert(doc:text() == "a\nb", doc:text())

local h = doc:history()
assert(#h.undo == 2 and h.undo[2] == "quoted list", h.undo[2])
assert(doc:undo())
h = doc:history()
assert(#h.redo == 1 and h.redo[1] == "quoted list")
`)
	if err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}
}

func TestRunLuaLists(t *testing.T) {
	r := newLuaRunner(t)
	err := r.RunLua(context.Background(), `
doc:insert(0, "Item 1\nItem 2")
doc:toggle("ol", 0, doc:len(), {start = "2"})
assert(doc:can_indent(7, 7))
assert(doc:indent(7, 7))
assert(doc:html() == '<ol start="2"><li>Item 1<ol start="2"><li>Item 2</li></ol></li></ol>', doc:html())
assert(doc:can_outdent(7, 7))
assert(doc:outdent(7, 7))
assert(doc:remove("ol", 0, doc:len()))
assert(doc:html() == "Item 1<br>Item 2", doc:html())
`)
	if err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}
}

func TestRunLuaSnapshots(t *testing.T) {
	r := newLuaRunner(t)
	err := r.RunLua(context.Background(), `
doc:insert(0, "keep")
local id = doc:snapshot("s1")
assert(type(id) == "string" and #id > 0)
doc:delete(0, 4)
assert(doc:text() == "")
doc:restore("s1")
assert(doc:text() == "keep")
`)
	if err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}
}

func TestRunLuaErrors(t *testing.T) {
	r := newLuaRunner(t)

	err := r.RunLua(context.Background(), `doc:insert(99, "x")`)
	if err == nil || !IsLuaError(err) {
		t.Errorf("RunLua(out of range) error = %v, want Lua error", err)
	}

	err = r.RunLua(context.Background(), `doc:apply("table", 0, 0)`)
	if err == nil {
		t.Error("RunLua(unknown type) error = nil")
	}

	err = r.RunLua(context.Background(), `this is not lua`)
	if err == nil {
		t.Error("RunLua(syntax error) error = nil")
	}
}

func TestLuaSandbox(t *testing.T) {
	r := newLuaRunner(t)
	err := r.RunLua(context.Background(), `
assert(dofile == nil)
assert(loadfile == nil)
assert(load == nil)
assert(io == nil)
assert(os == nil)
assert(string.upper("a") == "A")
assert(math.max(1, 2) == 2)
`)
	if err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}
}

func TestLuaTimeout(t *testing.T) {
	r := newLuaRunner(t, WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := r.RunLua(context.Background(), `while true do end`)
	if err == nil {
		t.Fatal("RunLua() error = nil, want timeout")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
}

func TestLuaPrintLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newLuaRunner(t, WithLogger(zap.New(core)))

	if err := r.RunLua(context.Background(), `print("hello", 42)`); err != nil {
		t.Fatalf("RunLua() error = %v", err)
	}

	entries := logs.FilterMessage("lua print").All()
	if len(entries) != 1 {
		t.Fatalf("got %d print entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["msg"]; got != "hello\t42" {
		t.Errorf("msg = %v, want %q", got, "hello\t42")
	}
}

func TestLuaStateClosed(t *testing.T) {
	s := newLuaRunner(t).NewLuaState()
	s.Close()
	s.Close()

	if err := s.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
}

func TestRunLuaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`doc:insert(0, "from file")`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newLuaRunner(t)
	if err := r.RunLuaFile(context.Background(), path); err != nil {
		t.Fatalf("RunLuaFile() error = %v", err)
	}
	if got := r.Engine().Text(); got != "from file" {
		t.Errorf("Text() = %q, want %q", got, "from file")
	}
}
