package htmlio

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// Source is anything exposing text with block annotations, such as a
// document, an engine or imported Content.
type Source interface {
	Text() string
	Annotations() []annotation.Annotation
}

// Export writes src as HTML to w.
func Export(w io.Writer, src Source, opts Options) error {
	s, err := ExportString(src, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// ExportString renders src as an HTML string.
func ExportString(src Source, opts Options) (string, error) {
	x := newExporter(src.Text(), opts)
	roots := x.tree(src.Annotations())
	if len(x.lines) == 1 && x.lines[0] == "" && len(roots) == 0 {
		return "", nil
	}
	if err := x.content(roots, 0, len(x.lines)-1, false); err != nil {
		return "", err
	}
	if opts.Pretty {
		x.sb.WriteByte('\n')
	}
	return x.sb.String(), nil
}

// node is an annotation with its line span and nested annotations.
type node struct {
	ann      annotation.Annotation
	first    int
	last     int
	children []*node
}

type exporter struct {
	opts   Options
	lines  []string
	starts []int
	sb     strings.Builder
	depth  int
}

func newExporter(text string, opts Options) *exporter {
	x := &exporter{opts: opts, lines: strings.Split(text, "\n")}
	x.starts = make([]int, len(x.lines))
	pos := 0
	for i, l := range x.lines {
		x.starts[i] = pos
		pos += len([]rune(l)) + 1
	}
	return x
}

// lineOf returns the index of the line containing pos.
func (x *exporter) lineOf(pos int) int {
	i := sort.SearchInts(x.starts, pos+1) - 1
	if i < 0 {
		return 0
	}
	return i
}

// tree nests annotations by containment and level.
func (x *exporter) tree(anns []annotation.Annotation) []*node {
	sort.SliceStable(anns, func(i, j int) bool {
		return annotation.Less(&anns[i], &anns[j])
	})

	var roots, stack []*node
	for i := range anns {
		a := anns[i]
		if a.IsEmpty() {
			continue
		}
		n := &node{ann: a, first: x.lineOf(a.Start), last: x.lineOf(a.End - 1)}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.ann.Contains(&n.ann) && top.ann.Level < n.ann.Level {
				break
			}
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// content renders lines first..last of a container whose nested blocks are
// children.
func (x *exporter) content(children []*node, first, last int, item bool) error {
	// An item holding one empty line renders as an empty element.
	if item && first == last && len(children) == 0 && x.lines[first] == "" {
		return nil
	}

	ci := 0
	for i := first; i <= last; {
		for ci < len(children) && children[ci].first < i {
			ci++
		}
		if ci < len(children) && children[ci].first == i {
			c := children[ci]
			if c.ann.Type.Kind == block.KindPreformat {
				j := ci
				for j+1 < len(children) && samePre(children[j], children[j+1]) {
					j++
				}
				x.pre(children[ci : j+1])
				i = children[j].last + 1
				ci = j + 1
				continue
			}
			if err := x.node(c); err != nil {
				return err
			}
			i = c.last + 1
			ci++
			continue
		}

		line := x.lines[i]
		if line == "" {
			x.sb.WriteString("<br>")
		} else {
			x.sb.WriteString(html.EscapeString(line))
			nextBare := i < last && (ci >= len(children) || children[ci].first != i+1)
			if nextBare {
				x.sb.WriteString("<br>")
			}
		}
		i++
	}
	return nil
}

func (x *exporter) node(n *node) error {
	a := &n.ann
	switch a.Type.Kind {
	case block.KindParagraph, block.KindHeading:
		x.open(tagName(a.Type), a)
		x.sb.WriteString(html.EscapeString(x.lines[n.first]))
		x.close(tagName(a.Type), false)
		return nil
	case block.KindQuote, block.KindOrderedList, block.KindUnorderedList, block.KindTaskList:
		tag := tagName(a.Type)
		x.open(tag, a)
		x.depth++
		err := x.content(n.children, n.first, n.last, false)
		x.depth--
		x.close(tag, true)
		return err
	case block.KindListItem:
		x.open("li", a)
		x.depth++
		err := x.content(n.children, n.first, n.last, true)
		x.depth--
		x.close("li", len(n.children) > 0)
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, a.Type)
}

// pre renders a run of preformat lines as one element.
func (x *exporter) pre(run []*node) {
	x.open("pre", &run[0].ann)
	for i, n := range run {
		if i > 0 {
			x.sb.WriteString("<br>")
		}
		x.sb.WriteString(html.EscapeString(x.lines[n.first]))
	}
	x.close("pre", false)
}

func samePre(a, b *node) bool {
	return b.ann.Type.Kind == block.KindPreformat &&
		b.first == a.last+1 &&
		a.ann.Align == b.ann.Align &&
		a.ann.Attrs.Equal(b.ann.Attrs)
}

func (x *exporter) open(tag string, a *annotation.Annotation) {
	x.newline()
	x.sb.WriteByte('<')
	x.sb.WriteString(tag)
	if a.Type.Kind == block.KindTaskList {
		writeAttr(&x.sb, "type", x.opts.taskListAttr())
	}

	style := ""
	if a.Align != block.AlignNone {
		style = "text-align: " + a.Align.String()
	}
	for _, key := range a.Attrs.Keys() {
		if a.Type.Kind == block.KindTaskList && key == "type" {
			continue
		}
		val, _ := a.Attrs.Get(key)
		if key == "style" && style != "" {
			val = strings.TrimRight(strings.TrimSpace(val), ";") + "; " + style
			style = ""
		}
		writeAttr(&x.sb, key, val)
	}
	if style != "" {
		writeAttr(&x.sb, "style", style)
	}
	x.sb.WriteByte('>')
}

func (x *exporter) close(tag string, nested bool) {
	if nested {
		x.newline()
	}
	x.sb.WriteString("</")
	x.sb.WriteString(tag)
	x.sb.WriteByte('>')
}

func (x *exporter) newline() {
	if !x.opts.Pretty || x.sb.Len() == 0 {
		return
	}
	x.sb.WriteByte('\n')
	x.sb.WriteString(strings.Repeat("  ", x.depth))
}

func writeAttr(sb *strings.Builder, key, val string) {
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(val))
	sb.WriteByte('"')
}

func tagName(t block.Type) string {
	switch t.Kind {
	case block.KindParagraph:
		return "p"
	case block.KindHeading:
		return "h" + strconv.Itoa(t.Level)
	case block.KindQuote:
		return "blockquote"
	case block.KindPreformat:
		return "pre"
	case block.KindOrderedList:
		return "ol"
	case block.KindUnorderedList, block.KindTaskList:
		return "ul"
	case block.KindListItem:
		return "li"
	}
	return ""
}
