package htmlio

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// Content is the result of an import: plain text and the block annotations
// over it. Annotations carry no IDs; a document assigns them on creation.
type Content struct {
	text string
	anns []annotation.Annotation
}

// Text returns the imported text.
func (c *Content) Text() string {
	return c.text
}

// Annotations returns the imported annotations in document order.
func (c *Content) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(c.anns))
	for i := range c.anns {
		out[i] = c.anns[i].Clone()
	}
	return out
}

// Import parses HTML from r.
func Import(r io.Reader, opts Options) (*Content, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	im := &importer{opts: opts}
	im.walk(root)
	im.lines.end()
	return im.content(), nil
}

// ImportString parses an HTML string.
func ImportString(s string, opts Options) (*Content, error) {
	return Import(strings.NewReader(s), opts)
}

// pending is an element whose line span is known once it closes.
type pending struct {
	typ   block.Type
	attrs block.Attributes
	align block.Alignment
	level int
	first int
	last  int
}

type importer struct {
	opts  Options
	lines lineWriter
	stack []*pending
	out   []*pending
	pre   int
}

func (im *importer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		im.lines.write(n.Data, im.pre > 0)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style, atom.Template, atom.Title:
			return
		case atom.Br:
			im.lineBreak()
			return
		}
		if typ, ok := im.blockType(n); ok {
			im.block(n, typ)
			return
		}
		if isBlockElement(n.DataAtom) {
			im.lines.end()
			im.children(n)
			im.lines.end()
			return
		}
	}
	im.children(n)
}

func (im *importer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		im.walk(c)
	}
}

// lineBreak ends the current line. Inside a line block the break opens the
// next line of the same block.
func (im *importer) lineBreak() {
	im.lines.ensure()
	im.lines.end()
	if top := im.top(); top != nil && top.typ.Kind.IsLineBlock() {
		im.lines.ensure()
	}
}

func (im *importer) top() *pending {
	if len(im.stack) == 0 {
		return nil
	}
	return im.stack[len(im.stack)-1]
}

func (im *importer) block(n *html.Node, typ block.Type) {
	im.lines.end()
	p := &pending{
		typ:   typ,
		level: len(im.stack) + 1,
		first: im.lines.count(),
	}
	p.attrs, p.align = im.attributes(n, typ)

	if typ.Kind == block.KindPreformat {
		im.pre++
		defer func() { im.pre-- }()
	}
	im.stack = append(im.stack, p)
	im.children(n)
	im.stack = im.stack[:len(im.stack)-1]

	// Line blocks and items always own at least one line.
	if typ.Kind.IsLineBlock() || typ.Kind == block.KindListItem {
		if !im.lines.open && im.lines.count() == p.first {
			im.lines.ensure()
		}
	}
	im.lines.end()
	p.last = im.lines.count() - 1
	if p.last < p.first {
		return
	}

	if !typ.Kind.IsLineBlock() {
		im.out = append(im.out, p)
		return
	}
	for i := p.first; i <= p.last; i++ {
		line := *p
		line.attrs = p.attrs.Clone()
		line.first, line.last = i, i
		im.out = append(im.out, &line)
	}
}

func (im *importer) blockType(n *html.Node) (block.Type, bool) {
	switch n.DataAtom {
	case atom.P:
		return block.Paragraph(), true
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return block.Heading(int(n.Data[1] - '0')), true
	case atom.Blockquote:
		return block.Quote(), true
	case atom.Pre:
		return block.Preformat(), true
	case atom.Ol:
		return block.OrderedList(), true
	case atom.Ul:
		if v, ok := attr(n, "type"); ok && v == im.opts.taskListAttr() {
			return block.TaskList(), true
		}
		return block.UnorderedList(), true
	case atom.Li:
		return block.ListItem(), true
	}
	return block.Type{}, false
}

// attributes copies the element attributes in source order. A text-align
// declaration becomes the alignment of alignable blocks, and the task list
// marker is dropped.
func (im *importer) attributes(n *html.Node, typ block.Type) (block.Attributes, block.Alignment) {
	var attrs block.Attributes
	align := block.AlignNone
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if typ.Kind == block.KindTaskList && key == "type" && a.Val == im.opts.taskListAttr() {
			continue
		}
		if key == "style" && typ.Kind.IsAlignable() {
			var rest string
			align, rest = splitTextAlign(a.Val)
			if rest == "" {
				continue
			}
			attrs.Set(key, rest)
			continue
		}
		attrs.Set(key, a.Val)
	}
	return attrs, align
}

func (im *importer) content() *Content {
	lines := im.lines.lines
	starts := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		starts[i] = pos
		pos += utf8.RuneCountInString(l) + 1
	}

	anns := make([]annotation.Annotation, 0, len(im.out))
	for _, p := range im.out {
		anns = append(anns, annotation.Annotation{
			Type:  p.typ,
			Start: starts[p.first],
			End:   starts[p.last] + utf8.RuneCountInString(lines[p.last]) + 1,
			Level: p.level,
			Attrs: p.attrs,
			Align: p.align,
		})
	}
	sort.SliceStable(anns, func(i, j int) bool {
		return annotation.Less(&anns[i], &anns[j])
	})
	return &Content{text: strings.Join(lines, "\n"), anns: anns}
}

// splitTextAlign extracts the text-align declaration from a style value and
// returns the remaining declarations.
func splitTextAlign(style string) (block.Alignment, string) {
	align := block.AlignNone
	var rest []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "text-align") {
			if a, err := block.ParseAlignment(value); err == nil {
				align = a
				continue
			}
		}
		rest = append(rest, decl)
	}
	return align, strings.Join(rest, "; ")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.Html, atom.Body, atom.Div, atom.Section, atom.Article, atom.Header,
		atom.Footer, atom.Main, atom.Nav, atom.Aside, atom.Figure, atom.Hr,
		atom.Table, atom.Tr, atom.Dl, atom.Dt, atom.Dd:
		return true
	}
	return false
}

// lineWriter accumulates imported text as lines. Outside preformatted text
// whitespace runs collapse to one space and are trimmed at both line ends.
// Finished lines are NFC-normalized.
type lineWriter struct {
	lines        []string
	cur          strings.Builder
	open         bool
	pendingSpace bool
}

func (lw *lineWriter) ensure() {
	if lw.open {
		return
	}
	lw.open = true
	lw.cur.Reset()
	lw.pendingSpace = false
}

func (lw *lineWriter) end() {
	if !lw.open {
		return
	}
	lw.lines = append(lw.lines, norm.NFC.String(lw.cur.String()))
	lw.open = false
	lw.pendingSpace = false
}

func (lw *lineWriter) count() int {
	return len(lw.lines)
}

func (lw *lineWriter) write(s string, preserve bool) {
	if preserve {
		lw.ensure()
		for i, seg := range strings.Split(s, "\n") {
			if i > 0 {
				lw.end()
				lw.ensure()
			}
			lw.cur.WriteString(seg)
		}
		return
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			if lw.open && lw.cur.Len() > 0 {
				lw.pendingSpace = true
			}
			continue
		}
		lw.ensure()
		if lw.pendingSpace {
			lw.cur.WriteByte(' ')
			lw.pendingSpace = false
		}
		lw.cur.WriteRune(r)
	}
}
