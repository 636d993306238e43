package block

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the structural role of a block annotation.
type Kind uint8

const (
	KindParagraph Kind = iota + 1
	KindHeading
	KindQuote
	KindPreformat
	KindOrderedList
	KindUnorderedList
	KindTaskList
	KindListItem
)

// MaxHeadingLevel is the deepest heading level (h6).
const MaxHeadingLevel = 6

var kindNames = map[Kind]string{
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindQuote:         "quote",
	KindPreformat:     "preformat",
	KindOrderedList:   "ordered-list",
	KindUnorderedList: "unordered-list",
	KindTaskList:      "task-list",
	KindListItem:      "list-item",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsLineBlock reports whether k covers exactly one line.
func (k Kind) IsLineBlock() bool {
	return k == KindParagraph || k == KindHeading || k == KindPreformat
}

// IsList reports whether k is a list container.
func (k Kind) IsList() bool {
	return k == KindOrderedList || k == KindUnorderedList || k == KindTaskList
}

// IsWrapper reports whether k is a multi-line container that merges with an
// identical adjacent sibling.
func (k Kind) IsWrapper() bool {
	return k == KindQuote || k.IsList()
}

// IsAlignable reports whether annotations of kind k may carry an alignment.
func (k Kind) IsAlignable() bool {
	switch k {
	case KindParagraph, KindHeading, KindQuote, KindListItem, KindPreformat:
		return true
	}
	return false
}

// Type is a Kind plus its parameter. Level is the heading level for
// KindHeading and zero for every other kind.
type Type struct {
	Kind  Kind
	Level int
}

// Constructors for each block type.
func Paragraph() Type     { return Type{Kind: KindParagraph} }
func Heading(n int) Type  { return Type{Kind: KindHeading, Level: n} }
func Quote() Type         { return Type{Kind: KindQuote} }
func Preformat() Type     { return Type{Kind: KindPreformat} }
func OrderedList() Type   { return Type{Kind: KindOrderedList} }
func UnorderedList() Type { return Type{Kind: KindUnorderedList} }
func TaskList() Type      { return Type{Kind: KindTaskList} }
func ListItem() Type      { return Type{Kind: KindListItem} }

// String returns the canonical name of the type, e.g. "h2" or "quote".
func (t Type) String() string {
	if t.Kind == KindHeading {
		if t.Level == 0 {
			return "heading"
		}
		return "h" + strconv.Itoa(t.Level)
	}
	return t.Kind.String()
}

// Validate checks that the type is well formed.
func (t Type) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnknownType, t.Kind)
	}
	if t.Kind == KindHeading {
		if t.Level < 1 || t.Level > MaxHeadingLevel {
			return fmt.Errorf("%w: %d", ErrHeadingLevel, t.Level)
		}
	} else if t.Level != 0 {
		return fmt.Errorf("%w: %s with level %d", ErrUnknownType, t.Kind, t.Level)
	}
	return nil
}

// Matches reports whether t selects u. A heading type with level 0 matches
// headings of any level.
func (t Type) Matches(u Type) bool {
	if t.Kind != u.Kind {
		return false
	}
	return t.Kind != KindHeading || t.Level == 0 || t.Level == u.Level
}

// ParseType parses a type name. Accepted forms are the kind names, the HTML
// tag names (p, h1..h6, blockquote, pre, ol, ul, li) and short aliases.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "paragraph", "p":
		return Paragraph(), nil
	case "heading":
		return Heading(0), nil
	case "quote", "blockquote":
		return Quote(), nil
	case "preformat", "pre":
		return Preformat(), nil
	case "ordered-list", "ordered", "ol":
		return OrderedList(), nil
	case "unordered-list", "unordered", "ul":
		return UnorderedList(), nil
	case "task-list", "task", "tasks":
		return TaskList(), nil
	case "list-item", "item", "li":
		return ListItem(), nil
	}

	if len(name) == 2 && name[0] == 'h' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= MaxHeadingLevel {
			return Heading(n), nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
}
