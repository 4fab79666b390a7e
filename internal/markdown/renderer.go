package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Kind string

const (
	KindHeading   Kind = "heading"
	KindBullet    Kind = "bullet"
	KindParagraph Kind = "paragraph"
	KindBreak     Kind = "break"
)

type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Node is one displayable block. Level is set for headings only.
type Node struct {
	Kind  Kind   `json:"kind"`
	Level int    `json:"level,omitempty"`
	Spans []Span `json:"spans,omitempty"`
}

var boldPattern = regexp.MustCompile(`\*\*.*?\*\*`)

var headings = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// Render maps the supported markdown subset to nodes, one per input line.
// Anything it does not recognize is kept as literal paragraph text.
func Render(src string) []Node {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	nodes := make([]Node, 0, len(lines))

	for _, line := range lines {
		nodes = append(nodes, renderLine(line))
	}
	return nodes
}

func renderLine(line string) Node {
	for _, h := range headings {
		if strings.HasPrefix(line, h.prefix) {
			return Node{Kind: KindHeading, Level: h.level, Spans: Inline(strings.TrimPrefix(line, h.prefix))}
		}
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
		return Node{Kind: KindBullet, Spans: Inline(trimmed[2:])}
	}
	if trimmed == "" {
		return Node{Kind: KindBreak}
	}
	return Node{Kind: KindParagraph, Spans: Inline(line)}
}

// Inline splits text into plain and **bold** spans. Empty plain fragments are dropped.
func Inline(text string) []Span {
	var spans []Span
	last := 0
	for _, loc := range boldPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// Preview flattens markdown into a single line of at most n runes.
func Preview(src string, n int) string {
	plain := strings.NewReplacer("#", "", "*", "").Replace(src)
	plain = strings.Join(strings.Fields(plain), " ")
	if n <= 0 || utf8.RuneCountInString(plain) <= n {
		return plain
	}
	return string([]rune(plain)[:n]) + "..."
}
